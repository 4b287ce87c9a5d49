package sharevault

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func TestRenderPrivateHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	rec := httptest.NewRecorder()

	cmp := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>draft</p>")
		return err
	})
	if err := RenderPrivate(e.NewContext(req, rec), cmp); err != nil {
		t.Fatalf("RenderPrivate failed: %v", err)
	}

	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if got := rec.Header().Get("X-Robots-Tag"); got != "noindex" {
		t.Errorf("X-Robots-Tag = %q, want noindex", got)
	}
	if !strings.Contains(rec.Body.String(), "<p>draft</p>") {
		t.Errorf("body missing rendered component: %q", rec.Body.String())
	}
}
