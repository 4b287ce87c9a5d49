package content

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRenderFixedScenario(t *testing.T) {
	body := "# Title\n\nSome **bold** text.\n\n> A quoted line\n\nMore text."
	blocks := Render(body)

	if len(blocks) != 3 {
		t.Fatalf("Render returned %d blocks, want 3: %#v", len(blocks), blocks)
	}

	first := blocks[0]
	if first.Kind != BlockHTML {
		t.Fatalf("block 0 kind = %v, want BlockHTML", first.Kind)
	}
	if !strings.Contains(first.HTML, "<h1>Title</h1>") {
		t.Errorf("block 0 missing heading: %q", first.HTML)
	}
	if !strings.Contains(first.HTML, "<p>Some <strong>bold</strong> text.</p>") {
		t.Errorf("block 0 missing bold paragraph: %q", first.HTML)
	}

	if blocks[1].Kind != BlockQuote {
		t.Fatalf("block 1 kind = %v, want BlockQuote", blocks[1].Kind)
	}
	if blocks[1].Quote != "A quoted line" {
		t.Errorf("block 1 quote = %q, want %q", blocks[1].Quote, "A quoted line")
	}

	last := blocks[2]
	if last.Kind != BlockHTML {
		t.Fatalf("block 2 kind = %v, want BlockHTML", last.Kind)
	}
	if !strings.Contains(last.HTML, "<p>More text.</p>") {
		t.Errorf("block 2 missing trailing paragraph: %q", last.HTML)
	}
}

func TestRenderHTMLBlockquote(t *testing.T) {
	body := "Intro line.\n\n<blockquote>Spread \n  across\n  lines</blockquote>\n\nOutro."
	blocks := Render(body)

	var quotes []string
	for _, b := range blocks {
		if b.Kind == BlockQuote {
			quotes = append(quotes, b.Quote)
		}
	}
	if len(quotes) != 1 {
		t.Fatalf("got %d quote blocks, want 1", len(quotes))
	}
	if quotes[0] != "Spread across lines" {
		t.Errorf("quote = %q, want whitespace collapsed", quotes[0])
	}
}

func TestRenderMixedQuoteSources(t *testing.T) {
	body := "> markdown quote\n\n<blockquote>html quote</blockquote>"
	blocks := Render(body)

	var quotes []string
	for _, b := range blocks {
		if b.Kind == BlockQuote {
			quotes = append(quotes, b.Quote)
		}
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quote blocks, want 2", len(quotes))
	}
	if quotes[0] != "markdown quote" || quotes[1] != "html quote" {
		t.Errorf("quotes = %v, want document order", quotes)
	}
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# One", "<h1>One</h1>"},
		{"## Two", "<h2>Two</h2>"},
		{"### Three", "<h3>Three</h3>"},
		{"#### Four", "<h4>Four</h4>"},
	}
	for _, tt := range tests {
		blocks := Render(tt.input)
		if len(blocks) != 1 || blocks[0].Kind != BlockHTML {
			t.Fatalf("Render(%q) = %#v, want one HTML block", tt.input, blocks)
		}
		if !strings.Contains(blocks[0].HTML, tt.expected) {
			t.Errorf("Render(%q) = %q, want %q", tt.input, blocks[0].HTML, tt.expected)
		}
	}
}

func TestRenderListGrouping(t *testing.T) {
	body := "- *first*\n- *second*\n\nAfter the list."
	blocks := Render(body)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	html := blocks[0].HTML
	if !strings.Contains(html, "<ul><li><em>first</em></li>") {
		t.Errorf("missing grouped list start: %q", html)
	}
	if strings.Count(html, "<ul>") != 1 {
		t.Errorf("consecutive items should share one <ul>: %q", html)
	}
	if !strings.Contains(html, "<p>After the list.</p>") {
		t.Errorf("missing paragraph after list: %q", html)
	}
}

func TestRenderNumberedEntries(t *testing.T) {
	body := "1. First wisdom\n2. Second wisdom"
	blocks := Render(body)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	html := blocks[0].HTML
	if !strings.Contains(html, `<span class="quote-number">1. </span><span>First wisdom</span>`) {
		t.Errorf("missing numbered entry markup: %q", html)
	}
}

func TestRenderQuoteUntouchedByFormatting(t *testing.T) {
	// The quoted line contains heading and emphasis syntax; placeholder
	// substitution must keep the formatting passes away from it.
	body := "> # not a heading **not bold**\n\nreal paragraph"
	blocks := Render(body)
	if blocks[0].Kind != BlockQuote {
		t.Fatalf("first block should be the quote, got %#v", blocks[0])
	}
	if blocks[0].Quote != "# not a heading **not bold**" {
		t.Errorf("quote was mangled: %q", blocks[0].Quote)
	}
}

func TestBlocksComponent(t *testing.T) {
	body := "Intro.\n\n> quotable"
	var buf bytes.Buffer
	if err := Blocks(body, "My Post", "https://example.com/my-post/").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Blocks render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<p>Intro.</p>") {
		t.Errorf("missing paragraph: %q", out)
	}
	if !strings.Contains(out, `class="quote-card"`) {
		t.Errorf("missing quote card: %q", out)
	}
	if !strings.Contains(out, `data-title="My Post"`) {
		t.Errorf("missing share title attribute: %q", out)
	}
	if !strings.Contains(out, `data-url="https://example.com/my-post/"`) {
		t.Errorf("missing share url attribute: %q", out)
	}
}

func TestReadTime(t *testing.T) {
	if got := ReadTime(words(400)); got != 2 {
		t.Errorf("ReadTime(400 words) = %d, want 2", got)
	}
	if got := ReadTime("hello"); got != 1 {
		t.Errorf("ReadTime(1 word) = %d, want 1", got)
	}
	if got := ReadTime(""); got != 0 {
		t.Errorf("ReadTime(empty) = %d, want 0", got)
	}
	if got := ReadTime(words(201)); got != 2 {
		t.Errorf("ReadTime(201 words) = %d, want 2", got)
	}
	if got := ReadTime(words(200)); got != 1 {
		t.Errorf("ReadTime(200 words) = %d, want 1", got)
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}
