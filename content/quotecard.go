package content

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
)

// QuoteCard renders one extracted blockquote as an interactive card with copy
// and share buttons. The quote body may carry inline emphasis markup and is
// written as-is; the plain quote text travels in data attributes for the
// client-side actions.
func QuoteCard(quote, postTitle, postURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		escQuote := html.EscapeString(quote)
		escTitle := html.EscapeString(postTitle)
		escURL := html.EscapeString(postURL)

		_, err := io.WriteString(w,
			`<figure class="quote-card">`+
				`<blockquote class="quote-card-text">`+quote+`</blockquote>`+
				`<figcaption class="quote-card-actions">`+
				`<button type="button" class="quote-action quote-copy" data-quote="`+escQuote+`">Copy</button>`+
				`<button type="button" class="quote-action quote-share" data-quote="`+escQuote+`" data-title="`+escTitle+`" data-url="`+escURL+`">Share</button>`+
				`</figcaption>`+
				`</figure>`)
		return err
	})
}

// Blocks renders a post body as its block sequence: HTML chunks verbatim,
// quote blocks as cards. postTitle and postURL feed the cards' share action.
func Blocks(body, postTitle, postURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, b := range Render(body) {
			switch b.Kind {
			case BlockHTML:
				if _, err := io.WriteString(w, b.HTML); err != nil {
					return err
				}
			case BlockQuote:
				if err := QuoteCard(b.Quote, postTitle, postURL).Render(ctx, w); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// quoteScript wires the card buttons: copy writes the quote to the clipboard;
// share uses the platform share sheet when present, otherwise copies a
// formatted quote + title + URL string. Both show a 2-second done state.
const quoteScript = `<script>
(function () {
  function flash(btn, label) {
    var original = btn.textContent;
    btn.textContent = label;
    btn.classList.add("quote-action-done");
    setTimeout(function () {
      btn.textContent = original;
      btn.classList.remove("quote-action-done");
    }, 2000);
  }
  document.addEventListener("click", function (e) {
    var btn = e.target.closest ? e.target.closest(".quote-action") : null;
    if (!btn) return;
    var quote = btn.getAttribute("data-quote") || "";
    if (btn.classList.contains("quote-copy")) {
      navigator.clipboard.writeText(quote).then(function () { flash(btn, "Copied!"); });
      return;
    }
    var title = btn.getAttribute("data-title") || "";
    var url = btn.getAttribute("data-url") || window.location.href;
    var heading = title ? 'Quote from "' + title + '"' : "Inspiring Quote";
    if (navigator.share) {
      navigator.share({ title: heading, text: quote, url: url }).then(function () { flash(btn, "Shared!"); }).catch(function () {});
    } else {
      var text = '"' + quote + '"\n\n' + heading + "\n" + url;
      navigator.clipboard.writeText(text).then(function () { flash(btn, "Copied!"); });
    }
  });
})();
</script>`

// QuoteScript returns the shared click handler for quote-card actions.
// Include it once per page that renders Blocks.
func QuoteScript() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, quoteScript)
		return err
	})
}
