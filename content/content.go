// Package content transforms stored post bodies — a constrained dialect of
// markdown-style headings/emphasis/lists mixed with literal HTML blockquotes —
// into a sequence of renderable blocks. Blockquotes are extracted first and
// replaced with positional placeholder tokens so later substitutions cannot
// corrupt them; each one becomes a distinct quote-card block with copy and
// share actions.
package content

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reMarkdownQuote = regexp.MustCompile(`(?m)^> (.*)$`)
	reHTMLQuote     = regexp.MustCompile(`(?s)<blockquote>(.*?)</blockquote>`)
	reSpaceRun      = regexp.MustCompile(`\s+`)

	reH1 = regexp.MustCompile(`(?m)^# (.*)$`)
	reH2 = regexp.MustCompile(`(?m)^## (.*)$`)
	reH3 = regexp.MustCompile(`(?m)^### (.*)$`)
	reH4 = regexp.MustCompile(`(?m)^#### (.*)$`)

	reBold        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic      = regexp.MustCompile(`\*(.*?)\*`)
	reNumbered    = regexp.MustCompile(`(?m)^(\d+\.\s)(.*)$`)
	reListItem    = regexp.MustCompile(`(?m)^- (.*)$`)
	reListRun     = regexp.MustCompile(`(?s)(<li>.*?</li>\n?)+`)
	rePlaceholder = regexp.MustCompile(`__BLOCKQUOTE_(\d+)__`)
)

// BlockKind distinguishes raw HTML chunks from extracted quote cards.
type BlockKind int

const (
	// BlockHTML is a chunk of formatted body HTML.
	BlockHTML BlockKind = iota
	// BlockQuote is an extracted blockquote rendered as a quote card.
	BlockQuote
)

// Block is one renderable unit of a post body. HTML is set for BlockHTML
// blocks; Quote carries the quote text for BlockQuote blocks.
type Block struct {
	Kind  BlockKind
	HTML  string
	Quote string
}

// Render splits body into formatted HTML blocks and quote-card blocks, in
// document order. The body is trusted author input; it is not HTML-escaped
// here and must be rendered in a context that sanitizes or trusts it.
func Render(body string) []Block {
	quotes := ExtractQuotes(body)
	processed := replaceQuotesWithPlaceholders(body, quotes)
	formatted := applyFormatting(processed)
	return splitBlocks(formatted, quotes)
}

// ExtractQuotes collects quote text from body in extraction order: all
// markdown-style `> ` quotes first, then all literal <blockquote> spans with
// their internal whitespace collapsed. Extraction is regex-based and
// best-effort; nested or unbalanced blockquote tags may mis-segment.
func ExtractQuotes(body string) []string {
	var quotes []string
	for _, m := range reMarkdownQuote.FindAllStringSubmatch(body, -1) {
		quotes = append(quotes, m[1])
	}
	for _, m := range reHTMLQuote.FindAllStringSubmatch(body, -1) {
		quotes = append(quotes, collapseSpace(m[1]))
	}
	return quotes
}

func collapseSpace(s string) string {
	return strings.TrimSpace(reSpaceRun.ReplaceAllString(s, " "))
}

// replaceQuotesWithPlaceholders swaps every matched blockquote for a
// positional __BLOCKQUOTE_<n>__ token. Duplicate quote texts resolve to the
// first occurrence's index, which still renders the same card text.
func replaceQuotesWithPlaceholders(body string, quotes []string) string {
	processed := reMarkdownQuote.ReplaceAllStringFunc(body, func(m string) string {
		text := reMarkdownQuote.FindStringSubmatch(m)[1]
		return placeholder(indexOf(quotes, text))
	})
	processed = reHTMLQuote.ReplaceAllStringFunc(processed, func(m string) string {
		text := collapseSpace(reHTMLQuote.FindStringSubmatch(m)[1])
		return placeholder(indexOf(quotes, text))
	})
	return processed
}

func placeholder(index int) string {
	return "__BLOCKQUOTE_" + strconv.Itoa(index) + "__"
}

func indexOf(quotes []string, text string) int {
	for i, q := range quotes {
		if q == text {
			return i
		}
	}
	return -1
}

// applyFormatting runs the ordered substitution passes: headings (longest
// prefix first), emphasis, numbered quote entries, list items with
// consecutive-item grouping, then paragraph wrapping of remaining bare lines.
func applyFormatting(s string) string {
	s = reH4.ReplaceAllString(s, "<h4>$1</h4>")
	s = reH3.ReplaceAllString(s, "<h3>$1</h3>")
	s = reH2.ReplaceAllString(s, "<h2>$1</h2>")
	s = reH1.ReplaceAllString(s, "<h1>$1</h1>")

	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")

	s = reNumbered.ReplaceAllString(s, `<div class="quote-entry"><span class="quote-number">$1</span><span>$2</span></div>`)
	s = reListItem.ReplaceAllString(s, "<li>$1</li>")
	s = reListRun.ReplaceAllStringFunc(s, func(run string) string {
		return "<ul>" + run + "</ul>"
	})

	s = wrapParagraphs(s)
	return strings.ReplaceAll(s, "\n\n", "\n")
}

// wrapParagraphs wraps every remaining bare line in <p> tags. Lines already
// inside block-level markup or holding a placeholder token pass through.
func wrapParagraphs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if hasBlockPrefix(line) {
			continue
		}
		lines[i] = "<p>" + line + "</p>"
	}
	return strings.Join(lines, "\n")
}

var blockPrefixes = []string{"<h1", "<h2", "<h3", "<h4", "<h5", "<h6", "<div", "<ul", "<li", "</", "__BLOCKQUOTE_"}

func hasBlockPrefix(line string) bool {
	for _, p := range blockPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// splitBlocks cuts the formatted text on placeholder tokens, emitting HTML
// blocks for the chunks between them and quote blocks for the tokens.
func splitBlocks(formatted string, quotes []string) []Block {
	var blocks []Block
	emitHTML := func(chunk string) {
		if strings.TrimSpace(chunk) == "" {
			return
		}
		blocks = append(blocks, Block{Kind: BlockHTML, HTML: chunk})
	}

	last := 0
	for _, loc := range rePlaceholder.FindAllStringSubmatchIndex(formatted, -1) {
		emitHTML(formatted[last:loc[0]])
		index, err := strconv.Atoi(formatted[loc[2]:loc[3]])
		if err == nil && index >= 0 && index < len(quotes) {
			blocks = append(blocks, Block{Kind: BlockQuote, Quote: quotes[index]})
		}
		last = loc[1]
	}
	emitHTML(formatted[last:])
	return blocks
}

// ReadTime estimates reading time in whole minutes at 200 words per minute,
// rounding up. Empty content reads as 0.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + 199) / 200
}
