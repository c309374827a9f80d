package markdown

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// TopMarker separates a post's summary from the rest of its body. Raw HTML
// passes through the renderer, so the marker survives into the output.
const TopMarker = "<!-- top -->"

// SplitTop returns the rendered HTML before the first TopMarker.
func SplitTop(rendered string) (string, bool) {
	before, _, ok := strings.Cut(rendered, TopMarker)
	return before, ok
}

// PlainText strips the tags from an HTML fragment and collapses runs of
// whitespace. The contents of script and style elements are dropped.
func PlainText(fragment string) string {
	z := xhtml.NewTokenizer(strings.NewReader(fragment))
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			if isRawElement(name) {
				skip++
			}
			if breaksText(name) {
				b.WriteByte(' ')
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if isRawElement(name) && skip > 0 {
				skip--
			}
			if breaksText(name) {
				b.WriteByte(' ')
			}
		case xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			if breaksText(name) {
				b.WriteByte(' ')
			}
		case xhtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawElement(name []byte) bool {
	s := string(name)
	return s == "script" || s == "style"
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

func breaksText(name []byte) bool { return blockElements[string(name)] }
