package markdown

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func render(t *testing.T, src string) string {
	t.Helper()
	out, err := New().RenderHTML(src)
	if err != nil {
		t.Fatalf("RenderHTML(%q) error: %v", src, err)
	}
	return out
}

func TestRenderHTMLPlainMarkdown(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<p><strong>bold</strong></p>"},
		{"*italic*", "<p><em>italic</em></p>"},
		{"# Title", "<h1>Title</h1>"},
		{"[link](https://example.com)", `<p><a href="https://example.com">link</a></p>`},
		{"<div>raw</div>", "<div>raw</div>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("RenderHTML(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestHighlightKnownLanguage(t *testing.T) {
	got := render(t, "```go\nfunc main() {}\n```\n")
	if !strings.Contains(got, "<pre") {
		t.Errorf("expected a <pre> block, got %q", got)
	}
	if !strings.Contains(got, `style="`) {
		t.Errorf("expected inline styles, got %q", got)
	}
	if strings.Contains(got, "<code class=\"language-go\">") {
		t.Errorf("code block was not replaced by highlighted output: %q", got)
	}
	if !strings.Contains(got, "main") {
		t.Errorf("expected the code text in the output, got %q", got)
	}
}

func TestHighlightFallsBackToPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown language", "```nosuchlanguage\nabc < def\n```\n"},
		{"no language", "```\nabc < def\n```\n"},
		{"indented block", "para\n\n    abc < def\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, tt.input)
			if !strings.Contains(got, "<pre") {
				t.Errorf("expected a <pre> block, got %q", got)
			}
			if !strings.Contains(got, "abc &lt; def") {
				t.Errorf("expected escaped code text, got %q", got)
			}
		})
	}
}

func TestFootnoteRewrite(t *testing.T) {
	src := "Text with a note[^1] and a side[^s1].\n\n" +
		"[^1]: Ordinary *note*.\n" +
		"[^s1]: Side text\n    continued.\n"
	got := render(t, src)

	wantRef := `<sup class="footnote-reference"><a href="#1">1</a></sup>`
	if !strings.Contains(got, wantRef) {
		t.Errorf("missing footnote reference %q in %q", wantRef, got)
	}
	wantSide := `<span class="sidenote-number"><small class="sidenote">Side text continued.</small></span>`
	if !strings.Contains(got, "a side"+wantSide+".</p>") {
		t.Errorf("sidenote not placed at its reference: %q", got)
	}
	wantDef := "<p><sup>1</sup> Ordinary <em>note</em>.</p>"
	if !strings.Contains(got, wantDef) {
		t.Errorf("missing rewritten definition %q in %q", wantDef, got)
	}
	for _, unwanted := range []string{`class="footnotes"`, "<hr", "<ol", "footnote-backref", "<sup>s1</sup>"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("output should not contain %q: %q", unwanted, got)
		}
	}
	if strings.Count(got, "Side text") != 1 {
		t.Errorf("sidenote definition should only appear inline: %q", got)
	}
}

func TestSidenotesFollowDefinitionOrder(t *testing.T) {
	src := "First[^s2] then[^s1].\n\n" +
		"[^s1]: alpha\n" +
		"[^s2]: beta\n"
	got := render(t, src)

	alpha := strings.Index(got, ">alpha<")
	beta := strings.Index(got, ">beta<")
	if alpha < 0 || beta < 0 {
		t.Fatalf("expected both sidenotes in %q", got)
	}
	if alpha > beta {
		t.Errorf("sidenotes should be consumed in definition order, got %q", got)
	}
}

func TestSidenoteWithoutBodyIsDropped(t *testing.T) {
	got := render(t, "One[^s1] two[^s1].\n\n[^s1]: only once\n")
	if n := strings.Count(got, `class="sidenote-number"`); n != 1 {
		t.Errorf("expected 1 sidenote, got %d in %q", n, got)
	}
	if !strings.Contains(got, "two.</p>") {
		t.Errorf("second reference should be dropped, got %q", got)
	}
}

func TestSidenoteTextIsEscaped(t *testing.T) {
	got := render(t, "See[^s1].\n\n[^s1]: a < b & c\n")
	if !strings.Contains(got, "a &lt; b &amp; c") {
		t.Errorf("expected escaped sidenote text, got %q", got)
	}
}

func TestSidenoteTextDecodesEntitiesAndEscapes(t *testing.T) {
	got := render(t, "See[^s].\n\n[^s]: Tom &amp; Jerry \\* star `a<b`\n")
	want := `<small class="sidenote">Tom &amp; Jerry * star a&lt;b</small>`
	if !strings.Contains(got, want) {
		t.Errorf("expected %q in %q", want, got)
	}
	if strings.Contains(got, "&amp;amp;") {
		t.Errorf("sidenote text escaped twice: %q", got)
	}
}

func TestDefinitionsRenderWhereWritten(t *testing.T) {
	got := render(t, "A[^1].\n\n[^1]: note\n\nAfter.\n")
	note := strings.Index(got, "<p><sup>1</sup> note</p>")
	after := strings.Index(got, "<p>After.</p>")
	if note < 0 || after < 0 {
		t.Fatalf("expected definition and trailing paragraph in %q", got)
	}
	if note > after {
		t.Errorf("definition should stay before the following paragraph: %q", got)
	}
}

func TestDefinitionsKeepSourceOrder(t *testing.T) {
	got := render(t, "B[^b] A[^a].\n\n[^a]: alpha\n\n[^b]: beta\n")
	alpha := strings.Index(got, "<p><sup>a</sup> alpha</p>")
	beta := strings.Index(got, "<p><sup>b</sup> beta</p>")
	if alpha < 0 || beta < 0 {
		t.Fatalf("expected both definitions in %q", got)
	}
	if alpha > beta {
		t.Errorf("definitions should follow source order, not reference order: %q", got)
	}
	if !strings.Contains(got, `<a href="#b">1</a>`) || !strings.Contains(got, `<a href="#a">2</a>`) {
		t.Errorf("references should be numbered in reference order: %q", got)
	}
}

func TestUnreferencedDefinitionIsKept(t *testing.T) {
	got := render(t, "Text.\n\n[^n]: orphan\n")
	if !strings.Contains(got, "<p><sup>n</sup> orphan</p>") {
		t.Errorf("unreferenced definition lost: %q", got)
	}
}

func TestUnreferencedSidenoteStillPairs(t *testing.T) {
	got := render(t, "Ref[^s2].\n\n[^s1]: first\n[^s2]: second\n")
	if !strings.Contains(got, `<small class="sidenote">first</small>`) {
		t.Errorf("reference should take the first sidenote definition: %q", got)
	}
	if strings.Contains(got, "second") {
		t.Errorf("unconsumed sidenote should not be emitted: %q", got)
	}
}

func TestDefinitionsBetweenParagraphs(t *testing.T) {
	got := render(t, "One[^1] two[^2].\n\n[^1]: first\n\nMiddle.\n\n[^2]: second\n\nEnd.\n")
	order := []string{"<p><sup>1</sup> first</p>", "<p>Middle.</p>", "<p><sup>2</sup> second</p>", "<p>End.</p>"}
	last := -1
	for _, want := range order {
		i := strings.Index(got, want)
		if i < 0 {
			t.Fatalf("missing %q in %q", want, got)
		}
		if i < last {
			t.Errorf("%q out of order in %q", want, got)
		}
		last = i
	}
	if strings.Contains(got, `class="footnotes"`) {
		t.Errorf("no footnotes section expected: %q", got)
	}
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	src := "A[^1] b[^s1].\n\n```go\nx := 1\n```\n\n[^1]: one\n[^s1]: side\n"
	e := New()
	first, err := e.RenderHTML(src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.RenderHTML(src)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ:\n%s\n---\n%s", first, second)
	}
}

func TestTopMarkerSurvivesRendering(t *testing.T) {
	got := render(t, "Summary here.\n\n<!-- top -->\n\nThe rest.\n")
	before, ok := SplitTop(got)
	if !ok {
		t.Fatalf("top marker missing from %q", got)
	}
	if PlainText(before) != "Summary here." {
		t.Errorf("PlainText(summary) = %q", PlainText(before))
	}
}

func TestSplitTop(t *testing.T) {
	before, ok := SplitTop("<p>a</p>\n<!-- top -->\n<p>b</p>")
	if !ok || before != "<p>a</p>\n" {
		t.Errorf("SplitTop = %q, %v", before, ok)
	}
	if _, ok := SplitTop("<p>a</p>"); ok {
		t.Error("SplitTop reported a marker that is not there")
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Hello <em>world</em></p>", "Hello world"},
		{"<p>one</p><p>two</p>", "one two"},
		{"<p>a &amp; b</p>\n\n  <p>  c </p>", "a & b c"},
		{"<p>x</p><script>alert(1)</script><style>p{}</style><p>y</p>", "x y"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.expected {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Component("**hi**").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<strong>hi</strong>") {
		t.Errorf("Component rendered %q", buf.String())
	}
}

func TestLoadStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.xml")
	xml := `<style name="pubgen-test">
  <entry type="Background" style="bg:#101010"/>
  <entry type="Keyword" style="#ff0000"/>
</style>`
	if err := os.WriteFile(path, []byte(xml), 0o644); err != nil {
		t.Fatal(err)
	}
	style, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("LoadStyle: %v", err)
	}
	if style.Name != "pubgen-test" {
		t.Errorf("style name = %q", style.Name)
	}

	out, err := New(WithStyle(style)).RenderHTML("```go\nfunc f() {}\n```\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "#ff0000") {
		t.Errorf("custom keyword colour not applied: %q", out)
	}
}

func TestLoadStyleErrorNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xml")
	_, err := LoadStyle(path)
	var terr *ThemeError
	if !errors.As(err, &terr) {
		t.Fatalf("want *ThemeError, got %T (%v)", err, err)
	}
	if terr.Path != path || !strings.Contains(err.Error(), path) {
		t.Errorf("error does not name the path: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the cause to be kept, got %v", err)
	}
}

func TestNamedStyle(t *testing.T) {
	if _, err := NamedStyle(DefaultStyle); err != nil {
		t.Errorf("NamedStyle(%q): %v", DefaultStyle, err)
	}
	_, err := NamedStyle("no-such-style")
	var terr *ThemeError
	if !errors.As(err, &terr) {
		t.Errorf("want *ThemeError, got %v", err)
	}
}
