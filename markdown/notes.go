package markdown

import (
	"bufio"
	"bytes"
	"html"
	"strconv"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// notePriority must be lower than the footnote extension's transformer
// (999) so definitions are still in source order, unreferenced ones
// included, and have not been moved to the end of the document.
const notePriority = 100

func isSidenote(label []byte) bool {
	return len(label) > 0 && label[0] == 's'
}

// noteTransformer rewrites footnotes in place while the document is
// parsed.
type noteTransformer struct{}

func (noteTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	rewriteNotes(doc, reader.Source())
}

// rewriteNotes replaces footnote references and definitions with inline
// notes. Sidenote references take the escaped text of the sidenote
// definitions in the order the definitions appear in the source, and
// sidenote definitions are dropped. Ordinary definitions become labelled
// paragraphs at the place they were written.
func rewriteNotes(doc ast.Node, source []byte) {
	var (
		lists     []*east.FootnoteList
		footnotes []*east.Footnote
		links     []*east.FootnoteLink
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *east.FootnoteList:
			lists = append(lists, node)
		case *east.Footnote:
			footnotes = append(footnotes, node)
		case *east.FootnoteLink:
			links = append(links, node)
		}
		return ast.WalkContinue, nil
	})
	if len(footnotes) == 0 {
		return
	}

	labels := make(map[int][]byte)
	var sidenotes []string
	for _, fn := range footnotes {
		if fn.Index >= 0 {
			labels[fn.Index] = fn.Ref
		}
		if isSidenote(fn.Ref) {
			sidenotes = append(sidenotes, flatten(fn, source))
		}
	}
	// References pop from the end.
	for i, j := 0, len(sidenotes)-1; i < j; i, j = i+1, j-1 {
		sidenotes[i], sidenotes[j] = sidenotes[j], sidenotes[i]
	}

	for _, link := range links {
		parent := link.Parent()
		label := labels[link.Index]
		if !isSidenote(label) {
			ref := `<sup class="footnote-reference"><a href="#` + html.EscapeString(string(label)) + `">` +
				strconv.Itoa(link.Index) + `</a></sup>`
			parent.ReplaceChild(parent, link, newFragment([]byte(ref)))
			continue
		}
		if len(sidenotes) == 0 {
			parent.RemoveChild(parent, link)
			continue
		}
		body := sidenotes[len(sidenotes)-1]
		sidenotes = sidenotes[:len(sidenotes)-1]
		note := `<span class="sidenote-number"><small class="sidenote">` + body + `</small></span>`
		parent.ReplaceChild(parent, link, newFragment([]byte(note)))
	}

	for _, list := range lists {
		placeDefinitions(list)
	}
	for _, fn := range footnotes {
		parent := fn.Parent()
		if parent == nil {
			continue
		}
		if isSidenote(fn.Ref) {
			parent.RemoveChild(parent, fn)
		} else {
			parent.ReplaceChild(parent, fn, noteFromDefinition(fn))
		}
	}
}

type placedNote struct {
	node ast.Node
	pos  int
}

// placeDefinitions empties list and puts a noteParagraph for every
// ordinary definition among the list's siblings, ordered by source
// position. The emptied list stays in the tree for the footnote extension
// to dispose of.
func placeDefinitions(list *east.FootnoteList) {
	parent := list.Parent()

	positions := make(map[ast.Node]int)
	last := -1
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if c != list {
			if p := blockStart(c); p >= 0 {
				last = p
			}
		}
		positions[c] = last
	}

	var notes []placedNote
	prev := positions[list]
	for c := list.FirstChild(); c != nil; {
		next := c.NextSibling()
		list.RemoveChild(list, c)
		if fn, ok := c.(*east.Footnote); ok {
			if p := blockStart(fn); p >= 0 {
				prev = p
			}
			if !isSidenote(fn.Ref) {
				notes = append(notes, placedNote{node: noteFromDefinition(fn), pos: prev})
			}
		}
		c = next
	}

	sib := parent.FirstChild()
	for _, n := range notes {
		for sib != nil && (sib == list || positions[sib] <= n.pos) {
			sib = sib.NextSibling()
		}
		if sib == nil {
			parent.AppendChild(parent, n.node)
		} else {
			parent.InsertBefore(parent, sib, n.node)
		}
	}
}

// blockStart returns the source offset of the first line under n, or -1
// when no block below n carries lines.
func blockStart(n ast.Node) int {
	pos := -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c.Type() != ast.TypeBlock {
			return ast.WalkSkipChildren, nil
		}
		if lines := c.Lines(); lines != nil && lines.Len() > 0 {
			pos = lines.At(0).Start
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return pos
}

// noteFromDefinition moves the body of fn into a noteParagraph. Paragraph
// wrappers are dropped.
func noteFromDefinition(fn *east.Footnote) *noteParagraph {
	note := newNoteParagraph(string(fn.Ref))
	for c := fn.FirstChild(); c != nil; {
		next := c.NextSibling()
		switch c.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			for ic := c.FirstChild(); ic != nil; {
				inext := ic.NextSibling()
				note.AppendChild(note, ic)
				ic = inext
			}
		default:
			note.AppendChild(note, c)
		}
		c = next
	}
	return note
}

// flatten returns the text under n as escaped HTML. Entities and
// backslash escapes are decoded the way the HTML renderer decodes them,
// code spans keep their literal text and soft line breaks become a single
// space.
func flatten(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	inCode := false
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if c.Kind() == ast.KindCodeSpan {
			inCode = entering
			return ast.WalkContinue, nil
		}
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			value := node.Segment.Value(source)
			if inCode {
				gmhtml.DefaultWriter.RawWrite(w, value)
			} else {
				gmhtml.DefaultWriter.Write(w, value)
			}
			if node.SoftLineBreak() {
				_ = w.WriteByte(' ')
			}
		case *ast.String:
			if node.IsRaw() || inCode {
				gmhtml.DefaultWriter.RawWrite(w, node.Value)
			} else {
				gmhtml.DefaultWriter.Write(w, node.Value)
			}
		}
		return ast.WalkContinue, nil
	})
	_ = w.Flush()
	return buf.String()
}
