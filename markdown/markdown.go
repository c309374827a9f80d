// Package markdown converts Markdown documents to HTML with highlighted
// code blocks and inline footnotes and sidenotes.
//
// Rendering works on the goldmark syntax tree:
//
//  1. Code blocks are replaced by chroma-highlighted HTML.
//  2. The text of every sidenote definition (label starting with "s") is
//     collected in document order.
//  3. Footnote references and definitions are rewritten in place. A
//     sidenote reference is replaced by the next collected text and an
//     ordinary definition becomes a paragraph prefixed by its superscript
//     label. No separate footnotes section is produced.
//
// The footnote stages run as a parser transformer, ahead of the footnote
// extension's own, so they see every definition where it was written.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Engine renders Markdown documents. It holds no per-document state and
// may be reused for any number of documents.
type Engine struct {
	md        goldmark.Markdown
	style     *chroma.Style
	formatter *chromahtml.Formatter
	tabWidth  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStyle sets the highlighting style.
func WithStyle(style *chroma.Style) Option {
	return func(e *Engine) {
		if style != nil {
			e.style = style
		}
	}
}

// WithTabWidth sets how many spaces a tab expands to in code blocks.
func WithTabWidth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.tabWidth = n
		}
	}
}

// New returns an Engine using DefaultStyle unless WithStyle says otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		style:    defaultStyle(),
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.formatter = chromahtml.New(
		chromahtml.WithClasses(false),
		chromahtml.TabWidth(e.tabWidth),
	)
	e.md = goldmark.New(
		goldmark.WithExtensions(extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(noteTransformer{}, notePriority)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&fragmentRenderer{}, 100)),
		),
	)
	return e
}

// Style returns the active highlighting style.
func (e *Engine) Style() *chroma.Style { return e.style }

// RenderHTML converts src to HTML. A highlighting failure fails the whole
// document.
func (e *Engine) RenderHTML(src string) (string, error) {
	source := []byte(src)
	doc := e.md.Parser().Parse(text.NewReader(source))

	if err := e.highlight(doc, source); err != nil {
		return "", err
	}
	dropFootnoteLists(doc)

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// dropFootnoteLists removes the emptied footnote lists the footnote
// extension moves to the end of the document.
func dropFootnoteLists(doc ast.Node) {
	var lists []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == east.KindFootnoteList {
			lists = append(lists, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, n := range lists {
		n.Parent().RemoveChild(n.Parent(), n)
	}
}

// Component renders src as a templ component.
func (e *Engine) Component(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := e.RenderHTML(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}
