package markdown

import (
	"html"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var (
	kindFragment      = ast.NewNodeKind("Fragment")
	kindFragmentBlock = ast.NewNodeKind("FragmentBlock")
	kindNoteParagraph = ast.NewNodeKind("NoteParagraph")
)

// fragment is inline HTML written verbatim.
type fragment struct {
	ast.BaseInline
	html []byte
}

func newFragment(b []byte) *fragment { return &fragment{html: b} }

func (n *fragment) Kind() ast.NodeKind { return kindFragment }

func (n *fragment) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": string(n.html)}, nil)
}

// fragmentBlock is block-level HTML written verbatim.
type fragmentBlock struct {
	ast.BaseBlock
	html []byte
}

func newFragmentBlock(b []byte) *fragmentBlock { return &fragmentBlock{html: b} }

func (n *fragmentBlock) Kind() ast.NodeKind { return kindFragmentBlock }

func (n *fragmentBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": string(n.html)}, nil)
}

// noteParagraph is an ordinary footnote definition flattened into one
// paragraph that starts with its superscript label.
type noteParagraph struct {
	ast.BaseBlock
	label string
}

func newNoteParagraph(label string) *noteParagraph { return &noteParagraph{label: label} }

func (n *noteParagraph) Kind() ast.NodeKind { return kindNoteParagraph }

func (n *noteParagraph) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Label": n.label}, nil)
}

type fragmentRenderer struct{}

func (r *fragmentRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindFragment, r.renderFragment)
	reg.Register(kindFragmentBlock, r.renderFragmentBlock)
	reg.Register(kindNoteParagraph, r.renderNoteParagraph)
}

func (r *fragmentRenderer) renderFragment(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(n.(*fragment).html)
	}
	return ast.WalkContinue, nil
}

func (r *fragmentRenderer) renderFragmentBlock(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(n.(*fragmentBlock).html)
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *fragmentRenderer) renderNoteParagraph(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<p><sup>")
		_, _ = w.WriteString(html.EscapeString(n.(*noteParagraph).label))
		_, _ = w.WriteString("</sup> ")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}
