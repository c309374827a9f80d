package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// ErrHighlight wraps every failure of the syntax highlighter.
var ErrHighlight = errors.New("failed to syntax highlight")

// ThemeError reports a highlighting style that could not be loaded.
type ThemeError struct {
	// Path is the style file, or the style name for registry lookups.
	Path string
	Err  error
}

func (e *ThemeError) Error() string {
	return fmt.Sprintf("failed to load syntax theme from %s: %v", e.Path, e.Err)
}

func (e *ThemeError) Unwrap() error { return e.Err }

// LoadStyle reads a chroma XML style file.
func LoadStyle(path string) (*chroma.Style, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ThemeError{Path: path, Err: err}
	}
	defer f.Close()
	style, err := chroma.NewXMLStyle(f)
	if err != nil {
		return nil, &ThemeError{Path: path, Err: err}
	}
	return style, nil
}

// NamedStyle looks up one of chroma's built-in styles.
func NamedStyle(name string) (*chroma.Style, error) {
	if style, ok := styles.Registry[strings.ToLower(name)]; ok {
		return style, nil
	}
	return nil, &ThemeError{Path: name, Err: errors.New("no such built-in style")}
}

func defaultStyle() *chroma.Style {
	if style, err := NamedStyle(DefaultStyle); err == nil {
		return style
	}
	return styles.Fallback
}

// highlight replaces every code block under doc with highlighted HTML.
func (e *Engine) highlight(doc ast.Node, source []byte) error {
	var blocks []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			blocks = append(blocks, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, block := range blocks {
		var lang string
		if fenced, ok := block.(*ast.FencedCodeBlock); ok {
			lang = string(fenced.Language(source))
		}
		var code strings.Builder
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			code.Write(line.Value(source))
		}
		out, err := e.highlightCode(code.String(), lang)
		if err != nil {
			return err
		}
		parent := block.Parent()
		parent.ReplaceChild(parent, block, newFragmentBlock(out))
	}
	return nil
}

// highlightCode renders code with the lexer registered for lang, or the
// plain-text lexer when lang is empty or unknown.
func (e *Engine) highlightCode(code, lang string) ([]byte, error) {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s block: %w", ErrHighlight, langName(lang), err)
	}
	var buf bytes.Buffer
	if err := e.formatter.Format(&buf, e.style, it); err != nil {
		return nil, fmt.Errorf("%w: %s block: %w", ErrHighlight, langName(lang), err)
	}
	return buf.Bytes(), nil
}

func langName(lang string) string {
	if lang == "" {
		return "plain text"
	}
	return lang
}
