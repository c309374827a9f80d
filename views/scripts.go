package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Script is an element injected into post pages. It is either an
// EmbeddedScript or an ExternalScript.
type Script interface {
	isScript()
}

// EmbeddedScript is an inline <script> element.
type EmbeddedScript struct {
	Contents string
}

// ExternalScript is a <script src> element, loaded async.
type ExternalScript struct {
	Src string
}

func (EmbeddedScript) isScript() {}
func (ExternalScript) isScript() {}

// Scripts is the list of scripts for post pages with an optional
// <noscript> body.
type Scripts struct {
	Scripts  []Script
	Noscript string
}

// Empty reports whether there is nothing to emit.
func (s Scripts) Empty() bool {
	return len(s.Scripts) == 0 && s.Noscript == ""
}

// ScriptTags renders the scripts in order, followed by the noscript
// element. Embedded contents and the noscript body are written verbatim.
func ScriptTags(s Scripts) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, script := range s.Scripts {
			var err error
			switch v := script.(type) {
			case EmbeddedScript:
				_, err = io.WriteString(w, "<script>"+v.Contents+"</script>\n")
			case ExternalScript:
				_, err = io.WriteString(w, `<script async src="`+templ.EscapeString(v.Src)+`"></script>`+"\n")
			}
			if err != nil {
				return err
			}
		}
		if s.Noscript != "" {
			if _, err := io.WriteString(w, "<noscript>"+s.Noscript+"</noscript>\n"); err != nil {
				return err
			}
		}
		return nil
	})
}
