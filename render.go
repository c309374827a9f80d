package pubgen

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
)

// render runs a templ component into memory. Failures are reported as a
// *TemplateError naming the template.
func render(ctx context.Context, name string, cmp templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return nil, &TemplateError{Template: name, Err: err}
	}
	return buf.Bytes(), nil
}
