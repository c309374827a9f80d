package pubgen

import (
	"errors"
	"fmt"
)

// ErrMissingConfig is returned when the configuration file does not exist.
var ErrMissingConfig = errors.New("config file not found")

// ConfigError reports a configuration file that could not be decoded or
// failed validation.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to read configuration from %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TemplateError reports a page template that failed to render.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("failed to render template %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// ArtifactError reports an output file that could not be written.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
