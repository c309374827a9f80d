package posts

import "fmt"

// ParseErrorKind says which part of a post file failed to parse.
type ParseErrorKind int

const (
	// KindDelimiter means the "---" header fences are missing.
	KindDelimiter ParseErrorKind = iota
	// KindHeader means the header is not valid TOML or lacks a required key.
	KindHeader
	// KindDate means the header date is not a calendar date.
	KindDate
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindDelimiter:
		return "delimiter"
	case KindHeader:
		return "header"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

// ParseError reports a post file that could not be parsed.
type ParseError struct {
	Path string
	Kind ParseErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindDate:
		return fmt.Sprintf("failed to parse post date in %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to read post header from %s: %v", e.Path, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
