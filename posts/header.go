package posts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	delimiter  = "---"
	dateLayout = "2006-01-02"
)

var (
	errMissingDelimiter = errors.New("header delimiter not found")
	requiredKeys        = []string{"title", "date", "tags"}
)

// header is the decoded TOML block of a post. Date stays untyped so both
// TOML dates and quoted strings can be accepted and reported separately.
type header struct {
	Title string   `toml:"title"`
	Date  any      `toml:"date"`
	Tags  []string `toml:"tags"`
}

// newHeader is what CreatePost writes.
type newHeader struct {
	Title string     `toml:"title"`
	Date  headerDate `toml:"date"`
	Tags  []string   `toml:"tags"`
}

// headerDate encodes as a bare TOML local date.
type headerDate string

func (d headerDate) MarshalTOML() ([]byte, error) {
	return []byte(d), nil
}

// parsePost parses a post file read from path. name becomes the post name.
func parsePost(path, name, contents string) (Post, error) {
	if !strings.HasPrefix(contents, delimiter) {
		return Post{}, &ParseError{Path: path, Kind: KindDelimiter, Err: errMissingDelimiter}
	}
	end := strings.Index(contents[len(delimiter):], delimiter)
	if end < 0 {
		return Post{}, &ParseError{Path: path, Kind: KindDelimiter, Err: errMissingDelimiter}
	}
	end += len(delimiter)
	raw := contents[len(delimiter):end]

	var h header
	meta, err := toml.Decode(raw, &h)
	if err != nil {
		return Post{}, &ParseError{Path: path, Kind: KindHeader, Err: err}
	}
	for _, key := range requiredKeys {
		if !meta.IsDefined(key) {
			return Post{}, &ParseError{Path: path, Kind: KindHeader, Err: fmt.Errorf("missing %q", key)}
		}
	}
	date, err := parseDate(h.Date)
	if err != nil {
		return Post{}, &ParseError{Path: path, Kind: KindDate, Err: err}
	}

	body := contents[end+len(delimiter):]
	for i := 0; i < 2; i++ {
		body = strings.TrimPrefix(body, "\r")
		body = strings.TrimPrefix(body, "\n")
	}

	tags := h.Tags
	if tags == nil {
		tags = []string{}
	}
	for _, tag := range tags {
		if err := checkTag(tag); err != nil {
			return Post{}, &ParseError{Path: path, Kind: KindHeader, Err: err}
		}
	}
	return Post{
		Name:    name,
		Title:   h.Title,
		Date:    date,
		Tags:    tags,
		Content: body,
		Top:     strings.Index(body, TopMarker),
	}, nil
}

// checkTag rejects tags that cannot name a tag page file.
func checkTag(tag string) error {
	if tag == "" || tag == "." || tag == ".." || strings.ContainsAny(tag, `/\`) {
		return fmt.Errorf("invalid tag %q: tags name files and must not be empty, \".\", \"..\" or contain a slash", tag)
	}
	return nil
}

// parseDate accepts a TOML date or datetime, or a YYYY-MM-DD string, and
// returns the calendar date at midnight UTC.
func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		t, err := time.Parse(dateLayout, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, err
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}

// formatPost serializes a new post header followed by body.
func formatPost(title string, date time.Time, tags []string, body string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(newHeader{
		Title: title,
		Date:  headerDate(date.Format(dateLayout)),
		Tags:  tags,
	}); err != nil {
		return "", err
	}
	return delimiter + "\n" + buf.String() + delimiter + "\n\n" + body, nil
}
