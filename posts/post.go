// Package posts loads, orders and creates the dated Markdown posts a site is
// built from.
//
// A post file is a TOML header fenced by "---" lines followed by a Markdown
// body:
//
//	---
//	title = "Hello"
//	date = 2024-01-15
//	tags = ["go", "web"]
//	---
//
//	Body text.<!-- top -->More body text.
package posts

import (
	"sort"
	"strings"
	"time"
)

// TopMarker separates the summary part of a post body from the rest.
const TopMarker = "<!-- top -->"

// NoTop is the Top value of a post without a TopMarker.
const NoTop = -1

// Post is a single dated, titled, tagged article.
type Post struct {
	// Name is the file stem and output file stem.
	Name  string
	Title string
	// Date is a calendar date at midnight UTC.
	Date time.Time
	// Tags keep header order; duplicates are not removed.
	Tags []string
	// Content holds the raw Markdown body until the site build overwrites
	// it with the rendered HTML.
	Content string
	// Top is the byte offset of TopMarker in the body, or NoTop.
	Top int
	// Summary is a plain-text summary filled in by the site build.
	Summary string
}

// HasTag reports whether tag is one of the post's tags.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RSSDate formats the post date for RSS pubDate elements.
func (p Post) RSSDate() string {
	return p.Date.UTC().Format(time.RFC1123Z)
}

// DateString formats the post date as YYYY-MM-DD.
func (p Post) DateString() string {
	return p.Date.Format(dateLayout)
}

// SummaryMarkdown returns the body before TopMarker. It only makes sense
// before the body has been rendered.
func (p Post) SummaryMarkdown() (string, bool) {
	if p.Top < 0 || p.Top > len(p.Content) {
		return "", false
	}
	if !strings.HasPrefix(p.Content[p.Top:], TopMarker) {
		return "", false
	}
	return p.Content[:p.Top], true
}

// collectTags flattens, sorts and de-duplicates the tags of posts.
func collectTags(posts []Post) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}
