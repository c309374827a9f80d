package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pubgen/posts"
)

// buildURL joins path segments onto a base URL.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// FilterRelatedPosts returns posts that share at least one tag with the current post.
func FilterRelatedPosts(current posts.Post, all []posts.Post) []posts.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []posts.Post
	for _, p := range all {
		if p.Name == current.Name {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// PathEscape wraps url.PathEscape for use in link building.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// escapePath escapes each slash-separated segment of p.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

type ldRef struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type websiteLD struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type blogPostingLD struct {
	Context          string `json:"@context"`
	Type             string `json:"@type"`
	Headline         string `json:"headline"`
	DatePublished    string `json:"datePublished"`
	URL              string `json:"url"`
	Description      string `json:"description,omitempty"`
	Keywords         string `json:"keywords,omitempty"`
	Publisher        ldRef  `json:"publisher"`
	MainEntityOfPage ldRef  `json:"mainEntityOfPage"`
}

func marshalLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) string {
	return marshalLD(websiteLD{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        site.Title,
		URL:         buildURL(site.URL) + "/",
		Description: site.Description,
	})
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a
// post. The summary becomes the description and the tags the keywords.
func BlogPostingJsonLD(site Site, post posts.Post) string {
	postURL := buildURL(site.URL, site.PostsRoot, post.Name+".html")
	return marshalLD(blogPostingLD{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         post.Title,
		DatePublished:    post.DateString(),
		URL:              postURL,
		Description:      post.Summary,
		Keywords:         JoinTags(post.Tags),
		Publisher:        ldRef{Type: "Organization", Name: site.Title},
		MainEntityOfPage: ldRef{Type: "WebPage", ID: postURL},
	})
}
