package views

import "github.com/eringen/pubgen/posts"

// Site holds the site-wide values every page template needs.
type Site struct {
	Title       string
	URL         string // absolute base URL, no trailing slash
	Description string
	PostsRoot   string // posts directory relative to the site root
}

// PostsURL returns the site-relative link to the posts index.
func (s Site) PostsURL() string {
	return "/" + escapePath(s.PostsRoot) + "/"
}

// PostURL returns the site-relative link to a post page.
func (s Site) PostURL(name string) string {
	return s.PostsURL() + PathEscape(name) + ".html"
}

// TagsURL returns the site-relative link to the tags index.
func (s Site) TagsURL() string {
	return s.PostsURL() + "tags/"
}

// TagURL returns the site-relative link to a tag page.
func (s Site) TagURL(tag string) string {
	return s.TagsURL() + PathEscape(tag) + ".html"
}

// FeedURL returns the site-relative link to the RSS feed.
func (s Site) FeedURL() string {
	return s.PostsURL() + "rss.xml"
}

// IndexPage is the site front page. Content is rendered HTML.
type IndexPage struct {
	Site
	Content string
}

// NotFoundPage is written to 404.html. Message is rendered HTML.
type NotFoundPage struct {
	Site
	Message string
}

// ContentPage is a loose page from the content directory.
type ContentPage struct {
	Site
	Name    string // file stem
	Heading string // front matter title, or Name
	Content string
}

// PostPage is one post. Post.Content holds rendered HTML by the time the
// page is built.
type PostPage struct {
	Site
	Post    posts.Post
	Related []posts.Post
	Scripts Scripts
}

// PostsPage lists every post. Description is rendered HTML.
type PostsPage struct {
	Site
	Description string
	Posts       []posts.Post
}

// TagPage lists the posts carrying one tag.
type TagPage struct {
	Site
	Tag   string
	Posts []posts.Post
}

// TagsPage lists every tag.
type TagsPage struct {
	Site
	Tags []string
}
