// Package pubgen is a static site generator built with Go, goldmark and
// templ. It turns a directory of dated, tagged Markdown posts and a
// directory of loose content pages into HTML pages, an RSS feed and an
// optional sitemap.
//
// Users may provide their own templ components via the ViewFuncs struct;
// pubgen decides which pages exist, renders the Markdown and writes the
// files.
package pubgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/adrg/frontmatter"
	"github.com/alecthomas/chroma/v2"

	"github.com/eringen/pubgen/internal/logfields"
	"github.com/eringen/pubgen/markdown"
	"github.com/eringen/pubgen/posts"
	"github.com/eringen/pubgen/views"
)

// ViewFuncs holds the templ components the builder calls for each page
// shape. Nil fields fall back to DefaultViews.
type ViewFuncs struct {
	Index    func(views.IndexPage) templ.Component
	NotFound func(views.NotFoundPage) templ.Component
	Content  func(views.ContentPage) templ.Component
	Post     func(views.PostPage) templ.Component
	Posts    func(views.PostsPage) templ.Component
	Tag      func(views.TagPage) templ.Component
	Tags     func(views.TagsPage) templ.Component
}

// DefaultViews returns the components shipped in the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Index:    views.Index,
		NotFound: views.NotFound,
		Content:  views.Content,
		Post:     views.Post,
		Posts:    views.Posts,
		Tag:      views.Tag,
		Tags:     views.Tags,
	}
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	d := DefaultViews()
	if v.Index == nil {
		v.Index = d.Index
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.Content == nil {
		v.Content = d.Content
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.Posts == nil {
		v.Posts = d.Posts
	}
	if v.Tag == nil {
		v.Tag = d.Tag
	}
	if v.Tags == nil {
		v.Tags = d.Tags
	}
	return v
}

// Site renders and builds one configured site.
type Site struct {
	Config SiteConfig
	Views  ViewFuncs

	engine   *markdown.Engine
	fsys     FS
	logger   *slog.Logger
	manifest *Manifest
	now      func() time.Time

	renderMarkdown func(string) (string, error)
}

// Option configures a Site.
type Option func(*Site)

// WithViews replaces the page components. Nil fields keep the defaults.
func WithViews(v ViewFuncs) Option {
	return func(s *Site) {
		s.Views = v
	}
}

// WithFS sets the filesystem content is read from and the build written to.
func WithFS(fsys FS) Option {
	return func(s *Site) {
		s.fsys = fsys
	}
}

// WithLogger sets the logger for build progress.
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) {
		s.logger = l
	}
}

// WithManifest records every build in m.
func WithManifest(m *Manifest) Option {
	return func(s *Site) {
		s.manifest = m
	}
}

// WithEngine sets the Markdown engine instead of building one from the
// configured style.
func WithEngine(e *markdown.Engine) Option {
	return func(s *Site) {
		s.engine = e
	}
}

// WithClock sets the clock used for new post dates and build records.
func WithClock(now func() time.Time) Option {
	return func(s *Site) {
		s.now = now
	}
}

// New creates a Site. The highlighting style comes from cfg.SyntaxTheme
// when set, otherwise from the built-in cfg.SyntaxStyle.
func New(cfg SiteConfig, opts ...Option) (*Site, error) {
	cfg.setDefaults()

	s := &Site{
		Config: cfg,
		Views:  DefaultViews(),
		fsys:   OSFS{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Views = s.Views.withDefaults()

	if s.engine == nil {
		style, err := resolveStyle(cfg)
		if err != nil {
			return nil, err
		}
		s.engine = markdown.New(markdown.WithStyle(style))
	}
	s.renderMarkdown = s.engine.RenderHTML
	return s, nil
}

func resolveStyle(cfg SiteConfig) (*chroma.Style, error) {
	if cfg.SyntaxTheme != "" {
		return markdown.LoadStyle(cfg.SyntaxTheme)
	}
	return markdown.NamedStyle(cfg.SyntaxStyle)
}

func (s *Site) viewSite() views.Site {
	return views.Site{
		Title:       s.Config.Title,
		URL:         s.Config.URL,
		Description: s.Config.Description,
		PostsRoot:   s.Config.PostsRoot,
	}
}

// Render decides every output file of the site and renders it in memory.
// Artifacts come in a fixed order: index, 404, content pages, posts index,
// posts, RSS feed, tags index, tags and, when enabled, the sitemap.
func (s *Site) Render(ctx context.Context) ([]Artifact, error) {
	start := time.Now()
	cfg := s.Config
	site := s.viewSite()

	var out []Artifact
	add := func(kind ArtifactKind, p, name string, cmp templ.Component) error {
		body, err := render(ctx, string(kind), cmp)
		if err != nil {
			return err
		}
		out = append(out, Artifact{Kind: kind, Path: p, Name: name, Body: body})
		s.logger.Debug("rendered artifact", logfields.Artifact(p), logfields.Kind(string(kind)))
		return nil
	}

	index, err := s.contentOrBlank("index")
	if err != nil {
		return nil, err
	}
	if err := add(KindIndex, indexPath(), "index", s.Views.Index(views.IndexPage{Site: site, Content: index})); err != nil {
		return nil, err
	}

	message, err := s.contentOrBlank("404")
	if err != nil {
		return nil, err
	}
	if err := add(KindNotFound, notFoundPath(), "404", s.Views.NotFound(views.NotFoundPage{Site: site, Message: message})); err != nil {
		return nil, err
	}

	pages, err := s.contentPages()
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		page.Site = site
		if err := add(KindPage, pagePath(page.Name), page.Name, s.Views.Content(page)); err != nil {
			return nil, err
		}
	}

	repo, err := posts.Load(cfg.Posts, posts.WithLogger(s.logger), posts.WithClock(s.now))
	if err != nil {
		return nil, err
	}
	list := repo.Posts()
	for i := range list {
		if err := s.renderPost(&list[i]); err != nil {
			return nil, err
		}
	}

	description, err := s.contentOrBlank("posts")
	if err != nil {
		return nil, err
	}
	if err := add(KindPostsIndex, postsIndexPath(cfg.PostsRoot), "posts", s.Views.Posts(views.PostsPage{Site: site, Description: description, Posts: list})); err != nil {
		return nil, err
	}

	scripts, err := s.postScripts()
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		page := views.PostPage{
			Site:    site,
			Post:    p,
			Related: views.FilterRelatedPosts(p, list),
			Scripts: scripts,
		}
		if err := add(KindPost, postPath(cfg.PostsRoot, p.Name), p.Name, s.Views.Post(page)); err != nil {
			return nil, err
		}
	}

	feed, err := buildFeed(cfg, list)
	if err != nil {
		return nil, err
	}
	out = append(out, Artifact{Kind: KindRSS, Path: rssPath(cfg.PostsRoot), Name: "rss", Body: feed})

	tags := repo.Tags()
	if err := add(KindTagsIndex, tagsIndexPath(cfg.PostsRoot), "tags", s.Views.Tags(views.TagsPage{Site: site, Tags: tags})); err != nil {
		return nil, err
	}
	for _, tag := range tags {
		page := views.TagPage{Site: site, Tag: tag, Posts: postsWithTag(list, tag)}
		if err := add(KindTag, tagPath(cfg.PostsRoot, tag), tag, s.Views.Tag(page)); err != nil {
			return nil, err
		}
		s.logger.Debug("rendered tag", logfields.Tag(tag), logfields.Count(len(page.Posts)))
	}

	if cfg.Sitemap {
		stems := make([]string, len(pages))
		for i, page := range pages {
			stems[i] = page.Name
		}
		sitemap, err := buildSitemap(cfg, stems, list, tags)
		if err != nil {
			return nil, err
		}
		out = append(out, Artifact{Kind: KindSitemap, Path: sitemapPath(), Name: "sitemap", Body: sitemap})
	}

	s.logger.Info("rendered site", logfields.Count(len(out)), logfields.Since(start))
	return out, nil
}

// postsWithTag returns the posts whose tag list contains tag.
func postsWithTag(list []posts.Post, tag string) []posts.Post {
	var out []posts.Post
	for _, p := range list {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// renderPost replaces the Markdown body of p with HTML and fills its
// summary from the HTML before the top marker.
func (s *Site) renderPost(p *posts.Post) error {
	html, err := s.renderMarkdown(p.Content)
	if err != nil {
		return fmt.Errorf("render post %s: %w", p.Name, err)
	}
	p.Content = html
	if p.Top != posts.NoTop {
		if before, ok := markdown.SplitTop(html); ok {
			p.Summary = markdown.PlainText(before)
		}
	}
	s.logger.Debug("rendered post", logfields.Post(p.Name))
	return nil
}

type contentMeta struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// readContent renders one content file, returning its front matter title
// and HTML body.
func (s *Site) readContent(path string) (string, string, error) {
	data, err := s.fsys.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	var meta contentMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return "", "", fmt.Errorf("failed to read front matter from %s: %w", path, err)
	}
	html, err := s.renderMarkdown(string(body))
	if err != nil {
		return "", "", fmt.Errorf("render %s: %w", path, err)
	}
	return meta.Title, html, nil
}

// contentOrBlank renders content/<stem>.md, or returns "" when it does not
// exist.
func (s *Site) contentOrBlank(stem string) (string, error) {
	path := filepath.Join(s.Config.Content, stem+".md")
	if _, err := s.fsys.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	_, html, err := s.readContent(path)
	return html, err
}

// contentPages renders every non-reserved top-level file of the content
// directory. A missing content directory yields no pages.
func (s *Site) contentPages() ([]views.ContentPage, error) {
	entries, err := s.fsys.ReadDir(s.Config.Content)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pages []views.ContentPage
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if isReservedContent(stem) {
			continue
		}
		title, html, err := s.readContent(filepath.Join(s.Config.Content, name))
		if err != nil {
			return nil, err
		}
		pages = append(pages, views.ContentPage{Name: stem, Heading: title, Content: html})
	}
	return pages, nil
}

// postScripts collects the scripts injected into every post page: the
// embedded scripts directory first, then the external sources.
func (s *Site) postScripts() (views.Scripts, error) {
	var scripts []views.Script
	if dir := s.Config.PostsEmbedScripts; dir != "" {
		entries, err := s.fsys.ReadDir(dir)
		if err != nil {
			return views.Scripts{}, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			contents, err := s.fsys.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return views.Scripts{}, err
			}
			scripts = append(scripts, views.EmbeddedScript{Contents: string(contents)})
		}
	}
	for _, src := range FilterEmpty(s.Config.PostsSrcScripts) {
		scripts = append(scripts, views.ExternalScript{Src: src})
	}
	return views.Scripts{Scripts: scripts, Noscript: s.Config.PostsNoscript}, nil
}

// Build renders the site and writes it to a fresh build directory: the
// old directory is removed, static assets are copied, the default
// stylesheet is added and every artifact is written. The first error
// aborts the build.
func (s *Site) Build(ctx context.Context) error {
	start := time.Now()
	startedAt := s.now()

	artifacts, err := s.Render(ctx)
	if err != nil {
		return err
	}

	root := s.Config.BuildRoot
	s.logger.Info("removing build directory", logfields.Path(root))
	if err := s.fsys.RemoveAll(root); err != nil {
		return err
	}
	if err := s.fsys.MkdirAll(root, 0o755); err != nil {
		return err
	}

	copied, err := s.copyStatic()
	if err != nil {
		return err
	}
	s.logger.Info("copied static files", logfields.Count(copied))
	if err := s.writeDefaultStylesheet(); err != nil {
		return err
	}

	for _, a := range artifacts {
		if err := s.writeArtifact(a); err != nil {
			return err
		}
	}

	if s.manifest != nil {
		id, err := s.manifest.RecordBuild(ctx, startedAt, time.Since(start), artifacts)
		if err != nil {
			return fmt.Errorf("record build: %w", err)
		}
		s.logger.Debug("recorded build", slog.Int64("build_id", id))
	}

	s.logger.Info("build complete", logfields.Path(root), logfields.Count(len(artifacts)), logfields.Since(start))
	return nil
}

func (s *Site) writeArtifact(a Artifact) error {
	dest := filepath.Join(s.Config.BuildRoot, filepath.FromSlash(a.Path))
	if err := s.fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &ArtifactError{Path: dest, Err: err}
	}
	if err := s.fsys.WriteFile(dest, a.Body, 0o644); err != nil {
		return &ArtifactError{Path: dest, Err: err}
	}
	s.logger.Debug("wrote artifact", logfields.Path(dest))
	return nil
}

// NewPost creates an empty post in the posts directory.
func (s *Site) NewPost() (posts.Post, error) {
	repo, err := posts.Load(s.Config.Posts, posts.WithLogger(s.logger), posts.WithClock(s.now))
	if err != nil {
		return posts.Post{}, err
	}
	return repo.CreatePost()
}
