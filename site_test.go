package pubgen

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubgen/posts"
	"github.com/eringen/pubgen/views"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// newFixture lays out a small site under a temp dir and returns its config.
func newFixture(t *testing.T) SiteConfig {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "content", "index.md"), "Welcome *home*.\n")
	writeFile(t, filepath.Join(dir, "content", "404.md"), "Nothing here.\n")
	writeFile(t, filepath.Join(dir, "content", "posts.md"), "All the posts.\n")
	writeFile(t, filepath.Join(dir, "content", "about.md"), "---\ntitle: About me\n---\nAbout body.\n")
	writeFile(t, filepath.Join(dir, "content", ".hidden.md"), "secret\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content", "drafts"), 0o755))

	writeFile(t, filepath.Join(dir, "posts", "a.md"),
		"---\ntitle = \"Post A\"\ndate = 2024-01-01\ntags = [\"go\", \"web\"]\n---\n\n"+
			"Summary a.\n\n<!-- top -->\n\nRest with note[^s1].\n\n[^s1]: side a\n")
	writeFile(t, filepath.Join(dir, "posts", "b.md"),
		"---\ntitle = \"Post B\"\ndate = 2024-02-01\ntags = [\"go\"]\n---\n\n```go\nx := 1\n```\n")

	writeFile(t, filepath.Join(dir, "static", "style.css"), "body{}")
	writeFile(t, filepath.Join(dir, "static", "img", "x.txt"), "x")

	return SiteConfig{
		URL:       "https://example.com",
		Title:     "Test Site",
		Content:   filepath.Join(dir, "content"),
		Posts:     filepath.Join(dir, "posts"),
		Static:    filepath.Join(dir, "static"),
		BuildRoot: filepath.Join(dir, "build"),
	}
}

func newSite(t *testing.T, cfg SiteConfig, opts ...Option) *Site {
	t.Helper()
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s
}

func artifactByPath(t *testing.T, artifacts []Artifact, p string) Artifact {
	t.Helper()
	for _, a := range artifacts {
		if a.Path == p {
			return a
		}
	}
	t.Fatalf("no artifact %s", p)
	return Artifact{}
}

func TestRenderArtifactContract(t *testing.T) {
	s := newSite(t, newFixture(t))

	artifacts, err := s.Render(context.Background())
	require.NoError(t, err)

	var got []string
	for _, a := range artifacts {
		got = append(got, string(a.Kind)+" "+a.Path)
	}
	assert.Equal(t, []string{
		"index index.html",
		"404 404.html",
		"page about.html",
		"posts-index posts/index.html",
		"post posts/b.html",
		"post posts/a.html",
		"rss posts/rss.xml",
		"tags-index posts/tags/index.html",
		"tag posts/tags/go.html",
		"tag posts/tags/web.html",
	}, got)
}

func TestRenderPageContents(t *testing.T) {
	s := newSite(t, newFixture(t))
	artifacts, err := s.Render(context.Background())
	require.NoError(t, err)

	index := string(artifactByPath(t, artifacts, "index.html").Body)
	assert.Contains(t, index, "Welcome <em>home</em>.")

	notFound := string(artifactByPath(t, artifacts, "404.html").Body)
	assert.Contains(t, notFound, "Nothing here.")

	about := string(artifactByPath(t, artifacts, "about.html").Body)
	assert.Contains(t, about, "<h1>About me</h1>")
	assert.Contains(t, about, "About body.")
	assert.NotContains(t, about, "title: About me")

	postsIndex := string(artifactByPath(t, artifacts, "posts/index.html").Body)
	assert.Contains(t, postsIndex, "All the posts.")
	assert.Contains(t, postsIndex, `<p class="summary">Summary a.</p>`)
	assert.Less(t, strings.Index(postsIndex, "/posts/b.html"), strings.Index(postsIndex, "/posts/a.html"))

	postA := string(artifactByPath(t, artifacts, "posts/a.html").Body)
	assert.Contains(t, postA, `<small class="sidenote">side a</small>`)
	assert.Contains(t, postA, "<!-- top -->")

	postB := string(artifactByPath(t, artifacts, "posts/b.html").Body)
	assert.Contains(t, postB, `style="`)
	assert.Contains(t, postB, `href="/posts/a.html"`, "related post shares the go tag")

	feed := string(artifactByPath(t, artifacts, "posts/rss.xml").Body)
	assert.True(t, strings.HasPrefix(feed, "<?xml"))
	assert.Contains(t, feed, "<link>https://example.com/posts</link>")
	assert.Contains(t, feed, "<description>Test Site posts</description>")
	assert.Contains(t, feed, "<link>https://example.com/posts/a.html</link>")
	assert.Contains(t, feed, "&lt;p&gt;Summary a.&lt;/p&gt;")
	assert.Contains(t, feed, "<pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>")
}

func TestRenderTagMembership(t *testing.T) {
	s := newSite(t, newFixture(t))
	artifacts, err := s.Render(context.Background())
	require.NoError(t, err)

	goPage := string(artifactByPath(t, artifacts, "posts/tags/go.html").Body)
	assert.Contains(t, goPage, "/posts/a.html")
	assert.Contains(t, goPage, "/posts/b.html")

	webPage := string(artifactByPath(t, artifacts, "posts/tags/web.html").Body)
	assert.Contains(t, webPage, "/posts/a.html")
	assert.NotContains(t, webPage, "/posts/b.html")

	tagsIndex := string(artifactByPath(t, artifacts, "posts/tags/index.html").Body)
	assert.Contains(t, tagsIndex, "/posts/tags/go.html")
	assert.Contains(t, tagsIndex, "/posts/tags/web.html")
}

func TestPostsWithTag(t *testing.T) {
	list := []posts.Post{
		{Name: "1", Tags: []string{"go", "go"}},
		{Name: "2", Tags: []string{"gopher"}},
		{Name: "3", Tags: []string{"web", "go"}},
	}
	got := postsWithTag(list, "go")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Name)
	assert.Equal(t, "3", got[1].Name)
}

func TestRenderRendersEachPostOnce(t *testing.T) {
	s := newSite(t, newFixture(t))
	calls := map[string]int{}
	inner := s.renderMarkdown
	s.renderMarkdown = func(src string) (string, error) {
		switch {
		case strings.Contains(src, "Rest with note"):
			calls["a"]++
		case strings.Contains(src, "x := 1"):
			calls["b"]++
		}
		return inner(src)
	}

	_, err := s.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, calls)
}

func TestRenderWithoutContentDir(t *testing.T) {
	cfg := newFixture(t)
	require.NoError(t, os.RemoveAll(cfg.Content))
	s := newSite(t, cfg)

	artifacts, err := s.Render(context.Background())
	require.NoError(t, err)
	for _, a := range artifacts {
		assert.NotEqual(t, KindPage, a.Kind)
	}
	assert.Equal(t, KindIndex, artifacts[0].Kind)
}

func TestRenderSitemap(t *testing.T) {
	cfg := newFixture(t)
	cfg.Sitemap = true
	s := newSite(t, cfg)

	artifacts, err := s.Render(context.Background())
	require.NoError(t, err)
	last := artifacts[len(artifacts)-1]
	assert.Equal(t, KindSitemap, last.Kind)
	assert.Equal(t, "sitemap.xml", last.Path)

	body := string(last.Body)
	assert.Contains(t, body, "<loc>https://example.com/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/about.html</loc>")
	assert.Contains(t, body, "<loc>https://example.com/posts/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/posts/b.html</loc>")
	assert.Contains(t, body, "<lastmod>2024-02-01</lastmod>")
	assert.Contains(t, body, "<loc>https://example.com/posts/tags/web.html</loc>")
	assert.NotContains(t, body, "404")
}

func TestRenderPostScripts(t *testing.T) {
	cfg := newFixture(t)
	scriptsDir := filepath.Join(filepath.Dir(cfg.Content), "scripts")
	writeFile(t, filepath.Join(scriptsDir, "a.js"), "var x = 1;")
	cfg.PostsEmbedScripts = scriptsDir
	cfg.PostsSrcScripts = []string{"https://cdn.example.com/x.js", " "}
	cfg.PostsNoscript = "no js"
	s := newSite(t, cfg)

	artifacts, err := s.Render(context.Background())
	require.NoError(t, err)

	post := string(artifactByPath(t, artifacts, "posts/a.html").Body)
	assert.Contains(t, post, "<script>var x = 1;</script>")
	assert.Contains(t, post, `<script async src="https://cdn.example.com/x.js"></script>`)
	assert.Contains(t, post, "<noscript>no js</noscript>")
	assert.Equal(t, 1, strings.Count(post, "<script async"))

	index := string(artifactByPath(t, artifacts, "index.html").Body)
	assert.NotContains(t, index, "var x = 1;")
}

func TestRenderReportsPostParseError(t *testing.T) {
	cfg := newFixture(t)
	bad := filepath.Join(cfg.Posts, "bad.md")
	writeFile(t, bad, "no header here")
	s := newSite(t, cfg)

	_, err := s.Render(context.Background())
	var perr *posts.ParseError
	require.True(t, errors.As(err, &perr), "want *posts.ParseError, got %v", err)
	assert.Equal(t, bad, perr.Path)
}

func TestRenderReportsTemplateError(t *testing.T) {
	failing := func(views.TagsPage) templ.Component {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return errors.New("boom")
		})
	}
	s := newSite(t, newFixture(t), WithViews(ViewFuncs{Tags: failing}))

	_, err := s.Render(context.Background())
	var terr *TemplateError
	require.True(t, errors.As(err, &terr), "want *TemplateError, got %v", err)
	assert.Equal(t, string(KindTagsIndex), terr.Template)
	assert.Contains(t, err.Error(), "boom")
}

func TestNewRejectsUnknownStyle(t *testing.T) {
	cfg := newFixture(t)
	cfg.SyntaxStyle = "no-such-style"
	_, err := New(cfg)
	require.Error(t, err)

	cfg.SyntaxStyle = ""
	cfg.SyntaxTheme = filepath.Join(t.TempDir(), "missing.xml")
	_, err = New(cfg)
	assert.ErrorContains(t, err, cfg.SyntaxTheme)
}

func TestBuildWritesSite(t *testing.T) {
	cfg := newFixture(t)
	writeFile(t, filepath.Join(cfg.BuildRoot, "stale.html"), "old")
	s := newSite(t, cfg)

	require.NoError(t, s.Build(context.Background()))

	for _, p := range []string{
		"index.html", "404.html", "about.html",
		"posts/index.html", "posts/a.html", "posts/b.html", "posts/rss.xml",
		"posts/tags/index.html", "posts/tags/go.html", "posts/tags/web.html",
		"static/style.css", "static/img/x.txt", "static/pubgen.css",
	} {
		assert.FileExists(t, filepath.Join(cfg.BuildRoot, filepath.FromSlash(p)))
	}
	assert.NoFileExists(t, filepath.Join(cfg.BuildRoot, "stale.html"))

	css, err := os.ReadFile(filepath.Join(cfg.BuildRoot, "static", "pubgen.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".sidenote")
}

func TestBuildKeepsUserStylesheet(t *testing.T) {
	cfg := newFixture(t)
	writeFile(t, filepath.Join(cfg.Static, "pubgen.css"), "/* mine */")
	s := newSite(t, cfg)

	require.NoError(t, s.Build(context.Background()))
	css, err := os.ReadFile(filepath.Join(cfg.BuildRoot, "static", "pubgen.css"))
	require.NoError(t, err)
	assert.Equal(t, "/* mine */", string(css))
}

func TestBuildWithoutStaticDir(t *testing.T) {
	cfg := newFixture(t)
	require.NoError(t, os.RemoveAll(cfg.Static))
	s := newSite(t, cfg)

	require.NoError(t, s.Build(context.Background()))
	assert.FileExists(t, filepath.Join(cfg.BuildRoot, "static", "pubgen.css"))
}

// failingFS refuses to write files whose name ends with suffix.
type failingFS struct {
	OSFS
	suffix string
}

func (f failingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if strings.HasSuffix(name, f.suffix) {
		return fs.ErrPermission
	}
	return f.OSFS.WriteFile(name, data, perm)
}

func TestBuildReportsArtifactError(t *testing.T) {
	cfg := newFixture(t)
	s := newSite(t, cfg, WithFS(failingFS{suffix: "rss.xml"}))

	err := s.Build(context.Background())
	var aerr *ArtifactError
	require.True(t, errors.As(err, &aerr), "want *ArtifactError, got %v", err)
	assert.Equal(t, filepath.Join(cfg.BuildRoot, "posts", "rss.xml"), aerr.Path)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestBuildRecordsManifest(t *testing.T) {
	cfg := newFixture(t)
	m, err := NewManifest(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	defer m.Close()

	fixed := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	s := newSite(t, cfg, WithManifest(m), WithClock(func() time.Time { return fixed }))
	require.NoError(t, s.Build(context.Background()))

	build, err := m.LatestBuild(context.Background())
	require.NoError(t, err)
	assert.True(t, fixed.Equal(build.StartedAt), "started at %v", build.StartedAt)
	assert.Equal(t, 10, build.Artifacts)

	records, err := m.ListArtifacts(context.Background(), build.ID)
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, "404.html", records[0].Path)
	assert.Len(t, records[0].SHA256, 64)
}

func TestNewPost(t *testing.T) {
	cfg := newFixture(t)
	fixed := time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)
	s := newSite(t, cfg, WithClock(func() time.Time { return fixed }))

	post, err := s.NewPost()
	require.NoError(t, err)
	assert.Equal(t, "2", post.Name)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), post.Date)
	assert.FileExists(t, filepath.Join(cfg.Posts, "2.md"))
}
