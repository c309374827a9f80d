package pubgen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
url = "https://example.com/"
title = "Example"
`), 0o644))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, "Example", cfg.Title)
	assert.Equal(t, filepath.Join(dir, "content"), cfg.Content)
	assert.Equal(t, filepath.Join(dir, "posts"), cfg.Posts)
	assert.Equal(t, filepath.Join(dir, "static"), cfg.Static)
	assert.Equal(t, filepath.Join(dir, "build"), cfg.BuildRoot)
	assert.Equal(t, "posts", cfg.PostsRoot)
	assert.Equal(t, "monokai", cfg.SyntaxStyle)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Empty(t, cfg.SyntaxTheme)
	assert.Empty(t, cfg.Manifest)
}

func TestReadConfigAllKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
url = "https://blog.example.com"
title = "Blog"
description = "Notes"
content = "pages"
posts = "/abs/posts"
build_root = "out"
posts_root = "/writing/"
syntax_theme = "themes/dark.xml"
posts_src_scripts = ["https://cdn.example.com/a.js"]
posts_embed_scripts = "scripts"
posts_noscript = "enable js"
sitemap = true
manifest = "data/manifest.db"
max_image_width = 800
addr = ":8080"
`), 0o644))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pages"), cfg.Content)
	assert.Equal(t, "/abs/posts", cfg.Posts)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.BuildRoot)
	assert.Equal(t, "writing", cfg.PostsRoot)
	assert.Equal(t, filepath.Join(dir, "themes/dark.xml"), cfg.SyntaxTheme)
	assert.Equal(t, []string{"https://cdn.example.com/a.js"}, cfg.PostsSrcScripts)
	assert.Equal(t, filepath.Join(dir, "scripts"), cfg.PostsEmbedScripts)
	assert.Equal(t, "enable js", cfg.PostsNoscript)
	assert.True(t, cfg.Sitemap)
	assert.Equal(t, filepath.Join(dir, "data/manifest.db"), cfg.Manifest)
	assert.Equal(t, 800, cfg.MaxImageWidth)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestReadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	_, err := ReadConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), path)
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{name: "bad toml", contents: "url = = 1", want: "failed to read configuration"},
		{name: "missing url", contents: `title = "x"`, want: "url"},
		{name: "missing title", contents: `url = "https://x"`, want: "title"},
		{name: "negative width", contents: "url = \"https://x\"\ntitle = \"x\"\nmax_image_width = -1", want: "max_image_width"},
		{name: "escaping posts root", contents: "url = \"https://x\"\ntitle = \"x\"\nposts_root = \"../up\"", want: "posts_root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))

			_, err := ReadConfig(path)
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "want *ConfigError, got %v", err)
			assert.Equal(t, path, cerr.Path)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")
	assert.Equal(t, DefaultConfigPath, ConfigPath())
	t.Setenv(ConfigEnvVar, "/etc/site.toml")
	assert.Equal(t, "/etc/site.toml", ConfigPath())
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://example.com/", JoinURL("https://example.com"))
	assert.Equal(t, "https://example.com/posts/1.html", JoinURL("https://example.com", "posts", "1.html"))
	assert.Equal(t, "https://example.com/blog/posts", JoinURL("https://example.com/blog", "posts"))
	assert.Equal(t, "https://example.com/posts/tags/", DirURL("https://example.com", "posts", "tags"))
}
