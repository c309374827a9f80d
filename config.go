package pubgen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultConfigPath is read when ConfigEnvVar is unset.
	DefaultConfigPath = "config.toml"
	// ConfigEnvVar names the environment variable overriding the config path.
	ConfigEnvVar = "PUBGEN_CONFIG"
)

// SiteConfig holds all configuration for a site, decoded from TOML.
type SiteConfig struct {
	URL         string `toml:"url"`         // Required: absolute base URL, trailing "/" trimmed
	Title       string `toml:"title"`       // Required: site title
	Description string `toml:"description"` // Feed and meta description

	Content   string `toml:"content"`    // Content pages dir (default "content")
	Posts     string `toml:"posts"`      // Post sources dir (default "posts")
	Static    string `toml:"static"`     // Static assets dir (default "static")
	BuildRoot string `toml:"build_root"` // Output dir (default "build")
	PostsRoot string `toml:"posts_root"` // Posts dir inside the build (default "posts")

	SyntaxTheme string `toml:"syntax_theme"` // Path to a chroma XML style
	SyntaxStyle string `toml:"syntax_style"` // Built-in chroma style (default "monokai")

	PostsSrcScripts   []string `toml:"posts_src_scripts"`   // External script URLs for post pages
	PostsEmbedScripts string   `toml:"posts_embed_scripts"` // Dir of scripts inlined into post pages
	PostsNoscript     string   `toml:"posts_noscript"`      // <noscript> body for post pages

	Sitemap       bool   `toml:"sitemap"`         // Write sitemap.xml
	Manifest      string `toml:"manifest"`        // SQLite build manifest path
	MaxImageWidth int    `toml:"max_image_width"` // Downscale wider JPEG/PNG assets, 0 disables

	Addr string `toml:"addr"` // Preview listen address (default ":3000")
}

func (c *SiteConfig) setDefaults() {
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Content == "" {
		c.Content = "content"
	}
	if c.Posts == "" {
		c.Posts = "posts"
	}
	if c.Static == "" {
		c.Static = "static"
	}
	if c.BuildRoot == "" {
		c.BuildRoot = "build"
	}
	c.PostsRoot = strings.Trim(c.PostsRoot, "/")
	if c.PostsRoot == "" {
		c.PostsRoot = "posts"
	}
	if c.SyntaxStyle == "" {
		c.SyntaxStyle = "monokai"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
}

func (c *SiteConfig) validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "url")
	}
	if c.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}
	if c.MaxImageWidth < 0 {
		return fmt.Errorf("max_image_width must not be negative, got %d", c.MaxImageWidth)
	}
	if filepath.IsAbs(c.PostsRoot) || strings.Contains(c.PostsRoot, "..") {
		return fmt.Errorf("posts_root must be a relative path inside the build, got %q", c.PostsRoot)
	}
	return nil
}

// resolve makes the filesystem paths relative to dir.
func (c *SiteConfig) resolve(dir string) {
	for _, p := range []*string{&c.Content, &c.Posts, &c.Static, &c.BuildRoot, &c.SyntaxTheme, &c.PostsEmbedScripts, &c.Manifest} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// ConfigPath returns the config file path from ConfigEnvVar, or
// DefaultConfigPath.
func ConfigPath() string {
	return EnvOr(ConfigEnvVar, DefaultConfigPath)
}

// ReadConfig decodes the TOML file at path, applies defaults and resolves
// relative paths against the file's directory.
func ReadConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SiteConfig{}, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return SiteConfig{}, err
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes data as if it were read from path.
func ParseConfig(path string, data []byte) (SiteConfig, error) {
	var cfg SiteConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return SiteConfig{}, &ConfigError{Path: path, Err: err}
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return SiteConfig{}, &ConfigError{Path: path, Err: err}
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}
