package posts

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/pubgen/internal/logfields"
)

// Repository owns the ordered posts of one directory and their tag index.
type Repository struct {
	root   string
	posts  []Post
	tags   []string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the clock CreatePost dates new posts with.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithLogger sets the logger used for load and create messages.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = l
	}
}

// Load reads every non-directory entry of root as a post. Dot-files are
// skipped. The first file that fails to parse aborts the load.
func Load(root string, opts ...Option) (*Repository, error) {
	r := &Repository{
		root:   root,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(root, entry.Name())
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		post, err := parsePost(path, name, string(contents))
		if err != nil {
			return nil, err
		}
		r.logger.Debug("loaded post", logfields.Path(path), logfields.Post(name))
		posts = append(posts, post)
	}

	sortPosts(posts)
	r.posts = posts
	r.tags = collectTags(posts)
	return r, nil
}

// sortPosts orders posts by (date, title, name) ascending and then reverses
// the result, so the newest post comes first.
func sortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Name < b.Name
	})
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
}

// Root returns the directory the posts were loaded from.
func (r *Repository) Root() string { return r.root }

// Len returns the number of posts.
func (r *Repository) Len() int { return len(r.posts) }

// Posts returns the live post slice. Changes to its elements are seen by
// the repository.
func (r *Repository) Posts() []Post { return r.posts }

// Tags returns the sorted, de-duplicated tags computed at load time. Posts
// appended by CreatePost are not reflected until the next Load.
func (r *Repository) Tags() []string { return r.tags }

// CreatePost writes a new empty post named after the current post count
// and appends it to the repository. An existing file is never overwritten.
func (r *Repository) CreatePost() (Post, error) {
	now := r.now().UTC()
	post := Post{
		Name: strconv.Itoa(len(r.posts)),
		Date: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Tags: []string{},
		Top:  NoTop,
	}

	contents, err := formatPost(post.Title, post.Date, post.Tags, TopMarker)
	if err != nil {
		return Post{}, fmt.Errorf("serialize post header: %w", err)
	}

	path := filepath.Join(r.root, post.Name+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Post{}, err
	}
	if _, err := io.WriteString(f, contents); err != nil {
		f.Close()
		return Post{}, err
	}
	if err := f.Close(); err != nil {
		return Post{}, err
	}

	r.logger.Info("created post", logfields.Path(path), logfields.Post(post.Name))
	r.posts = append(r.posts, post)
	return post, nil
}
