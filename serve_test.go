package pubgen

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreview(t *testing.T) http.Handler {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "home")
	writeFile(t, filepath.Join(root, "about.html"), "about")
	writeFile(t, filepath.Join(root, "404.html"), "missing page")
	writeFile(t, filepath.Join(root, "posts", "index.html"), "all posts")
	writeFile(t, filepath.Join(root, "posts", "1.html"), "post one")
	writeFile(t, filepath.Join(root, "posts", "rss.xml"), "<rss/>")
	return NewPreviewServer(root, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPreviewServer(t *testing.T) {
	h := newTestPreview(t)
	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"root", "/", http.StatusOK, "home"},
		{"explicit file", "/about.html", http.StatusOK, "about"},
		{"extension-less page", "/about", http.StatusOK, "about"},
		{"directory slash", "/posts/", http.StatusOK, "all posts"},
		{"directory index", "/posts", http.StatusOK, "all posts"},
		{"post", "/posts/1", http.StatusOK, "post one"},
		{"feed", "/posts/rss.xml", http.StatusOK, "<rss/>"},
		{"missing", "/nope", http.StatusNotFound, "missing page"},
		{"traversal", "/../../etc/passwd", http.StatusNotFound, "missing page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestPreviewServerWithout404Page(t *testing.T) {
	root := t.TempDir()
	h := NewPreviewServer(root, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
}

func TestPreviewServerGzip(t *testing.T) {
	h := newTestPreview(t)
	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}
