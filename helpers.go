package pubgen

import (
	"net/url"
	"os"
	"path"
	"strings"
)

// JoinURL joins a base URL with path segments. Segments are joined as-is;
// callers escape them first.
func JoinURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + path.Join(pathSegments...)
	}
	u.Path = path.Join(append([]string{"/", u.Path}, pathSegments...)...)
	return u.String()
}

// DirURL is JoinURL with a trailing slash.
func DirURL(base string, pathSegments ...string) string {
	u := JoinURL(base, pathSegments...)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// EnvOr returns the value of the environment variable key, or fallback when
// it is unset or empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isReservedContent reports whether a content stem has a dedicated artifact.
func isReservedContent(stem string) bool {
	switch stem {
	case "index", "posts", "404":
		return true
	}
	return false
}
