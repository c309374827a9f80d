// Package logfields holds the log attribute keys shared across packages.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeyPath       = "path"
	KeyPost       = "post"
	KeyTag        = "tag"
	KeyArtifact   = "artifact"
	KeyKind       = "kind"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyError      = "error"
)

func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Post(name string) slog.Attr  { return slog.String(KeyPost, name) }
func Tag(t string) slog.Attr      { return slog.String(KeyTag, t) }
func Artifact(p string) slog.Attr { return slog.String(KeyArtifact, p) }
func Kind(k string) slog.Attr     { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }
func Addr(a string) slog.Attr     { return slog.String(KeyAddr, a) }

// Since reports the time elapsed since start in milliseconds.
func Since(start time.Time) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(time.Since(start).Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
