package pubgen

import "embed"

// EmbeddedAssets contains static assets shipped with pubgen: the default
// pubgen.css with the sidenote and code block styles.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
