package pubgen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/eringen/pubgen/internal/logfields"
)

const (
	jpegQuality     = 80
	staticSubdir    = "static"
	stylesheetName  = "pubgen.css"
	embeddedCSSPath = "embedded/" + stylesheetName
)

// copyStatic copies the static directory into the build. A missing static
// directory is skipped. It returns the number of files written.
func (s *Site) copyStatic() (int, error) {
	src := s.Config.Static
	if _, err := s.fsys.Stat(src); errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no static directory", logfields.Path(src))
		return 0, nil
	}
	return s.copyDir(src, filepath.Join(s.Config.BuildRoot, staticSubdir))
}

func (s *Site) copyDir(src, dst string) (int, error) {
	entries, err := s.fsys.ReadDir(src)
	if err != nil {
		return 0, err
	}
	if err := s.fsys.MkdirAll(dst, 0o755); err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			n, err := s.copyDir(from, to)
			if err != nil {
				return count, err
			}
			count += n
			continue
		}
		data, err := s.fsys.ReadFile(from)
		if err != nil {
			return count, err
		}
		data = s.processAsset(from, data)
		if err := s.fsys.WriteFile(to, data, 0o644); err != nil {
			return count, &ArtifactError{Path: to, Err: err}
		}
		s.logger.Debug("copied static file", logfields.Path(from))
		count++
	}
	return count, nil
}

// processAsset downscales JPEG and PNG files wider than MaxImageWidth.
// Anything else, or an image that fails to decode, is copied unchanged.
func (s *Site) processAsset(path string, data []byte) []byte {
	limit := s.Config.MaxImageWidth
	if limit <= 0 {
		return data
	}
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".png":
		format = "png"
	default:
		return data
	}
	out, resized, err := downscaleImage(data, format, limit)
	if err != nil {
		s.logger.Warn("copying image unchanged", logfields.Path(path), logfields.Error(err))
		return data
	}
	if resized {
		s.logger.Debug("downscaled image", logfields.Path(path))
	}
	return out
}

// downscaleImage scales the image down to maxWidth, keeping the aspect
// ratio, and re-encodes it in format. Images no wider than maxWidth are
// returned as-is with resized false.
func downscaleImage(data []byte, format string, maxWidth int) ([]byte, bool, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= maxWidth {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	default:
		return nil, false, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), true, nil
}

// writeDefaultStylesheet adds the embedded pubgen.css to the build unless
// the static directory ships its own.
func (s *Site) writeDefaultStylesheet() error {
	if _, err := s.fsys.Stat(filepath.Join(s.Config.Static, stylesheetName)); err == nil {
		return nil
	}
	data, err := EmbeddedAssets.ReadFile(embeddedCSSPath)
	if err != nil {
		return err
	}
	dir := filepath.Join(s.Config.BuildRoot, staticSubdir)
	if err := s.fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dest := filepath.Join(dir, stylesheetName)
	if err := s.fsys.WriteFile(dest, data, 0o644); err != nil {
		return &ArtifactError{Path: dest, Err: err}
	}
	return nil
}
