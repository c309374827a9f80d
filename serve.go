package pubgen

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewPreviewServer returns an Echo instance serving a built site from root.
// "/" serves index.html, extension-less paths fall back to "<path>.html"
// and anything missing gets 404.html with status 404. Nothing is watched or
// rebuilt.
func NewPreviewServer(root string, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = previewErrorHandler(e, root, logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	e.Use(noCacheMiddleware)

	e.Match([]string{http.MethodGet, http.MethodHead}, "/*", serveBuildFile(root))
	return e
}

func noCacheMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-cache")
		return next(c)
	}
}

// resolveBuildFile maps a request path onto a regular file under root.
func resolveBuildFile(root, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	candidates := []string{clean}
	if strings.HasSuffix(urlPath, "/") || clean == "/" {
		candidates = []string{path.Join(clean, "index.html")}
	} else if path.Ext(clean) == "" {
		candidates = append(candidates, clean+".html", path.Join(clean, "index.html"))
	}
	for _, c := range candidates {
		file := filepath.Join(root, filepath.FromSlash(c))
		if fi, err := os.Stat(file); err == nil && fi.Mode().IsRegular() {
			return file, true
		}
	}
	return "", false
}

func serveBuildFile(root string) echo.HandlerFunc {
	return func(c echo.Context) error {
		file, ok := resolveBuildFile(root, c.Request().URL.Path)
		if !ok {
			return echo.ErrNotFound
		}
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		fi, err := f.Stat()
		if err != nil {
			return err
		}
		http.ServeContent(c.Response(), c.Request(), fi.Name(), fi.ModTime(), f)
		return nil
	}
}

func previewErrorHandler(e *echo.Echo, root string, logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			page, readErr := os.ReadFile(filepath.Join(root, notFoundPath()))
			if readErr != nil {
				_ = c.String(http.StatusNotFound, "Not Found")
				return
			}
			_ = c.HTMLBlob(http.StatusNotFound, page)
			return
		}
		if he == nil || he.Code >= 500 {
			logger.Error("server error", slog.String("error", err.Error()))
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
