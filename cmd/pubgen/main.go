// Package main provides the entry point for the pubgen CLI.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eringen/pubgen"
	"github.com/eringen/pubgen/internal/logfields"
)

// version is set at build time via ldflags.
var version = "dev"

// app holds the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	logger     *slog.Logger
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.NewTextHandler(os.Stderr, nil))}

	cmd := &cobra.Command{
		Use:   "pubgen",
		Short: "A static blog generator",
		Long: `pubgen turns a directory of Markdown posts and pages into a static blog:
HTML pages, an RSS feed, tag pages and an optional sitemap.

The configuration is read from --config, $PUBGEN_CONFIG or config.toml.
A .env file in the working directory is loaded first.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config.toml (default $"+pubgen.ConfigEnvVar+" or "+pubgen.DefaultConfigPath+")")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every step")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddGroup(&cobra.Group{ID: "site", Title: "Site Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "project", Title: "Project Commands:"})
	addGroupedCommand(cmd, newBuildCmd(a), "site")
	addGroupedCommand(cmd, newPostCmd(a), "site")
	addGroupedCommand(cmd, newServeCmd(a), "site")
	addGroupedCommand(cmd, newNewCmd(a), "project")
	addGroupedCommand(cmd, newManifestCmd(a), "project")

	return cmd
}

func addGroupedCommand(parent, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}

// config reads the site configuration named by --config or the environment.
func (a *app) config() (pubgen.SiteConfig, error) {
	path := a.configPath
	if path == "" {
		path = pubgen.ConfigPath()
	}
	a.logger.Debug("reading configuration", logfields.Path(path))
	return pubgen.ReadConfig(path)
}
