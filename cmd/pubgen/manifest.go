package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pubgen"
)

func newManifestCmd(a *app) *cobra.Command {
	var listFiles bool
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Show the latest recorded build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if cfg.Manifest == "" {
				return errors.New("no manifest configured: set manifest in the config")
			}
			m, err := pubgen.NewManifest(cfg.Manifest)
			if err != nil {
				return err
			}
			defer m.Close()

			p := newPrinter(cmd.OutOrStdout())
			build, err := m.LatestBuild(cmd.Context())
			if errors.Is(err, pubgen.ErrNoBuilds) {
				p.dimmed("no builds recorded yet")
				return nil
			}
			if err != nil {
				return err
			}

			p.heading(fmt.Sprintf("Build #%d", build.ID))
			p.item("started", build.StartedAt.Local().Format(time.RFC1123))
			p.item("duration", build.Duration.String())
			p.item("artifacts", fmt.Sprintf("%d", build.Artifacts))
			p.item("bytes", fmt.Sprintf("%d", build.Bytes))
			if !listFiles {
				return nil
			}

			artifacts, err := m.ListArtifacts(cmd.Context(), build.ID)
			if err != nil {
				return err
			}
			p.blank()
			for _, art := range artifacts {
				p.item(string(art.Kind), fmt.Sprintf("%s  %d  %s", art.Path, art.Size, art.SHA256[:12]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&listFiles, "files", "f", false, "list every artifact of the build")
	return cmd
}
