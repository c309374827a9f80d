package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/pubgen"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Build the site into build_root",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			opts := []pubgen.Option{pubgen.WithLogger(a.logger)}
			if cfg.Manifest != "" {
				m, err := pubgen.NewManifest(cfg.Manifest)
				if err != nil {
					return err
				}
				defer m.Close()
				opts = append(opts, pubgen.WithManifest(m))
			}
			site, err := pubgen.New(cfg, opts...)
			if err != nil {
				return err
			}
			if err := site.Build(cmd.Context()); err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("built " + cfg.BuildRoot)
			return nil
		},
	}
}
