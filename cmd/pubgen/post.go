package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/pubgen"
)

func newPostCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "post",
		Aliases: []string{"p"},
		Short:   "Create the next numbered post",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			site, err := pubgen.New(cfg, pubgen.WithLogger(a.logger))
			if err != nil {
				return err
			}
			post, err := site.NewPost()
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("created " + filepath.Join(cfg.Posts, post.Name+".md"))
			return nil
		},
	}
}
