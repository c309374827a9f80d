package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pubgen/internal/logfields"
	"github.com/eringen/pubgen/scaffold"
)

func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a new site project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			name := filepath.Base(filepath.Clean(dir))
			data := scaffold.Data{
				ProjectName: name,
				SiteName:    scaffold.ToTitle(name),
				URL:         "http://localhost:3000",
				Date:        time.Now().Format("2006-01-02"),
			}

			p := newPrinter(cmd.OutOrStdout())
			p.heading("Creating " + name)
			created, err := scaffold.Create(dir, data)
			if err != nil {
				return err
			}
			for _, path := range created {
				a.logger.Debug("created file", logfields.Path(path))
				p.item("created", path)
			}
			p.blank()
			p.success("Done! Next steps:")
			p.step("cd " + dir)
			p.step("pubgen build")
			p.step("pubgen serve")
			return nil
		},
	}
}
