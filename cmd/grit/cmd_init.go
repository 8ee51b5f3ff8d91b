package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty grit repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			// Ensure the target directory exists.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			r, created, err := repo.Init(abs, fsys.NewOSFS())
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "initialized empty grit repository in %s\n", r.GritDir+string(filepath.Separator))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "reinitialized existing grit repository in %s\n", r.GritDir+string(filepath.Separator))
			}
			return nil
		},
	}
}
