package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path...>",
		Short: "Stage files or directories for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}
			staged := 0
			for _, path := range args {
				n, err := r.Stage(path)
				if err != nil {
					return err
				}
				staged += n
			}
			if staged == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing staged")
			}
			return nil
		},
	}
}
