package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "List, create, or delete branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			// Delete mode.
			if deleteBranch != "" {
				removed, err := r.DeleteBranch(deleteBranch)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "deleted branch '%s'\n", deleteBranch)
				} else {
					fmt.Fprintf(out, "branch '%s' does not exist\n", deleteBranch)
				}
				return nil
			}

			// Create mode.
			if len(args) == 1 {
				h, err := r.CreateBranch(args[0])
				if err != nil {
					return err
				}
				if h == "" {
					fmt.Fprintf(out, "cannot create branch '%s': no commit to branch from\n", args[0])
				}
				return nil
			}

			// List mode.
			branches, err := r.ListBranches()
			if err != nil {
				return err
			}

			current := r.CurrentBranch()
			for _, b := range branches {
				if b == current {
					fmt.Fprintf(out, "* %s\n", b)
				} else {
					fmt.Fprintf(out, "  %s\n", b)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")

	return cmd
}
