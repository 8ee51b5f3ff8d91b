package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	var createBranch bool

	cmd := &cobra.Command{
		Use:   "checkout <branch>",
		Short: "Switch branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}

			outcome, err := r.Checkout(target, createBranch)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outcome {
			case repo.Switched:
				fmt.Fprintf(out, "switched to branch '%s'\n", target)
			case repo.SwitchedCreated:
				fmt.Fprintf(out, "switched to new branch '%s'\n", target)
			case repo.RefusedStagedChanges:
				fmt.Fprintln(out, "Please commit your changes before checking out a different branch")
			case repo.NoSuchBranch:
				fmt.Fprintf(out, "branch '%s' does not exist\n", target)
			case repo.NoCommitToBranchFrom:
				fmt.Fprintf(out, "cannot create branch '%s': no commit to branch from\n", target)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "branch", "b", false, "create and switch to a new branch")

	return cmd
}
