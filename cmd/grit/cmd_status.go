package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}

			sum, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if _, ok := r.BranchHash(sum.Branch); ok {
				fmt.Fprintf(out, "on %s\n", sum.Branch)
			} else {
				fmt.Fprintf(out, "on %s (no commits yet)\n", sum.Branch)
			}

			var staged, unstaged, untracked, deleted []string
			for _, p := range sum.StagedNew {
				staged = append(staged, "  + "+p)
			}
			for _, p := range sum.StagedModified {
				staged = append(staged, "  ~ "+p)
			}
			for _, p := range sum.UnstagedModified {
				unstaged = append(unstaged, "  ~ "+p)
			}
			for _, p := range sum.UnstagedDeleted {
				unstaged = append(unstaged, "  - "+p)
			}
			for _, p := range sum.Untracked {
				untracked = append(untracked, "  "+p)
			}
			for _, p := range sum.Deleted {
				deleted = append(deleted, "  - "+p)
			}

			printSection(out, "staged:", staged)
			printSection(out, "unstaged:", unstaged)
			printSection(out, "untracked:", untracked)
			printSection(out, "deleted:", deleted)

			if sum.Clean() {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
			}
			return nil
		},
	}
}

func printSection(out io.Writer, header string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, header)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
}
