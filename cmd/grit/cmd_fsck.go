package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newFsckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fsck",
		Short: "Verify every object in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}

			report, err := r.Fsck()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "checked %d objects: %d blobs, %d trees, %d commits\n",
				report.Blobs+report.Trees+report.Commits+len(report.Problems),
				report.Blobs, report.Trees, report.Commits)
			if report.Unreachable > 0 {
				fmt.Fprintf(out, "%d unreachable objects\n", report.Unreachable)
			}
			for _, p := range report.Problems {
				fmt.Fprintf(out, "corrupt: %s\n", p)
			}
			if !report.OK() {
				return fmt.Errorf("fsck: %d damaged objects", len(report.Problems))
			}
			return nil
		},
	}
}
