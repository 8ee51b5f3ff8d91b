package main

import (
	"fmt"
	"time"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}

			entries, err := r.Log(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no commits yet")
				return nil
			}

			headHash := entries[0].Hash
			branchName := r.CurrentBranch()

			for _, entry := range entries {
				h := entry.Hash
				c := entry.Commit
				decoration := buildDecoration(h, headHash, branchName)

				if oneline {
					short := string(h)
					if len(short) > 8 {
						short = short[:8]
					}
					if decoration != "" {
						fmt.Fprintf(out, "%s %s %s\n", short, decoration, c.Message)
					} else {
						fmt.Fprintf(out, "%s %s\n", short, c.Message)
					}
					continue
				}

				if decoration != "" {
					fmt.Fprintf(out, "commit %s %s\n", h, decoration)
				} else {
					fmt.Fprintf(out, "commit %s\n", h)
				}
				fmt.Fprintf(out, "Author: %s\n", c.Author)
				fmt.Fprintf(out, "Date:   %s\n", time.Unix(c.Timestamp, 0).Format("2006-01-02 15:04:05"))
				fmt.Fprintln(out)
				fmt.Fprintf(out, "    %s\n", c.Message)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show")

	return cmd
}

// buildDecoration returns "(HEAD -> branch)" for the head commit and ""
// for every other entry.
func buildDecoration(commitHash, headHash object.Hash, branchName string) string {
	if commitHash != headHash {
		return ""
	}
	if branchName != "" {
		return "(HEAD -> " + branchName + ")"
	}
	return "(HEAD)"
}
