package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string
	var author string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged snapshot as a new commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}

			if author == "" {
				author = r.AuthorIdentity()
			}

			h, err := r.Commit(message, author)
			if err != nil {
				return err
			}
			if h == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to commit, working tree clean")
				return nil
			}

			// Short hash: first 8 characters.
			short := string(h)
			if len(short) > 8 {
				short = short[:8]
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", r.CurrentBranch(), short, message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "override author (default: user.name from config)")

	return cmd
}
