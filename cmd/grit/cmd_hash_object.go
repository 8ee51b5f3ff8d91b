package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute a file's blob hash, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			h := object.HashObject(object.KindBlob, content)
			if write {
				r, err := repo.Open(".", fsys.NewOSFS())
				if err != nil {
					return err
				}
				if _, err := r.Store.PutBlob(&object.Blob{Data: content}); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the blob in the object database")

	return cmd
}
