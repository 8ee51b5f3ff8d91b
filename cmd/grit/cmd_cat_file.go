package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/fsys"
	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var showType bool
	var showSize bool

	cmd := &cobra.Command{
		Use:   "cat-file <hash>",
		Short: "Inspect an object in the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".", fsys.NewOSFS())
			if err != nil {
				return err
			}

			h := object.Hash(args[0])
			kind, content, err := r.Store.Get(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, kind)
			case showSize:
				fmt.Fprintln(out, len(content))
			case kind == object.KindTree:
				tree, err := object.UnmarshalTree(content)
				if err != nil {
					return err
				}
				for _, e := range tree.Entries {
					fmt.Fprintf(out, "%s %s\t%s\n", e.Mode, e.Hash, e.Name)
				}
			default:
				// Blob data and commit text are already printable.
				fmt.Fprintf(out, "%s", content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object's kind")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the content size in bytes")

	return cmd
}
