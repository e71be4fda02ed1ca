// Package options defines shared flag helpers for CLI commands.
package options

import (
	"errors"

	"github.com/spf13/cobra"
)

// CollectionOptions selects the collection a command works on.
type CollectionOptions struct {
	Collection string
}

// AddCollectionArgs wires the collection flag on the provided command.
func AddCollectionArgs(cmd *cobra.Command, o *CollectionOptions) {
	cmd.Flags().StringVarP(&o.Collection, "collection", "c", "",
		"Specify the collection.")
}

// Require returns an error when no collection was given.
func (o *CollectionOptions) Require() error {
	if o.Collection == "" {
		return errors.New("requires --collection")
	}
	return nil
}
