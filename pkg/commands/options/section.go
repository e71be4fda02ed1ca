package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/staged"
)

// PlacementOptions say where in a collection a slot goes.
type PlacementOptions struct {
	Section string
	Index   int
}

func AddPlacementArgs(cmd *cobra.Command, o *PlacementOptions) {
	cmd.Flags().StringVarP(&o.Section, "section", "s", "",
		"Specify the section, defaults to the active section.")
	cmd.Flags().IntVarP(&o.Index, "index", "i", -1,
		"Position in the section, defaults to the end.")
}

// At returns the index to insert at.
func (o *PlacementOptions) At() int {
	if o.Index < 0 {
		return staged.Append
	}
	return o.Index
}

// SectionOr returns the chosen section or fallback.
func (o *PlacementOptions) SectionOr(fallback string) string {
	if o.Section == "" {
		return fallback
	}
	return o.Section
}
