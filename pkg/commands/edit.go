package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/tui/editor"
)

func addEdit(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}

	cmd := &cobra.Command{
		Use:     "edit",
		Aliases: []string{"ui"},
		Short:   "Edit a collection interactively",
		Example: `
curate edit -c favorites
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := co.Require(); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			return editor.Run(cmd.Context(), svc, co.Collection, nil)
		},
	}

	options.AddCollectionArgs(cmd, co)
	registerCollectionCompletion(cmd)

	topLevel.AddCommand(cmd)
}
