package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/runner/diff"
	"tableflip.dev/curate/pkg/runner/save"
	"tableflip.dev/curate/pkg/runner/watch"
)

func addDiff(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show what saving the draft would send",
		Example: `
curate diff -c favorites
curate diff -c favorites -o json
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
			d := diff.Diff{
				Collection: co.Collection,
				Output:     output.Resolved(),
				Service:    svc,
			}
			err = d.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddCollectionArgs(cmd, co)
	options.AddOutputArg(cmd, output)
	registerCollectionCompletion(cmd)

	topLevel.AddCommand(cmd)
}

func addSave(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}
	discard := false

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the draft, or discard it",
		Example: `
curate save -c favorites
curate save -c favorites --discard
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
			s := save.Save{
				Collection: co.Collection,
				Discard:    discard,
				Service:    svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddCollectionArgs(cmd, co)
	cmd.Flags().BoolVar(&discard, "discard", false, "Drop unsaved edits instead of saving them.")
	registerCollectionCompletion(cmd)

	topLevel.AddCommand(cmd)
}

func addWatch(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print store changes as they happen",
		Example: `
curate watch
curate watch -c favorites
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			w := watch.Watch{
				Collection: co.Collection,
				Service:    svc,
			}
			return w.Do(cmd.Context())
		},
	}

	options.AddCollectionArgs(cmd, co)
	registerCollectionCompletion(cmd)

	topLevel.AddCommand(cmd)
}
