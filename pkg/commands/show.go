package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/runner/show"
	"tableflip.dev/curate/pkg/runner/sidebar"
)

func addShow(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}
	io := &options.IDOptions{}
	spacers := false

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the staged gallery of a collection",
		Example: `
curate show -c favorites
curate show -c favorites --spacers -k
curate show -c favorites -o yaml
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
			s := show.Show{
				Collection: co.Collection,
				ShowID:     io.ShowID,
				Spacers:    spacers,
				Output:     output.Resolved(),
				Service:    svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddCollectionArgs(cmd, co)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVar(&spacers, "spacers", false, "Separate sections with a blank row.")
	registerCollectionCompletion(cmd)

	topLevel.AddCommand(cmd)
}

func addSidebar(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}
	io := &options.IDOptions{}
	var (
		query     string
		collapsed []string
	)

	cmd := &cobra.Command{
		Use:     "sidebar",
		Aliases: []string{"tokens"},
		Short:   "List tokens grouped by contract",
		Long: options.Wrap80(`List owned tokens grouped by contract. With a collection,
only tokens not yet placed in it are listed.`),
		Example: `
curate sidebar
curate sidebar -c favorites --query punk
curate sidebar --collapse 0xabc
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			s := sidebar.Sidebar{
				Collection: co.Collection,
				Query:      query,
				Collapsed:  collapsed,
				ShowID:     io.ShowID,
				Service:    svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddCollectionArgs(cmd, co)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter tokens by name.")
	cmd.Flags().StringSliceVar(&collapsed, "collapse", nil, "Contract groups to collapse.")
	registerCollectionCompletion(cmd)

	topLevel.AddCommand(cmd)
}
