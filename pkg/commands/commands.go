package commands

import (
	"flag"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/store"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "curate",
		Short: options.Wrap80("Arrange the tokens you own into gallery collections."),
		// main reports failures.
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	// glog flags (-v, -logtostderr, ...).
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addImport(topLevel)
	addSidebar(topLevel)
	addShow(topLevel)
	addCollection(topLevel)
	addSection(topLevel)
	addToken(topLevel)
	addWhitespace(topLevel)
	addDiff(topLevel)
	addSave(topLevel)
	addWatch(topLevel)
	addEdit(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addKey(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func loadService() (*app.Service, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	return &app.Service{Persistence: p, Config: cfg}, nil
}

func registerCollectionCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("collection", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return collectionCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}
