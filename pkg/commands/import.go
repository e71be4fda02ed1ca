package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/runner/importer"
)

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <wallet.json>",
		Short: "Import owned tokens and saved collections from a wallet document",
		Example: `
curate import wallet.json
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a wallet document")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			i := importer.Import{
				Path:    args[0],
				Service: svc,
			}
			err = i.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
