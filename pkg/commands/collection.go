package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/staged"
)

func addCollection(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"collections"},
		Short:   "Create, list and describe collections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newCollectionListCmd(),
		newCollectionCreateCmd(),
		newCollectionRenameCmd(),
		newCollectionNoteCmd(),
		newCollectionHideCmd(),
	)
	topLevel.AddCommand(cmd)
}

func newCollectionListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			ids, err := svc.Collections(context.Background())
			if err != nil {
				return output.HandleError(err)
			}
			if output.Resolved() != printers.FormatPretty {
				return output.HandleError(printers.Encode(color.Output, output.Resolved(), ids))
			}
			pp := printers.PrettyPrint{}
			pp.TitleWithCount("Collections", len(ids), "collection")
			for _, id := range ids {
				_, _ = fmt.Fprintf(color.Output, "  %s\n", id)
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, output)
	return cmd
}

func newCollectionCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create an empty collection draft",
		Example: `
curate collection create favorites --name "My favorites"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			if _, err := svc.Create(context.Background(), args[0], name); err != nil {
				return output.HandleError(err)
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "created %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name for the collection.")
	return cmd
}

func newCollectionRenameCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename a collection",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return f.run(cmd, "renamed", simple(func(s *staged.State) *staged.State {
				return s.SetName(name)
			}))
		},
	}
	f.add(cmd)
	return cmd
}

func newCollectionNoteCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "note [note]",
		Short: "Set the collector's note, no argument clears it",
		RunE: func(cmd *cobra.Command, args []string) error {
			note := strings.Join(args, " ")
			return f.run(cmd, "note updated", simple(func(s *staged.State) *staged.State {
				return s.SetNote(note)
			}))
		},
	}
	f.add(cmd)
	return cmd
}

func newCollectionHideCmd() *cobra.Command {
	f := &editFlags{}
	unhide := false
	cmd := &cobra.Command{
		Use:   "hide",
		Short: "Hide a collection from the gallery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			describe := "hidden"
			if unhide {
				describe = "visible"
			}
			return f.run(cmd, describe, simple(func(s *staged.State) *staged.State {
				return s.SetHidden(!unhide)
			}))
		},
	}
	cmd.Flags().BoolVar(&unhide, "unhide", false, "Show the collection again.")
	f.add(cmd)
	return cmd
}
