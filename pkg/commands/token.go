package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/runner/edit"
	"tableflip.dev/curate/pkg/staged"
)

func addToken(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "token",
		Aliases: []string{"tokens"},
		Short:   "Place and remove tokens in a collection draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newTokenAddCmd(),
		newTokenPlaceCmd(),
		newTokenRmCmd(),
	)
	topLevel.AddCommand(cmd)
}

func knownToken(s *staged.State, id string) error {
	if _, ok := s.Token(id); !ok {
		return fmt.Errorf("unknown token %q", id)
	}
	return nil
}

func newTokenAddCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "add <token>",
		Short: "Toggle a token in the active section",
		Long: options.Wrap80(`Append a token to the active section. A token that is already
placed is removed instead, the same as selecting it in the picker.`),
		Example: `
curate token add -c favorites 0xabc:1
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, "", func(e *edit.Edit, s *staged.State) (*staged.State, error) {
				if err := knownToken(s, args[0]); err != nil {
					return nil, err
				}
				t, _ := s.Token(args[0])
				next := s.AddToActive(t)
				if _, _, placed := next.Location(t.ID); placed {
					e.Describe = fmt.Sprintf("added %s", t.DisplayName())
				} else {
					e.Describe = fmt.Sprintf("removed %s", t.DisplayName())
				}
				return next, nil
			})
		},
	}
	f.add(cmd)
	return cmd
}

func newTokenPlaceCmd() *cobra.Command {
	f := &editFlags{}
	po := &options.PlacementOptions{}
	cmd := &cobra.Command{
		Use:     "place <token>",
		Aliases: []string{"move"},
		Short:   "Place or move a token to a section and position",
		Example: `
curate token place -c favorites 0xabc:1 --section s2 --index 0
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, "placed "+args[0], func(_ *edit.Edit, s *staged.State) (*staged.State, error) {
				if err := knownToken(s, args[0]); err != nil {
					return nil, err
				}
				return s.MoveToken(args[0], po.SectionOr(s.ActiveSectionID()), po.At()), nil
			})
		},
	}
	f.add(cmd)
	options.AddPlacementArgs(cmd, po)
	return cmd
}

func newTokenRmCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "rm <token>",
		Short: "Remove a token from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, "removed "+args[0], simple(func(s *staged.State) *staged.State {
				return s.RemoveToken(args[0])
			}))
		},
	}
	f.add(cmd)
	return cmd
}

func addWhitespace(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "whitespace",
		Aliases: []string{"ws"},
		Short:   "Insert and remove whitespace slots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newWhitespaceInsertCmd(), newWhitespaceRmCmd())
	topLevel.AddCommand(cmd)
}

func newWhitespaceInsertCmd() *cobra.Command {
	f := &editFlags{}
	po := &options.PlacementOptions{}
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a whitespace slot",
		Example: `
curate whitespace insert -c favorites --section s1 --index 2
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.run(cmd, "whitespace inserted", simple(func(s *staged.State) *staged.State {
				return s.InsertWhitespace(po.SectionOr(s.ActiveSectionID()), po.At())
			}))
		},
	}
	f.add(cmd)
	options.AddPlacementArgs(cmd, po)
	return cmd
}

func newWhitespaceRmCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "rm <section> <index>",
		Short: "Remove the slot at an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			return f.run(cmd, "slot removed", simple(func(s *staged.State) *staged.State {
				return s.RemoveSlot(args[0], i)
			}))
		},
	}
	f.add(cmd)
	return cmd
}
