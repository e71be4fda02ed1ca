package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/runner/edit"
	"tableflip.dev/curate/pkg/staged"
)

func addSection(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "section",
		Aliases: []string{"sections"},
		Short:   "Edit the sections of a collection draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newSectionAddCmd(),
		newSectionRmCmd(),
		newSectionColumnsCmd(),
		newSectionStepCmd("inc", "Add a column to a section", (*staged.State).IncrementColumns),
		newSectionStepCmd("dec", "Remove a column from a section", (*staged.State).DecrementColumns),
		newSectionActivateCmd(),
		newSectionMoveCmd(),
		newSectionTitleCmd(),
	)
	topLevel.AddCommand(cmd)
}

func newSectionAddCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an empty section and make it active",
		Example: `
curate section add -c favorites
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.run(cmd, "", func(e *edit.Edit, s *staged.State) (*staged.State, error) {
				next, id := s.CreateSection()
				e.Describe = fmt.Sprintf("added section %s", id)
				return next, nil
			})
		},
	}
	f.add(cmd)
	return cmd
}

func newSectionRmCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:     "rm <section>",
		Aliases: []string{"delete"},
		Short:   "Delete a section, unplacing its tokens",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, "deleted section "+args[0], func(_ *edit.Edit, s *staged.State) (*staged.State, error) {
				return s.DeleteSection(args[0])
			})
		},
	}
	f.add(cmd)
	return cmd
}

func newSectionColumnsCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "columns <section> <n>",
		Short: "Set a section's column count",
		Example: `
curate section columns -c favorites s1 4
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid column count %q", args[1])
			}
			return f.run(cmd, "columns updated", simple(func(s *staged.State) *staged.State {
				return s.SetColumns(args[0], n)
			}))
		},
	}
	f.add(cmd)
	return cmd
}

func newSectionStepCmd(use, short string, step func(*staged.State, string) *staged.State) *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   use + " <section>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, "columns updated", simple(func(s *staged.State) *staged.State {
				return step(s, args[0])
			}))
		},
	}
	f.add(cmd)
	return cmd
}

func newSectionActivateCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "activate <section>",
		Short: "Make a section the target of token add",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, "active section "+args[0], simple(func(s *staged.State) *staged.State {
				return s.SetActiveSection(args[0])
			}))
		},
	}
	f.add(cmd)
	return cmd
}

func newSectionMoveCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "move <section> <position>",
		Short: "Move a section to a zero based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			return f.run(cmd, "section moved", simple(func(s *staged.State) *staged.State {
				return s.MoveSection(args[0], to)
			}))
		},
	}
	f.add(cmd)
	return cmd
}

func newSectionTitleCmd() *cobra.Command {
	f := &editFlags{}
	cmd := &cobra.Command{
		Use:   "title <section> [title]",
		Short: "Set a section title, no title clears it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			return f.run(cmd, "title updated", simple(func(s *staged.State) *staged.State {
				return s.SetTitle(args[0], title)
			}))
		},
	}
	f.add(cmd)
	return cmd
}
