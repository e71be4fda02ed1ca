package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/runner/edit"
	"tableflip.dev/curate/pkg/staged"
)

// editFlags are shared by every command that changes a draft.
type editFlags struct {
	co   options.CollectionOptions
	io   options.IDOptions
	show bool
}

func (f *editFlags) add(cmd *cobra.Command) {
	options.AddCollectionArgs(cmd, &f.co)
	options.AddShowIDArgs(cmd, &f.io)
	cmd.Flags().BoolVar(&f.show, "show", false, "Print the gallery after the edit.")
	registerCollectionCompletion(cmd)
}

// run applies op to the collection's draft. op may set e.Describe.
func (f *editFlags) run(cmd *cobra.Command, describe string, op func(e *edit.Edit, s *staged.State) (*staged.State, error)) error {
	if err := f.co.Require(); err != nil {
		return err
	}
	cmd.SilenceUsage = true
	svc, err := loadService()
	if err != nil {
		return err
	}
	e := &edit.Edit{
		Collection: f.co.Collection,
		Describe:   describe,
		Show:       f.show,
		ShowID:     f.io.ShowID,
		Service:    svc,
	}
	e.Op = func(s *staged.State) (*staged.State, error) {
		return op(e, s)
	}
	err = e.Do(context.Background())
	return output.HandleError(err)
}

// simple adapts an edit that cannot fail.
func simple(fn func(*staged.State) *staged.State) func(*edit.Edit, *staged.State) (*staged.State, error) {
	return func(_ *edit.Edit, s *staged.State) (*staged.State, error) {
		return fn(s), nil
	}
}
