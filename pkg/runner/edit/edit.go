// Package edit applies one staged edit to a collection's draft.
package edit

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/staged"
)

// ErrNoChange is returned when an edit referenced something the draft does
// not have and so left it untouched.
var ErrNoChange = errors.New("nothing changed")

type Edit struct {
	Collection string
	// Describe is printed after a successful edit.
	Describe string
	Op       func(*staged.State) (*staged.State, error)
	// Show prints the resulting gallery.
	Show    bool
	ShowID  bool
	Service *app.Service
}

func (e *Edit) Do(ctx context.Context) error {
	if e.Service == nil {
		return errors.New("can not edit, no service")
	}
	if e.Op == nil {
		return errors.New("can not edit, no operation")
	}
	changed := false
	ed, err := e.Service.Edit(ctx, e.Collection, func(s *staged.State) (*staged.State, error) {
		next, err := e.Op(s)
		changed = next != nil && next != s
		return next, err
	})
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("%s: %w", e.Collection, ErrNoChange)
	}

	if e.Describe != "" {
		_, _ = color.New(color.FgGreen).Fprintln(color.Output, e.Describe)
	}
	if e.Show {
		st := ed.State()
		pp := printers.PrettyPrint{ShowID: e.ShowID}
		pp.NewLine()
		pp.Gallery(st.Rows(rows.GalleryOptions{}), st.ActiveSectionID())
	}
	return nil
}
