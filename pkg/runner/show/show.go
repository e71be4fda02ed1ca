// Package show prints the staged gallery of a collection.
package show

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/rows"
)

type Show struct {
	Collection string
	ShowID     bool
	Spacers    bool
	// Output is pretty, json or yaml. Json and yaml print the staged
	// collection document.
	Output  string
	Service *app.Service
}

func (s *Show) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not show, no service")
	}
	e, err := s.Service.Open(ctx, s.Collection)
	if err != nil {
		return err
	}
	st := e.State()

	if s.Output != "" && s.Output != printers.FormatPretty {
		return printers.Encode(color.Output, s.Output, st.Collection())
	}

	pp := printers.PrettyPrint{ShowID: s.ShowID}
	pp.NewLine()
	pp.TitleWithCount(st.Collection().DisplayName(), st.Len(), "section")
	pp.Gallery(st.Rows(rows.GalleryOptions{SectionSpacers: s.Spacers}), st.ActiveSectionID())
	if n := len(st.Unplaced()); n > 0 {
		_, _ = color.New(color.Faint).Fprintf(color.Output, "\n%d tokens not placed\n", n)
	}
	if p := e.Payload(); p.Changed() {
		_, _ = color.New(color.FgYellow).Fprintln(color.Output, "unsaved changes, see `curate diff`")
	}
	return nil
}
