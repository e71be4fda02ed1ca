// Package sidebar prints the token picker for a collection.
package sidebar

import (
	"context"
	"errors"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/grouping"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/rows"
)

type Sidebar struct {
	// Collection limits the picker to tokens not yet placed in it. Empty
	// lists every owned token.
	Collection string
	Query      string
	Collapsed  []string
	ShowID     bool
	Service    *app.Service
}

func (s *Sidebar) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not list tokens, no service")
	}
	groups, res, err := s.Service.Sidebar(ctx, s.Collection, rows.NewCollapsedSet(s.Collapsed...), s.Query)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: s.ShowID}
	pp.NewLine()
	title := "Tokens"
	if s.Collection != "" {
		title = "Unplaced in " + s.Collection
	}
	pp.TitleWithCount(title, grouping.Count(groups), "token")
	pp.Sidebar(res)
	return nil
}
