// Package importer loads a wallet document into the local store.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/hydrate"
)

type Import struct {
	Path    string
	Service *app.Service
}

func (i *Import) Do(ctx context.Context) error {
	if i.Service == nil {
		return errors.New("can not import, no service")
	}
	w, err := hydrate.LoadFile(i.Path)
	if err != nil {
		return err
	}
	sum, err := i.Service.Import(ctx, w)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	_, _ = bold.Fprintf(color.Output, "Imported %d tokens", sum.Tokens)
	_, _ = faint.Fprintf(color.Output, " from %s\n", i.Path)
	for _, id := range sum.Collections {
		_, _ = fmt.Fprintf(color.Output, "  %s\n", id)
	}
	if sum.Dropped > 0 {
		_, _ = color.New(color.FgYellow).Fprintf(color.Output, "Dropped %d duplicate placements\n", sum.Dropped)
	}
	return nil
}
