// Package diff prints the pending save payload of a collection.
package diff

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/printers"
)

type Diff struct {
	Collection string
	Output     string
	Service    *app.Service
}

func (d *Diff) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("can not diff, no service")
	}
	e, err := d.Service.Open(ctx, d.Collection)
	if err != nil {
		return err
	}
	p := e.Payload()
	if d.Output != "" && d.Output != printers.FormatPretty {
		return printers.Encode(color.Output, d.Output, p)
	}
	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Title("Changes to " + p.CollectionID)
	pp.Payload(p)
	return nil
}
