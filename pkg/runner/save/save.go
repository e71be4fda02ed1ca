// Package save pushes a collection's staged changes through a mutator.
package save

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/printers"
)

type Save struct {
	Collection string
	// Discard drops the draft instead of saving it.
	Discard bool
	Service *app.Service
	// Mutator defaults to a LocalMutator over the service's persistence.
	Mutator app.Mutator
}

func (s *Save) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not save, no service")
	}
	if s.Discard {
		if err := s.Service.Discard(ctx, s.Collection); err != nil {
			return err
		}
		_, _ = color.New(color.Faint).Fprintf(color.Output, "discarded draft of %s\n", s.Collection)
		return nil
	}

	e, err := s.Service.Open(ctx, s.Collection)
	if err != nil {
		return err
	}
	m := s.Mutator
	if m == nil {
		m = &app.LocalMutator{Persistence: s.Service.Persistence}
	}
	p, err := s.Service.Save(ctx, e, m)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Payload(p)
	if p.Changed() {
		_, _ = color.New(color.FgGreen).Fprintf(color.Output, "saved %s\n", p.CollectionID)
	}
	return nil
}
