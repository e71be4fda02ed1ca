// Package watch streams store change events to the terminal.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/store"
)

type Watch struct {
	// Collection filters events to one collection. Token and invalidation
	// events are always shown.
	Collection string
	Service    *app.Service
}

func (w *Watch) Do(ctx context.Context) error {
	if w.Service == nil {
		return errors.New("can not watch, no service")
	}
	events, err := w.Service.Watch(ctx)
	if err != nil {
		return err
	}
	faint := color.New(color.Faint)
	_, _ = faint.Fprintln(color.Output, "watching for changes, ctrl-c to stop")
	for ev := range events {
		if !w.wants(ev) {
			continue
		}
		_, _ = faint.Fprint(color.Output, time.Now().Format("15:04:05 "))
		_, _ = fmt.Fprintln(color.Output, describe(ev))
	}
	return nil
}

func (w *Watch) wants(ev store.Event) bool {
	if w.Collection == "" || ev.Collection == "" {
		return true
	}
	return ev.Collection == w.Collection
}

func describe(ev store.Event) string {
	switch ev.Type {
	case store.EventDraftChanged:
		return fmt.Sprintf("draft of %s changed", ev.Collection)
	case store.EventServerChanged:
		return fmt.Sprintf("%s saved", ev.Collection)
	case store.EventTokensChanged:
		return "token pool re-imported"
	default:
		return "store changed"
	}
}
