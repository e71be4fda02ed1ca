// Package key prints the legend for gallery and picker output.
package key

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

type glyph struct {
	Symbol  string
	Meaning string
}

var (
	galleryGlyphs = []glyph{
		{Symbol: "▸", Meaning: "active section, new tokens land here"},
		{Symbol: "╭─╮", Meaning: "token"},
		{Symbol: "···", Meaning: "whitespace, kept in the draft but never saved"},
	}
	pickerGlyphs = []glyph{
		{Symbol: "▾", Meaning: "expanded contract group"},
		{Symbol: "▸", Meaning: "collapsed contract group"},
		{Symbol: "(n)", Meaning: "tokens in the group not yet placed"},
	}
)

// Key prints the gallery and picker legends.
type Key struct{}

// Do renders both legends to stdout.
func (k *Key) Do(ctx context.Context) error {
	_, _ = fmt.Fprintln(color.Output, "")
	k.Key(ctx, "Gallery", galleryGlyphs)
	_, _ = fmt.Fprintln(color.Output, "")
	k.Key(ctx, "Picker", pickerGlyphs)
	_, _ = fmt.Fprintln(color.Output, "")
	return nil
}

// Key renders one legend table.
func (k *Key) Key(_ context.Context, title string, glyphs []glyph) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprintf("%10s", title), bold.Sprint("Meaning"))
	for _, g := range glyphs {
		tbl.AddRow(g.Symbol, g.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(color.Output, tbl)
}
