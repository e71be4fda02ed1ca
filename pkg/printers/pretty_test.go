package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/curate/pkg/diff"
	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/grouping"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/token"
)

func init() {
	color.NoColor = true
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestRenderGalleryMarksActiveSection(t *testing.T) {
	sections := []gallery.Section{
		{ID: "s1", Title: "Favorites", Columns: 2, Slots: []token.Slot{
			token.Of(token.Token{ID: "t1", Name: "Punk"}),
			token.Whitespace(),
			token.Of(token.Token{ID: "t2", Name: "A very long token name indeed"}),
		}},
		{ID: "s2", Columns: 3, Slots: []token.Slot{}},
	}
	pp := &PrettyPrint{CellWidth: 12}
	out := stripANSI(pp.RenderGallery(rows.Gallery(sections, rows.GalleryOptions{}), "s2"))

	if !strings.Contains(out, "Favorites 2 cols") {
		t.Fatalf("expected header with columns; out=%q", out)
	}
	if !strings.Contains(out, "▸ Untitled section empty") {
		t.Fatalf("expected active empty section header; out=%q", out)
	}
	if !strings.Contains(out, "Punk") {
		t.Fatalf("expected token cell; out=%q", out)
	}
	if strings.Contains(out, "A very long token name indeed") {
		t.Fatalf("expected long names to be truncated; out=%q", out)
	}
	if !strings.Contains(out, "…") {
		t.Fatalf("expected truncation tail; out=%q", out)
	}
}

func TestRenderGalleryEmpty(t *testing.T) {
	pp := &PrettyPrint{}
	if out := stripANSI(pp.RenderGallery(rows.Result{}, "")); !strings.Contains(out, "no sections") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderSidebarHidesCollapsedTokens(t *testing.T) {
	groups := grouping.ByContract([]token.Token{
		{ID: "p1", Name: "Punk 1", ContractID: "punks", ContractName: "Punks"},
		{ID: "a1", Name: "Ape 1", ContractID: "apes", ContractName: "Apes"},
	})
	res := rows.Grouped(groups, rows.NewCollapsedSet("apes"), rows.GroupedOptions{ColumnsPerRow: 2})

	pp := &PrettyPrint{ShowID: true}
	out := stripANSI(pp.RenderSidebar(res))
	if !strings.Contains(out, "▾ Punks (1)") || !strings.Contains(out, "▸ Apes (1)") {
		t.Fatalf("expected both group headers; out=%q", out)
	}
	if !strings.Contains(out, "Punk 1 [p1]") {
		t.Fatalf("expected expanded token with id; out=%q", out)
	}
	if strings.Contains(out, "Ape 1") {
		t.Fatalf("collapsed tokens must not be listed; out=%q", out)
	}
}

func TestRenderPayload(t *testing.T) {
	name := "Renamed"
	p := diff.Payload{
		CollectionID: "col",
		Name:         &name,
		Sections: []diff.Section{
			{ID: "s1", Status: diff.StatusNew, Columns: 3, TokenIDs: []string{"a"}},
			{ID: "s2", Status: diff.StatusUnchanged, Columns: 2, TokenIDs: []string{}},
		},
		Layout:        []string{"s1", "s2"},
		LayoutChanged: true,
		Deleted:       []string{"s0"},
	}
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Payload(p)
	out := stripANSI(buf.String())
	for _, want := range []string{`name: "Renamed"`, "layout: s1, s2", "deleted", "s0", "1 new, 0 updated, 1 unchanged, 1 deleted"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output; out=%q", want, out)
		}
	}

	if out := stripANSI((&PrettyPrint{}).RenderPayload(diff.Payload{})); !strings.Contains(out, "nothing to save") {
		t.Fatalf("unexpected empty payload output %q", out)
	}
}
