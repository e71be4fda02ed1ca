package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/curate/pkg/rows"
)

// Sidebar prints picker rows. Collapsed groups keep their header.
func (pp *PrettyPrint) Sidebar(res rows.Result) {
	if len(res.Rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no tokens\n\n")
		return
	}
	_, _ = fmt.Fprintln(pp.out(), pp.RenderSidebar(res))
}

// RenderSidebar lays picker rows out as one table per group, one cell per
// token.
func (pp *PrettyPrint) RenderSidebar(res rows.Result) string {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	w := uint(pp.cellWidth())

	var b strings.Builder
	var tbl *uitable.Table
	flush := func() {
		if tbl != nil && len(tbl.Rows) > 0 {
			b.WriteString(tbl.String())
			b.WriteString("\n")
		}
		tbl = nil
	}
	for i, r := range res.Rows {
		switch r.Kind {
		case rows.KindSectionTitle:
			flush()
			marker := "▾"
			if r.Collapsed {
				marker = "▸"
			}
			b.WriteString(bold.Sprintf("%s %s", marker, r.Title))
			if n := countTokens(res.Rows[i+1:]); n > 0 {
				b.WriteString(faint.Sprintf(" (%d)", n))
			}
			b.WriteString("\n")
			tbl = uitable.New()
			tbl.Separator = "  "
		case rows.KindTokens:
			if r.Collapsed || tbl == nil {
				continue
			}
			cells := make([]interface{}, 0, len(r.Slots)+1)
			cells = append(cells, " ")
			for _, slot := range r.Slots {
				t, _ := slot.Token()
				label := truncate.StringWithTail(t.DisplayName(), w, "…")
				if pp.ShowID {
					label = fmt.Sprintf("%s %s", label, faint.Sprintf("[%s]", t.ID))
				}
				cells = append(cells, label)
			}
			tbl.AddRow(cells...)
		}
	}
	flush()
	return strings.TrimRight(b.String(), "\n")
}

// countTokens sums token slots up to the next title row.
func countTokens(rs []rows.Row) int {
	n := 0
	for _, r := range rs {
		if r.Kind == rows.KindSectionTitle {
			break
		}
		n += len(r.Slots)
	}
	return n
}
