package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fatih/color"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/token"
)

const defaultCellWidth = 14

type PrettyPrint struct {
	ShowID    bool
	CellWidth int
	Out       io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) cellWidth() int {
	if pp.CellWidth < 4 {
		return defaultCellWidth
	}
	return pp.CellWidth
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Gallery prints gallery rows as a grid of boxed cells.
func (pp *PrettyPrint) Gallery(res rows.Result, active string) {
	_, _ = fmt.Fprintln(pp.out(), pp.RenderGallery(res, active))
}

var (
	tokenCell = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	whitespaceCell = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder()).
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Bold(true)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// RenderGallery renders gallery rows. The active section's header is
// highlighted.
func (pp *PrettyPrint) RenderGallery(res rows.Result, active string) string {
	if len(res.Rows) == 0 {
		return faintStyle.Render("  no sections")
	}
	w := pp.cellWidth()
	lines := make([]string, 0, len(res.Rows))
	for i, r := range res.Rows {
		switch r.Kind {
		case rows.KindSectionTitle:
			lines = append(lines, pp.sectionHeader(res.Rows, i, active))
		case rows.KindWhitespaceBlock:
			lines = append(lines, "")
		case rows.KindTokens:
			cells := make([]string, 0, len(r.Slots))
			for _, slot := range r.Slots {
				cells = append(cells, pp.cell(slot, w))
			}
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
	}
	return strings.Join(lines, "\n")
}

func (pp *PrettyPrint) sectionHeader(all []rows.Row, i int, active string) string {
	r := all[i]
	title := r.Title
	if title == "" {
		title = "Untitled section"
	}
	marker, style := "  ", sectionStyle
	if r.SectionID == active {
		marker, style = "▸ ", activeStyle
	}
	detail := "empty"
	if i+1 < len(all) && all[i+1].Kind == rows.KindTokens {
		detail = fmt.Sprintf("%d cols", len(all[i+1].Slots))
	}
	if pp.ShowID {
		detail = r.SectionID + " · " + detail
	}
	return style.Render(marker+title) + " " + faintStyle.Render(detail)
}

func (pp *PrettyPrint) cell(slot token.Slot, w int) string {
	inner := w - 4
	t, ok := slot.Token()
	if !ok {
		return whitespaceCell.Width(w).Render(strings.Repeat("·", inner))
	}
	body := truncate.StringWithTail(t.DisplayName(), uint(inner), "…")
	if pp.ShowID {
		body += "\n" + faintStyle.Render(truncate.StringWithTail(t.ID, uint(inner), "…"))
	}
	return tokenCell.Width(w).Render(body)
}
