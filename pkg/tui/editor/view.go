package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/curate/pkg/rows"
)

const (
	minCell = 6
	maxCell = 18
)

// View implements tea.Model.
func (m *Model) View() string {
	st := m.ed.State()

	header := m.theme.Panel.Title.Render("curate · " + st.Collection().DisplayName())
	if m.saving {
		header += m.theme.Footer.Status.Render("  saving…")
	} else if m.ed.Payload().Changed() {
		header += m.theme.Footer.Status.Render("  unsaved changes")
	}

	pickerWidth := max(24, m.width/3)
	galleryWidth := max(30, m.width-pickerWidth-4)
	bodyHeight := max(5, m.height-6)

	picker := m.frame(m.focus == panePicker).
		Width(pickerWidth).
		Height(bodyHeight).
		Render(clip(m.renderPicker(pickerWidth-4), bodyHeight))
	gallery := m.frame(m.focus == paneGallery).
		Width(galleryWidth).
		Height(bodyHeight).
		Render(clip(m.renderGallery(galleryWidth-4), bodyHeight))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, picker, gallery),
		m.renderFooter(),
	)
}

func (m *Model) frame(focused bool) lipgloss.Style {
	if focused {
		return m.theme.Panel.FocusedFrame
	}
	return m.theme.Panel.Frame
}

func (m *Model) renderFooter() string {
	switch m.mode {
	case inputFilter:
		return m.theme.Footer.Prompt.Render("filter: ") + m.input.View()
	case inputTitle:
		return m.theme.Footer.Prompt.Render("title: ") + m.input.View()
	}
	if m.err != nil {
		return m.theme.Footer.Error.Render(m.err.Error())
	}
	return m.theme.Footer.Help.Render(m.status)
}

// renderPicker draws the grouped picker rows. Token rows hold up to
// ColumnsPerRow cells; the cursor lands on a title row or a single cell.
func (m *Model) renderPicker(width int) string {
	res, counts := m.pickerRows()
	items := itemsOf(res, counts)
	title := "Tokens"
	if m.query != "" {
		title = fmt.Sprintf("Tokens matching %q", m.query)
	}
	lines := []string{m.theme.Panel.Title.Render(title)}
	if len(items) == 0 {
		lines = append(lines, m.theme.Picker.Empty.Render("every token is placed"))
		return strings.Join(lines, "\n")
	}
	cur, hasCur := m.pickerItem(items)
	hasCur = hasCur && m.focus == panePicker
	cell := max(minCell, (width-2)/max(m.columnsPerRow(), 1)-2)

	for i, r := range res.Rows {
		switch r.Kind {
		case rows.KindSectionTitle:
			marker := "▾"
			if r.Collapsed {
				marker = "▸"
			}
			line := truncate.StringWithTail(fmt.Sprintf("%s %s (%d)", marker, r.Title, counts[r.SectionID]), uint(max(width, 4)), "…")
			style := m.theme.Picker.Group
			if hasCur && cur.header && cur.row == i {
				style = m.theme.Picker.Selected
			}
			lines = append(lines, style.Render(line))
		case rows.KindTokens:
			cells := make([]string, 0, len(r.Slots))
			for _, slot := range r.Slots {
				t, ok := slot.Token()
				if !ok {
					continue
				}
				style := m.theme.Picker.Token
				if hasCur && !cur.header && cur.row == i && cur.token.ID == t.ID {
					style = m.theme.Picker.Selected
				}
				label := truncate.StringWithTail(t.DisplayName(), uint(cell), "…")
				cells = append(cells, style.Render(padRight(label, cell)))
			}
			lines = append(lines, "  "+strings.Join(cells, "  "))
		}
	}
	return strings.Join(lines, "\n")
}

// renderGallery draws the staged sections. Token rows come from the row
// builder, so the grid matches what the gallery view would display.
func (m *Model) renderGallery(width int) string {
	st := m.ed.State()
	res := st.Rows(rows.GalleryOptions{SectionSpacers: true})
	current := m.currentSectionID()

	lines := make([]string, 0, len(res.Rows))
	rowInSection := 0
	for _, r := range res.Rows {
		switch r.Kind {
		case rows.KindWhitespaceBlock:
			lines = append(lines, "")
		case rows.KindSectionTitle:
			rowInSection = 0
			lines = append(lines, m.sectionLine(r.SectionID, r.Title, r.SectionID == current))
		case rows.KindTokens:
			cell := min(maxCell, max(minCell, width/max(len(r.Slots), 1)-1))
			sec, _ := st.Section(r.SectionID)
			cells := make([]string, 0, len(r.Slots))
			for j, slot := range r.Slots {
				idx := rowInSection*len(r.Slots) + j
				label := strings.Repeat("·", cell-2)
				style := m.theme.Gallery.Whitespace
				if t, ok := slot.Token(); ok {
					label = truncate.StringWithTail(t.DisplayName(), uint(cell-2), "…")
					style = m.theme.Gallery.Token
				}
				text := "[" + padRight(label, cell-2) + "]"
				if idx >= len(sec.Slots) {
					// Padding that only exists to square off the row.
					text = strings.Repeat(" ", cell)
				} else if m.focus == paneGallery && r.SectionID == current && idx == m.slot {
					style = m.theme.Gallery.Cursor
				}
				cells = append(cells, style.Render(text))
			}
			lines = append(lines, strings.Join(cells, " "))
			rowInSection++
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) sectionLine(id, title string, current bool) string {
	st := m.ed.State()
	sec, _ := st.Section(id)
	if title == "" {
		title = "Untitled section"
	}
	marker := "  "
	style := m.theme.Gallery.Section
	if id == st.ActiveSectionID() {
		marker = "▸ "
		style = m.theme.Gallery.ActiveSection
	}
	if current && m.focus == paneGallery && len(sec.Slots) == 0 {
		style = style.Reverse(true)
	}
	detail := fmt.Sprintf(" %d cols · %d tokens", sec.Columns, len(sec.TokenIDs()))
	return style.Render(marker+title) + m.theme.Gallery.Detail.Render(detail)
}

func padRight(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func clip(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	return strings.Join(lines[:height], "\n")
}
