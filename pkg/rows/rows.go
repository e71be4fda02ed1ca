// Package rows flattens grouped tokens and collection sections into typed,
// fixed-width rows for a virtualized list.
//
// Two modes exist. Grouped mode feeds the token picker sidebar and never pads
// the final partial row of a group. Gallery mode feeds the collection display
// and always pads the final row of a section with whitespace so every row has
// the section's full width.
package rows

import (
	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/grouping"
	"tableflip.dev/curate/pkg/token"
)

// DefaultColumnsPerRow is the picker's column count when none is configured.
const DefaultColumnsPerRow = 3

// Kind tags the row variant.
type Kind uint8

const (
	// KindSectionTitle is a header row for a group or section.
	KindSectionTitle Kind = iota
	// KindTokens is a horizontal run of slots.
	KindTokens
	// KindWhitespaceBlock is a vertical spacer between sections.
	KindWhitespaceBlock
)

func (k Kind) String() string {
	switch k {
	case KindSectionTitle:
		return "section-title"
	case KindTokens:
		return "tokens"
	case KindWhitespaceBlock:
		return "whitespace-block"
	default:
		return "unknown"
	}
}

// Row is one render-ready line. Which fields are meaningful depends on Kind.
type Row struct {
	Kind Kind

	// SectionID is the section id in gallery mode and the contract id in
	// grouped mode. Set on title and token rows.
	SectionID string
	// Title is set on title rows.
	Title string
	// Collapsed mirrors the enclosing group's collapsed state.
	Collapsed bool

	// Slots is set on token rows.
	Slots []token.Slot
	// IsFirst and IsLast mark the first and last token row of a section.
	IsFirst bool
	IsLast  bool
}

// Result is the output of a build.
type Result struct {
	Rows []Row
	// StickyIndices are the indices of every section-title row.
	StickyIndices []int
}

// GroupedOptions configures Grouped.
type GroupedOptions struct {
	// ColumnsPerRow is the fixed width of picker rows. Values below 1 use
	// DefaultColumnsPerRow.
	ColumnsPerRow int
}

// GalleryOptions configures Gallery.
type GalleryOptions struct {
	// SectionSpacers inserts a whitespace-block row between sections.
	SectionSpacers bool
}

func empty() Result {
	return Result{Rows: []Row{}, StickyIndices: []int{}}
}

// Grouped builds picker rows: a title row per group followed by the group's
// tokens chunked into rows of exactly ColumnsPerRow slots. The final chunk is
// left short.
func Grouped(groups []grouping.Group, collapsed CollapsedSet, opts GroupedOptions) Result {
	res := empty()
	per := opts.ColumnsPerRow
	if per < 1 {
		per = DefaultColumnsPerRow
	}
	for _, g := range groups {
		isCollapsed := collapsed.Has(g.ContractID)
		res.StickyIndices = append(res.StickyIndices, len(res.Rows))
		res.Rows = append(res.Rows, Row{
			Kind:      KindSectionTitle,
			SectionID: g.ContractID,
			Title:     g.Title,
			Collapsed: isCollapsed,
		})
		for start := 0; start < len(g.Tokens); start += per {
			end := min(start+per, len(g.Tokens))
			slots := make([]token.Slot, 0, end-start)
			for _, t := range g.Tokens[start:end] {
				slots = append(slots, token.Of(t))
			}
			res.Rows = append(res.Rows, Row{
				Kind:      KindTokens,
				SectionID: g.ContractID,
				Collapsed: isCollapsed,
				Slots:     slots,
				IsFirst:   start == 0,
				IsLast:    end == len(g.Tokens),
			})
		}
	}
	return res
}

// Gallery builds display rows: a title row per section followed by the
// section's slots chunked by its column count, with the final chunk padded
// with whitespace to full width.
func Gallery(sections []gallery.Section, opts GalleryOptions) Result {
	res := empty()
	for i, s := range sections {
		if opts.SectionSpacers && i > 0 {
			res.Rows = append(res.Rows, Row{Kind: KindWhitespaceBlock})
		}
		res.StickyIndices = append(res.StickyIndices, len(res.Rows))
		res.Rows = append(res.Rows, Row{
			Kind:      KindSectionTitle,
			SectionID: s.ID,
			Title:     s.Title,
		})
		cols := s.Columns
		if cols < 1 {
			cols = 1
		}
		for start := 0; start < len(s.Slots); start += cols {
			end := min(start+cols, len(s.Slots))
			slots := make([]token.Slot, cols)
			copy(slots, s.Slots[start:end])
			for j := end - start; j < cols; j++ {
				slots[j] = token.Whitespace()
			}
			res.Rows = append(res.Rows, Row{
				Kind:      KindTokens,
				SectionID: s.ID,
				Slots:     slots,
				IsFirst:   start == 0,
				IsLast:    end == len(s.Slots),
			})
		}
	}
	return res
}

// Visible drops token rows of collapsed groups and recomputes sticky
// indices. Title rows are always kept.
func Visible(in Result) Result {
	res := empty()
	for _, r := range in.Rows {
		if r.Kind == KindTokens && r.Collapsed {
			continue
		}
		if r.Kind == KindSectionTitle {
			res.StickyIndices = append(res.StickyIndices, len(res.Rows))
		}
		res.Rows = append(res.Rows, r)
	}
	return res
}

// TokenRows returns only the token rows of a result.
func TokenRows(in Result) []Row {
	out := make([]Row, 0, len(in.Rows))
	for _, r := range in.Rows {
		if r.Kind == KindTokens {
			out = append(out, r)
		}
	}
	return out
}
