// Package diff compares a staged collection with the last known server copy
// and produces the payload a mutation collaborator sends to the backend.
package diff

import (
	"slices"

	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/staged"
)

// Status classifies a section in a save payload.
type Status string

const (
	// StatusNew marks a section the server has not seen.
	StatusNew Status = "new"
	// StatusUpdated marks a server section whose content changed.
	StatusUpdated Status = "updated"
	// StatusUnchanged marks a server section with identical content.
	StatusUnchanged Status = "unchanged"
)

// Section is the persisted shape of one section. Whitespace never reaches
// the server, so only token ids are sent.
type Section struct {
	ID       string   `json:"id" yaml:"id"`
	Status   Status   `json:"status" yaml:"status"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Columns  int      `json:"columns" yaml:"columns"`
	TokenIDs []string `json:"tokenIds" yaml:"tokenIds"`
}

// Payload is everything needed to bring the server in line with the staged
// state.
type Payload struct {
	CollectionID string `json:"collectionId,omitempty" yaml:"collectionId,omitempty"`

	// Name, Note and Hidden are set only when they changed.
	Name   *string `json:"name,omitempty" yaml:"name,omitempty"`
	Note   *string `json:"note,omitempty" yaml:"note,omitempty"`
	Hidden *bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	// Sections are in staged display order.
	Sections []Section `json:"sections" yaml:"sections"`
	// Layout is the staged section order.
	Layout        []string `json:"layout" yaml:"layout"`
	LayoutChanged bool     `json:"layoutChanged,omitempty" yaml:"layoutChanged,omitempty"`
	// Deleted lists server sections missing from the staged state, in server
	// order.
	Deleted []string `json:"deleted" yaml:"deleted"`
}

// Compute builds the save payload. It only reads from s.
func Compute(s *staged.State, server gallery.Collection) Payload {
	p := Payload{
		CollectionID: s.ID(),
		Sections:     make([]Section, 0, s.Len()),
		Layout:       s.Order(),
		Deleted:      []string{},
	}
	if p.CollectionID == "" {
		p.CollectionID = server.ID
	}
	if name := s.Name(); name != server.Name {
		p.Name = &name
	}
	if note := s.Note(); note != server.Note {
		p.Note = &note
	}
	if hidden := s.Hidden(); hidden != server.Hidden {
		p.Hidden = &hidden
	}

	existing := make(map[string]gallery.Section, len(server.Sections))
	serverOrder := make([]string, 0, len(server.Sections))
	for _, sec := range server.Sections {
		existing[sec.ID] = sec
		serverOrder = append(serverOrder, sec.ID)
	}

	stagedIDs := make(map[string]struct{}, s.Len())
	for _, sec := range s.Sections() {
		stagedIDs[sec.ID] = struct{}{}
		out := Section{
			ID:       sec.ID,
			Title:    sec.Title,
			Columns:  sec.Columns,
			TokenIDs: sec.TokenIDs(),
		}
		prev, ok := existing[sec.ID]
		switch {
		case !ok:
			out.Status = StatusNew
		case prev.Columns != sec.Columns || prev.Title != sec.Title || !slices.Equal(prev.TokenIDs(), out.TokenIDs):
			out.Status = StatusUpdated
		default:
			out.Status = StatusUnchanged
		}
		p.Sections = append(p.Sections, out)
	}

	kept := make([]string, 0, len(serverOrder))
	for _, id := range serverOrder {
		if _, ok := stagedIDs[id]; !ok {
			p.Deleted = append(p.Deleted, id)
			continue
		}
		kept = append(kept, id)
	}
	// New sections change the layout too.
	p.LayoutChanged = !slices.Equal(p.Layout, kept)
	return p
}

// Changed reports whether the payload carries any mutation.
func (p Payload) Changed() bool {
	if p.Name != nil || p.Note != nil || p.Hidden != nil || p.LayoutChanged || len(p.Deleted) > 0 {
		return true
	}
	for _, s := range p.Sections {
		if s.Status != StatusUnchanged {
			return true
		}
	}
	return false
}

// Counts tallies sections by status, plus deleted sections under "deleted".
func (p Payload) Counts() map[string]int {
	out := map[string]int{
		string(StatusNew):       0,
		string(StatusUpdated):   0,
		string(StatusUnchanged): 0,
		"deleted":               len(p.Deleted),
	}
	for _, s := range p.Sections {
		out[string(s.Status)]++
	}
	return out
}

// Apply returns the server collection as it will look after the payload is
// persisted. Token details come from the staged state, so the result can be
// stored as the new last known server copy.
func Apply(s *staged.State, p Payload) gallery.Collection {
	c := s.Collection()
	if c.ID == "" {
		c.ID = p.CollectionID
	}
	for i := range c.Sections {
		kept := c.Sections[i].Slots[:0:0]
		for _, slot := range c.Sections[i].Slots {
			if !slot.IsWhitespace() {
				kept = append(kept, slot)
			}
		}
		c.Sections[i].Slots = kept
	}
	return c
}
