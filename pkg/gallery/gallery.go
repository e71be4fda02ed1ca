// Package gallery holds the plain data shapes of galleries, collections and
// sections as they are hydrated from, and persisted to, the server.
package gallery

import (
	"encoding/json"
	"strings"

	"tableflip.dev/curate/pkg/token"
)

// Section is an editable sub-grid of a collection with its own column count.
type Section struct {
	ID      string       `json:"id" yaml:"id"`
	Title   string       `json:"title,omitempty" yaml:"title,omitempty"`
	Columns int          `json:"columns" yaml:"columns"`
	Slots   []token.Slot `json:"slots" yaml:"slots"`
}

// Clone returns a copy that shares no slot storage with s.
func (s Section) Clone() Section {
	out := s
	out.Slots = append([]token.Slot(nil), s.Slots...)
	if out.Slots == nil {
		out.Slots = []token.Slot{}
	}
	return out
}

// TokenIDs returns the ordered token ids of the section, skipping whitespace.
func (s Section) TokenIDs() []string {
	return token.IDs(s.Slots)
}

// Collection is an ordered list of sections plus its display metadata.
type Collection struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Note     string    `json:"note,omitempty" yaml:"note,omitempty"`
	Hidden   bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section looks up a section by id.
func (c Collection) Section(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	out := c
	out.Sections = make([]Section, len(c.Sections))
	for i, s := range c.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// DisplayName returns the collection name or a placeholder.
func (c Collection) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return "Untitled"
}

// Gallery is an ordered list of collections.
type Gallery struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Collections []Collection `json:"collections" yaml:"collections"`
}

// Collection looks up a collection by id.
func (g Gallery) Collection(id string) (Collection, bool) {
	for _, c := range g.Collections {
		if c.ID == id {
			return c, true
		}
	}
	return Collection{}, false
}

// MarshalCollection serialises a collection for storage.
func MarshalCollection(c Collection) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// UnmarshalCollection deserialises a stored collection. Sections with a
// non-positive column count are upgraded to a single column.
func UnmarshalCollection(data []byte) (Collection, error) {
	var c Collection
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Collection{}, err
	}
	for i := range c.Sections {
		if c.Sections[i].Columns < 1 {
			c.Sections[i].Columns = 1
		}
		if c.Sections[i].Slots == nil {
			c.Sections[i].Slots = []token.Slot{}
		}
	}
	if c.Sections == nil {
		c.Sections = []Section{}
	}
	return c, nil
}
