package staged

import (
	"math"

	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/token"
)

// CreateSection appends an empty section with the default column count and
// makes it active.
func (s *State) CreateSection() (*State, string) {
	next := s.clone()
	id := next.uniqueID()
	next.sections[id] = gallery.Section{ID: id, Columns: next.cfg.DefaultColumns, Slots: []token.Slot{}}
	next.order = append(next.order, id)
	next.active = id
	return next, id
}

// DeleteSection removes a section. Its tokens fall back into the unplaced
// pool. ErrLastSection is returned, with the receiver, when the delete would
// break the MinSections policy.
func (s *State) DeleteSection(id string) (*State, error) {
	sec, ok := s.sections[id]
	if !ok {
		return s, nil
	}
	if s.cfg.MinSections > 0 && len(s.order) <= s.cfg.MinSections {
		return s, ErrLastSection
	}
	next := s.clone()
	for _, tid := range sec.TokenIDs() {
		delete(next.locations, tid)
	}
	delete(next.sections, id)
	pos := indexOf(next.order, id)
	next.order = append(next.order[:pos], next.order[pos+1:]...)
	if next.active == id {
		switch {
		case len(next.order) == 0:
			next.active = ""
		case pos > 0:
			next.active = next.order[pos-1]
		default:
			next.active = next.order[0]
		}
	}
	return next, nil
}

// SetColumns sets a section's column count, clamped to [1, MaxColumns].
func (s *State) SetColumns(id string, n int) *State {
	sec, ok := s.sections[id]
	if !ok {
		return s
	}
	n = clamp(n, 1, s.cfg.MaxColumns)
	if sec.Columns == n {
		return s
	}
	next := s.clone()
	sec.Columns = n
	next.sections[id] = sec
	return next
}

// IncrementColumns adds one column, stopping at MaxColumns.
func (s *State) IncrementColumns(id string) *State {
	sec, ok := s.sections[id]
	if !ok {
		return s
	}
	return s.SetColumns(id, sec.Columns+1)
}

// DecrementColumns removes one column, stopping at 1.
func (s *State) DecrementColumns(id string) *State {
	sec, ok := s.sections[id]
	if !ok {
		return s
	}
	return s.SetColumns(id, sec.Columns-1)
}

// Append is an index past the end of any section. Inserts clamp it to the
// section's length.
const Append = math.MaxInt

// PlaceToken inserts t at index in a section. A token already placed
// anywhere in the collection is moved, never duplicated. The index is
// clamped to the section's length after the token's old slot is removed.
func (s *State) PlaceToken(sectionID string, t token.Token, index int) *State {
	if _, ok := s.sections[sectionID]; !ok || t.ID == "" {
		return s
	}
	next := s.clone()
	next.detach(t.ID)
	next.learn(t)
	next.insert(sectionID, token.Of(t), index)
	next.locations[t.ID] = sectionID
	return next
}

// RemoveToken takes a token out of whichever section holds it.
func (s *State) RemoveToken(tokenID string) *State {
	if _, ok := s.locations[tokenID]; !ok {
		return s
	}
	next := s.clone()
	next.detach(tokenID)
	return next
}

// MoveToken moves a token to index in another (or the same) section as one
// transition. A known token that is not yet placed is placed. Unknown
// tokens and unknown target sections leave the state unchanged.
func (s *State) MoveToken(tokenID, toSectionID string, toIndex int) *State {
	if _, ok := s.sections[toSectionID]; !ok {
		return s
	}
	t, ok := s.placedToken(tokenID)
	if !ok {
		if t, ok = s.Token(tokenID); !ok {
			return s
		}
	}
	return s.PlaceToken(toSectionID, t, toIndex)
}

// SetActiveSection selects the section that AddToActive appends to.
func (s *State) SetActiveSection(id string) *State {
	if _, ok := s.sections[id]; !ok || s.active == id {
		return s
	}
	next := s.clone()
	next.active = id
	return next
}

// AddToActive toggles t for the select-to-add flow: a placed token is
// removed, otherwise it is appended to the active section.
func (s *State) AddToActive(t token.Token) *State {
	if _, placed := s.locations[t.ID]; placed {
		return s.RemoveToken(t.ID)
	}
	sec, ok := s.sections[s.active]
	if !ok {
		return s
	}
	return s.PlaceToken(s.active, t, len(sec.Slots))
}

// InsertWhitespace adds a whitespace slot at index.
func (s *State) InsertWhitespace(sectionID string, index int) *State {
	if _, ok := s.sections[sectionID]; !ok {
		return s
	}
	next := s.clone()
	next.insert(sectionID, token.Whitespace(), index)
	return next
}

// RemoveSlot removes the slot at index. Removing a token slot unplaces the
// token.
func (s *State) RemoveSlot(sectionID string, index int) *State {
	sec, ok := s.sections[sectionID]
	if !ok || index < 0 || index >= len(sec.Slots) {
		return s
	}
	if tid := sec.Slots[index].TokenID(); tid != "" {
		return s.RemoveToken(tid)
	}
	next := s.clone()
	sec.Slots = without(sec.Slots, index)
	next.sections[sectionID] = sec
	return next
}

// MoveSection moves a section to position to, clamped to the valid range.
func (s *State) MoveSection(id string, to int) *State {
	from := indexOf(s.order, id)
	if from < 0 {
		return s
	}
	to = clamp(to, 0, len(s.order)-1)
	if from == to {
		return s
	}
	next := s.clone()
	order := append(next.order[:from:from], next.order[from+1:]...)
	order = append(order[:to], append([]string{id}, order[to:]...)...)
	next.order = order
	return next
}

// SetTitle renames a section.
func (s *State) SetTitle(id, title string) *State {
	sec, ok := s.sections[id]
	if !ok || sec.Title == title {
		return s
	}
	next := s.clone()
	sec.Title = title
	next.sections[id] = sec
	return next
}

// SetName renames the collection.
func (s *State) SetName(name string) *State {
	if s.name == name {
		return s
	}
	next := s.clone()
	next.name = name
	return next
}

// SetNote replaces the collector's note.
func (s *State) SetNote(note string) *State {
	if s.note == note {
		return s
	}
	next := s.clone()
	next.note = note
	return next
}

// SetHidden hides or shows the collection.
func (s *State) SetHidden(hidden bool) *State {
	if s.hidden == hidden {
		return s
	}
	next := s.clone()
	next.hidden = hidden
	return next
}

// detach removes a token's slot. Only call on a fresh clone.
func (s *State) detach(tokenID string) bool {
	sectionID, ok := s.locations[tokenID]
	if !ok {
		return false
	}
	sec := s.sections[sectionID]
	for i, slot := range sec.Slots {
		if slot.TokenID() == tokenID {
			sec.Slots = without(sec.Slots, i)
			break
		}
	}
	s.sections[sectionID] = sec
	delete(s.locations, tokenID)
	return true
}

// insert puts slot at index in a section. Only call on a fresh clone.
func (s *State) insert(sectionID string, slot token.Slot, index int) {
	sec := s.sections[sectionID]
	index = clamp(index, 0, len(sec.Slots))
	slots := make([]token.Slot, 0, len(sec.Slots)+1)
	slots = append(slots, sec.Slots[:index]...)
	slots = append(slots, slot)
	slots = append(slots, sec.Slots[index:]...)
	sec.Slots = slots
	s.sections[sectionID] = sec
}

// learn records a token the state has not seen. Only call on a fresh clone.
func (s *State) learn(t token.Token) {
	for _, k := range s.known {
		if k.ID == t.ID {
			return
		}
	}
	s.known = append(s.known[:len(s.known):len(s.known)], t)
}

func (s *State) placedToken(tokenID string) (token.Token, bool) {
	sectionID, ok := s.locations[tokenID]
	if !ok {
		return token.Token{}, false
	}
	for _, slot := range s.sections[sectionID].Slots {
		if t, ok := slot.Token(); ok && t.ID == tokenID {
			return t, true
		}
	}
	return token.Token{}, false
}

func without(slots []token.Slot, i int) []token.Slot {
	out := make([]token.Slot, 0, len(slots)-1)
	out = append(out, slots[:i]...)
	return append(out, slots[i+1:]...)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
