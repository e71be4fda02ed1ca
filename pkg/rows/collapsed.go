package rows

import "sort"

// CollapsedSet records which groups are collapsed in a grouped view. It is a
// value type: Toggle returns a new set and leaves the receiver untouched, so
// a set can be shared with a row build in progress.
type CollapsedSet struct {
	ids map[string]struct{}
}

// NewCollapsedSet returns a set containing ids.
func NewCollapsedSet(ids ...string) CollapsedSet {
	s := CollapsedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is collapsed.
func (s CollapsedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len is the number of collapsed ids.
func (s CollapsedSet) Len() int { return len(s.ids) }

// Toggle returns a copy of s with id flipped.
func (s CollapsedSet) Toggle(id string) CollapsedSet {
	next := CollapsedSet{ids: make(map[string]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		next.ids[k] = struct{}{}
	}
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// Slice returns the collapsed ids sorted.
func (s CollapsedSet) Slice() []string {
	out := make([]string, 0, len(s.ids))
	for k := range s.ids {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
