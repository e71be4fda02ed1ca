// Package staged holds the local, not-yet-persisted edit model of one
// collection.
//
// A State is copy-on-write: every operation returns a new *State and leaves
// the receiver untouched, so a renderer holding the previous state never
// observes a half-applied edit. Operations that reference a section or token
// that no longer exists return the receiver unchanged. Only policy failures,
// such as deleting the last section, return an error.
package staged

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"
	"golang.org/x/exp/maps"

	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/token"
)

const (
	// DefaultMaxColumns applies when Config.MaxColumns is unset.
	DefaultMaxColumns = 6
	// DefaultColumns applies when Config.DefaultColumns is unset.
	DefaultColumns = 3
)

// ErrLastSection is returned when a delete would leave fewer sections than
// Config.MinSections.
var ErrLastSection = errors.New("staged: cannot delete the last section")

// Config is supplied by the caller at construction time.
type Config struct {
	// MaxColumns is the viewer's column entitlement.
	MaxColumns int
	// DefaultColumns is the column count of new sections.
	DefaultColumns int
	// MinSections is the fewest sections a collection may keep. Zero means
	// no policy.
	MinSections int
	// NewID generates section ids. Defaults to ULIDs.
	NewID func() string
}

func (c Config) normalized() Config {
	if c.MaxColumns < 1 {
		c.MaxColumns = DefaultMaxColumns
	}
	if c.DefaultColumns < 1 {
		c.DefaultColumns = DefaultColumns
	}
	c.DefaultColumns = clamp(c.DefaultColumns, 1, c.MaxColumns)
	if c.MinSections < 0 {
		c.MinSections = 0
	}
	if c.NewID == nil {
		c.NewID = func() string { return ulid.Make().String() }
	}
	return c
}

// State is one collection under edit.
type State struct {
	cfg Config

	id     string
	name   string
	note   string
	hidden bool

	sections map[string]gallery.Section
	order    []string
	active   string

	// known is every token the viewer owns. Never mutated in place.
	known []token.Token
	// locations maps a placed token id to its section id.
	locations map[string]string
}

// Empty returns a state for a new collection with a single empty section.
func Empty(cfg Config, id, name string, known []token.Token) *State {
	s, _ := New(cfg, gallery.Collection{ID: id, Name: name}, known)
	return s
}

// New hydrates a state from a collection as last seen on the server. Tokens
// placed in the collection but missing from known are added to it. Duplicate
// placements after the first are dropped. Sections without a column count get
// DefaultColumns. A collection with no sections gets one empty section. The
// returned count is the number of dropped duplicates.
func New(cfg Config, c gallery.Collection, known []token.Token) (*State, int) {
	cfg = cfg.normalized()
	s := &State{
		cfg:       cfg,
		id:        c.ID,
		name:      c.Name,
		note:      c.Note,
		hidden:    c.Hidden,
		sections:  make(map[string]gallery.Section, len(c.Sections)),
		order:     make([]string, 0, len(c.Sections)),
		known:     append([]token.Token(nil), known...),
		locations: make(map[string]string),
	}
	seenKnown := make(map[string]struct{}, len(known))
	for _, t := range known {
		seenKnown[t.ID] = struct{}{}
	}

	dropped := 0
	for _, sec := range c.Sections {
		id := sec.ID
		if _, dup := s.sections[id]; id == "" || dup {
			id = s.uniqueID()
		}
		cols := sec.Columns
		if cols < 1 {
			// Unset in the source document.
			cols = cfg.DefaultColumns
		}
		out := gallery.Section{
			ID:      id,
			Title:   sec.Title,
			Columns: clamp(cols, 1, cfg.MaxColumns),
			Slots:   make([]token.Slot, 0, len(sec.Slots)),
		}
		for _, slot := range sec.Slots {
			t, ok := slot.Token()
			if !ok {
				out.Slots = append(out.Slots, token.Whitespace())
				continue
			}
			if where, placed := s.locations[t.ID]; placed {
				glog.Warningf("staged: collection %q: token %s already placed in section %s, dropping from %s", c.ID, t.ID, where, id)
				dropped++
				continue
			}
			if _, ok := seenKnown[t.ID]; !ok {
				seenKnown[t.ID] = struct{}{}
				s.known = append(s.known, t)
			}
			s.locations[t.ID] = id
			out.Slots = append(out.Slots, slot)
		}
		s.sections[id] = out
		s.order = append(s.order, id)
	}
	if len(s.order) == 0 {
		id := s.uniqueID()
		s.sections[id] = gallery.Section{ID: id, Columns: cfg.DefaultColumns, Slots: []token.Slot{}}
		s.order = append(s.order, id)
	}
	s.active = s.order[len(s.order)-1]
	return s, dropped
}

func (s *State) uniqueID() string {
	for {
		id := s.cfg.NewID()
		if _, taken := s.sections[id]; !taken && id != "" {
			return id
		}
	}
}

// clone copies the containers. Section values are shared; their slot slices
// are replaced, never written, by later edits.
func (s *State) clone() *State {
	next := *s
	next.sections = maps.Clone(s.sections)
	next.order = append([]string(nil), s.order...)
	next.locations = maps.Clone(s.locations)
	return &next
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Config returns the normalized configuration.
func (s *State) Config() Config { return s.cfg }

// ID is the collection id, empty for a collection not yet on the server.
func (s *State) ID() string { return s.id }

// Name is the collection name.
func (s *State) Name() string { return s.name }

// Note is the collector's note.
func (s *State) Note() string { return s.note }

// Hidden reports whether the collection is hidden from the gallery.
func (s *State) Hidden() bool { return s.hidden }

// ActiveSectionID is the section that receives tokens added via AddToActive.
func (s *State) ActiveSectionID() string { return s.active }

// Order returns the section ids in display order.
func (s *State) Order() []string {
	return append([]string(nil), s.order...)
}

// Len is the number of sections.
func (s *State) Len() int { return len(s.order) }

// Section returns a copy of the section with id.
func (s *State) Section(id string) (gallery.Section, bool) {
	sec, ok := s.sections[id]
	if !ok {
		return gallery.Section{}, false
	}
	return sec.Clone(), true
}

// Sections returns copies of the sections in display order.
func (s *State) Sections() []gallery.Section {
	out := make([]gallery.Section, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sections[id].Clone())
	}
	return out
}

// Location reports the section and slot index holding tokenID.
func (s *State) Location(tokenID string) (string, int, bool) {
	sectionID, ok := s.locations[tokenID]
	if !ok {
		return "", -1, false
	}
	for i, slot := range s.sections[sectionID].Slots {
		if slot.TokenID() == tokenID {
			return sectionID, i, true
		}
	}
	return "", -1, false
}

// Known returns every token the viewer owns.
func (s *State) Known() []token.Token {
	return append([]token.Token(nil), s.known...)
}

// Token looks up a known token by id.
func (s *State) Token(id string) (token.Token, bool) {
	for _, t := range s.known {
		if t.ID == id {
			return t, true
		}
	}
	return token.Token{}, false
}

// Unplaced returns known tokens that are in no section, in known order.
func (s *State) Unplaced() []token.Token {
	out := make([]token.Token, 0, len(s.known))
	for _, t := range s.known {
		if _, placed := s.locations[t.ID]; !placed {
			out = append(out, t)
		}
	}
	return out
}

// Collection snapshots the state as plain collection data.
func (s *State) Collection() gallery.Collection {
	return gallery.Collection{
		ID:       s.id,
		Name:     s.name,
		Note:     s.note,
		Hidden:   s.hidden,
		Sections: s.Sections(),
	}
}

// Rows builds gallery-mode rows for the sections in display order.
func (s *State) Rows(opts rows.GalleryOptions) rows.Result {
	ordered := make([]gallery.Section, 0, len(s.order))
	for _, id := range s.order {
		ordered = append(ordered, s.sections[id])
	}
	return rows.Gallery(ordered, opts)
}

// Validate checks the structural invariants: order and sections agree, each
// token id occupies one slot, the reverse index matches the slots, and
// column counts are within bounds.
func (s *State) Validate() error {
	if len(s.order) != len(s.sections) {
		return fmt.Errorf("staged: order has %d ids but %d sections exist", len(s.order), len(s.sections))
	}
	seen := make(map[string]string, len(s.locations))
	for _, id := range s.order {
		sec, ok := s.sections[id]
		if !ok {
			return fmt.Errorf("staged: order references unknown section %s", id)
		}
		if sec.Columns < 1 || sec.Columns > s.cfg.MaxColumns {
			return fmt.Errorf("staged: section %s has %d columns, want 1..%d", id, sec.Columns, s.cfg.MaxColumns)
		}
		for _, slot := range sec.Slots {
			tid := slot.TokenID()
			if tid == "" {
				continue
			}
			if where, dup := seen[tid]; dup {
				return fmt.Errorf("staged: token %s placed in both %s and %s", tid, where, id)
			}
			seen[tid] = id
		}
	}
	if len(seen) != len(s.locations) {
		return fmt.Errorf("staged: reverse index has %d tokens, slots hold %d", len(s.locations), len(seen))
	}
	for tid, where := range seen {
		if s.locations[tid] != where {
			return fmt.Errorf("staged: reverse index puts %s in %s, slots put it in %s", tid, s.locations[tid], where)
		}
	}
	if s.active != "" {
		if _, ok := s.sections[s.active]; !ok {
			return fmt.Errorf("staged: active section %s does not exist", s.active)
		}
	}
	return nil
}
