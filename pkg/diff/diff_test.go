package diff

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/go-playground/assert/v2"

	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/staged"
	"tableflip.dev/curate/pkg/token"
)

func seq() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new%d", n)
	}
}

func serverCollection() gallery.Collection {
	a := token.Token{ID: "a"}
	b := token.Token{ID: "b"}
	c := token.Token{ID: "c"}
	return gallery.Collection{
		ID:   "col1",
		Name: "Punks",
		Sections: []gallery.Section{
			{ID: "s1", Columns: 3, Slots: []token.Slot{token.Of(a), token.Of(b)}},
			{ID: "s2", Columns: 2, Slots: []token.Slot{token.Of(c)}},
			{ID: "s3", Columns: 1},
		},
	}
}

func hydrate(t *testing.T, c gallery.Collection) *staged.State {
	t.Helper()
	s, dropped := staged.New(staged.Config{MaxColumns: 6, NewID: seq()}, c, nil)
	if dropped != 0 {
		t.Fatalf("unexpected dropped placements: %d", dropped)
	}
	return s
}

func TestComputeUnchanged(t *testing.T) {
	server := serverCollection()
	p := Compute(hydrate(t, server), server)
	assert.Equal(t, p.Changed(), false)
	assert.Equal(t, p.CollectionID, "col1")
	assert.Equal(t, p.Layout, []string{"s1", "s2", "s3"})
	assert.Equal(t, p.Deleted, []string{})
	for _, s := range p.Sections {
		assert.Equal(t, s.Status, StatusUnchanged)
	}
}

func TestComputeClassifiesSections(t *testing.T) {
	server := serverCollection()
	s := hydrate(t, server)
	s = s.SetColumns("s1", 4)
	s, _ = s.DeleteSection("s3")
	s, added := s.CreateSection()
	s = s.MoveToken("c", added, 0)

	p := Compute(s, server)
	assert.Equal(t, p.Changed(), true)
	assert.Equal(t, p.Deleted, []string{"s3"})
	assert.Equal(t, p.Layout, []string{"s1", "s2", added})
	assert.Equal(t, p.LayoutChanged, true)

	byID := map[string]Section{}
	for _, sec := range p.Sections {
		byID[sec.ID] = sec
	}
	assert.Equal(t, byID["s1"].Status, StatusUpdated)
	assert.Equal(t, byID["s1"].Columns, 4)
	assert.Equal(t, byID["s1"].TokenIDs, []string{"a", "b"})
	assert.Equal(t, byID["s2"].Status, StatusUpdated)
	assert.Equal(t, byID["s2"].TokenIDs, []string{})
	assert.Equal(t, byID[added].Status, StatusNew)
	assert.Equal(t, byID[added].TokenIDs, []string{"c"})

	counts := p.Counts()
	assert.Equal(t, counts["new"], 1)
	assert.Equal(t, counts["updated"], 2)
	assert.Equal(t, counts["deleted"], 1)
}

func TestComputeStripsWhitespace(t *testing.T) {
	server := serverCollection()
	s := hydrate(t, server).InsertWhitespace("s1", 1).InsertWhitespace("s1", 0)

	p := Compute(s, server)
	assert.Equal(t, p.Sections[0].TokenIDs, []string{"a", "b"})
	// Whitespace only matters locally.
	assert.Equal(t, p.Sections[0].Status, StatusUnchanged)

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["name"]; ok {
		t.Fatalf("unchanged name should be omitted: %s", b)
	}
}

func TestComputeReorderAndMetadata(t *testing.T) {
	server := serverCollection()
	s := hydrate(t, server).MoveSection("s3", 0).SetName("Renamed").SetHidden(true)

	p := Compute(s, server)
	assert.Equal(t, p.LayoutChanged, true)
	assert.Equal(t, *p.Name, "Renamed")
	assert.Equal(t, *p.Hidden, true)
	if p.Note != nil {
		t.Fatalf("note did not change")
	}
	for _, sec := range p.Sections {
		assert.Equal(t, sec.Status, StatusUnchanged)
	}
}

func TestComputeIsReadOnly(t *testing.T) {
	server := serverCollection()
	s := hydrate(t, server).InsertWhitespace("s2", 0)
	before := s.Collection()

	_ = Compute(s, server)
	_ = Apply(s, Compute(s, server))

	assert.Equal(t, s.Collection(), before)
}

func TestApplyProducesNewServerCopy(t *testing.T) {
	server := serverCollection()
	s := hydrate(t, server).InsertWhitespace("s1", 0).SetColumns("s2", 1)

	next := Apply(s, Compute(s, server))
	assert.Equal(t, next.ID, "col1")
	assert.Equal(t, next.Sections[0].TokenIDs(), []string{"a", "b"})
	assert.Equal(t, len(next.Sections[0].Slots), 2)

	again := Compute(s, next)
	assert.Equal(t, again.Changed(), false)
}
