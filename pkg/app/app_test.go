package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"tableflip.dev/curate/pkg/diff"
	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/hydrate"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/staged"
	"tableflip.dev/curate/pkg/store"
	"tableflip.dev/curate/pkg/token"
)

type memoryPersistence struct {
	mu      sync.Mutex
	tokens  []token.Token
	servers map[string]gallery.Collection
	drafts  map[string]store.Draft
}

func newMemoryPersistence(tokens ...token.Token) *memoryPersistence {
	return &memoryPersistence{
		tokens:  append([]token.Token{}, tokens...),
		servers: make(map[string]gallery.Collection),
		drafts:  make(map[string]store.Draft),
	}
}

func (m *memoryPersistence) Tokens(context.Context) ([]token.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]token.Token{}, m.tokens...), nil
}

func (m *memoryPersistence) StoreTokens(tokens []token.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = append([]token.Token{}, tokens...)
	return nil
}

func (m *memoryPersistence) Collections(context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.servers))
	for id := range m.servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *memoryPersistence) Server(_ context.Context, id string) (gallery.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.servers[id]
	if !ok {
		return gallery.Collection{}, store.ErrNotFound
	}
	return c.Clone(), nil
}

func (m *memoryPersistence) StoreServer(c gallery.Collection) error {
	if c.ID == "" {
		return errors.New("missing id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers[c.ID] = c.Clone()
	return nil
}

func (m *memoryPersistence) DeleteServer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.servers, id)
	return nil
}

func (m *memoryPersistence) Draft(_ context.Context, id string) (*store.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d.Collection = d.Collection.Clone()
	return &d, nil
}

func (m *memoryPersistence) StoreDraft(d *store.Draft) error {
	if d == nil || d.Collection.ID == "" {
		return errors.New("missing id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	cp.Collection = d.Collection.Clone()
	m.drafts[d.Collection.ID] = cp
	return nil
}

func (m *memoryPersistence) DeleteDraft(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, errors.New("not implemented")
}

func (m *memoryPersistence) hasDraft(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.drafts[id]
	return ok
}

var (
	punk1 = token.Token{ID: "p1", Name: "Punk 1", ContractID: "punks", ContractName: "CryptoPunks"}
	punk2 = token.Token{ID: "p2", Name: "Punk 2", ContractID: "punks", ContractName: "CryptoPunks"}
	ape1  = token.Token{ID: "a1", Name: "Ape 1", ContractID: "apes", ContractName: "Apes"}
)

func newTestService(t *testing.T) (*Service, *memoryPersistence) {
	t.Helper()
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp, Config: store.StaticConfig(t.TempDir(), 6, 3, 3, 1)}
	w := &hydrate.Wallet{
		Tokens: []token.Token{punk1, punk2, ape1},
		Gallery: gallery.Gallery{Collections: []gallery.Collection{{
			ID:   "col",
			Name: "Mine",
			Sections: []gallery.Section{{
				ID:      "sec-a",
				Columns: 9,
				Slots:   []token.Slot{token.Of(punk1), token.Of(punk1)},
			}},
		}}},
	}
	sum, err := svc.Import(context.Background(), w)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sum.Tokens != 3 || len(sum.Collections) != 1 || sum.Dropped != 1 {
		t.Fatalf("unexpected import summary %+v", sum)
	}
	return svc, mp
}

func TestImportNormalizesServerCopies(t *testing.T) {
	_, mp := newTestService(t)
	c, err := mp.Server(context.Background(), "col")
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	if c.Sections[0].Columns != 6 {
		t.Fatalf("expected columns clamped to 6, got %d", c.Sections[0].Columns)
	}
	if ids := c.Sections[0].TokenIDs(); len(ids) != 1 || ids[0] != "p1" {
		t.Fatalf("expected duplicate placement dropped, got %v", ids)
	}
}

func TestImportUsesDefaultColumnsWhenUnset(t *testing.T) {
	ctx := context.Background()
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp, Config: store.StaticConfig(t.TempDir(), 6, 4, 3, 1)}
	w, err := hydrate.DecodeJSON([]byte(`{"tokens":[{"id":"p1","contractId":"punks"}],
		"gallery":{"collections":[{"id":"col","sections":[{"id":"s1","slots":[{"kind":"token","tokenId":"p1"}]}]}]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := svc.Import(ctx, w); err != nil {
		t.Fatalf("import: %v", err)
	}
	c, err := mp.Server(ctx, "col")
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	if c.Sections[0].Columns != 4 {
		t.Fatalf("expected configured default of 4 columns, got %d", c.Sections[0].Columns)
	}
}

func TestOpenPrefersDraft(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)

	e, err := svc.Edit(ctx, "col", func(s *staged.State) (*staged.State, error) {
		return s.SetName("Renamed").AddToActive(ape1), nil
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !mp.hasDraft("col") {
		t.Fatalf("expected draft to be committed")
	}
	if got := e.State().Name(); got != "Renamed" {
		t.Fatalf("expected renamed editor, got %q", got)
	}

	again, err := svc.Open(ctx, "col")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if again.State().Name() != "Renamed" {
		t.Fatalf("expected draft to be resumed, got %q", again.State().Name())
	}
	if again.Server().Name != "Mine" {
		t.Fatalf("expected server copy to be untouched, got %q", again.Server().Name)
	}
	if _, _, ok := again.State().Location("a1"); !ok {
		t.Fatalf("expected a1 to be placed in the resumed draft")
	}

	if err := svc.Discard(ctx, "col"); err != nil {
		t.Fatalf("discard: %v", err)
	}
	fresh, err := svc.Open(ctx, "col")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if fresh.State().Name() != "Mine" {
		t.Fatalf("expected server copy after discard, got %q", fresh.State().Name())
	}
}

func TestOpenUnknownCollection(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Open(context.Background(), "nope"); !errors.Is(err, ErrNoCollection) {
		t.Fatalf("expected ErrNoCollection, got %v", err)
	}
}

func TestCreateStartsEmptyDraft(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)

	e, err := svc.Create(ctx, "fresh", "Fresh")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.State().Len() != 1 {
		t.Fatalf("expected one section, got %d", e.State().Len())
	}
	if !mp.hasDraft("fresh") {
		t.Fatalf("expected draft for new collection")
	}
	if _, err := svc.Create(ctx, "fresh", "Again"); err == nil {
		t.Fatalf("expected error creating an existing collection")
	}
	if _, err := svc.Create(ctx, "col", "Dup"); err == nil {
		t.Fatalf("expected error creating over a server collection")
	}

	p, err := svc.Save(ctx, e, &LocalMutator{Persistence: mp})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if c := p.Counts(); c["new"] != 1 {
		t.Fatalf("expected one new section, got %v", c)
	}
	if ids := mp.Collections(ctx); len(ids) != 2 {
		t.Fatalf("expected created collection on the server, got %v", ids)
	}
}

func TestEditErrorLeavesDraftAlone(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)

	_, err := svc.Edit(ctx, "col", func(s *staged.State) (*staged.State, error) {
		return s.DeleteSection("sec-a")
	})
	if !errors.Is(err, staged.ErrLastSection) {
		t.Fatalf("expected ErrLastSection, got %v", err)
	}
	if mp.hasDraft("col") {
		t.Fatalf("failed edit must not commit a draft")
	}
}

func TestSidebarListsUnplacedTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	groups, res, err := svc.Sidebar(ctx, "col", rows.NewCollapsedSet(), "")
	if err != nil {
		t.Fatalf("sidebar: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].ContractID != "punks" || len(groups[0].Tokens) != 1 || groups[0].Tokens[0].ID != "p2" {
		t.Fatalf("expected p1 to be excluded as placed, got %+v", groups[0])
	}
	if len(res.StickyIndices) != 2 {
		t.Fatalf("expected a sticky header per group, got %v", res.StickyIndices)
	}

	groups, _, err = svc.Sidebar(ctx, "", rows.NewCollapsedSet("apes"), "ape")
	if err != nil {
		t.Fatalf("sidebar: %v", err)
	}
	if len(groups) != 1 || groups[0].ContractID != "apes" {
		t.Fatalf("expected only apes, got %+v", groups)
	}
}

func TestSaveAdvancesServerCopy(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)

	e, err := svc.Edit(ctx, "col", func(s *staged.State) (*staged.State, error) {
		return s.InsertWhitespace("sec-a", 0).AddToActive(punk2), nil
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	p, err := svc.Save(ctx, e, &LocalMutator{Persistence: mp})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.Sections[0].Status != diff.StatusUpdated {
		t.Fatalf("expected updated section, got %+v", p.Sections[0])
	}

	server, _ := mp.Server(ctx, "col")
	if ids := server.Sections[0].TokenIDs(); len(ids) != 2 || ids[1] != "p2" {
		t.Fatalf("unexpected server ids %v", ids)
	}
	for _, slot := range server.Sections[0].Slots {
		if slot.IsWhitespace() {
			t.Fatalf("whitespace must not reach the server")
		}
	}
	if after := e.Payload(); after.Changed() {
		t.Fatalf("expected no changes after save, got %+v", after)
	}

	d, err := mp.Draft(ctx, "col")
	if err != nil {
		t.Fatalf("expected draft to survive save: %v", err)
	}
	if !d.Collection.Sections[0].Slots[0].IsWhitespace() {
		t.Fatalf("expected whitespace to stay in the draft")
	}
}

func TestFailedSaveKeepsState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	e, err := svc.Edit(ctx, "col", func(s *staged.State) (*staged.State, error) {
		return s.SetTitle("sec-a", "Best"), nil
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	before := e.State()
	boom := errors.New("boom")
	_, err = svc.Save(ctx, e, MutatorFunc(func(context.Context, diff.Payload, gallery.Collection) error {
		return boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if e.State() != before {
		t.Fatalf("failed save must not touch the staged state")
	}
	if e.Server().Sections[0].Title != "" {
		t.Fatalf("failed save must not advance the server copy")
	}
	if !e.Payload().Changed() {
		t.Fatalf("expected pending changes after failed save")
	}
}

func TestEditsContinueDuringSave(t *testing.T) {
	ctx := context.Background()
	svc, mp := newTestService(t)
	e, err := svc.Open(ctx, "col")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	e.Update(func(s *staged.State) *staged.State { return s.SetName("First") })

	started := make(chan struct{})
	release := make(chan struct{})
	local := &LocalMutator{Persistence: mp}
	blocking := MutatorFunc(func(ctx context.Context, p diff.Payload, next gallery.Collection) error {
		close(started)
		<-release
		return local.Mutate(ctx, p, next)
	})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Save(ctx, e, blocking)
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("save never reached the mutator")
	}
	// The editor must stay usable while the mutation is in flight.
	for i := 0; i < 5; i++ {
		e.Update(func(s *staged.State) *staged.State {
			return s.SetNote(fmt.Sprintf("note %d", i))
		})
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := e.State().Note(); got != "note 4" {
		t.Fatalf("expected edits during save to survive, got %q", got)
	}
	server, _ := mp.Server(ctx, "col")
	if server.Name != "First" || server.Note != "" {
		t.Fatalf("expected server to hold the snapshot that was sent, got %+v", server)
	}
	p := e.Payload()
	if p.Name != nil || p.Note == nil || *p.Note != "note 4" {
		t.Fatalf("expected only the note to be pending, got %+v", p)
	}
}
