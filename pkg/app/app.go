package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"tableflip.dev/curate/pkg/diff"
	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/grouping"
	"tableflip.dev/curate/pkg/hydrate"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/staged"
	"tableflip.dev/curate/pkg/store"
	"tableflip.dev/curate/pkg/token"
)

// Service provides high-level operations for drafts and collections.
// It wraps persistence and the staged engine so UIs and CLIs can share logic.
type Service struct {
	Persistence store.Persistence
	Config      store.Config
}

// ErrNoCollection is returned when opening a collection the store has never
// seen.
var ErrNoCollection = errors.New("app: collection not found")

func (s *Service) check() error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	if s.Config == nil {
		return errors.New("app: no config")
	}
	return nil
}

// EngineConfig is the staged engine configuration derived from Config.
func (s *Service) EngineConfig() staged.Config {
	return store.EngineConfig(s.Config)
}

// ImportSummary reports what Import stored.
type ImportSummary struct {
	Tokens      int
	Collections []string
	// Dropped counts duplicate placements removed while normalizing.
	Dropped int
}

// Import replaces the token pool and server copies with a wallet document.
// Server copies are normalized through the engine so they obey the viewer's
// column limits. Existing drafts are kept.
func (s *Service) Import(ctx context.Context, w *hydrate.Wallet) (ImportSummary, error) {
	if err := s.check(); err != nil {
		return ImportSummary{}, err
	}
	sum := ImportSummary{Tokens: len(w.Tokens)}
	if err := s.Persistence.StoreTokens(w.Tokens); err != nil {
		return sum, fmt.Errorf("app: store tokens: %w", err)
	}
	for _, c := range w.Gallery.Collections {
		st, dropped := staged.New(s.EngineConfig(), c, w.Tokens)
		sum.Dropped += dropped
		server := st.Collection()
		if err := s.Persistence.StoreServer(server); err != nil {
			return sum, fmt.Errorf("app: store collection %q: %w", c.ID, err)
		}
		sum.Collections = append(sum.Collections, c.ID)
	}
	glog.Infof("app: imported %d tokens and %d collections", sum.Tokens, len(sum.Collections))
	return sum, nil
}

// Open returns an editor for a collection, resuming its draft when one
// exists.
func (s *Service) Open(ctx context.Context, id string) (*Editor, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	known, err := s.Persistence.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	server, err := s.Persistence.Server(ctx, id)
	haveServer := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	draft, err := s.Persistence.Draft(ctx, id)
	switch {
	case err == nil:
		st, _ := staged.New(s.EngineConfig(), draft.Collection, known)
		st = st.SetActiveSection(draft.Active)
		glog.V(2).Infof("app: resumed draft of %q from %s", id, draft.Updated.Format(time.RFC3339))
		return NewEditor(st, server), nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	if !haveServer {
		return nil, fmt.Errorf("%w: %q", ErrNoCollection, id)
	}
	st, _ := staged.New(s.EngineConfig(), server, known)
	return NewEditor(st, server), nil
}

// Create starts a draft for a collection the server does not have yet.
func (s *Service) Create(ctx context.Context, id, name string) (*Editor, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("app: collection id required")
	}
	if _, err := s.Open(ctx, id); err == nil {
		return nil, fmt.Errorf("app: collection %q already exists", id)
	} else if !errors.Is(err, ErrNoCollection) {
		return nil, err
	}
	known, err := s.Persistence.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	e := NewEditor(staged.Empty(s.EngineConfig(), id, name, known), gallery.Collection{ID: id, Sections: []gallery.Section{}})
	if err := s.Commit(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Commit stores the editor's current state as the collection's draft.
func (s *Service) Commit(_ context.Context, e *Editor) error {
	if err := s.check(); err != nil {
		return err
	}
	st := e.State()
	d := &store.Draft{
		Collection: st.Collection(),
		Active:     st.ActiveSectionID(),
		Updated:    time.Now().UTC(),
	}
	if d.Collection.ID == "" {
		d.Collection.ID = e.Server().ID
	}
	if err := s.Persistence.StoreDraft(d); err != nil {
		return fmt.Errorf("app: store draft: %w", err)
	}
	glog.V(2).Infof("app: committed draft of %q (%d sections)", d.Collection.ID, len(d.Collection.Sections))
	return nil
}

// Edit opens a collection, applies one edit and commits the draft.
func (s *Service) Edit(ctx context.Context, id string, edit func(*staged.State) (*staged.State, error)) (*Editor, error) {
	e, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.Apply(edit); err != nil {
		return e, err
	}
	if err := e.State().Validate(); err != nil {
		return e, fmt.Errorf("app: refusing to commit: %w", err)
	}
	return e, s.Commit(ctx, e)
}

// Discard drops a collection's draft.
func (s *Service) Discard(_ context.Context, id string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.Persistence.DeleteDraft(id)
}

// Save pushes the editor's payload through m. The draft is re-committed
// afterwards so whitespace and edits made during the save survive.
func (s *Service) Save(ctx context.Context, e *Editor, m Mutator) (diff.Payload, error) {
	if err := s.check(); err != nil {
		return diff.Payload{}, err
	}
	p, err := e.Save(ctx, m)
	if err != nil {
		glog.Warningf("app: save of %q failed: %v", p.CollectionID, err)
		return p, err
	}
	return p, s.Commit(ctx, e)
}

// Sidebar groups the unplaced tokens of a collection for the picker. With an
// empty id every owned token is listed.
func (s *Service) Sidebar(ctx context.Context, id string, collapsed rows.CollapsedSet, query string) ([]grouping.Group, rows.Result, error) {
	if err := s.check(); err != nil {
		return nil, rows.Result{}, err
	}
	var pool []token.Token
	if strings.TrimSpace(id) == "" {
		var err error
		if pool, err = s.Persistence.Tokens(ctx); err != nil {
			return nil, rows.Result{}, err
		}
	} else {
		e, err := s.Open(ctx, id)
		if err != nil {
			return nil, rows.Result{}, err
		}
		pool = e.State().Unplaced()
	}
	groups := grouping.Filter(grouping.ByContract(pool), query)
	return groups, rows.Grouped(groups, collapsed, rows.GroupedOptions{ColumnsPerRow: s.Config.ColumnsPerRow()}), nil
}

// Collections lists known collection ids.
func (s *Service) Collections(ctx context.Context) ([]string, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.Persistence.Collections(ctx), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}

// LocalMutator applies payloads to the store's server copies. It stands in
// for the GraphQL mutation when working offline.
type LocalMutator struct {
	Persistence store.Persistence
}

// Mutate records next as the server copy.
func (m *LocalMutator) Mutate(_ context.Context, p diff.Payload, next gallery.Collection) error {
	if m.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	if !p.Changed() {
		glog.V(1).Infof("app: %q has nothing to save", p.CollectionID)
		return nil
	}
	if next.ID == "" {
		return errors.New("app: payload has no collection id")
	}
	if err := m.Persistence.StoreServer(next); err != nil {
		return fmt.Errorf("app: apply payload: %w", err)
	}
	c := p.Counts()
	glog.Infof("app: saved %q: %d new, %d updated, %d deleted sections", p.CollectionID, c["new"], c["updated"], c["deleted"])
	return nil
}
