package store

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/token"
)

func TestPersistenceRoundTrips(t *testing.T) {
	ctx := context.Background()
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tokens, err := p.Tokens(ctx)
	if err != nil || len(tokens) != 0 {
		t.Fatalf("expected empty token pool, got %v (err=%v)", tokens, err)
	}
	pool := []token.Token{{ID: "a", ContractID: "c"}, {ID: "b/with-dash", ContractID: "c"}}
	if err := p.StoreTokens(pool); err != nil {
		t.Fatalf("store tokens: %v", err)
	}
	if got, _ := p.Tokens(ctx); len(got) != 2 || got[1].ID != "b/with-dash" {
		t.Fatalf("unexpected tokens %v", got)
	}

	server := gallery.Collection{
		ID:   "col/1-x",
		Name: "Punks",
		Sections: []gallery.Section{{
			ID:      "s1",
			Columns: 2,
			Slots:   []token.Slot{token.Of(pool[0]), token.Whitespace()},
		}},
	}
	if err := p.StoreServer(server); err != nil {
		t.Fatalf("store server: %v", err)
	}
	got, err := p.Server(ctx, "col/1-x")
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	if got.Name != "Punks" || len(got.Sections[0].Slots) != 2 || !got.Sections[0].Slots[1].IsWhitespace() {
		t.Fatalf("unexpected server copy %+v", got)
	}
	if ids := p.Collections(ctx); len(ids) != 1 || ids[0] != "col/1-x" {
		t.Fatalf("unexpected collections %v", ids)
	}

	if _, err := p.Draft(ctx, "col/1-x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing draft, got %v", err)
	}
	if err := p.StoreDraft(&Draft{Collection: server, Active: "s1"}); err != nil {
		t.Fatalf("store draft: %v", err)
	}
	d, err := p.Draft(ctx, "col/1-x")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if d.Active != "s1" || d.Updated.IsZero() {
		t.Fatalf("unexpected draft %+v", d)
	}

	if err := p.DeleteDraft("col/1-x"); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if err := p.DeleteDraft("col/1-x"); err != nil {
		t.Fatalf("deleting twice should be quiet: %v", err)
	}
	if err := p.DeleteServer("col/1-x"); err != nil {
		t.Fatalf("delete server: %v", err)
	}
	if _, err := p.Server(ctx, "col/1-x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistenceRejectsEmptyIDs(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.StoreServer(gallery.Collection{}); err == nil {
		t.Fatalf("expected error for empty collection id")
	}
	if err := p.StoreDraft(&Draft{}); err == nil {
		t.Fatalf("expected error for empty draft id")
	}
	if _, err := p.Server(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestKeyTransformsRoundTrip(t *testing.T) {
	key := toKey(bucketDraft, "weird-id/with stuff")
	pk := keyToPathTransform(key)
	if len(pk.Path) != 1 || pk.Path[0] != bucketDraft {
		t.Fatalf("unexpected path %v", pk.Path)
	}
	if back := pathToKeyTransform(pk); back != key {
		t.Fatalf("expected %q, got %q", key, back)
	}
	id, err := fromID(pk.FileName)
	if err != nil || id != "weird-id/with stuff" {
		t.Fatalf("unexpected id %q (err=%v)", id, err)
	}
}

func TestStaticConfigFeedsEngine(t *testing.T) {
	cfg := StaticConfig("/tmp/x", 8, 4, 3, 1)
	ec := EngineConfig(cfg)
	if ec.MaxColumns != 8 || ec.DefaultColumns != 4 || ec.MinSections != 1 {
		t.Fatalf("unexpected engine config %+v", ec)
	}
}
