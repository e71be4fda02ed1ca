package hydrate

import (
	"strings"
	"testing"

	"tableflip.dev/curate/pkg/token"
)

func TestLoadFileYAML(t *testing.T) {
	w, err := LoadFile("testdata/wallet.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w.Owner != "0x5d2a6f8b1c" {
		t.Fatalf("unexpected owner %q", w.Owner)
	}
	if len(w.Tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(w.Tokens))
	}
	if len(w.Gallery.Collections) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(w.Gallery.Collections))
	}
	c := w.Gallery.Collections[0]
	if c.Note != "The OGs." {
		t.Fatalf("unexpected note %q", c.Note)
	}
	sec := c.Sections[0]
	if sec.Columns != 3 || len(sec.Slots) != 3 {
		t.Fatalf("unexpected section %+v", sec)
	}
	if !sec.Slots[1].IsWhitespace() {
		t.Fatalf("expected whitespace in the middle")
	}
	tok, ok := sec.Slots[2].Token()
	if !ok || tok.ContractName != "CryptoPunks" {
		t.Fatalf("expected resolved token details, got %+v", tok)
	}
}

func TestDecodeJSONWithoutGallery(t *testing.T) {
	w, err := DecodeJSON([]byte(`{"tokens":[{"id":"a","contractId":"c"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(w.Tokens) != 1 || len(w.Gallery.Collections) != 0 {
		t.Fatalf("unexpected wallet %+v", w)
	}
	if w.Tokens[0] != (token.Token{ID: "a", ContractID: "c"}) {
		t.Fatalf("unexpected token %+v", w.Tokens[0])
	}
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"missing tokens": {
			raw:  `{"owner":"x"}`,
			want: "invalid wallet document",
		},
		"empty token id": {
			raw:  `{"tokens":[{"id":""}]}`,
			want: "invalid wallet document",
		},
		"zero columns": {
			raw:  `{"tokens":[],"gallery":{"collections":[{"id":"c","sections":[{"columns":0}]}]}}`,
			want: "invalid wallet document",
		},
		"token slot without id": {
			raw:  `{"tokens":[],"gallery":{"collections":[{"id":"c","sections":[{"slots":[{"kind":"token"}]}]}]}}`,
			want: "invalid wallet document",
		},
		"unknown token": {
			raw:  `{"tokens":[],"gallery":{"collections":[{"id":"c","sections":[{"id":"s","slots":[{"kind":"token","tokenId":"ghost"}]}]}]}}`,
			want: `unknown token "ghost"`,
		},
		"not json": {
			raw:  `{`,
			want: "hydrate: json",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.raw))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestMissingColumnsStayUnset(t *testing.T) {
	w, err := DecodeJSON([]byte(`{"tokens":[],"gallery":{"collections":[{"id":"c","sections":[{"id":"s"}]}]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cols := w.Gallery.Collections[0].Sections[0].Columns; cols != 0 {
		t.Fatalf("expected unset columns to decode as 0, got %d", cols)
	}
}

func TestDecodeYAMLValidates(t *testing.T) {
	_, err := DecodeYAML([]byte("owner: x\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid wallet document") {
		t.Fatalf("expected schema error, got %v", err)
	}
}
