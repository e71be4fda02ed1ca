// Package hydrate decodes wallet documents: the owned tokens of a viewer and,
// optionally, their gallery as last seen on the server. Documents may be JSON
// or YAML and are validated against an embedded JSON Schema before decoding.
package hydrate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/token"
)

//go:embed wallet.schema.json
var walletSchema string

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = jsonschema.CompileString("wallet.schema.json", walletSchema)
	})
	return compiled, compileErr
}

// Wallet is a decoded wallet document.
type Wallet struct {
	Owner   string
	Tokens  []token.Token
	Gallery gallery.Gallery
}

type slotDoc struct {
	Kind    string `json:"kind"`
	TokenID string `json:"tokenId,omitempty"`
}

type sectionDoc struct {
	ID      string    `json:"id"`
	Title   string    `json:"title,omitempty"`
	Columns int       `json:"columns,omitempty"`
	Slots   []slotDoc `json:"slots,omitempty"`
}

type collectionDoc struct {
	ID       string       `json:"id"`
	Name     string       `json:"name,omitempty"`
	Note     string       `json:"note,omitempty"`
	Hidden   bool         `json:"hidden,omitempty"`
	Sections []sectionDoc `json:"sections,omitempty"`
}

type walletDoc struct {
	Owner   string        `json:"owner,omitempty"`
	Tokens  []token.Token `json:"tokens"`
	Gallery struct {
		ID          string          `json:"id,omitempty"`
		Name        string          `json:"name,omitempty"`
		Collections []collectionDoc `json:"collections,omitempty"`
	} `json:"gallery"`
}

// LoadFile reads a wallet document. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON.
func LoadFile(path string) (*Wallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(raw)
	default:
		return DecodeJSON(raw)
	}
}

// DecodeYAML decodes a YAML wallet document.
func DecodeYAML(raw []byte) (*Wallet, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("hydrate: yaml: %w", err)
	}
	data, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("hydrate: yaml to json: %w", err)
	}
	return DecodeJSON(data)
}

// DecodeJSON decodes a JSON wallet document.
func DecodeJSON(raw []byte) (*Wallet, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("hydrate: json: %w", err)
	}
	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("hydrate: compile schema: %w", err)
	}
	if err := s.Validate(generic); err != nil {
		return nil, fmt.Errorf("hydrate: invalid wallet document: %w", err)
	}
	var doc walletDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("hydrate: json: %w", err)
	}
	return doc.resolve()
}

func (d *walletDoc) resolve() (*Wallet, error) {
	w := &Wallet{
		Owner:  d.Owner,
		Tokens: d.Tokens,
		Gallery: gallery.Gallery{
			ID:          d.Gallery.ID,
			Name:        d.Gallery.Name,
			Collections: make([]gallery.Collection, 0, len(d.Gallery.Collections)),
		},
	}
	if w.Tokens == nil {
		w.Tokens = []token.Token{}
	}
	byID := make(map[string]token.Token, len(d.Tokens))
	for _, t := range d.Tokens {
		byID[t.ID] = t
	}

	var errs []error
	for _, cd := range d.Gallery.Collections {
		c := gallery.Collection{
			ID:       cd.ID,
			Name:     cd.Name,
			Note:     cd.Note,
			Hidden:   cd.Hidden,
			Sections: make([]gallery.Section, 0, len(cd.Sections)),
		}
		for _, sd := range cd.Sections {
			sec := gallery.Section{
				ID:      sd.ID,
				Title:   sd.Title,
				Columns: sd.Columns,
				Slots:   make([]token.Slot, 0, len(sd.Slots)),
			}
			for _, slot := range sd.Slots {
				if slot.Kind == token.KindWhitespace.String() {
					sec.Slots = append(sec.Slots, token.Whitespace())
					continue
				}
				t, ok := byID[slot.TokenID]
				if !ok {
					errs = append(errs, fmt.Errorf("collection %q section %q: unknown token %q", cd.ID, sd.ID, slot.TokenID))
					continue
				}
				sec.Slots = append(sec.Slots, token.Of(t))
			}
			c.Sections = append(c.Sections, sec)
		}
		w.Gallery.Collections = append(w.Gallery.Collections, c)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("hydrate: %w", errors.Join(errs...))
	}
	return w, nil
}
