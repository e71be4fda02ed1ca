// Package token defines owned tokens and the slots that hold them inside a
// section grid.
package token

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Token is an owned digital token. Tokens are immutable values; the ID is
// globally unique and stable.
type Token struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	ContractID   string `json:"contractId,omitempty" yaml:"contractId,omitempty"`
	ContractName string `json:"contractName,omitempty" yaml:"contractName,omitempty"`
	// Media is an opaque reference handed to the asset renderer.
	Media string `json:"media,omitempty" yaml:"media,omitempty"`
}

// DisplayName returns the name, falling back to the id.
func (t Token) DisplayName() string {
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return t.ID
}

// Kind tags the variant held by a Slot.
type Kind uint8

const (
	// KindWhitespace is a placeholder slot with no token.
	KindWhitespace Kind = iota
	// KindToken holds a token.
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindWhitespace:
		return "whitespace"
	case KindToken:
		return "token"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// parseKind converts the wire name of a slot kind.
func parseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "whitespace":
		return KindWhitespace, nil
	case "token":
		return KindToken, nil
	default:
		return KindWhitespace, fmt.Errorf("token: unknown slot kind %q", raw)
	}
}

// Slot is one position in a section grid: either a token or whitespace.
// The zero value is whitespace.
type Slot struct {
	kind  Kind
	token Token
}

// Whitespace returns an empty placeholder slot.
func Whitespace() Slot {
	return Slot{kind: KindWhitespace}
}

// Of returns a slot holding t.
func Of(t Token) Slot {
	return Slot{kind: KindToken, token: t}
}

// Kind reports the slot variant.
func (s Slot) Kind() Kind { return s.kind }

// IsWhitespace reports whether the slot is a placeholder.
func (s Slot) IsWhitespace() bool { return s.kind == KindWhitespace }

// Token returns the held token and true, or false for whitespace.
func (s Slot) Token() (Token, bool) {
	if s.kind != KindToken {
		return Token{}, false
	}
	return s.token, true
}

// TokenID returns the held token id, or "" for whitespace.
func (s Slot) TokenID() string {
	if s.kind != KindToken {
		return ""
	}
	return s.token.ID
}

func (s Slot) String() string {
	switch s.kind {
	case KindToken:
		return s.token.DisplayName()
	default:
		return "·"
	}
}

type wireSlot struct {
	Kind  string `json:"kind" yaml:"kind"`
	Token *Token `json:"token,omitempty" yaml:"token,omitempty"`
}

func (s Slot) wire() wireSlot {
	w := wireSlot{Kind: s.kind.String()}
	if s.kind == KindToken {
		t := s.token
		w.Token = &t
	}
	return w
}

// MarshalJSON writes the tagged form {"kind":"token","token":{...}} or
// {"kind":"whitespace"}.
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// MarshalYAML writes the same tagged form as MarshalJSON.
func (s Slot) MarshalYAML() (interface{}, error) {
	return s.wire(), nil
}

// UnmarshalJSON reads the tagged form written by MarshalJSON.
func (s *Slot) UnmarshalJSON(b []byte) error {
	var w wireSlot
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	return s.fromWire(w)
}

// UnmarshalYAML reads the tagged form from a yaml.v3 node.
func (s *Slot) UnmarshalYAML(value *yaml.Node) error {
	var w wireSlot
	if err := value.Decode(&w); err != nil {
		return err
	}
	return s.fromWire(w)
}

func (s *Slot) fromWire(w wireSlot) error {
	kind, err := parseKind(w.Kind)
	if err != nil {
		return err
	}
	switch kind {
	case KindToken:
		if w.Token == nil || w.Token.ID == "" {
			return fmt.Errorf("token: slot of kind %q has no token id", w.Kind)
		}
		*s = Of(*w.Token)
	default:
		*s = Whitespace()
	}
	return nil
}

// IDs returns the token ids held by slots, in order, skipping whitespace.
func IDs(slots []Slot) []string {
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		if id := s.TokenID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
