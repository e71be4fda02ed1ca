package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/token"
)

// ErrNotFound is returned when a key has never been stored.
var ErrNotFound = errors.New("store: not found")

// Draft is a staged collection saved between CLI invocations. Whitespace
// slots are kept; they are stripped only when a payload is computed.
type Draft struct {
	Collection gallery.Collection `json:"collection"`
	Active     string             `json:"active,omitempty"`
	Updated    time.Time          `json:"updated"`
}

// Persistence defines the local storage contract for the editing host.
type Persistence interface {
	// Tokens returns the viewer's owned tokens in hydration order.
	Tokens(ctx context.Context) ([]token.Token, error)
	StoreTokens(tokens []token.Token) error

	// Collections lists the ids of collections with a server snapshot.
	Collections(ctx context.Context) []string
	Server(ctx context.Context, id string) (gallery.Collection, error)
	StoreServer(c gallery.Collection) error
	DeleteServer(id string) error

	Draft(ctx context.Context, id string) (*Draft, error)
	StoreDraft(d *Draft) error
	DeleteDraft(id string) error

	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	bucketTokens = "tokens"
	bucketServer = "server"
	bucketDraft  = "draft"

	tokensKey = bucketTokens + "-all"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	glog.V(1).Infof("store: opening %s", basePath)
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string, v any) error {
	if strings.HasSuffix(key, "-") || !p.d.Has(key) {
		return ErrNotFound
	}
	val, err := p.d.Read(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(val, v)
}

func (p *persistence) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	return p.d.Write(key, data)
}

func (p *persistence) erase(key string) error {
	if strings.HasSuffix(key, "-") || !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

func (p *persistence) Tokens(_ context.Context) ([]token.Token, error) {
	var tokens []token.Token
	if err := p.read(tokensKey, &tokens); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []token.Token{}, nil
		}
		return nil, fmt.Errorf("store: read tokens: %w", err)
	}
	return tokens, nil
}

func (p *persistence) StoreTokens(tokens []token.Token) error {
	if tokens == nil {
		tokens = []token.Token{}
	}
	return p.write(tokensKey, tokens)
}

func (p *persistence) Collections(ctx context.Context) []string {
	ids := make([]string, 0)
	for key := range p.d.KeysPrefix(bucketServer+"-", ctx.Done()) {
		pk := keyToPathTransform(key)
		id, err := fromID(pk.FileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p *persistence) Server(_ context.Context, id string) (gallery.Collection, error) {
	var raw json.RawMessage
	if err := p.read(toKey(bucketServer, id), &raw); err != nil {
		return gallery.Collection{}, err
	}
	c, err := gallery.UnmarshalCollection(raw)
	if err != nil {
		return gallery.Collection{}, fmt.Errorf("store: decode server copy of %q: %w", id, err)
	}
	return c, nil
}

func (p *persistence) StoreServer(c gallery.Collection) error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("store: collection id required")
	}
	return p.write(toKey(bucketServer, c.ID), c)
}

func (p *persistence) DeleteServer(id string) error {
	return p.erase(toKey(bucketServer, id))
}

func (p *persistence) Draft(_ context.Context, id string) (*Draft, error) {
	d := &Draft{}
	if err := p.read(toKey(bucketDraft, id), d); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *persistence) StoreDraft(d *Draft) error {
	if d == nil || strings.TrimSpace(d.Collection.ID) == "" {
		return errors.New("store: draft collection id required")
	}
	if d.Updated.IsZero() {
		d.Updated = time.Now().UTC()
	}
	return p.write(toKey(bucketDraft, d.Collection.ID), d)
}

func (p *persistence) DeleteDraft(id string) error {
	return p.erase(toKey(bucketDraft, id))
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `bucket-hexid`. Ids are hex encoded so they are safe as file
// names and never contain the key separator.
func toKey(bucket, id string) string {
	return fmt.Sprintf("%s-%s", bucket, toID(id))
}

func toID(s string) string {
	return hex.EncodeToString([]byte(s))
}

func fromID(s string) (string, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("fromID: %w", err)
	}
	return string(b), nil
}
