// Package memstore keeps documents in process memory as decoded JSON objects.
// It backs STORE_DRIVER=memory and the unit tests of the repositories and services.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/go-cmp/cmp"

	"github.com/fastygo/tracker/repository/docstore"
)

const idField = "id"

type Database struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

func New() *Database {
	return &Database{collections: make(map[string]*Collection)}
}

func (d *Database) Driver() string {
	return "memory"
}

func (d *Database) Collection(name string) docstore.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.collections[name]; ok {
		return c
	}
	c := &Collection{name: name, docs: make(map[string]map[string]any)}
	d.collections[name] = c
	return c
}

func (d *Database) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (d *Database) Close(context.Context) error {
	return nil
}

// Collection stores documents in insertion order.
type Collection struct {
	name string

	mu   sync.RWMutex
	ids  []string
	docs map[string]map[string]any
}

func (c *Collection) Name() string {
	return c.name
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

func (c *Collection) FindOne(ctx context.Context, filter docstore.Filter, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, err := c.first(filter)
	if err != nil {
		return err
	}
	if id == "" {
		return docstore.ErrNoDocument
	}
	return decode(c.docs[id], dst)
}

func (c *Collection) Find(ctx context.Context, filter docstore.Filter, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := make([]map[string]any, 0)
	for _, id := range c.ids {
		ok, err := matches(c.docs[id], filter)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, c.docs[id])
		}
	}
	return decode(matched, dst)
}

func (c *Collection) InsertOne(ctx context.Context, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := encode(doc)
	if err != nil {
		return err
	}
	id, _ := encoded[idField].(string)
	if id == "" {
		return docstore.ErrMissingID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return docstore.ErrDuplicate
	}
	c.docs[id] = encoded
	c.ids = append(c.ids, id)
	return nil
}

func (c *Collection) ReplaceOne(ctx context.Context, filter docstore.Filter, doc any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	encoded, err := encode(doc)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.first(filter)
	if err != nil || id == "" {
		return 0, err
	}
	if replacementID, _ := encoded[idField].(string); replacementID != id {
		return 0, fmt.Errorf("docstore: replacement id %q does not match document %q", replacementID, id)
	}
	c.docs[id] = encoded
	return 1, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter docstore.Filter, set map[string]any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	values := make(map[string]any, len(set))
	for k, v := range set {
		nv, err := normalize(v)
		if err != nil {
			return 0, err
		}
		values[k] = nv
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.first(filter)
	if err != nil || id == "" {
		return 0, err
	}
	doc := c.docs[id]
	for k, v := range values {
		doc[k] = v
	}
	current, _ := doc[docstore.VersionField].(float64)
	doc[docstore.VersionField] = current + 1
	return 1, nil
}

// first returns the id of the first matching document, or "" when none match.
// Callers hold c.mu.
func (c *Collection) first(filter docstore.Filter) (string, error) {
	if id, ok := filter.ID(); ok {
		doc, exists := c.docs[id]
		if !exists {
			return "", nil
		}
		matched, err := matches(doc, filter)
		if err != nil || !matched {
			return "", err
		}
		return id, nil
	}
	for _, id := range c.ids {
		matched, err := matches(c.docs[id], filter)
		if err != nil {
			return "", err
		}
		if matched {
			return id, nil
		}
	}
	return "", nil
}

func matches(doc map[string]any, filter docstore.Filter) (bool, error) {
	if id, ok := filter.ID(); ok && doc[idField] != id {
		return false, nil
	}
	for _, cond := range filter.Conditions() {
		want, err := normalize(cond.Value)
		if err != nil {
			return false, err
		}
		got, _ := lookup(doc, cond.Field)
		if !equalValue(got, want) {
			return false, nil
		}
	}
	if expected, ok := filter.Version(); ok {
		stored, present := doc[docstore.VersionField]
		if present && stored != nil && stored != float64(expected) {
			return false, nil
		}
	}
	return true, nil
}

// equalValue follows document-store semantics: a scalar matches an array that contains it.
func equalValue(got, want any) bool {
	if cmp.Equal(got, want) {
		return true
	}
	if arr, ok := got.([]any); ok {
		if _, wantArr := want.([]any); !wantArr {
			for _, el := range arr {
				if cmp.Equal(el, want) {
					return true
				}
			}
		}
	}
	return false
}

func lookup(doc map[string]any, path string) (any, bool) {
	var current any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func encode(doc any) (map[string]any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("docstore: document must encode to an object: %w", err)
	}
	return out, nil
}

func decode(src any, dst any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
