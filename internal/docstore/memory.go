package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// MemoryStore keeps documents in process, encoded the same way the Postgres
// store encodes them. Used as the store double in tests and by the CLI dry runs.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	err         error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
	}
}

// SetErr makes every subsequent operation fail with err (nil resets).
func (s *MemoryStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemoryStore) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{store: s}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Ping(context.Context) error {
	return s.failure()
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

type memoryDoc struct {
	id     ID
	fields map[string]any
}

type uniqueIndex struct {
	field  string
	sparse bool
}

type memoryCollection struct {
	store   *MemoryStore
	mu      sync.RWMutex
	docs    []*memoryDoc
	uniques []uniqueIndex
}

func (c *memoryCollection) FindOne(ctx context.Context, filter Filter, out any) error {
	if err := c.store.failure(); err != nil {
		return err
	}
	id, fields, err := filter.split()
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.docs {
		if d.matches(id, fields) {
			return decodeFields(d.fields, out)
		}
	}
	return ErrNotFound
}

func (c *memoryCollection) Find(ctx context.Context, filter Filter, limit int64, out any) error {
	if err := c.store.failure(); err != nil {
		return err
	}
	id, fields, err := filter.split()
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	found := make([]map[string]any, 0)
	for _, d := range c.docs {
		if limit > 0 && int64(len(found)) >= limit {
			break
		}
		if d.matches(id, fields) {
			found = append(found, d.fields)
		}
	}
	return decodeFields(found, out)
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc Document) error {
	return c.InsertMany(ctx, []Document{doc})
}

func (c *memoryCollection) InsertMany(_ context.Context, docs []Document) error {
	if err := c.store.failure(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range docs {
		id := doc.DocumentID()
		if id.IsZero() {
			return fmt.Errorf("%w: document without id", ErrInvalidID)
		}
		fields, err := toFields(doc)
		if err != nil {
			return err
		}
		newDoc := &memoryDoc{id: id, fields: fields}
		for _, existing := range c.docs {
			if existing.id == id {
				return fmt.Errorf("%w: id %s", ErrDuplicate, id)
			}
		}
		if err := c.checkUnique(newDoc, nil); err != nil {
			return err
		}
		c.docs = append(c.docs, newDoc)
	}
	return nil
}

func (c *memoryCollection) UpdateOne(_ context.Context, filter Filter, set map[string]any) (bool, error) {
	if err := c.store.failure(); err != nil {
		return false, err
	}
	if err := checkSet(set); err != nil {
		return false, err
	}
	id, fields, err := filter.split()
	if err != nil {
		return false, err
	}
	normalizedSet, err := toFields(set)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if !d.matches(id, fields) {
			continue
		}
		updated := &memoryDoc{id: d.id, fields: make(map[string]any, len(d.fields))}
		for k, v := range d.fields {
			updated.fields[k] = v
		}
		for k, v := range normalizedSet {
			updated.fields[k] = v
		}
		if err := c.checkUnique(updated, d); err != nil {
			return false, err
		}
		d.fields = updated.fields
		return true, nil
	}
	return false, nil
}

func (c *memoryCollection) DeleteOne(_ context.Context, filter Filter) (bool, error) {
	if err := c.store.failure(); err != nil {
		return false, err
	}
	id, fields, err := filter.split()
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		if d.matches(id, fields) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (c *memoryCollection) DeleteMany(_ context.Context, filter Filter) (int64, error) {
	if err := c.store.failure(); err != nil {
		return 0, err
	}
	id, fields, err := filter.split()
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.docs[:0]
	var deleted int64
	for _, d := range c.docs {
		if d.matches(id, fields) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return deleted, nil
}

func (c *memoryCollection) EnsureUniqueIndex(_ context.Context, field string, sparse bool) error {
	if err := c.store.failure(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.uniques {
		if u.field == field {
			return nil
		}
	}
	c.uniques = append(c.uniques, uniqueIndex{field: field, sparse: sparse})
	return nil
}

// checkUnique must be called with c.mu held; self is skipped when updating.
func (c *memoryCollection) checkUnique(doc *memoryDoc, self *memoryDoc) error {
	for _, u := range c.uniques {
		val, has := doc.fields[u.field]
		if u.sparse && (!has || val == nil) {
			continue
		}
		for _, other := range c.docs {
			if other == self {
				continue
			}
			otherVal, otherHas := other.fields[u.field]
			if u.sparse && (!otherHas || otherVal == nil) {
				continue
			}
			if reflect.DeepEqual(val, otherVal) {
				return fmt.Errorf("%w: %s", ErrDuplicate, u.field)
			}
		}
	}
	return nil
}

func (d *memoryDoc) matches(id *ID, fields map[string]any) bool {
	if id != nil && d.id != *id {
		return false
	}
	for k, want := range fields {
		got, ok := d.fields[k]
		if !ok {
			return false
		}
		normalized, err := normalize(want)
		if err != nil || !reflect.DeepEqual(got, normalized) {
			return false
		}
	}
	return true
}

// toFields encodes v through JSON into a generic field map.
func toFields(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("decode document fields: %w", err)
	}
	return fields, nil
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	return out, json.Unmarshal(b, &out)
}

func decodeFields(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode stored document: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode stored document: %w", err)
	}
	return nil
}
