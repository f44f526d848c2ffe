package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents in process memory. Documents are returned in
// insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{name: name, docs: make(map[primitive.ObjectID]bson.M)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

type memoryCollection struct {
	name   string
	mu     sync.RWMutex
	order  []primitive.ObjectID
	docs   map[primitive.ObjectID]bson.M
	unique []string
}

func matches(doc bson.M, q Query) bool {
	switch q.Op {
	case Contains:
		s, ok := doc[q.Field].(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(q.Value))
	case Between:
		t, ok := doc[q.Field].(time.Time)
		return ok && !t.Before(q.From) && t.Before(q.To)
	case Equals:
		s, ok := doc[q.Field].(string)
		return ok && s == q.Value
	default:
		return true
	}
}

func (c *memoryCollection) Find(_ context.Context, q Query) ([]bson.Raw, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]bson.Raw, 0)
	for _, id := range c.order {
		doc := c.docs[id]
		if !matches(doc, q) {
			continue
		}
		raw, err := bson.Marshal(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s from %s", id.Hex(), c.name)
		}
		docs = append(docs, raw)
	}
	return docs, nil
}

func (c *memoryCollection) FindByID(_ context.Context, id primitive.ObjectID) (bson.Raw, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.encode(id)
}

func (c *memoryCollection) Insert(_ context.Context, doc bson.M) error {
	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok {
		return errors.Wrapf(ErrRejected, "inserting into %s: missing _id", c.name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return errors.Wrapf(ErrDuplicate, "inserting into %s: _id %s", c.name, id.Hex())
	}
	if field, clash := c.clash(id, doc); clash {
		return errors.Wrapf(ErrDuplicate, "inserting into %s: %s", c.name, field)
	}
	stored := make(bson.M, len(doc))
	for k, v := range doc {
		stored[k] = v
	}
	c.docs[id] = stored
	c.order = append(c.order, id)
	return nil
}

func (c *memoryCollection) Update(_ context.Context, id primitive.ObjectID, set bson.M) (bson.Raw, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if field, clash := c.clash(id, set); clash {
		return nil, errors.Wrapf(ErrDuplicate, "updating %s: %s", c.name, field)
	}
	for k, v := range set {
		doc[k] = v
	}
	return c.encode(id)
}

func (c *memoryCollection) Delete(_ context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, other := range c.order {
		if other == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// EnsureUnique fails if documents already stored clash on one of fields.
func (c *memoryCollection) EnsureUnique(_ context.Context, fields ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range fields {
		seen := make(map[string]primitive.ObjectID)
		for _, id := range c.order {
			s, ok := c.docs[id][f].(string)
			if !ok {
				continue
			}
			if other, dup := seen[s]; dup {
				return errors.Wrapf(ErrDuplicate, "indexing %s.%s: %s and %s", c.name, f, other.Hex(), id.Hex())
			}
			seen[s] = id
		}
	}
	for _, f := range fields {
		if !slices.Contains(c.unique, f) {
			c.unique = append(c.unique, f)
		}
	}
	return nil
}

// clash reports the first unique field on which values collides with a
// document other than self. It expects the caller to hold c.mu.
func (c *memoryCollection) clash(self primitive.ObjectID, values bson.M) (string, bool) {
	for _, f := range c.unique {
		s, ok := values[f].(string)
		if !ok {
			continue
		}
		for id, doc := range c.docs {
			if id != self && doc[f] == s {
				return f, true
			}
		}
	}
	return "", false
}

// encode expects the caller to hold c.mu.
func (c *memoryCollection) encode(id primitive.ObjectID) (bson.Raw, error) {
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s from %s", id.Hex(), c.name)
	}
	return raw, nil
}
