// Package resource implements the CRUD and search operations shared by every
// entity kind. An Engine is parameterized by a Descriptor and the record type
// documents are decoded into.
package resource

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/store"
)

type Engine[T any] struct {
	desc Descriptor
	coll store.Collection
}

func NewEngine[T any](desc Descriptor, s store.Store) *Engine[T] {
	return &Engine[T]{desc: desc, coll: s.Collection(desc.Collection)}
}

func (e *Engine[T]) Descriptor() Descriptor { return e.desc }

// EnsureIndexes sets up the unique fields of every kind on s. It must run
// before the engines serve writes.
func EnsureIndexes(ctx context.Context, s store.Store, kinds ...Descriptor) error {
	for _, d := range kinds {
		if len(d.Unique) == 0 {
			continue
		}
		if err := s.Collection(d.Collection).EnsureUnique(ctx, d.Unique...); err != nil {
			return errors.Wrapf(err, "indexing %s", d.Kind)
		}
	}
	return nil
}

// List returns every record in store order. An empty collection yields an
// empty, non-nil slice.
func (e *Engine[T]) List(ctx context.Context) ([]T, error) {
	raws, err := e.coll.Find(ctx, store.Query{Op: store.All})
	if err != nil {
		return nil, Unavailable(err, "listing %s", e.desc.Kind)
	}
	return e.decodeAll(raws)
}

// Search matches value against the descriptor's search field. It fails with
// KindNotFound when nothing matches.
func (e *Engine[T]) Search(ctx context.Context, value string) ([]T, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, InvalidInput("%s query parameter is required", e.desc.SearchParam)
	}

	q := store.Query{Field: e.desc.SearchField}
	switch e.desc.Match {
	case DayRange:
		day, err := time.Parse(DateLayout, value)
		if err != nil {
			return nil, InvalidInput("%s must be a YYYY-MM-DD date", e.desc.SearchParam)
		}
		q.Op, q.From, q.To = store.Between, day, day.AddDate(0, 0, 1)
	default:
		q.Op, q.Value = store.Contains, value
	}

	raws, err := e.coll.Find(ctx, q)
	if err != nil {
		return nil, Unavailable(err, "searching %s", e.desc.Kind)
	}
	if len(raws) == 0 {
		return nil, NotFound("no %s found for %s=%s", e.desc.Kind, e.desc.SearchParam, value)
	}
	return e.decodeAll(raws)
}

// Lookup returns the first record whose field equals value exactly.
func (e *Engine[T]) Lookup(ctx context.Context, field, value string) (T, error) {
	var zero T
	raws, err := e.coll.Find(ctx, store.Query{Op: store.Equals, Field: field, Value: value})
	if err != nil {
		return zero, Unavailable(err, "looking up %s", e.desc.Kind)
	}
	if len(raws) == 0 {
		return zero, NotFound("%s with %s %s not found", e.desc.Name, field, value)
	}
	return e.decode(raws[0])
}

func (e *Engine[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	oid, err := e.parseID(id)
	if err != nil {
		return zero, err
	}
	raw, err := e.coll.FindByID(ctx, oid)
	if err != nil {
		return zero, fromStore(err, e.desc, id)
	}
	return e.decode(raw)
}

// Create validates fields, applies defaults and stores a new record under a
// fresh identifier.
func (e *Engine[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var zero T
	doc, err := e.desc.document(fields, false)
	if err != nil {
		return zero, err
	}
	id := primitive.NewObjectID()
	doc["_id"] = id

	if err := e.coll.Insert(ctx, doc); err != nil {
		return zero, fromStore(err, e.desc, id.Hex())
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return zero, Unavailable(err, "encoding %s", e.desc.Name)
	}
	return e.decode(raw)
}

// Update sets the supplied fields on an existing record and returns the
// result. Fields that are not supplied keep their values.
func (e *Engine[T]) Update(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T
	oid, err := e.parseID(id)
	if err != nil {
		return zero, err
	}
	set, err := e.desc.document(fields, true)
	if err != nil {
		return zero, err
	}
	if len(set) == 0 {
		return zero, InvalidInput("no fields to update")
	}

	raw, err := e.coll.Update(ctx, oid, set)
	if err != nil {
		return zero, fromStore(err, e.desc, id)
	}
	return e.decode(raw)
}

func (e *Engine[T]) Delete(ctx context.Context, id string) error {
	oid, err := e.parseID(id)
	if err != nil {
		return err
	}
	if err := e.coll.Delete(ctx, oid); err != nil {
		return fromStore(err, e.desc, id)
	}
	return nil
}

func (e *Engine[T]) parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, InvalidInput("invalid %s id %q", e.desc.Name, id)
	}
	return oid, nil
}

func (e *Engine[T]) decode(raw bson.Raw) (T, error) {
	var v T
	if err := bson.Unmarshal(raw, &v); err != nil {
		return v, Unavailable(errors.Wrap(err, "decoding document"), "reading %s", e.desc.Name)
	}
	return v, nil
}

func (e *Engine[T]) decodeAll(raws []bson.Raw) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := e.decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
