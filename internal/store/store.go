// Package store holds the document store the resource engines persist to.
// Two backends exist: MongoDB for deployments and an in-memory store for
// local runs and tests.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches an identifier.
	ErrNotFound = errors.New("document not found")
	// ErrRejected is returned when the store refuses a write because of the
	// document itself (duplicate key, collection validation).
	ErrRejected = errors.New("document rejected by store")
	// ErrDuplicate is the ErrRejected case of a unique field clash.
	ErrDuplicate = errors.Wrap(ErrRejected, "duplicate value for a unique field")
)

// Op selects how a Query matches documents.
type Op int

const (
	// All matches every document.
	All Op = iota
	// Contains is a case-insensitive substring match on a string field.
	Contains
	// Between matches a date field in the half-open range [From, To).
	Between
	// Equals is an exact match on a string field.
	Equals
)

// Query is the small set of filters the API needs from a store.
type Query struct {
	Op    Op
	Field string
	Value string
	From  time.Time
	To    time.Time
}

// Collection is one logical collection of documents.
type Collection interface {
	Find(ctx context.Context, q Query) ([]bson.Raw, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (bson.Raw, error)
	Insert(ctx context.Context, doc bson.M) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (bson.Raw, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// EnsureUnique makes each of fields unique across the collection.
	EnsureUnique(ctx context.Context, fields ...string) error
}

// Store hands out collections and owns the underlying connection.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
