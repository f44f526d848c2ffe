package resource_test

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/store"
)

var errDown = errors.New("connection refused")

// failingStore fails every call like an unreachable database.
type failingStore struct{}

func (failingStore) Collection(string) store.Collection { return failingCollection{} }
func (failingStore) Ping(context.Context) error         { return errDown }
func (failingStore) Close(context.Context) error        { return nil }

type failingCollection struct{}

func (failingCollection) Find(context.Context, store.Query) ([]bson.Raw, error) {
	return nil, errDown
}

func (failingCollection) FindByID(context.Context, primitive.ObjectID) (bson.Raw, error) {
	return nil, errDown
}

func (failingCollection) Insert(context.Context, bson.M) error { return errDown }

func (failingCollection) Update(context.Context, primitive.ObjectID, bson.M) (bson.Raw, error) {
	return nil, errDown
}

func (failingCollection) Delete(context.Context, primitive.ObjectID) error { return errDown }

func (failingCollection) EnsureUnique(context.Context, ...string) error { return errDown }
