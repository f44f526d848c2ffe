package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestFilterFor(t *testing.T) {
	from := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	assert.Equal(t, bson.M{}, filterFor(Query{}))
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: `Dr\. Lucky`, Options: "i"}},
		filterFor(Query{Op: Contains, Field: "name", Value: "Dr. Lucky"}))
	assert.Equal(t, bson.M{"date": bson.M{"$gte": from, "$lt": to}},
		filterFor(Query{Op: Between, Field: "date", From: from, To: to}))
	assert.Equal(t, bson.M{"username": "chilli"}, filterFor(Query{Op: Equals, Field: "username", Value: "chilli"}))
}

// setupMongo connects to MONGO_TEST_URI and returns a store on a throwaway
// database that is dropped when the test ends.
func setupMongo(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("school_test_%s", primitive.NewObjectID().Hex())
	s, err := NewMongoStore(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s
}

func TestMongoCollection(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()
	c := s.Collection("students")
	ids := seed(t, c)

	raws, err := c.Find(ctx, Query{Op: Contains, Field: "name", Value: "heeler"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bingo Heeler", "Bluey Heeler"}, names(t, raws))

	raws, err = c.Find(ctx, Query{
		Op: Between, Field: "date",
		From: time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2023, 11, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bingo Heeler"}, names(t, raws))

	raw, err := c.Update(ctx, ids[1], bson.M{"name": "Bluey"})
	require.NoError(t, err)
	assert.Equal(t, "Bluey", raw.Lookup("name").StringValue())

	_, err = c.Update(ctx, primitive.NewObjectID(), bson.M{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Delete(ctx, ids[0]))
	assert.ErrorIs(t, c.Delete(ctx, ids[0]), ErrNotFound)
	_, err = c.FindByID(ctx, ids[0])
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Ping(ctx))
}

func TestMongoUniqueFields(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()
	c := s.Collection("users")
	require.NoError(t, c.EnsureUnique(ctx, "username", "email"))
	require.NoError(t, c.EnsureUnique(ctx, "username", "email"))

	first := primitive.NewObjectID()
	require.NoError(t, c.Insert(ctx, bson.M{"_id": first, "username": "chilli", "email": "chilli@school.org"}))

	err := c.Insert(ctx, bson.M{"_id": primitive.NewObjectID(), "username": "chilli", "email": "other@school.org"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, ErrRejected)

	second := primitive.NewObjectID()
	require.NoError(t, c.Insert(ctx, bson.M{"_id": second, "username": "bandit", "email": "bandit@school.org"}))
	_, err = c.Update(ctx, second, bson.M{"email": "chilli@school.org"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestWriteErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		rejected bool
	}{
		{"duplicate on insert", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, true},
		{"duplicate on update", mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"}, true},
		{"validation on insert", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: documentValidationFailure}}}, true},
		{"validation on update", mongo.CommandError{Code: documentValidationFailure, Message: "Document failed validation"}, true},
		{"other server error", mongo.CommandError{Code: 13, Message: "Unauthorized"}, false},
		{"network", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeErr(tt.err, "updating", "users")
			require.Error(t, err)
			assert.Equal(t, tt.rejected, errors.Is(err, ErrRejected))
		})
	}
	assert.NoError(t, writeErr(nil, "updating", "users"))
}
