package store

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// documentValidationFailure is the server code for a write refused by a
// collection's $jsonSchema validator.
const documentValidationFailure = 121

// MongoStore is a Store backed by a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongodb")
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx, readpref.Primary()), "pinging mongodb")
}

func (s *MongoStore) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "disconnecting from mongodb")
}

type mongoCollection struct {
	coll *mongo.Collection
}

func filterFor(q Query) bson.M {
	switch q.Op {
	case Contains:
		return bson.M{q.Field: primitive.Regex{Pattern: regexp.QuoteMeta(q.Value), Options: "i"}}
	case Between:
		return bson.M{q.Field: bson.M{"$gte": q.From, "$lt": q.To}}
	case Equals:
		return bson.M{q.Field: q.Value}
	default:
		return bson.M{}
	}
}

func (c *mongoCollection) Find(ctx context.Context, q Query) ([]bson.Raw, error) {
	cursor, err := c.coll.Find(ctx, filterFor(q))
	if err != nil {
		return nil, errors.Wrapf(err, "finding documents in %s", c.coll.Name())
	}
	defer cursor.Close(ctx)

	docs := make([]bson.Raw, 0)
	for cursor.Next(ctx) {
		docs = append(docs, append(bson.Raw(nil), cursor.Current...))
	}
	return docs, errors.Wrapf(cursor.Err(), "reading documents from %s", c.coll.Name())
}

func (c *mongoCollection) FindByID(ctx context.Context, id primitive.ObjectID) (bson.Raw, error) {
	raw, err := c.coll.FindOne(ctx, bson.M{"_id": id}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding %s in %s", id.Hex(), c.coll.Name())
	}
	return raw, nil
}

func (c *mongoCollection) Insert(ctx context.Context, doc bson.M) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return writeErr(err, "inserting into", c.coll.Name())
}

func (c *mongoCollection) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (bson.Raw, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	raw, err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, writeErr(err, "updating", c.coll.Name())
	}
	return raw, nil
}

func (c *mongoCollection) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "deleting %s from %s", id.Hex(), c.coll.Name())
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) EnsureUnique(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	indexes := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(f + "_unique"),
		})
	}
	_, err := c.coll.Indexes().CreateMany(ctx, indexes)
	return errors.Wrapf(err, "creating unique indexes on %s", c.coll.Name())
}

// writeErr separates writes the server refused because of the document from
// infrastructure failures. InsertOne reports them as a WriteException and
// FindOneAndUpdate as a CommandError; both are ServerErrors.
func writeErr(err error, action, collection string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrapf(ErrDuplicate, "%s %s: %v", action, collection, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(documentValidationFailure) {
		return errors.Wrapf(ErrRejected, "%s %s: %v", action, collection, err)
	}
	return errors.Wrapf(err, "%s %s", action, collection)
}
