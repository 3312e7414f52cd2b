package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/scrimlab/scrim-stats/internal/models"
)

const (
	DefaultMongoDatabase   = "lol_match_database"
	DefaultMongoCollection = "scrim_matches"
)

// MongoStore keeps match documents in a MongoDB collection
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongo connects and pings the server.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: missing connection uri")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	items := make([]interface{}, len(docs))
	for i, doc := range docs {
		items[i] = bson.M(doc)
	}
	res, err := s.collection.InsertMany(ctx, items, options.InsertMany().SetOrdered(true))
	if err != nil {
		return storedBeforeError(len(docs), err), fmt.Errorf("mongo insert: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// storedBeforeError counts the documents an ordered InsertMany wrote before
// failing. The driver fills InsertedIDs for every document, written or not.
// Errors without per-document detail count as nothing written.
func storedBeforeError(total int, err error) int {
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) {
		return 0
	}
	if len(bulkErr.WriteErrors) == 0 {
		// only the write concern failed; every document reached the server
		return total
	}
	first := total
	for _, we := range bulkErr.WriteErrors {
		if we.Index < first {
			first = we.Index
		}
	}
	return first
}

func (s *MongoStore) ListMatches(ctx context.Context) ([]models.RawMatch, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.RawMatch
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		out = append(out, models.RawMatch(normalizeBSON(doc).(map[string]any)))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// normalizeBSON converts driver-specific values into the plain JSON-like
// types the record filter understands.
func normalizeBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeBSON(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeBSON(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Decimal128:
		return val.String()
	}
	return v
}
