package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/machinery-hub/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection        = "users"
	MachinesCollection     = "machines"
	MachineTypesCollection = "machinetypes"
	RegionsCollection      = "regions"
)

// ConnectMongoDB connects to uri, verifies the connection and returns the
// named database.
func ConnectMongoDB(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connection failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	return client.Database(dbName), nil
}

// EnsureIndexes creates the unique indexes that back the uniqueness rules
// of users, machines, machine types and regions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		UsersCollection:        {unique("username"), unique("email")},
		MachinesCollection:     {unique("name"), {Keys: bson.D{{Key: "types", Value: 1}}}},
		MachineTypesCollection: {unique("name")},
		RegionsCollection:      {unique("name")},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Ping checks that the database still answers.
func Ping(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, nil)
}

// mapError translates driver errors into the model error kinds.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// findAll decodes every document matching filter, returning an empty slice
// rather than nil when nothing matches.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, op string) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mapError(op, err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, op string) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(op, err)
	}
	return &doc, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id any, doc any, op string) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mapError(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id any, op string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
