// Package repository defines the document-store boundary the record store persists through.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("document not found")

// FindOptions narrows a Find call. Zero values mean "not set".
type FindOptions struct {
	Projection bson.M
	Sort       bson.D
	Limit      int64
	Skip       int64
}

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DocumentStore is a schema-less CRUD surface over named collections. It offers no
// transactional guarantees beyond those of the backing store.
type DocumentStore interface {
	Find(ctx context.Context, collection string, filter bson.M, opts FindOptions, results any) error
	FindOne(ctx context.Context, collection string, filter bson.M, result any) error
	InsertOne(ctx context.Context, collection string, document any) (string, error)
	InsertMany(ctx context.Context, collection string, documents []any) ([]string, error)
	UpdateOne(ctx context.Context, collection string, filter, update bson.M) (UpdateResult, error)
	UpdateMany(ctx context.Context, collection string, filter, update bson.M) (UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, collection string, filter bson.M) (int64, error)
	Close(ctx context.Context) error
}
