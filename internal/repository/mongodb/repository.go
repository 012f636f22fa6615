package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository"
)

var _ repository.DocumentStore = (*MongoDBRepository)(nil)

// MongoDBRepository implements repository.DocumentStore on top of a MongoDB database.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// EnsureIndexes creates the indexes the record store relies on.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		models.CollectionAnimals: {
			{Keys: bson.D{{Key: "tag_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		models.CollectionMilkRecords: {
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "animal_id", Value: 1}}},
		},
		models.CollectionHealthRecords: {
			{Keys: bson.D{{Key: "animal_id", Value: 1}}},
		},
		models.CollectionAlerts: {
			{Keys: bson.D{{Key: "source_key", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}

	for collection, specs := range indexes {
		names, err := r.db.Collection(collection).Indexes().CreateMany(ctx, specs)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
		r.logger.Debug("indexes ensured", zap.String("collection", collection), zap.Strings("indexes", names))
	}
	return nil
}

// Find decodes every matching document into results, which must be a pointer to a slice.
func (r *MongoDBRepository) Find(ctx context.Context, collection string, filter bson.M, opts repository.FindOptions, results any) error {
	findOpts := options.Find()
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}

	cursor, err := r.db.Collection(collection).Find(ctx, orEmpty(filter), findOpts)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s documents: %w", collection, err)
	}
	return nil
}

// FindOne decodes the first matching document into result.
func (r *MongoDBRepository) FindOne(ctx context.Context, collection string, filter bson.M, result any) error {
	err := r.db.Collection(collection).FindOne(ctx, orEmpty(filter)).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one in %s: %w", collection, err)
	}
	return nil
}

// InsertOne stores a document and returns its identifier.
func (r *MongoDBRepository) InsertOne(ctx context.Context, collection string, document any) (string, error) {
	res, err := r.db.Collection(collection).InsertOne(ctx, document)
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return idString(res.InsertedID), nil
}

// InsertMany stores documents in order and returns their identifiers.
func (r *MongoDBRepository) InsertMany(ctx context.Context, collection string, documents []any) ([]string, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	res, err := r.db.Collection(collection).InsertMany(ctx, documents)
	if err != nil {
		return nil, fmt.Errorf("failed to insert many into %s: %w", collection, err)
	}
	ids := make([]string, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		ids = append(ids, idString(id))
	}
	return ids, nil
}

// UpdateOne applies update to the first matching document.
func (r *MongoDBRepository) UpdateOne(ctx context.Context, collection string, filter, update bson.M) (repository.UpdateResult, error) {
	res, err := r.db.Collection(collection).UpdateOne(ctx, orEmpty(filter), update)
	if err != nil {
		return repository.UpdateResult{}, fmt.Errorf("update one in %s: %w", collection, err)
	}
	return repository.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// UpdateMany applies update to every matching document.
func (r *MongoDBRepository) UpdateMany(ctx context.Context, collection string, filter, update bson.M) (repository.UpdateResult, error) {
	res, err := r.db.Collection(collection).UpdateMany(ctx, orEmpty(filter), update)
	if err != nil {
		return repository.UpdateResult{}, fmt.Errorf("update many in %s: %w", collection, err)
	}
	return repository.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// DeleteOne removes the first matching document.
func (r *MongoDBRepository) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	res, err := r.db.Collection(collection).DeleteOne(ctx, orEmpty(filter))
	if err != nil {
		return 0, fmt.Errorf("delete one in %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// DeleteMany removes every matching document.
func (r *MongoDBRepository) DeleteMany(ctx context.Context, collection string, filter bson.M) (int64, error) {
	res, err := r.db.Collection(collection).DeleteMany(ctx, orEmpty(filter))
	if err != nil {
		return 0, fmt.Errorf("delete many in %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func orEmpty(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

func idString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return fmt.Sprint(v)
	}
}
