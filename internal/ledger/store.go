// Package ledger persists the paid-invoices ledger in MongoDB. After a run
// the merged "paid + newly due" set is upserted here so the next run
// reconciles against an up-to-date ledger.
package ledger

import (
	"context"
	"fmt"

	"github.com/mgoncalves/payables/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dbName = "payables"

// DataStore defines the interface for the collection operations the
// repository needs.
type DataStore interface {
	BulkWrite(
		ctx context.Context,
		models []mongo.WriteModel,
		opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	InsertOne(
		ctx context.Context,
		document interface{},
		opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// CollectionProvider defines the interface for obtaining a collection.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// MongoCollection adapts *mongo.Collection to DataStore.
type MongoCollection struct {
	*mongo.Collection
}

func (c *MongoCollection) BulkWrite(
	ctx context.Context,
	models []mongo.WriteModel,
	opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	result, err := c.Collection.BulkWrite(ctx, models, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform BulkWrite: %w", err)
	}
	return result, nil
}

func (c *MongoCollection) InsertOne(
	ctx context.Context,
	document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	result, err := c.Collection.InsertOne(ctx, document, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to perform InsertOne: %w", err)
	}
	return result, nil
}

// MongoProvider adapts *mongo.Client to CollectionProvider.
type MongoProvider struct {
	client *mongo.Client
}

// NewMongoProvider creates a new MongoProvider.
func NewMongoProvider(client *mongo.Client) *MongoProvider {
	return &MongoProvider{client: client}
}

// Collection returns a DataStore for the given collection name.
func (p *MongoProvider) Collection(name string) DataStore {
	return &MongoCollection{p.client.Database(dbName).Collection(name)}
}

// Connect establishes and pings a MongoDB connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	log := logger.FromContext(ctx)
	log.Debug().Str("uri", uri).Msg("connecting to MongoDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info().Msg("connected to MongoDB")
	return client, nil
}
