package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ashok-rai/meetingbank-pipeline/pkg/config"
)

// MongoDB wraps the document store client and database handle
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDB creates a new MongoDB connection
func NewMongoDB(ctx context.Context, cfg *config.Config) (*MongoDB, error) {
	opts := options.Client().
		ApplyURI(cfg.GetMongoURI()).
		SetConnectTimeout(cfg.Loader.StoreTimeout).
		SetServerSelectionTimeout(cfg.Loader.StoreTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	// Test connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	log.Println("✅ Document store connected successfully")

	return &MongoDB{
		client: client,
		db:     client.Database(cfg.Mongo.Name),
	}, nil
}

// Transcripts returns the transcripts collection handle
func (m *MongoDB) Transcripts() *mongo.Collection {
	return m.db.Collection("transcripts")
}

// Summaries returns the summaries collection handle
func (m *MongoDB) Summaries() *mongo.Collection {
	return m.db.Collection("summaries")
}

// EnsureIndexes creates the unique meeting_id keys plus the query indexes on
// both collections
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{
			coll: m.Transcripts(),
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "meeting_id", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "city_name", Value: 1}, {Key: "meeting_date", Value: 1}}},
				{Keys: bson.D{{Key: "transcript.full_text", Value: "text"}}},
			},
		},
		{
			coll: m.Summaries(),
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "meeting_id", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "city_name", Value: 1}, {Key: "meeting_date", Value: 1}}},
				{Keys: bson.D{{Key: "summary.full", Value: "text"}}},
			},
		},
	}

	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateMany(ctx, ix.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", ix.coll.Name(), err)
		}
	}

	return nil
}

// Close disconnects the document store client
func (m *MongoDB) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close document store connection: %w", err)
	}

	log.Println("✅ Document store connection closed")
	return nil
}
