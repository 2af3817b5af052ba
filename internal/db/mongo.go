package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB using the MONGO_URI environment variable.
func ConnectMongo() (*mongo.Client, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the tracking record indexes: the compound
// duplicate-detection indexes are the authoritative guard behind the
// pipeline's check-then-insert, the single-field ones serve queries.
func EnsureIndexes(ctx context.Context, records *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "ibutton", Value: 1},
				{Key: "latitude", Value: 1},
				{Key: "longitude", Value: 1},
			},
			Options: options.Index().SetName("duplicate_detection_ibutton"),
		},
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "vehicle", Value: 1},
				{Key: "latitude", Value: 1},
				{Key: "longitude", Value: 1},
			},
			Options: options.Index().SetName("duplicate_detection_vehicle"),
		},
		{Keys: bson.D{{Key: "ibutton", Value: 1}}},
		{Keys: bson.D{{Key: "vehicle", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "uploaded_by", Value: 1}}},
	}
	if _, err := records.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}
	return nil
}
