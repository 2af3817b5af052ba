package db

import (
	"context"

	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupCompleteKey marks that initial setup has run.
const SetupCompleteKey = "setup_complete"

// MongoSystemCollection implements SystemCollection for MongoDB.
type MongoSystemCollection struct {
	Collection *mongo.Collection
}

// GetFlag returns the value of a system flag, false when unset.
func (c *MongoSystemCollection) GetFlag(ctx context.Context, key string) (bool, error) {
	var flag models.SystemFlag
	err := c.Collection.FindOne(ctx, bson.M{"key": key}).Decode(&flag)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return flag.Value, nil
}

// SetFlag upserts a system flag.
func (c *MongoSystemCollection) SetFlag(ctx context.Context, key string, value bool) error {
	_, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	return err
}

// AllFlags returns every system flag for backup dumps.
func (c *MongoSystemCollection) AllFlags(ctx context.Context) ([]models.SystemFlag, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flags []models.SystemFlag
	if err := cursor.All(ctx, &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

// ReplaceAllFlags drops every flag and inserts the given set.
func (c *MongoSystemCollection) ReplaceAllFlags(ctx context.Context, flags []models.SystemFlag) error {
	if _, err := c.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(flags) == 0 {
		return nil
	}
	docs := make([]interface{}, len(flags))
	for i, f := range flags {
		docs[i] = f
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}
