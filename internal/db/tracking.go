package db

import (
	"context"
	"fmt"

	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTrackingCollection implements TrackingCollection for MongoDB.
type MongoTrackingCollection struct {
	Collection *mongo.Collection
}

// FindDuplicate reports whether a record with the same date,
// type-specific identifier and coordinates already exists. An empty
// identifier never matches: stored records omit the field entirely, so
// querying it for "" could only hit pathological documents.
func (c *MongoTrackingCollection) FindDuplicate(ctx context.Context, rec models.TrackingRecord) (bool, error) {
	identifier := rec.Identifier()
	if identifier == "" {
		return false, nil
	}

	identField := "vehicle"
	if rec.RecordType == models.RecordTypeIButton {
		identField = "ibutton"
	}

	filter := bson.M{
		"date":      rec.Date,
		identField:  identifier,
		"latitude":  rec.Latitude,
		"longitude": rec.Longitude,
	}

	err := c.Collection.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertRecord inserts a single tracking record into the collection.
func (c *MongoTrackingCollection) InsertRecord(ctx context.Context, rec models.TrackingRecord) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, rec)
	return err
}

// InsertRecords inserts a batch of tracking records into the collection.
func (c *MongoTrackingCollection) InsertRecords(ctx context.Context, recs []models.TrackingRecord) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if len(recs) == 0 {
		return nil
	}
	docs := make([]interface{}, len(recs))
	for i, r := range recs {
		docs[i] = r
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindRecords queries tracking records matching the given filter.
func (c *MongoTrackingCollection) FindRecords(ctx context.Context, filter bson.M) ([]models.TrackingRecord, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.TrackingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DistinctValues returns the distinct non-empty values of a field.
func (c *MongoTrackingCollection) DistinctValues(ctx context.Context, field string) ([]string, error) {
	raw, err := c.Collection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

// CountRecords counts all tracking records.
func (c *MongoTrackingCollection) CountRecords(ctx context.Context) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{})
}

// UploadStats aggregates record counts and last upload time per uploader.
func (c *MongoTrackingCollection) UploadStats(ctx context.Context) ([]models.UploaderStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$uploaded_by",
			"count":       bson.M{"$sum": 1},
			"last_upload": bson.M{"$max": "$uploaded_at"},
		}}},
	}
	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.UploaderStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ReplaceAllRecords drops every record and inserts the given set. Used
// by restore only.
func (c *MongoTrackingCollection) ReplaceAllRecords(ctx context.Context, recs []models.TrackingRecord) error {
	if _, err := c.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	return c.InsertRecords(ctx, recs)
}
