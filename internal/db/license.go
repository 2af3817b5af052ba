package db

import (
	"context"

	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLicenseCollection implements LicenseCollection for MongoDB.
type MongoLicenseCollection struct {
	Collection *mongo.Collection
}

// InsertLicense inserts a license document.
func (c *MongoLicenseCollection) InsertLicense(ctx context.Context, lic models.License) error {
	_, err := c.Collection.InsertOne(ctx, lic)
	return err
}

// LatestLicense returns the most recently created license. Renewals
// append documents, so the newest one is the current license.
func (c *MongoLicenseCollection) LatestLicense(ctx context.Context) (*models.License, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var lic models.License
	err := c.Collection.FindOne(ctx, bson.M{}, opts).Decode(&lic)
	if err != nil {
		return nil, err
	}
	return &lic, nil
}

// AllLicenses returns every license for backup dumps.
func (c *MongoLicenseCollection) AllLicenses(ctx context.Context) ([]models.License, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lics []models.License
	if err := cursor.All(ctx, &lics); err != nil {
		return nil, err
	}
	return lics, nil
}

// ReplaceAllLicenses drops every license and inserts the given set.
func (c *MongoLicenseCollection) ReplaceAllLicenses(ctx context.Context, lics []models.License) error {
	if _, err := c.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(lics) == 0 {
		return nil
	}
	docs := make([]interface{}, len(lics))
	for i, l := range lics {
		docs[i] = l
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}
