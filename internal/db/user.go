package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = mongo.ErrNoDocuments

// MongoUserCollection implements UserCollection for MongoDB
type MongoUserCollection struct {
	Collection *mongo.Collection
}

// InsertUser inserts a new user into the database
func (c *MongoUserCollection) InsertUser(ctx context.Context, user models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := c.Collection.InsertOne(ctx, user)
	return err
}

// FindUserByUsername finds a user by their username
func (c *MongoUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := c.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user except the built-in admin account.
func (c *MongoUserCollection) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"username": bson.M{"$ne": "admin"}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUserByUsername deletes a user from the database
func (c *MongoUserCollection) DeleteUserByUsername(ctx context.Context, username string) error {
	result, err := c.Collection.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// CountUsers counts all users.
func (c *MongoUserCollection) CountUsers(ctx context.Context) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{})
}

// AllUsers returns every user, including the admin, for backup dumps.
func (c *MongoUserCollection) AllUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ReplaceAllUsers drops every user and inserts the given set.
func (c *MongoUserCollection) ReplaceAllUsers(ctx context.Context, users []models.User) error {
	if _, err := c.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	docs := make([]interface{}, len(users))
	for i, u := range users {
		docs[i] = u
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}
