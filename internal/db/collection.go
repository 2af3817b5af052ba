package db

import (
	"context"

	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// TrackingCollection defines the interface for tracking record operations.
type TrackingCollection interface {
	FindDuplicate(ctx context.Context, rec models.TrackingRecord) (bool, error)
	InsertRecord(ctx context.Context, rec models.TrackingRecord) error
	InsertRecords(ctx context.Context, recs []models.TrackingRecord) error
	FindRecords(ctx context.Context, filter bson.M) ([]models.TrackingRecord, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)
	CountRecords(ctx context.Context) (int64, error)
	UploadStats(ctx context.Context) ([]models.UploaderStats, error)
	ReplaceAllRecords(ctx context.Context, recs []models.TrackingRecord) error
}

// UserCollection defines the interface for user database operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUserByUsername(ctx context.Context, username string) error
	CountUsers(ctx context.Context) (int64, error)
	AllUsers(ctx context.Context) ([]models.User, error)
	ReplaceAllUsers(ctx context.Context, users []models.User) error
}

// LicenseCollection defines the interface for license operations.
type LicenseCollection interface {
	InsertLicense(ctx context.Context, lic models.License) error
	LatestLicense(ctx context.Context) (*models.License, error)
	AllLicenses(ctx context.Context) ([]models.License, error)
	ReplaceAllLicenses(ctx context.Context, lics []models.License) error
}

// SystemCollection defines the interface for system flag operations.
type SystemCollection interface {
	GetFlag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool) error
	AllFlags(ctx context.Context) ([]models.SystemFlag, error)
	ReplaceAllFlags(ctx context.Context, flags []models.SystemFlag) error
}
