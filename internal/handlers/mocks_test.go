package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) DeleteUserByUsername(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserCollection) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserCollection) AllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) ReplaceAllUsers(ctx context.Context, users []models.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

// MockTrackingCollection is a mock implementation of db.TrackingCollection
type MockTrackingCollection struct {
	mock.Mock
}

func (m *MockTrackingCollection) FindDuplicate(ctx context.Context, rec models.TrackingRecord) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrackingCollection) InsertRecord(ctx context.Context, rec models.TrackingRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockTrackingCollection) InsertRecords(ctx context.Context, recs []models.TrackingRecord) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

func (m *MockTrackingCollection) FindRecords(ctx context.Context, filter bson.M) ([]models.TrackingRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrackingRecord), args.Error(1)
}

func (m *MockTrackingCollection) DistinctValues(ctx context.Context, field string) ([]string, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTrackingCollection) CountRecords(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTrackingCollection) UploadStats(ctx context.Context) ([]models.UploaderStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UploaderStats), args.Error(1)
}

func (m *MockTrackingCollection) ReplaceAllRecords(ctx context.Context, recs []models.TrackingRecord) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

// MockLicenseCollection is a mock implementation of db.LicenseCollection
type MockLicenseCollection struct {
	mock.Mock
}

func (m *MockLicenseCollection) InsertLicense(ctx context.Context, lic models.License) error {
	args := m.Called(ctx, lic)
	return args.Error(0)
}

func (m *MockLicenseCollection) LatestLicense(ctx context.Context) (*models.License, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.License), args.Error(1)
}

func (m *MockLicenseCollection) AllLicenses(ctx context.Context) ([]models.License, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.License), args.Error(1)
}

func (m *MockLicenseCollection) ReplaceAllLicenses(ctx context.Context, lics []models.License) error {
	args := m.Called(ctx, lics)
	return args.Error(0)
}

// MockSystemCollection is a mock implementation of db.SystemCollection
type MockSystemCollection struct {
	mock.Mock
}

func (m *MockSystemCollection) GetFlag(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockSystemCollection) SetFlag(ctx context.Context, key string, value bool) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockSystemCollection) AllFlags(ctx context.Context) ([]models.SystemFlag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SystemFlag), args.Error(1)
}

func (m *MockSystemCollection) ReplaceAllFlags(ctx context.Context, flags []models.SystemFlag) error {
	args := m.Called(ctx, flags)
	return args.Error(0)
}
