package license

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoLicense is returned when no license document exists yet.
var ErrNoLicense = errors.New("no license found")

// Warning threshold: a license within this many days of expiry is
// flagged so the UI can nag before access is cut off.
const warningDays = 30

// Service computes license validity and handles renewals.
type Service struct {
	licenses db.LicenseCollection

	// Overridable in tests.
	Now func() time.Time
}

// NewService creates a license service backed by the given collection.
func NewService(licenses db.LicenseCollection) *Service {
	return &Service{licenses: licenses, Now: time.Now}
}

// Status computes the validity of the current license. A missing
// license reads as not_setup and expired, which blocks non-admins the
// same way a lapsed license does.
func (s *Service) Status(ctx context.Context) (models.LicenseStatus, error) {
	lic, err := s.licenses.LatestLicense(ctx)
	if err == mongo.ErrNoDocuments {
		return models.LicenseStatus{Status: models.LicenseNotSetup, Expired: true}, nil
	}
	if err != nil {
		return models.LicenseStatus{}, fmt.Errorf("loading license: %w", err)
	}

	days := daysBetween(s.Now().UTC(), lic.EndDate)
	status := models.LicenseActive
	if days < 0 {
		status = models.LicenseExpired
	} else if days <= warningDays {
		status = models.LicenseWarning
	}

	end := lic.EndDate
	return models.LicenseStatus{
		Status:        status,
		Expired:       days < 0,
		DaysRemaining: days,
		EndDate:       &end,
	}, nil
}

// Current returns the latest license document.
func (s *Service) Current(ctx context.Context) (*models.License, error) {
	lic, err := s.licenses.LatestLicense(ctx)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoLicense
	}
	return lic, err
}

// CreateInitial creates the fixed 12-month license written during setup.
func (s *Service) CreateInitial(ctx context.Context) (*models.License, error) {
	now := s.Now().UTC()
	lic := models.License{
		ID:             uuid.NewString(),
		StartDate:      now,
		EndDate:        now.AddDate(0, 0, 365),
		DurationMonths: 12,
		Status:         models.LicenseActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.licenses.InsertLicense(ctx, lic); err != nil {
		return nil, fmt.Errorf("inserting license: %w", err)
	}
	return &lic, nil
}

// Renew appends a new license period starting at the current end date,
// extended by 30 days per month.
func (s *Service) Renew(ctx context.Context, durationMonths int) (*models.License, error) {
	if durationMonths <= 0 {
		return nil, errors.New("duration must be positive")
	}

	current, err := s.licenses.LatestLicense(ctx)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoLicense
	}
	if err != nil {
		return nil, fmt.Errorf("loading license: %w", err)
	}

	now := s.Now().UTC()
	lic := models.License{
		ID:             uuid.NewString(),
		StartDate:      current.EndDate,
		EndDate:        current.EndDate.AddDate(0, 0, 30*durationMonths),
		DurationMonths: durationMonths,
		Status:         models.LicenseActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.licenses.InsertLicense(ctx, lic); err != nil {
		return nil, fmt.Errorf("inserting license: %w", err)
	}
	return &lic, nil
}

// daysBetween returns whole days from now to end, floored so that any
// partially elapsed day past the deadline counts as expired.
func daysBetween(now, end time.Time) int {
	return int(math.Floor(end.Sub(now).Hours() / 24))
}
