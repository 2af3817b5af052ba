package models

import "time"

// License status values.
const (
	LicenseActive   = "active"
	LicenseWarning  = "warning"
	LicenseExpired  = "expired"
	LicenseNotSetup = "not_setup"
)

// License is one licensing period. Renewals create a new document
// starting where the previous one ended; the latest by CreatedAt wins.
type License struct {
	ID             string    `bson:"id" json:"id"`
	StartDate      time.Time `bson:"start_date" json:"start_date"`
	EndDate        time.Time `bson:"end_date" json:"end_date"`
	DurationMonths int       `bson:"duration_months" json:"duration_months"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// LicenseStatus is the computed validity of the current license.
type LicenseStatus struct {
	Status        string     `json:"status"`
	Expired       bool       `json:"expired"`
	DaysRemaining int        `json:"days_remaining"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

// RenewLicenseRequest represents a license renewal request
type RenewLicenseRequest struct {
	DurationMonths int `json:"duration_months"`
}

// SystemStatus is the unauthenticated setup/health probe response.
type SystemStatus struct {
	IsSetupComplete bool       `json:"is_setup_complete"`
	LicenseStatus   string     `json:"license_status"`
	LicenseExpiry   *time.Time `json:"license_expiry,omitempty"`
	DaysRemaining   int        `json:"days_remaining"`
	TotalUsers      int64      `json:"total_users"`
	TotalRecords    int64      `json:"total_records"`
}
