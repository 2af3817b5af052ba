package models

import "time"

// RecordType selects which identity field a tracking record carries.
type RecordType string

const (
	RecordTypeIButton RecordType = "ibutton"
	RecordTypeVehicle RecordType = "vehicle"
)

// IsValidRecordType checks if a record type is one of the known layouts.
func IsValidRecordType(rt RecordType) bool {
	return rt == RecordTypeIButton || rt == RecordTypeVehicle
}

// TrackingRecord is one GPS-stamped trip event tied to either a driver
// (via iButton) or a vehicle. Date is kept as an ISO-8601 string because
// duplicate detection compares it by exact string equality.
type TrackingRecord struct {
	ID          string     `bson:"id" json:"id"`
	RecordType  RecordType `bson:"record_type" json:"record_type"`
	Date        string     `bson:"date" json:"date"`
	Driver      string     `bson:"driver,omitempty" json:"driver,omitempty"`
	IButton     string     `bson:"ibutton,omitempty" json:"ibutton,omitempty"`
	Vehicle     string     `bson:"vehicle,omitempty" json:"vehicle,omitempty"`
	Address     string     `bson:"address" json:"address"`
	Latitude    float64    `bson:"latitude" json:"latitude"`
	Longitude   float64    `bson:"longitude" json:"longitude"`
	UploadedBy  string     `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt  time.Time  `bson:"uploaded_at" json:"uploaded_at"`
	ManualEntry bool       `bson:"manual_entry,omitempty" json:"manual_entry,omitempty"`
}

// Identifier returns the type-specific identity key used for duplicate
// detection: the iButton ID for driver records, the vehicle name otherwise.
func (r *TrackingRecord) Identifier() string {
	if r.RecordType == RecordTypeIButton {
		return r.IButton
	}
	return r.Vehicle
}

// UploadResult reports the aggregate outcome of a CSV upload. Row-level
// failures are log-only; callers see only the counts.
type UploadResult struct {
	RecordType        RecordType `json:"record_type"`
	TotalParsed       int        `json:"records_count"`
	NewRecords        int        `json:"new_records"`
	DuplicatesSkipped int        `json:"duplicates_skipped"`
}

// UploaderStats is one row of the per-user upload aggregation.
type UploaderStats struct {
	UploadedBy string    `bson:"_id" json:"uploaded_by"`
	Count      int64     `bson:"count" json:"count"`
	LastUpload time.Time `bson:"last_upload" json:"last_upload"`
}

// TrackingStats summarizes the stored record set.
type TrackingStats struct {
	TotalRecords   int64           `json:"total_records"`
	UniqueIButtons int             `json:"unique_ibuttons"`
	UniqueVehicles int             `json:"unique_vehicles"`
	UploadsByUser  []UploaderStats `json:"uploads_by_user"`
}

// ManualTripRequest is a single manually entered trip.
type ManualTripRequest struct {
	RecordType RecordType `json:"record_type"`
	Date       string     `json:"date"`
	Identifier string     `json:"identifier"`
	Driver     string     `json:"driver"`
	Vehicle    string     `json:"vehicle"`
	Address    string     `json:"address"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
}
