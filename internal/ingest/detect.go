package ingest

import (
	"errors"

	"github.com/ukydev/vehicle-tracker/internal/models"
)

var (
	ErrInvalidFileType    = errors.New("only CSV files are supported")
	ErrEmptyFile          = errors.New("empty CSV file")
	ErrUnrecognizedFormat = errors.New("unknown CSV format")
	ErrDuplicateRecord    = errors.New("trip already exists at this time and location")
	ErrMissingIdentifier  = errors.New("identifier is required")
)

// DetectFormat classifies a CSV export by its header row. Driver trip
// exports carry iButton/Driver columns, vehicle trip exports a Vehicle
// column; anything else is fatal for the whole upload.
func DetectFormat(headers []string) (models.RecordType, error) {
	if containsHeader(headers, "iButton") || containsHeader(headers, "Driver") {
		return models.RecordTypeIButton, nil
	}
	if containsHeader(headers, "Vehicle") {
		return models.RecordTypeVehicle, nil
	}
	return "", ErrUnrecognizedFormat
}

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
