package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/models"
)

// Service runs the CSV ingestion pipeline: decode, detect, parse,
// deduplicate, insert. The same duplicate predicate guards manual
// entries, so bulk and single additions cannot diverge.
type Service struct {
	records db.TrackingCollection

	// Overridable in tests.
	Now   func() time.Time
	NewID func() string
}

// NewService creates an ingestion service backed by the given collection.
func NewService(records db.TrackingCollection) *Service {
	return &Service{
		records: records,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// Ingest processes one uploaded CSV export. Malformed rows are logged
// and skipped; only a wrong file extension, an empty file or an
// unrecognized header layout fail the whole upload. Nothing is
// persisted on a fatal error.
func (s *Service) Ingest(ctx context.Context, content []byte, filename, uploadedBy string) (*models.UploadResult, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return nil, ErrInvalidFileType
	}

	recordType, candidates, err := s.parseCSV(decodeContent(content))
	if err != nil {
		return nil, err
	}

	result := &models.UploadResult{
		RecordType:  recordType,
		TotalParsed: len(candidates),
	}

	fresh := make([]models.TrackingRecord, 0, len(candidates))
	for _, rec := range candidates {
		exists, err := s.records.FindDuplicate(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("duplicate check: %w", err)
		}
		if exists {
			result.DuplicatesSkipped++
			log.WithFields(log.Fields{
				"identifier": rec.Identifier(),
				"date":       rec.Date,
			}).Info("duplicate record skipped")
			continue
		}
		rec.ID = s.NewID()
		rec.UploadedBy = uploadedBy
		rec.UploadedAt = s.Now().UTC()
		fresh = append(fresh, rec)
	}

	if len(fresh) > 0 {
		if err := s.records.InsertRecords(ctx, fresh); err != nil {
			return nil, fmt.Errorf("inserting records: %w", err)
		}
	}
	result.NewRecords = len(fresh)
	return result, nil
}

// AddManual stores a single manually entered trip, subject to the same
// duplicate check as bulk uploads.
func (s *Service) AddManual(ctx context.Context, req models.ManualTripRequest, uploadedBy string) (*models.TrackingRecord, error) {
	recordType := req.RecordType
	if recordType == "" {
		recordType = models.RecordTypeIButton
	}
	if !models.IsValidRecordType(recordType) {
		return nil, fmt.Errorf("invalid record type %q", req.RecordType)
	}
	if strings.TrimSpace(req.Identifier) == "" {
		return nil, ErrMissingIdentifier
	}

	address := req.Address
	if address == "" {
		address = "Manual Entry"
	}

	rec := models.TrackingRecord{
		ID:          s.NewID(),
		RecordType:  recordType,
		Date:        req.Date,
		Address:     address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		UploadedBy:  uploadedBy,
		UploadedAt:  s.Now().UTC(),
		ManualEntry: true,
	}
	if recordType == models.RecordTypeIButton {
		rec.Driver = req.Driver
		if rec.Driver == "" {
			rec.Driver = "Manual Entry"
		}
		rec.IButton = req.Identifier
	} else {
		rec.Vehicle = req.Vehicle
		if rec.Vehicle == "" {
			rec.Vehicle = req.Identifier
		}
	}

	exists, err := s.records.FindDuplicate(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRecord
	}

	if err := s.records.InsertRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("inserting record: %w", err)
	}
	return &rec, nil
}

// parseCSV reads the header, detects the layout and parses every data
// row independently. Row failures are absorbed here; the gap between
// row count and candidate count is the only caller-visible trace.
func (s *Service) parseCSV(content string) (models.RecordType, []models.TrackingRecord, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return "", nil, ErrEmptyFile
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	recordType, err := DetectFormat(headers)
	if err != nil {
		return "", nil, err
	}

	var records []models.TrackingRecord
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).Error("unreadable CSV row skipped")
			continue
		}
		rec, err := ParseRow(rowToMap(headers, fields), recordType)
		if err != nil {
			log.WithError(err).WithField("row", strings.Join(fields, ",")).Error("failed to parse row")
			continue
		}
		records = append(records, rec)
	}
	return recordType, records, nil
}

func rowToMap(headers, fields []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(fields) {
			row[h] = fields[i]
		}
	}
	return row
}
