package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/ingest"
	"github.com/ukydev/vehicle-tracker/internal/middleware"
	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// maxUploadSize caps CSV uploads; exports are small spreadsheet dumps.
const maxUploadSize = 32 << 20

// TrackingHandler handles tracking record requests
type TrackingHandler struct {
	ingestService *ingest.Service
	records       db.TrackingCollection
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(ingestService *ingest.Service, records db.TrackingCollection) *TrackingHandler {
	return &TrackingHandler{
		ingestService: ingestService,
		records:       records,
	}
}

// Upload ingests one CSV export through the pipeline.
func (h *TrackingHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Failed to parse upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	result, err := h.ingestService.Ingest(r.Context(), content, header.Filename, claims.Username)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidFileType),
			errors.Is(err, ingest.ErrEmptyFile),
			errors.Is(err, ingest.ErrUnrecognizedFormat):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.WithError(err).Error("upload failed")
			http.Error(w, "Upload failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":            "Data uploaded successfully",
		"record_type":        result.RecordType,
		"records_count":      result.TotalParsed,
		"new_records":        result.NewRecords,
		"duplicates_skipped": result.DuplicatesSkipped,
	})
}

// AddManual stores a single manually entered trip.
func (h *TrackingHandler) AddManual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var tripReq models.ManualTripRequest
	if err := json.Unmarshal(body, &tripReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	record, err := h.ingestService.AddManual(r.Context(), tripReq, claims.Username)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrDuplicateRecord):
			http.Error(w, "Trip already exists at this time and location", http.StatusBadRequest)
		case errors.Is(err, ingest.ErrMissingIdentifier):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.WithError(err).Error("failed to add manual trip")
			http.Error(w, "Failed to add trip", http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Manual trip added successfully",
		"record":  record,
	})
}

// Records queries tracking records with optional filters. With
// identifier=all the records are additionally grouped by their
// iButton-or-vehicle key.
func (h *TrackingHandler) Records(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := bson.M{}
	q := r.URL.Query()

	if recordType := q.Get("record_type"); recordType != "" {
		query["record_type"] = recordType
	}
	identifier := q.Get("identifier")
	groupAll := strings.EqualFold(identifier, "all")
	if identifier != "" && !groupAll {
		query["$or"] = []bson.M{
			{"ibutton": identifier},
			{"vehicle": identifier},
		}
	}
	if start, end := q.Get("start_date"), q.Get("end_date"); start != "" && end != "" {
		query["date"] = bson.M{"$gte": start, "$lte": end}
	}

	records, err := h.records.FindRecords(r.Context(), query)
	if err != nil {
		http.Error(w, "Failed to query records", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.TrackingRecord{}
	}

	w.Header().Set("Content-Type", "application/json")

	if groupAll {
		grouped := make(map[string][]models.TrackingRecord)
		identifiers := make([]string, 0)
		for _, rec := range records {
			key := rec.Identifier()
			if key == "" {
				key = "Unknown"
			}
			if _, seen := grouped[key]; !seen {
				identifiers = append(identifiers, key)
			}
			grouped[key] = append(grouped[key], rec)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"records":     records,
			"count":       len(records),
			"grouped":     grouped,
			"identifiers": identifiers,
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// Identifiers returns the distinct iButtons and vehicles on record.
func (h *TrackingHandler) Identifiers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ibuttons, err := h.records.DistinctValues(r.Context(), "ibutton")
	if err != nil {
		http.Error(w, "Failed to query identifiers", http.StatusInternalServerError)
		return
	}
	vehicles, err := h.records.DistinctValues(r.Context(), "vehicle")
	if err != nil {
		http.Error(w, "Failed to query identifiers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ibuttons": ibuttons,
		"vehicles": vehicles,
	})
}

// Stats returns aggregate tracking statistics.
func (h *TrackingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	total, err := h.records.CountRecords(r.Context())
	if err != nil {
		http.Error(w, "Failed to count records", http.StatusInternalServerError)
		return
	}
	ibuttons, err := h.records.DistinctValues(r.Context(), "ibutton")
	if err != nil {
		http.Error(w, "Failed to query identifiers", http.StatusInternalServerError)
		return
	}
	vehicles, err := h.records.DistinctValues(r.Context(), "vehicle")
	if err != nil {
		http.Error(w, "Failed to query identifiers", http.StatusInternalServerError)
		return
	}
	uploads, err := h.records.UploadStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to aggregate uploads", http.StatusInternalServerError)
		return
	}
	if uploads == nil {
		uploads = []models.UploaderStats{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.TrackingStats{
		TotalRecords:   total,
		UniqueIButtons: len(ibuttons),
		UniqueVehicles: len(vehicles),
		UploadsByUser:  uploads,
	})
}
