package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// BackupHandler handles full-system backup and restore. Both endpoints
// are admin-only; restore replaces collections wholesale.
type BackupHandler struct {
	users    db.UserCollection
	licenses db.LicenseCollection
	records  db.TrackingCollection
	system   db.SystemCollection
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(users db.UserCollection, licenses db.LicenseCollection, records db.TrackingCollection, system db.SystemCollection) *BackupHandler {
	return &BackupHandler{
		users:    users,
		licenses: licenses,
		records:  records,
		system:   system,
	}
}

// Create dumps every collection into a base64-encoded JSON document.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.users.AllUsers(r.Context())
	if err != nil {
		http.Error(w, "Backup failed", http.StatusInternalServerError)
		return
	}
	licenses, err := h.licenses.AllLicenses(r.Context())
	if err != nil {
		http.Error(w, "Backup failed", http.StatusInternalServerError)
		return
	}
	records, err := h.records.FindRecords(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Backup failed", http.StatusInternalServerError)
		return
	}
	flags, err := h.system.AllFlags(r.Context())
	if err != nil {
		http.Error(w, "Backup failed", http.StatusInternalServerError)
		return
	}

	backup := models.Backup{
		BackupDate:      time.Now().UTC(),
		Users:           users,
		Licenses:        licenses,
		TrackingRecords: records,
		System:          flags,
	}

	payload, err := json.Marshal(backup)
	if err != nil {
		log.WithError(err).Error("backup serialization failed")
		http.Error(w, "Backup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "Backup created successfully",
		"backup_data":   base64.StdEncoding.EncodeToString(payload),
		"records_count": len(records),
		"users_count":   len(users),
	})
}

// Restore replaces the database contents with an uploaded backup. The
// file may be the base64 payload produced by Create or the raw JSON.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Failed to parse upload", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
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

	backup, err := decodeBackup(content)
	if err != nil {
		http.Error(w, "Invalid backup file", http.StatusBadRequest)
		return
	}

	// Each collection is only replaced when the backup carries data for
	// it, so a partial backup does not wipe unrelated collections.
	if len(backup.Users) > 0 {
		if err := h.users.ReplaceAllUsers(r.Context(), backup.Users); err != nil {
			log.WithError(err).Error("restore failed")
			http.Error(w, "Restore failed", http.StatusInternalServerError)
			return
		}
	}
	if len(backup.Licenses) > 0 {
		if err := h.licenses.ReplaceAllLicenses(r.Context(), backup.Licenses); err != nil {
			log.WithError(err).Error("restore failed")
			http.Error(w, "Restore failed", http.StatusInternalServerError)
			return
		}
	}
	if len(backup.TrackingRecords) > 0 {
		if err := h.records.ReplaceAllRecords(r.Context(), backup.TrackingRecords); err != nil {
			log.WithError(err).Error("restore failed")
			http.Error(w, "Restore failed", http.StatusInternalServerError)
			return
		}
	}
	if len(backup.System) > 0 {
		if err := h.system.ReplaceAllFlags(r.Context(), backup.System); err != nil {
			log.WithError(err).Error("restore failed")
			http.Error(w, "Restore failed", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":          "Restore completed successfully",
		"restored_users":   len(backup.Users),
		"restored_records": len(backup.TrackingRecords),
	})
}

// decodeBackup parses a backup file, accepting both the base64 envelope
// produced by Create and plain JSON.
func decodeBackup(content []byte) (*models.Backup, error) {
	var backup models.Backup
	if decoded, err := base64.StdEncoding.DecodeString(string(content)); err == nil {
		if err := json.Unmarshal(decoded, &backup); err == nil {
			return &backup, nil
		}
	}
	if err := json.Unmarshal(content, &backup); err != nil {
		return nil, err
	}
	return &backup, nil
}
