package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ukydev/vehicle-tracker/internal/license"
	"github.com/ukydev/vehicle-tracker/internal/models"
)

// LicenseHandler handles license requests
type LicenseHandler struct {
	licenseService *license.Service
}

// NewLicenseHandler creates a new license handler
func NewLicenseHandler(licenseService *license.Service) *LicenseHandler {
	return &LicenseHandler{licenseService: licenseService}
}

// Current returns the latest license with its computed status.
func (h *LicenseHandler) Current(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lic, err := h.licenseService.Current(r.Context())
	if err != nil {
		if errors.Is(err, license.ErrNoLicense) {
			http.Error(w, "No license found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load license", http.StatusInternalServerError)
		return
	}

	status, err := h.licenseService.Status(r.Context())
	if err != nil {
		http.Error(w, "Failed to check license", http.StatusInternalServerError)
		return
	}

	response := struct {
		models.License
		StatusInfo models.LicenseStatus `json:"status_info"`
	}{License: *lic, StatusInfo: status}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Renew extends the license from its current end date.
func (h *LicenseHandler) Renew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var renewReq models.RenewLicenseRequest
	if err := json.Unmarshal(body, &renewReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if renewReq.DurationMonths <= 0 {
		http.Error(w, "Duration must be positive", http.StatusBadRequest)
		return
	}

	lic, err := h.licenseService.Renew(r.Context(), renewReq.DurationMonths)
	if err != nil {
		if errors.Is(err, license.ErrNoLicense) {
			http.Error(w, "No license found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to renew license", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":         "License renewed successfully",
		"new_expiry":      lic.EndDate,
		"duration_months": lic.DurationMonths,
	})
}
