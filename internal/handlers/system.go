package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/vehicle-tracker/internal/auth"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/license"
	"github.com/ukydev/vehicle-tracker/internal/models"
)

// DefaultUsername is the user account created during initial setup.
const DefaultUsername = "ANDREAS"

// SystemHandler handles the setup probe and initial setup.
type SystemHandler struct {
	authService    *auth.Service
	licenseService *license.Service
	users          db.UserCollection
	records        db.TrackingCollection
	system         db.SystemCollection
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(authService *auth.Service, licenseService *license.Service, users db.UserCollection, records db.TrackingCollection, system db.SystemCollection) *SystemHandler {
	return &SystemHandler{
		authService:    authService,
		licenseService: licenseService,
		users:          users,
		records:        records,
		system:         system,
	}
}

// Status reports setup and license state. No auth: the frontend calls
// this before anyone can log in.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	isSetup, err := h.system.GetFlag(r.Context(), db.SetupCompleteKey)
	if err != nil {
		http.Error(w, "Failed to read system state", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if !isSetup {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"is_setup_complete": false,
			"license_status":    models.LicenseNotSetup,
			"message":           "Initial setup required",
		})
		return
	}

	licenseStatus, err := h.licenseService.Status(r.Context())
	if err != nil {
		http.Error(w, "Failed to check license", http.StatusInternalServerError)
		return
	}
	totalUsers, err := h.users.CountUsers(r.Context())
	if err != nil {
		http.Error(w, "Failed to count users", http.StatusInternalServerError)
		return
	}
	totalRecords, err := h.records.CountRecords(r.Context())
	if err != nil {
		http.Error(w, "Failed to count records", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(models.SystemStatus{
		IsSetupComplete: true,
		LicenseStatus:   licenseStatus.Status,
		LicenseExpiry:   licenseStatus.EndDate,
		DaysRemaining:   licenseStatus.DaysRemaining,
		TotalUsers:      totalUsers,
		TotalRecords:    totalRecords,
	})
}

// InitialSetup runs once: it creates the admin account, the default
// user and a fixed 12-month license, then flips the setup flag.
func (h *SystemHandler) InitialSetup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	isSetup, err := h.system.GetFlag(r.Context(), db.SetupCompleteKey)
	if err != nil {
		http.Error(w, "Failed to read system state", http.StatusInternalServerError)
		return
	}
	if isSetup {
		http.Error(w, "Setup already completed", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var setupReq struct {
		AdminPassword       string `json:"admin_password"`
		DefaultUserPassword string `json:"default_user_password"`
	}
	if err := json.Unmarshal(body, &setupReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(setupReq.AdminPassword); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(setupReq.DefaultUserPassword); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()

	adminHash, err := h.authService.HashPassword(setupReq.AdminPassword)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}
	if err := h.users.InsertUser(r.Context(), models.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		PasswordHash: adminHash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
	}); err != nil {
		http.Error(w, "Failed to create admin user", http.StatusInternalServerError)
		return
	}

	defaultHash, err := h.authService.HashPassword(setupReq.DefaultUserPassword)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}
	if err := h.users.InsertUser(r.Context(), models.User{
		ID:           uuid.NewString(),
		Username:     DefaultUsername,
		PasswordHash: defaultHash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		CreatedBy:    "system",
	}); err != nil {
		http.Error(w, "Failed to create default user", http.StatusInternalServerError)
		return
	}

	if _, err := h.licenseService.CreateInitial(r.Context()); err != nil {
		http.Error(w, "Failed to create license", http.StatusInternalServerError)
		return
	}

	if err := h.system.SetFlag(r.Context(), db.SetupCompleteKey, true); err != nil {
		http.Error(w, "Failed to mark setup complete", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message":          "Setup completed successfully",
		"admin_username":   "admin",
		"default_user":     DefaultUsername,
		"license_duration": "12 months",
	})
}
