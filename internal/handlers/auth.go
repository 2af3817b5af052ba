package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ukydev/vehicle-tracker/internal/auth"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/license"
	"github.com/ukydev/vehicle-tracker/internal/models"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService    *auth.Service
	licenseService *license.Service
	users          db.UserCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, licenseService *license.Service, users db.UserCollection) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		licenseService: licenseService,
		users:          users,
	}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var loginReq models.LoginRequest
	if err := json.Unmarshal(body, &loginReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.FindUserByUsername(r.Context(), loginReq.Username)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// An expired license locks out everyone but the admin, who must be
	// able to get in to renew it.
	licenseStatus, err := h.licenseService.Status(r.Context())
	if err != nil {
		http.Error(w, "Failed to check license", http.StatusInternalServerError)
		return
	}
	if licenseStatus.Expired && user.Role != models.RoleAdmin {
		http.Error(w, "License expired. Contact administrator.", http.StatusForbidden)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User: models.UserInfo{
			Username: user.Username,
			Role:     user.Role,
		},
		LicenseStatus: licenseStatus,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
