package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/vehicle-tracker/internal/auth"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/middleware"
	"github.com/ukydev/vehicle-tracker/internal/models"
)

// UsersHandler handles user management requests
type UsersHandler struct {
	authService *auth.Service
	users       db.UserCollection
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(authService *auth.Service, users db.UserCollection) *UsersHandler {
	return &UsersHandler{
		authService: authService,
		users:       users,
	}
}

// Create handles user creation
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var createReq models.CreateUserRequest
	if err := json.Unmarshal(body, &createReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidateUsername(createReq.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(createReq.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if createReq.Role == "" {
		createReq.Role = models.RoleUser
	}
	if !models.IsValidRole(createReq.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	// Check if username already exists
	if _, err := h.users.FindUserByUsername(r.Context(), createReq.Username); err == nil {
		http.Error(w, "Username already exists", http.StatusBadRequest)
		return
	}

	passwordHash, err := h.authService.HashPassword(createReq.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     createReq.Username,
		PasswordHash: passwordHash,
		Role:         createReq.Role,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    claims.Username,
	}

	if err := h.users.InsertUser(r.Context(), user); err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message":  "User created successfully",
		"username": user.Username,
	})
}

// List returns all users except the built-in admin.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"users": users})
}

// Delete removes a user by username. System accounts cannot be deleted.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if username == "" {
		http.Error(w, "Username required", http.StatusBadRequest)
		return
	}

	if username == "admin" || username == DefaultUsername {
		http.Error(w, "Cannot delete system users", http.StatusBadRequest)
		return
	}

	if err := h.users.DeleteUserByUsername(r.Context(), username); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User deleted successfully"})
}
