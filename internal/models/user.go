package models

import "time"

// Role represents user roles in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	return role == RoleAdmin || role == RoleUser
}

// User represents a user in the system
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	CreatedBy    string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	AccessToken   string        `json:"access_token"`
	TokenType     string        `json:"token_type"`
	User          UserInfo      `json:"user"`
	LicenseStatus LicenseStatus `json:"license_status"`
}

// UserInfo is the public view of a user returned to clients.
type UserInfo struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Claims represents JWT claims
type Claims struct {
	Username string `json:"sub"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}
