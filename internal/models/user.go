package models

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of user roles
type Role string

// Role constants
const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole converts a string into a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Scan implements sql.Scanner so that unknown roles are rejected when read from the store
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported role type %T", src)
	}

	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Value implements driver.Valuer so that unknown roles are rejected when written to the store
func (r Role) Value() (driver.Value, error) {
	if _, err := ParseRole(string(r)); err != nil {
		return nil, err
	}
	return string(r), nil
}

// User represents a user in the system
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
	Role         Role   `json:"role"`
}

// UserRequest is the registration payload.
// Role is accepted for compatibility but never honoured: registration always assigns RoleUser.
type UserRequest struct {
	ID       *int   `json:"id,omitempty"`
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=3"`
	Role     string `json:"role,omitempty" validate:"omitempty,min=3"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=3"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	ID          int    `json:"id" validate:"required,gt=0"`
	OldPassword string `json:"old_password" validate:"required,min=3"`
	NewPassword string `json:"new_password" validate:"required,min=3"`
}

// ToResponse converts a user into its API representation
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
