package model

import (
	"errors"
	"time"
)

// User represents a registered user.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          *string   `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	Bio            *string   `db:"bio" json:"bio"`
	Title          *string   `db:"title" json:"title"`
	Role           string    `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the lightweight author representation embedded in
// products, comments and follow lists.
type UserSummary struct {
	ID        int64   `db:"id" json:"id"`
	Username  string  `db:"username" json:"username"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
	Title     *string `db:"title" json:"title,omitempty"`
}

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Password string  `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when the email is already registered
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
