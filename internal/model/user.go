package model

import "time"

// User represents a row of the users table.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"nama" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public part of a user returned after register and login.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"nama"`
	Email string `json:"email"`
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	Token string
	User  UserResponse
}

// Profile is the user data returned by the profile endpoint. It has no
// password field.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nama"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// Timestamp marshals as UTC with millisecond precision, e.g.
// "2026-03-14T09:26:53.000Z", the format existing clients already parse.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05.000Z"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(timestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	return t.Time.UnmarshalJSON(b)
}

// AuthResponse is the body of a successful register or login response.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ProfileResponse is the body of a successful profile response.
type ProfileResponse struct {
	Success bool    `json:"success"`
	User    Profile `json:"user"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
