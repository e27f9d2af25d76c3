// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, auth, and session can all import types without
// depending on each other.
package types

// Student represents one row of the registration table.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package before any store access. "required" means non-empty;
//     "gte=0" allows a fee of exactly zero but rejects negatives.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"   validate:"required"`
	Course string `json:"course" validate:"required"`
	Fee    int64  `json:"fee"    validate:"gte=0"`
}

// User is a credentials row. The password hash is never serialized.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload of POST /api/auth/register.
// The password and its confirmation are compared in the auth flow,
// not here — validator tags only cover per-field rules.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required"`
	Password        string `json:"password"         validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ResetRequest is the payload of POST /api/auth/reset.
type ResetRequest struct {
	Username    string `json:"username"     validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// PageRequest switches the pre-login page tab (login / register / reset).
type PageRequest struct {
	Page string `json:"page" validate:"required,oneof=login register reset"`
}

// SessionView is what GET /api/session returns: the client-visible
// slice of the server-held session.
type SessionView struct {
	LoggedIn        bool   `json:"logged_in"`
	Page            string `json:"page"`
	Username        string `json:"username,omitempty"`
	PendingDeleteID int64  `json:"pending_delete_id,omitempty"`
}
