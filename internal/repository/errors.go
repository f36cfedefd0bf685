// Package repository contains the data access layer: raw SQL over *sql.DB,
// one repository per entity. Failure scenarios that handlers need to
// distinguish are reported through sentinel errors so the HTTP layer can map
// them to statuses without inspecting driver errors.
package repository

import "errors"

// Sentinel errors shared across repositories.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameExists   = errors.New("username already exists")
	ErrEmailExists      = errors.New("email already exists")
	ErrServiceNotFound  = errors.New("service not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBookingNotFound  = errors.New("booking not found")

	// ErrResetCodeInvalid is returned when a password-reset code does not
	// match any user or has already been consumed.
	ErrResetCodeInvalid = errors.New("invalid or expired reset code")
)
