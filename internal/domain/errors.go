// Package domain holds error classes shared across layers.
package domain

import "errors"

// Domain errors.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a request failed validation before reaching
	// the domain model.
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrForbidden indicates an operation disabled by configuration.
	ErrForbidden = errors.New("forbidden")
)
