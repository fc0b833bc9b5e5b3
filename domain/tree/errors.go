package tree

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation error")

	// ErrUnknownNode indicates an id that does not exist in the current forest.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateReference indicates an id referenced twice in one submission.
	ErrDuplicateReference = errors.New("duplicate reference")

	// ErrDuplicateID indicates a corrupt snapshot where two nodes share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrIncompleteOrder indicates a submission that drops existing nodes.
	ErrIncompleteOrder = errors.New("incomplete order")

	// ErrStructuralViolation indicates a node shape the forest cannot hold.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrSessionBusy indicates an operation attempted while a save is in flight.
	ErrSessionBusy = errors.New("session is saving")
)

// ValidationError reports an empty or invalid required field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Unwrap returns ErrValidation for errors.Is compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnknownNodeError reports an id missing from the current forest.
type UnknownNodeError struct {
	ID string
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.ID)
}

// Unwrap returns ErrUnknownNode for errors.Is compatibility.
func (e *UnknownNodeError) Unwrap() error { return ErrUnknownNode }

// DuplicateReferenceError reports an id referenced more than once.
type DuplicateReferenceError struct {
	ID string
}

// Error implements the error interface.
func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("node %q is referenced more than once", e.ID)
}

// Unwrap returns ErrDuplicateReference for errors.Is compatibility.
func (e *DuplicateReferenceError) Unwrap() error { return ErrDuplicateReference }

// DuplicateIDError reports two nodes sharing an id in one snapshot.
type DuplicateIDError struct {
	ID string
}

// Error implements the error interface.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node id %q", e.ID)
}

// Unwrap returns ErrDuplicateID for errors.Is compatibility.
func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// IncompleteOrderError reports existing ids that a submission left out.
type IncompleteOrderError struct {
	Missing []string
}

// Error implements the error interface.
func (e *IncompleteOrderError) Error() string {
	return fmt.Sprintf("order omits %d existing node(s): %s", len(e.Missing), strings.Join(e.Missing, ", "))
}

// Unwrap returns ErrIncompleteOrder for errors.Is compatibility.
func (e *IncompleteOrderError) Unwrap() error { return ErrIncompleteOrder }

// StructuralViolationError reports a node that cannot hold its position.
type StructuralViolationError struct {
	ID     string
	Reason string
}

// NewStructuralViolationError creates a new StructuralViolationError.
func NewStructuralViolationError(id, reason string) *StructuralViolationError {
	return &StructuralViolationError{ID: id, Reason: reason}
}

// Error implements the error interface.
func (e *StructuralViolationError) Error() string {
	if e.ID == "" {
		return e.Reason
	}
	return fmt.Sprintf("node %q: %s", e.ID, e.Reason)
}

// Unwrap returns ErrStructuralViolation for errors.Is compatibility.
func (e *StructuralViolationError) Unwrap() error { return ErrStructuralViolation }
