// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Every operation boundary converts lower-level failures into one of
// these types so callers can branch without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports input that fails schema constraints. It is returned
// before any store call, so nothing was persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a user-scoped read that matched nothing.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persistence: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialWorkflowFailure records a goal that was created while its breakdown
// request failed. The goal stays; this is a warning, not a fatal error.
type PartialWorkflowFailure struct {
	GoalID string
	Err    error
}

func (e *PartialWorkflowFailure) Error() string {
	return fmt.Sprintf("goal %s created but breakdown failed: %v", e.GoalID, e.Err)
}

func (e *PartialWorkflowFailure) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
