package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals that a referenced id does not exist at
	// read/update/delete time.
	ErrNotFound = errors.New("resource not found")

	// ErrIntegrityViolation signals that storage rejected a write because
	// another row still references the target.
	ErrIntegrityViolation = errors.New("database integrity violation")

	// ErrDuplicateKey signals a unique constraint conflict on a natural key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrIdentityNotFound signals that an authentication-path email lookup
	// found no account. Kept distinct from ErrNotFound because the
	// authentication collaborator reacts differently to it.
	ErrIdentityNotFound = errors.New("identity not found")
)

// FieldMessage carries a single field-level validation violation.
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found in one validation pass.
// It is never truncated to the first violation.
type ValidationError struct {
	Violations []FieldMessage
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError wraps a non-empty violation list into an error.
func NewValidationError(violations []FieldMessage) *ValidationError {
	return &ValidationError{Violations: violations}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}
