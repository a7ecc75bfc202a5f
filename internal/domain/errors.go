package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvitationUsed       = errors.New("invitation already used")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrPaymentNotConfigured = errors.New("ticket price not configured")
	ErrDuplicateEmail       = errors.New("email already in use")
)

// ValidationError lists the request fields that are missing or malformed.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields []string
}

// NewValidationError returns a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
