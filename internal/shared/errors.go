package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates client-correctable input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or expired auth token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller's role may not perform the operation.
	ErrForbidden = errors.New("forbidden")
)

// ValidationErrorf wraps ErrValidation with a user-facing message.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
