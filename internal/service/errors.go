package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-screenly/internal/validators"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")

	ErrResetTokenNotFound    = errors.New("invalid or expired reset token")
	ErrResetTokenExpired     = errors.New("reset token has expired")
	ErrResetTokenAlreadyUsed = errors.New("reset token has already been used")

	ErrInvalidMovieID     = errors.New("invalid movie id")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrCatalogUnavailable = errors.New("catalog is unavailable")

	ErrVersionIsNotSpecified   = errors.New("app version is not specified")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)

// invalidField builds an ErrValidation carrying a single client-facing
// violation.
func invalidField(field, rule, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &validators.ValidationError{
		Violations: []validators.FieldViolation{{Field: field, Rule: rule, Message: message}},
	})
}

// validationFailed wraps a validator result into ErrValidation.
func validationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
