package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrStoreFault marks a failure of the record store itself. It is always
	// reported to callers as a generic server error.
	ErrStoreFault = errors.New("store fault")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Login errors. Unknown email and wrong password are deliberately the
	// same value.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = fmt.Errorf("account is deactivated: %w", ErrInvalidCredentials)

	// Promotion errors.
	ErrAlreadyAdmin = errors.New("student is already an admin")

	// Auth gate errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
