// Package common defines shared constants and sentinel errors used across
// repositories, services and the HTTP layer. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Principal resolution and guards.
	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrForbidden       = errors.New("admin privileges required")

	// Login and registration.
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrEmailAlreadyExists   = errors.New("user with this email already exists")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")

	// Lookups that callers report as 404. Each wraps ErrorNotFound.
	ErrUserNotFound       = fmt.Errorf("user %w", ErrorNotFound)
	ErrJobNotFound        = fmt.Errorf("job %w", ErrorNotFound)
	ErrExperienceNotFound = fmt.Errorf("experience %w", ErrorNotFound)

	// Applications.
	ErrAlreadyApplied = errors.New("you already applied for this job")

	// Resume storage.
	ErrNoResume       = fmt.Errorf("resume %w", ErrorNotFound)
	ErrResumeTooLarge = errors.New("resume file is too large")
)
