package errors

import (
	"errors"
	"fmt"
)

// Common error types for the rental portal
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")

	// Remote API errors
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnavailable       = errors.New("remote api unavailable")

	// Store errors
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
)

// New returns an error with the given text
func New(text string) error {
	return errors.New(text)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
