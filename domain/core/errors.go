package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Source errors
	ErrDataSource = errors.New("data source unreadable")

	// Soft errors, local to the computation that raised them
	ErrMissingColumn    = errors.New("missing column")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Lookup errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
)

// Error constructors with context
func NewDataSourceError(source string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDataSource, source)
	}
	return fmt.Errorf("%w: %s: %v", ErrDataSource, source, err)
}

func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

func NewInsufficientDataError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, fmt.Sprintf(format, args...))
}

// Error checking helpers
func IsDataSourceError(err error) bool {
	return errors.Is(err, ErrDataSource)
}

func IsMissingColumnError(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsSoftError reports whether err only disables the computation that produced it.
func IsSoftError(err error) bool {
	return IsMissingColumnError(err) || IsInsufficientDataError(err)
}
