package services

import (
	"errors"
	"fmt"
)

// ValidationError is an invalid-input failure detected before any I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrEntryNotFound means an edit or delete targeted a meal that is not in the day's log.
	ErrEntryNotFound = errors.New("meal entry not found")
	// ErrNegativeTotal means applying the change would drive consumed calories below zero.
	ErrNegativeTotal = errors.New("consumed calories would become negative")
	// ErrEstimatorUnavailable wraps transport or service failures of the text generator.
	ErrEstimatorUnavailable = errors.New("calorie estimator unavailable")
	// ErrInvalidCredentials is returned by Login for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUploadsDisabled is returned when no image storage is configured.
	ErrUploadsDisabled = errors.New("image uploads are not configured")
)

// ConsistencyError aborts a ledger transaction whose view of the day was stale or corrupt.
type ConsistencyError struct {
	Date    string
	EntryID string
	Err     error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("daily log %s, entry %s: %v", e.Date, e.EntryID, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }

// IsConsistencyError reports whether err is a ConsistencyError.
func IsConsistencyError(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
