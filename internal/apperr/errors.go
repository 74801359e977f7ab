// Package apperr defines the error taxonomy shared by the scheduling
// services: conflicts, validation failures, policy violations and
// remote-store degradation.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrSessionNotFound  = errors.New("session entry not found")
	ErrFeedbackNotFound = errors.New("pending feedback not found")

	// ErrRemoteUnavailable marks a failed remote persistence call. It is
	// logged and never surfaced to the caller of a mutation; the local
	// store stays authoritative.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// ConflictError reports that a requested (date, time) is already taken
// by a non-cancelled booking. Week is 1-based for series creation and
// zero for single bookings.
type ConflictError struct {
	Date string
	Time string
	Week int
}

func (e *ConflictError) Error() string {
	if e.Week > 0 {
		return fmt.Sprintf("slot %s %s already booked (week %d)", e.Date, e.Time, e.Week)
	}
	return fmt.Sprintf("slot %s %s already booked", e.Date, e.Time)
}

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PolicyViolation reports an operation the business rules forbid, such
// as cancelling a fully paid 10-pack booking.
type PolicyViolation struct {
	Rule string
}

func (e *PolicyViolation) Error() string {
	return e.Rule
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPolicy reports whether err is a PolicyViolation.
func IsPolicy(err error) bool {
	var pe *PolicyViolation
	return errors.As(err, &pe)
}
