package cancellation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/models"
)

// lateWindowHours is the notice period below which a cancellation reason
// becomes mandatory. The boundary is exclusive: exactly 24 hours of notice
// is not a late cancellation.
const lateWindowHours = 24

// ValidationError reports a late cancellation attempted without a reason.
// It is always recoverable: the caller can supply a reason and retry.
type ValidationError struct {
	HoursUntilEvent float64
	Message         string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (event starts in %.1f hours)", e.Message, e.HoursUntilEvent)
}

// IsValidationError reports whether err is a ValidationError, unwrapping
// as needed.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationResult describes the outcome of a successful cancellation
// validation.
type ValidationResult struct {
	Valid              bool
	IsLateCancellation bool
	HoursUntilEvent    float64 // Negative when the event already started
	Message            string
}

// ValidateCancellationReason decides whether a cancellation is allowed at
// the instant now. A reason is required only for late cancellations, i.e.
// when the event starts in strictly less than 24 hours but has not started
// yet. Events that already started are deliberately not treated as late;
// see the package design notes.
func ValidateCancellationReason(event *models.Event, reason string, now time.Time) (ValidationResult, error) {
	hoursUntil := event.StartsAt.Sub(now).Hours()
	isLate := hoursUntil > 0 && hoursUntil < lateWindowHours
	hasReason := strings.TrimSpace(reason) != ""

	if isLate && !hasReason {
		return ValidationResult{}, &ValidationError{
			HoursUntilEvent: hoursUntil,
			Message:         "reason required for cancellations within 24 hours of the event start",
		}
	}

	result := ValidationResult{
		Valid:              true,
		IsLateCancellation: isLate,
		HoursUntilEvent:    hoursUntil,
	}
	switch {
	case isLate:
		result.Message = fmt.Sprintf("late cancellation validated; event starts in %.1f hours, reason provided", hoursUntil)
	case hasReason:
		result.Message = fmt.Sprintf("cancellation validated; event starts in %.1f hours, reason noted", hoursUntil)
	default:
		result.Message = fmt.Sprintf("cancellation validated; event starts in %.1f hours, no reason required", hoursUntil)
	}
	return result, nil
}
