package models

import (
	"errors"
	"time"
)

// ErrAlreadyCanceled is returned when cancellation is attempted on an event
// that has already been canceled. An event never transitions back to active.
var ErrAlreadyCanceled = errors.New("event is already canceled")

// Event represents a scheduled campus activity (e.g., a review session or
// guest lecture) together with its cancellation state.
type Event struct {
	ID            string    // Unique identifier for the event
	Title         string    // Summary or title of the event
	Description   string    // Detailed description of the event
	StartsAt      time.Time // Start time; always before EndsAt
	EndsAt        time.Time // End time of the event
	Location      string    // Location of the event
	OrganizerID   string    // Organizer's account identifier
	OrganizerName string    // Organizer's display name

	Canceled           bool       // True once the event has been canceled
	CancellationReason string     // Set only when Canceled is true
	CanceledAt         *time.Time // Set only when Canceled is true
}

// Cancel marks the event as canceled. The transition happens at most once;
// a second call returns ErrAlreadyCanceled and leaves the event untouched.
func (e *Event) Cancel(reason string, at time.Time) error {
	if e.Canceled {
		return ErrAlreadyCanceled
	}
	e.Canceled = true
	e.CancellationReason = reason
	e.CanceledAt = &at
	return nil
}
