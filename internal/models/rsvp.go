package models

import "time"

// RSVP statuses. Only confirmed RSVPs are targeted by cancellation
// notifications.
const (
	RSVPStatusConfirmed = "CONFIRMED"
	RSVPStatusCanceled  = "CANCELED"
)

// RSVP records a student's intent to attend a specific event.
type RSVP struct {
	ID           string    // Unique identifier for the RSVP
	EventID      string    // Event the student registered interest in
	StudentID    string    // Student's account identifier
	StudentName  string    // Student's display name
	StudentEmail string    // Student's email address
	Status       string    // RSVPStatusConfirmed or RSVPStatusCanceled
	RespondedAt  time.Time // When the student responded
}
