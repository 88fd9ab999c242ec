package models

import "time"

// NotificationRecord is the payload handed to a notification sender for a
// single recipient. Records are ephemeral; successful sends are mirrored
// into the dispatcher's notification log.
type NotificationRecord struct {
	StudentID    string
	StudentName  string
	StudentEmail string
	EventID      string
	EventTitle   string
	Urgent       bool // True when the event was due to start within 24 hours
	SentAt       time.Time
}
