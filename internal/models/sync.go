package models

import "time"

// SyncResult records the outcome of delivering one event to one external
// calendar integration. Results are appended to the per-event sync history
// and never mutated afterwards.
type SyncResult struct {
	EventID     string
	Integration string    // Name of the integration target
	Success     bool      // Whether the delivery attempt succeeded
	Timestamp   time.Time // When the attempt was made
	ErrMessage  string    // Set only when Success is false
	DocBytes    int       // Size of the serialized calendar document
}
