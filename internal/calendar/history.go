package calendar

import (
	"sync"

	"campusevents/internal/models"
)

// History is the append-only audit log of sync attempts, kept per event
// in attempt order. Entries are never mutated or deleted.
type History struct {
	mu      sync.Mutex
	byEvent map[string][]models.SyncResult
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{byEvent: make(map[string][]models.SyncResult)}
}

// Append records sync results for an event, preserving the given order.
func (h *History) Append(eventID string, results ...models.SyncResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byEvent[eventID] = append(h.byEvent[eventID], results...)
}

// ForEvent returns the ordered sync results for an event, optionally
// restricted to the named integration targets. The returned slice is a
// copy; callers cannot alter the history through it.
func (h *History) ForEvent(eventID string, integrations ...string) []models.SyncResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.byEvent[eventID]
	if len(integrations) == 0 {
		out := make([]models.SyncResult, len(entries))
		copy(out, entries)
		return out
	}

	wanted := make(map[string]bool, len(integrations))
	for _, name := range integrations {
		wanted[name] = true
	}
	var out []models.SyncResult
	for _, r := range entries {
		if wanted[r.Integration] {
			out = append(out, r)
		}
	}
	return out
}
