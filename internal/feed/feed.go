// Package feed maintains the ordered in-memory event feed shown to
// students. Canceled events never appear in the feed.
package feed

import (
	"sync"

	"campusevents/internal/models"
)

// Feed is the list of visible events in insertion order.
type Feed struct {
	mu     sync.Mutex
	events []*models.Event
}

// New creates an empty Feed.
func New() *Feed {
	return &Feed{}
}

// Add appends the event to the feed unless it is canceled.
func (f *Feed) Add(event *models.Event) {
	if event.Canceled {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

// Remove drops the event from the feed. Returns true if it was present.
func (f *Feed) Remove(eventID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.events {
		if e.ID == eventID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return true
		}
	}
	return false
}

// Events returns a snapshot of the current feed in order.
func (f *Feed) Events() []*models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Event, len(f.events))
	copy(out, f.events)
	return out
}
