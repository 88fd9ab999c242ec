// Package store provides the in-memory event and RSVP stores. Both are
// safe for concurrent use and are injected into services at construction
// time so tests can run against isolated fixtures.
package store

import (
	"fmt"
	"sync"
	"time"

	"campusevents/internal/models"
)

// EventStore holds events keyed by id and serializes mutations so that
// concurrent cancellation of the same event is deterministic: the first
// caller wins, every later caller gets models.ErrAlreadyCanceled.
type EventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

// NewEventStore creates an empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]*models.Event)}
}

// Add registers an event. The start time must precede the end time.
func (s *EventStore) Add(event *models.Event) error {
	if !event.StartsAt.Before(event.EndsAt) {
		return fmt.Errorf("event %s: start time must be before end time", event.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	s.events[event.ID] = event
	return nil
}

// Get returns the event with the given id.
func (s *EventStore) Get(id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s not found", id)
	}
	return event, nil
}

// Cancel transitions the event to canceled under the store lock.
func (s *EventStore) Cancel(id, reason string, at time.Time) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s not found", id)
	}
	if err := event.Cancel(reason, at); err != nil {
		return nil, err
	}
	return event, nil
}

// RSVPDirectory maps an event to the students who registered interest in
// it, preserving insertion order per event.
type RSVPDirectory struct {
	mu    sync.Mutex
	byEvt map[string][]models.RSVP
}

// NewRSVPDirectory creates an empty RSVPDirectory.
func NewRSVPDirectory() *RSVPDirectory {
	return &RSVPDirectory{byEvt: make(map[string][]models.RSVP)}
}

// Add records an RSVP at the end of the event's sequence.
func (d *RSVPDirectory) Add(rsvp models.RSVP) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byEvt[rsvp.EventID] = append(d.byEvt[rsvp.EventID], rsvp)
}

// ForEvent returns the confirmed RSVPs for an event in insertion order.
// An event without RSVPs yields an empty slice, not an error.
func (d *RSVPDirectory) ForEvent(eventID string) []models.RSVP {
	d.mu.Lock()
	defer d.mu.Unlock()
	var confirmed []models.RSVP
	for _, rsvp := range d.byEvt[eventID] {
		if rsvp.Status == models.RSVPStatusConfirmed {
			confirmed = append(confirmed, rsvp)
		}
	}
	return confirmed
}

// Count returns the number of confirmed RSVPs for an event.
func (d *RSVPDirectory) Count(eventID string) int {
	return len(d.ForEvent(eventID))
}
