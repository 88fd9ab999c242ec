package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/models"
)

func testEvent(id string) *models.Event {
	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	return &models.Event{
		ID:       id,
		Title:    "Career Fair Prep",
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
	}
}

func TestEventStore_AddAndGet(t *testing.T) {
	s := NewEventStore()
	require.NoError(t, s.Add(testEvent("evt-1")))

	got, err := s.Get("evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Career Fair Prep", got.Title)

	_, err = s.Get("missing")
	assert.Error(t, err)
}

func TestEventStore_Add_Rejections(t *testing.T) {
	s := NewEventStore()
	require.NoError(t, s.Add(testEvent("evt-1")))
	assert.Error(t, s.Add(testEvent("evt-1")), "duplicate id")

	bad := testEvent("evt-2")
	bad.EndsAt = bad.StartsAt
	assert.Error(t, s.Add(bad), "start must precede end")
}

func TestEventStore_Cancel(t *testing.T) {
	s := NewEventStore()
	require.NoError(t, s.Add(testEvent("evt-1")))

	at := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	event, err := s.Cancel("evt-1", "Low enrollment", at)
	require.NoError(t, err)
	assert.True(t, event.Canceled)

	_, err = s.Cancel("evt-1", "Again", at.Add(time.Minute))
	assert.ErrorIs(t, err, models.ErrAlreadyCanceled)
}

func TestEventStore_ConcurrentCancel(t *testing.T) {
	s := NewEventStore()
	require.NoError(t, s.Add(testEvent("evt-1")))

	const callers = 16
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Cancel("evt-1", "race", time.Now())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrAlreadyCanceled)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one caller wins the cancellation")
}

func TestRSVPDirectory_OrderAndFilter(t *testing.T) {
	d := NewRSVPDirectory()
	d.Add(models.RSVP{ID: "r1", EventID: "evt-1", StudentID: "s1", Status: models.RSVPStatusConfirmed})
	d.Add(models.RSVP{ID: "r2", EventID: "evt-1", StudentID: "s2", Status: models.RSVPStatusCanceled})
	d.Add(models.RSVP{ID: "r3", EventID: "evt-1", StudentID: "s3", Status: models.RSVPStatusConfirmed})
	d.Add(models.RSVP{ID: "r4", EventID: "evt-2", StudentID: "s4", Status: models.RSVPStatusConfirmed})

	got := d.ForEvent("evt-1")
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].StudentID)
	assert.Equal(t, "s3", got[1].StudentID, "insertion order preserved")
	assert.Equal(t, 2, d.Count("evt-1"))
}

func TestRSVPDirectory_NoRSVPs(t *testing.T) {
	d := NewRSVPDirectory()
	assert.Empty(t, d.ForEvent("evt-1"))
	assert.Zero(t, d.Count("evt-1"))
}
