package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/models"
)

// blockingIntegration never completes until its context expires.
type blockingIntegration struct {
	name string
}

func (b *blockingIntegration) Name() string { return b.name }

func (b *blockingIntegration) Deliver(ctx context.Context, _ *models.Event, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestNewEngine_DuplicateTarget(t *testing.T) {
	logger := discardLogger()
	_, err := NewEngine(logger,
		NewSimulatedIntegration(logger, "google_calendar"),
		NewSimulatedIntegration(logger, "google_calendar"),
	)
	assert.Error(t, err)
}

func TestSyncEvent_DefaultTargets(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t,
		NewSimulatedIntegration(logger, "google_calendar"),
		NewSimulatedIntegration(logger, "outlook"),
	)

	batch, err := e.SyncEvent(context.Background(), sampleEvent())
	require.NoError(t, err)

	assert.True(t, batch.OverallSuccess)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, "google_calendar", batch.Results[0].Integration)
	assert.Equal(t, "outlook", batch.Results[1].Integration)
	for _, r := range batch.Results {
		assert.True(t, r.Success)
		assert.Empty(t, r.ErrMessage)
		assert.Equal(t, "evt-42", r.EventID)
		assert.Positive(t, r.DocBytes)
	}
}

func TestSyncEvent_PartialFailure(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t,
		NewFailingIntegration(logger, "google_calendar", errors.New("api quota exhausted")),
		NewSimulatedIntegration(logger, "outlook"),
	)
	event := sampleEvent()

	batch, err := e.SyncEvent(context.Background(), event)
	require.NoError(t, err)

	assert.False(t, batch.OverallSuccess)
	require.Len(t, batch.Results, 2, "failing target does not block the other")
	assert.False(t, batch.Results[0].Success)
	assert.Contains(t, batch.Results[0].ErrMessage, "api quota exhausted")
	assert.True(t, batch.Results[1].Success)

	history := e.History().ForEvent(event.ID)
	require.Len(t, history, 2, "both attempts recorded in history")
	assert.False(t, history[0].Success)
	assert.True(t, history[1].Success)
}

func TestSyncEvent_UnknownTarget(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t, NewSimulatedIntegration(logger, "google_calendar"))
	event := sampleEvent()

	_, err := e.SyncEvent(context.Background(), event, "google_calendar", "lotus_notes")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "lotus_notes", ce.Integration)

	// Fails fast: nothing was attempted, not even the known target.
	assert.Empty(t, e.History().ForEvent(event.ID))
}

func TestSyncEvent_ExplicitSubset(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t,
		NewSimulatedIntegration(logger, "google_calendar"),
		NewSimulatedIntegration(logger, "outlook"),
	)

	batch, err := e.SyncEvent(context.Background(), sampleEvent(), "outlook")
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "outlook", batch.Results[0].Integration)
}

func TestSyncEvent_TimeoutSurfacesAsFailure(t *testing.T) {
	e := fixedEngine(t,
		&blockingIntegration{name: "slow_provider"},
		NewSimulatedIntegration(discardLogger(), "outlook"),
	)
	e.timeout = 20 * time.Millisecond

	batch, err := e.SyncEvent(context.Background(), sampleEvent())
	require.NoError(t, err, "a timeout is a sync failure, not a crash")

	assert.False(t, batch.OverallSuccess)
	assert.False(t, batch.Results[0].Success)
	assert.Contains(t, batch.Results[0].ErrMessage, "context deadline exceeded")
	assert.True(t, batch.Results[1].Success)
}

func TestHistory_AccumulatesMonotonically(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t,
		NewSimulatedIntegration(logger, "google_calendar"),
		NewSimulatedIntegration(logger, "outlook"),
	)
	event := sampleEvent()

	const batches = 3
	for i := 0; i < batches; i++ {
		_, err := e.SyncEvent(context.Background(), event)
		require.NoError(t, err)
	}

	history := e.History().ForEvent(event.ID)
	assert.Len(t, history, batches*2, "k batches with m targets yield k*m entries")
}

func TestHistory_FilterByIntegration(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t,
		NewSimulatedIntegration(logger, "google_calendar"),
		NewSimulatedIntegration(logger, "outlook"),
	)
	event := sampleEvent()
	_, err := e.SyncEvent(context.Background(), event)
	require.NoError(t, err)

	filtered := e.History().ForEvent(event.ID, "outlook")
	require.Len(t, filtered, 1)
	assert.Equal(t, "outlook", filtered[0].Integration)

	assert.Empty(t, e.History().ForEvent(event.ID, "lotus_notes"))
	assert.Empty(t, e.History().ForEvent("other-event"))
}

func TestHistory_ReturnsCopy(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t, NewSimulatedIntegration(logger, "google_calendar"))
	event := sampleEvent()
	_, err := e.SyncEvent(context.Background(), event)
	require.NoError(t, err)

	snapshot := e.History().ForEvent(event.ID)
	require.Len(t, snapshot, 1)
	snapshot[0].Success = false

	assert.True(t, e.History().ForEvent(event.ID)[0].Success, "history is immutable")
}

func TestSyncEvent_IndependentEventsConcurrently(t *testing.T) {
	logger := discardLogger()
	e := fixedEngine(t,
		NewSimulatedIntegration(logger, "google_calendar"),
		NewSimulatedIntegration(logger, "outlook"),
	)

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		event := sampleEvent()
		event.ID = string(rune('a' + i))
		go func() {
			_, err := e.SyncEvent(context.Background(), event)
			assert.NoError(t, err)
			done <- event.ID
		}()
	}
	for i := 0; i < 8; i++ {
		id := <-done
		assert.Len(t, e.History().ForEvent(id), 2)
	}
}
