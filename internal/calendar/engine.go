package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"campusevents/internal/models"
)

const (
	defaultAttemptTimeout = 10 * time.Second
	maxConcurrentSyncs    = 4
)

// ConfigurationError reports a sync request naming an integration target
// that was never registered. It is raised before any delivery attempt.
type ConfigurationError struct {
	Integration string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown integration target %q", e.Integration)
}

// IsConfigurationError reports whether err is a ConfigurationError,
// unwrapping as needed.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// Integration is a named external calendar target capable of receiving a
// serialized calendar-exchange document. Implementations may be simulated
// or backed by a real provider API.
type Integration interface {
	Name() string
	Deliver(ctx context.Context, event *models.Event, doc string) error
}

// SyncBatchResult summarizes one SyncEvent call across all requested
// integration targets.
type SyncBatchResult struct {
	EventID        string
	Results        []models.SyncResult // Request order
	OverallSuccess bool                // True iff every attempted target succeeded
	Timestamp      time.Time
}

// Engine generates calendar documents and replays them against a fixed
// registry of integration targets. The registry is read-only after
// construction, so a single Engine may serve concurrent callers syncing
// independent events.
type Engine struct {
	logger   *slog.Logger
	registry map[string]Integration
	order    []string // Registration order; doubles as the default target set
	history  *History
	timeout  time.Duration
	now      func() time.Time
}

// NewEngine creates an Engine with the given integration targets as its
// default set. Target names must be unique.
func NewEngine(logger *slog.Logger, integrations ...Integration) (*Engine, error) {
	e := &Engine{
		logger:   logger,
		registry: make(map[string]Integration, len(integrations)),
		history:  NewHistory(),
		timeout:  defaultAttemptTimeout,
		now:      time.Now,
	}
	for _, integ := range integrations {
		name := integ.Name()
		if _, dup := e.registry[name]; dup {
			return nil, fmt.Errorf("duplicate integration target %q", name)
		}
		e.registry[name] = integ
		e.order = append(e.order, name)
	}
	return e, nil
}

// History returns the engine's append-only sync history.
func (e *Engine) History() *History {
	return e.history
}

// SyncEvent serializes the event and delivers the document to each named
// integration target, defaulting to the full registered set. Every target
// is attempted regardless of other targets' outcomes; each attempt runs
// under the engine's timeout budget and its result is appended to the
// event's history in request order. The only error returned is a
// ConfigurationError for an unknown target name, raised before any
// attempt is made.
func (e *Engine) SyncEvent(ctx context.Context, event *models.Event, names ...string) (SyncBatchResult, error) {
	if len(names) == 0 {
		names = e.order
	}
	targets := make([]Integration, len(names))
	for i, name := range names {
		integ, ok := e.registry[name]
		if !ok {
			return SyncBatchResult{}, &ConfigurationError{Integration: name}
		}
		targets[i] = integ
	}

	doc, err := e.GenerateSyncDocument(event)
	if err != nil {
		return SyncBatchResult{}, err
	}

	batchStart := e.now()
	results := make([]models.SyncResult, len(targets))

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentSyncs)
	for i, target := range targets {
		g.Go(func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			result := models.SyncResult{
				EventID:     event.ID,
				Integration: target.Name(),
				Success:     true,
				Timestamp:   e.now(),
				DocBytes:    len(doc),
			}
			if err := target.Deliver(attemptCtx, event, doc); err != nil {
				result.Success = false
				result.ErrMessage = err.Error()
				e.logger.Error("Calendar sync failed.",
					"integration", target.Name(), "eventID", event.ID, "error", err)
			} else {
				e.logger.Info("Calendar sync succeeded.",
					"integration", target.Name(), "eventID", event.ID, "bytes", len(doc))
			}
			results[i] = result
			return nil
		})
	}
	// Delivery failures live in the results, never in the group error.
	_ = g.Wait()

	overall := true
	for _, r := range results {
		if !r.Success {
			overall = false
			break
		}
	}
	e.history.Append(event.ID, results...)

	return SyncBatchResult{
		EventID:        event.ID,
		Results:        results,
		OverallSuccess: overall,
		Timestamp:      batchStart,
	}, nil
}
