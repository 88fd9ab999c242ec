package calendar

import (
	"context"
	"log/slog"

	"campusevents/internal/models"
)

// SimulatedIntegration stands in for an external calendar provider. It
// logs each delivery instead of making API calls, and can be configured
// to fail every attempt for exercising partial-failure paths.
type SimulatedIntegration struct {
	name   string
	logger *slog.Logger
	err    error // Returned from every Deliver call when non-nil
}

// NewSimulatedIntegration creates a target that accepts every delivery.
func NewSimulatedIntegration(logger *slog.Logger, name string) *SimulatedIntegration {
	return &SimulatedIntegration{name: name, logger: logger}
}

// NewFailingIntegration creates a target that rejects every delivery
// with the given error.
func NewFailingIntegration(logger *slog.Logger, name string, err error) *SimulatedIntegration {
	return &SimulatedIntegration{name: name, logger: logger, err: err}
}

// Name returns the target identifier.
func (s *SimulatedIntegration) Name() string {
	return s.name
}

// Deliver simulates sending the document to the provider.
func (s *SimulatedIntegration) Deliver(ctx context.Context, event *models.Event, doc string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.err != nil {
		return s.err
	}
	s.logger.Info("Simulated calendar delivery.",
		"integration", s.name,
		"event", event.Title,
		"eventID", event.ID,
		"bytes", len(doc),
	)
	return nil
}
