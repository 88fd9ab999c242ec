// Package cancellation implements the cancellation orchestration core:
// the validation rule that gates late cancellations, the RSVP-driven
// notification fan-out, and the end-to-end cancel flow that ties them to
// the feed and the calendar sync engine.
package cancellation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusevents/internal/calendar"
	"campusevents/internal/feed"
	"campusevents/internal/models"
	"campusevents/internal/store"
)

// Service orchestrates event cancellations. All collaborators are
// injected at construction time; nothing here is a process-wide
// singleton.
type Service struct {
	logger *slog.Logger
	events *store.EventStore
	rsvps  *store.RSVPDirectory
	sender Sender
	feed   *feed.Feed
	syncer *calendar.Engine
	log    *NotificationLog

	// now is the clock used for the 24-hour rule and for urgency flags.
	// Tests replace it with a fixed instant.
	now func() time.Time
}

// NewService creates a cancellation Service.
func NewService(
	logger *slog.Logger,
	events *store.EventStore,
	rsvps *store.RSVPDirectory,
	sender Sender,
	fd *feed.Feed,
	syncer *calendar.Engine,
) *Service {
	return &Service{
		logger: logger,
		events: events,
		rsvps:  rsvps,
		sender: sender,
		feed:   fd,
		syncer: syncer,
		log:    NewNotificationLog(),
		now:    time.Now,
	}
}

// NotificationLog returns the audit log of sent notifications.
func (s *Service) NotificationLog() *NotificationLog {
	return s.log
}

// ValidateCancellationReason applies the 24-hour rule using the service
// clock.
func (s *Service) ValidateCancellationReason(event *models.Event, reason string) (ValidationResult, error) {
	return ValidateCancellationReason(event, reason, s.now())
}

// NotifyRSVPCancellation notifies every student who RSVP'd to the event
// that it was canceled. The urgency flag is recomputed at call time since
// cancellation may happen at a different instant than validation. The
// dispatcher does not check the event's cancellation state: it notifies
// whatever event it is handed, matching the rest of the flow where the
// state transition has already happened. Failure to reach one recipient
// never aborts the batch; it is recorded in the per-recipient outcomes.
func (s *Service) NotifyRSVPCancellation(ctx context.Context, event *models.Event) NotificationBatchResult {
	now := s.now()
	hoursUntil := event.StartsAt.Sub(now).Hours()
	urgent := hoursUntil < lateWindowHours

	rsvps := s.rsvps.ForEvent(event.ID)
	result := NotificationBatchResult{
		EventID:         event.ID,
		EventTitle:      event.Title,
		TotalRecipients: len(rsvps),
		HoursUntilEvent: hoursUntil,
		Timestamp:       now,
	}

	for _, rsvp := range rsvps {
		rec := models.NotificationRecord{
			StudentID:    rsvp.StudentID,
			StudentName:  rsvp.StudentName,
			StudentEmail: rsvp.StudentEmail,
			EventID:      event.ID,
			EventTitle:   event.Title,
			Urgent:       urgent,
			SentAt:       now,
		}
		outcome := RecipientOutcome{StudentID: rsvp.StudentID, Sent: true}
		if err := s.sender.Send(ctx, rec); err != nil {
			outcome.Sent = false
			outcome.ErrMessage = err.Error()
			s.logger.Error("Failed to notify student.",
				"student", rsvp.StudentID, "eventID", event.ID, "error", err)
		} else {
			if urgent {
				result.UrgentCount++
			}
			s.log.append(rec)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.logger.Info("Cancellation notifications dispatched.",
		"eventID", event.ID,
		"recipients", result.TotalRecipients,
		"urgent", urgent,
	)
	return result
}

// CancelOutcome aggregates everything that happened during one
// CancelEvent call.
type CancelOutcome struct {
	EventID         string
	Validation      ValidationResult
	RemovedFromFeed bool
	Notifications   NotificationBatchResult
	Sync            calendar.SyncBatchResult
}

// CancelEvent runs the full cancellation flow: validate the reason, mark
// the event canceled, drop it from the feed, notify RSVP'd students, and
// sync the cancellation to every default integration target. Validation
// failure and double cancellation abort the flow; notification and sync
// failures degrade into the structured outcome.
func (s *Service) CancelEvent(ctx context.Context, eventID, reason string) (CancelOutcome, error) {
	event, err := s.events.Get(eventID)
	if err != nil {
		return CancelOutcome{}, err
	}

	validation, err := s.ValidateCancellationReason(event, reason)
	if err != nil {
		return CancelOutcome{}, err
	}

	if _, err := s.events.Cancel(eventID, reason, s.now()); err != nil {
		return CancelOutcome{}, fmt.Errorf("failed to cancel event %s: %w", eventID, err)
	}
	s.logger.Info("Event canceled.", "eventID", eventID, "reason", reason)

	removed := s.feed.Remove(eventID)
	notifications := s.NotifyRSVPCancellation(ctx, event)

	sync, err := s.syncer.SyncEvent(ctx, event)
	if err != nil {
		// Only a configuration error reaches here, and the default target
		// set cannot contain an unknown name. Surface it regardless.
		return CancelOutcome{}, fmt.Errorf("failed to sync cancellation for event %s: %w", eventID, err)
	}

	return CancelOutcome{
		EventID:         eventID,
		Validation:      validation,
		RemovedFromFeed: removed,
		Notifications:   notifications,
		Sync:            sync,
	}, nil
}
