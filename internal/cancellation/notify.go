package cancellation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"campusevents/internal/models"
)

// Sender delivers a single cancellation notification to a recipient. It is
// a capability: the dispatcher constructs and targets payloads but never
// performs delivery itself.
type Sender interface {
	Send(ctx context.Context, rec models.NotificationRecord) error
}

// LogSender simulates email delivery by writing the notification to the
// structured log. Real SMTP delivery is out of scope for this core.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the cancellation notice and always succeeds.
func (s *LogSender) Send(ctx context.Context, rec models.NotificationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("Sending cancellation email.",
		"student", rec.StudentName,
		"email", rec.StudentEmail,
		"event", rec.EventTitle,
		"urgent", rec.Urgent,
	)
	return nil
}

// RecipientOutcome is the per-recipient entry in a notification batch
// result. A failed send is recorded here, never raised as an error.
type RecipientOutcome struct {
	StudentID  string
	Sent       bool
	ErrMessage string // Set only when Sent is false
}

// NotificationBatchResult summarizes one RSVP-driven notification fan-out.
type NotificationBatchResult struct {
	EventID         string
	EventTitle      string
	TotalRecipients int
	UrgentCount     int
	HoursUntilEvent float64
	Outcomes        []RecipientOutcome // RSVP insertion order
	Timestamp       time.Time
}

// NotificationLog keeps an in-memory record of every notification that was
// successfully sent, queryable by event or student for auditing.
type NotificationLog struct {
	mu      sync.Mutex
	entries []models.NotificationRecord
}

// NewNotificationLog creates an empty NotificationLog.
func NewNotificationLog() *NotificationLog {
	return &NotificationLog{}
}

func (l *NotificationLog) append(rec models.NotificationRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, rec)
}

// ForEvent returns all logged notifications for an event, oldest first.
func (l *NotificationLog) ForEvent(eventID string) []models.NotificationRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.NotificationRecord
	for _, rec := range l.entries {
		if rec.EventID == eventID {
			out = append(out, rec)
		}
	}
	return out
}

// ForStudent returns all logged notifications for a student, oldest first.
func (l *NotificationLog) ForStudent(studentID string) []models.NotificationRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.NotificationRecord
	for _, rec := range l.entries {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out
}
