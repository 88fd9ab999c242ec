// Package calendar implements calendar-exchange document generation and
// the sync engine that replays events against external integration
// targets, keeping an append-only per-event history of every attempt.
package calendar

import (
	"fmt"
	"strings"

	"github.com/emersion/go-ical"

	"campusevents/internal/models"
)

const (
	productID = "-//campusevents//EN"
	uidDomain = "campus.events"

	statusConfirmed = "CONFIRMED"
	statusCancelled = "CANCELLED"
)

// GenerateSyncDocument serializes the event into an iCalendar document.
// The output is deterministic for a given event state and engine clock:
// DTSTAMP is the only time-dependent field and comes from the engine
// clock, not the wall clock.
func (e *Engine) GenerateSyncDocument(event *models.Event) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, e.toVEvent(event))

	var buf strings.Builder
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode event %s to iCal format: %w", event.ID, err)
	}
	return buf.String(), nil
}

// toVEvent converts an event to a VEVENT component. Canceled events carry
// STATUS:CANCELLED and the cancellation reason appended to the description.
func (e *Engine) toVEvent(event *models.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, fmt.Sprintf("%s@%s", event.ID, uidDomain))
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, e.now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.StartsAt)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.EndsAt)

	description := event.Description
	if event.Canceled {
		ve.Props.SetText(ical.PropStatus, statusCancelled)
		if event.CancellationReason != "" {
			if description != "" {
				description += "\n\n"
			}
			description += "Canceled: " + event.CancellationReason
		}
	} else {
		ve.Props.SetText(ical.PropStatus, statusConfirmed)
	}
	if description != "" {
		ve.Props.SetText(ical.PropDescription, description)
	}
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}
	if event.OrganizerID != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetText(fmt.Sprintf("mailto:%s@%s", event.OrganizerID, uidDomain))
		ve.Props.Add(p)
	}
	return ve
}
