package icloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"campusevents/internal/models"
)

const iCloudCalDAVEndpoint = "https://caldav.icloud.com/"

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "campusevents/1.0")
	return t.Transport.RoundTrip(req)
}

// CalDAVIntegration is a CalDAV-backed integration target (iCloud). It
// replays the generated calendar-exchange document as-is, so whatever the
// sync engine produced is exactly what the server stores.
type CalDAVIntegration struct {
	name         string
	caldavClient *caldav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	calendarURL  string
}

// NewIntegration creates and initializes a CalDAV integration target for
// the named iCloud calendar.
func NewIntegration(logger *slog.Logger, name, username, password, calendarName string) (*CalDAVIntegration, error) {
	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := caldav.NewClient(httpClient, iCloudCalDAVEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	webdavClient, err := webdav.NewClient(httpClient, iCloudCalDAVEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &CalDAVIntegration{
		name:         name,
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
	}

	logger.Info("Finding iCloud calendar", "calendarName", calendarName)
	calendarURL, err := c.findCalendar(context.Background(), calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarURL = calendarURL
	logger.Info("Successfully found iCloud calendar", "url", calendarURL)

	return c, nil
}

// Name returns the target identifier used in sync results and history.
func (c *CalDAVIntegration) Name() string {
	return c.name
}

// Deliver writes the calendar-exchange document to the CalDAV server.
// Using the event id as the resource name makes repeated syncs overwrite
// the same resource, so a cancellation replaces the confirmed entry.
func (c *CalDAVIntegration) Deliver(ctx context.Context, event *models.Event, doc string) error {
	c.logger.Debug("Syncing event to iCloud", "eventTitle", event.Title, "eventID", event.ID)

	// The event path must be relative to the endpoint for the webdav client.
	eventPath := path.Join(strings.TrimPrefix(c.calendarURL, iCloudCalDAVEndpoint), fmt.Sprintf("%s.ics", event.ID))

	writer, err := c.webdavClient.Create(ctx, eventPath)
	if err != nil {
		return fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}
	defer writer.Close()

	if _, err := io.WriteString(writer, doc); err != nil {
		return fmt.Errorf("failed to write event to CalDAV server: %w", err)
	}

	c.logger.Info("Successfully synced event to iCloud", "eventTitle", event.Title)
	return nil
}

// findCalendar discovers the user's calendars and returns the URL for the
// one with the matching name.
func (c *CalDAVIntegration) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			// Return the full URL for the calendar
			return fmt.Sprintf("%s%s", strings.TrimSuffix(iCloudCalDAVEndpoint, "/"), cal.Path), nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
