package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"campusevents/internal/models"
)

const credentialsFile = "credentials.json"

// CalendarIntegration is a Google-Calendar-backed integration target. It
// pushes event state (including cancellations) through the Calendar API
// rather than replaying the raw exchange document.
type CalendarIntegration struct {
	name       string
	calendarID string
	service    *calendar.Service
	logger     *slog.Logger
}

// NewIntegration creates a Google Calendar integration target.
// It loads the OAuth token saved for accountName by the auth flow.
func NewIntegration(ctx context.Context, logger *slog.Logger, name, clientID, clientSecret, accountName, calendarID string) (*CalendarIntegration, error) {
	config, err := getOAuthConfig(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	tokenFile := fmt.Sprintf("token-%s.json", accountName)
	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token for account %s: %w. Please run the 'auth' command first", accountName, err)
	}

	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarIntegration{
		name:       name,
		calendarID: calendarID,
		service:    service,
		logger:     logger,
	}, nil
}

// Name returns the target identifier used in sync results and history.
func (c *CalendarIntegration) Name() string {
	return c.name
}

// Deliver pushes the event to the configured Google calendar. Import is
// keyed on the iCalendar UID so repeated syncs of the same event update
// the existing entry instead of duplicating it.
func (c *CalendarIntegration) Deliver(ctx context.Context, event *models.Event, doc string) error {
	gEvent := &calendar.Event{
		ICalUID:     fmt.Sprintf("%s@campus.events", event.ID),
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start:       &calendar.EventDateTime{DateTime: event.StartsAt.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: event.EndsAt.Format(time.RFC3339)},
	}
	if event.Canceled {
		gEvent.Status = "cancelled"
		if event.CancellationReason != "" {
			gEvent.Description = strings.TrimSpace(event.Description + "\n\nCanceled: " + event.CancellationReason)
		}
	}

	if _, err := c.service.Events.Import(c.calendarID, gEvent).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to import event into google calendar: %w", err)
	}

	c.logger.Info("Synced event to Google Calendar.",
		"integration", c.name, "eventID", event.ID, "canceled", event.Canceled)
	return nil
}

// GetOAuthConfigForAuthFlow is used by the auth command to get the config
// for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret)
}

// getOAuthConfig reads credentials and returns an OAuth2 config.
// It prioritizes environment variables over a local credentials.json file.
func getOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the root directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb is called by the auth flow to retrieve a token.
func TokenFromWeb(config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(context.Background(), authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
