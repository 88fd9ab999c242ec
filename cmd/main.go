package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"campusevents/internal/calendar"
	"campusevents/internal/cancellation"
	"campusevents/internal/feed"
	"campusevents/internal/google"
	"campusevents/internal/icloud"
	"campusevents/internal/models"
	"campusevents/internal/store"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "campusevents",
		Usage: "Track campus events and orchestrate cancellations.",
		Commands: []*cli.Command{
			authCommand(),
			demoCommand(),
			docCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account so real calendar sync can be used.",
		Action: func(c *cli.Context) error {
			logger := setupLogger("info")
			logger.Info("Starting Google authentication flow.")

			config, err := google.GetOAuthConfigForAuthFlow(os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"))
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(config, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Print("Enter a name for this account (e.g., 'registrar'): ")
			accountName, _ := reader.ReadString('\n')
			accountName = strings.TrimSpace(accountName)
			tokenFile := "token-" + accountName + ".json"

			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", tokenFile)
			return nil
		},
	}
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Run the end-to-end cancellation scenario against the configured integrations.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "reason", Value: "Family emergency", Usage: "Cancellation reason to supply."},
			&cli.Float64Flag{Name: "hours", Value: 10, Usage: "Hours from now until the demo event starts."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(envOr("LOG_LEVEL", "info"))

			events := store.NewEventStore()
			rsvps := store.NewRSVPDirectory()
			fd := feed.New()

			engine, err := buildSyncEngine(c, logger)
			if err != nil {
				return err
			}
			svc := cancellation.NewService(logger, events, rsvps, cancellation.NewLogSender(logger), fd, engine)

			start := time.Now().Add(time.Duration(c.Float64("hours") * float64(time.Hour)))
			event := &models.Event{
				ID:            uuid.NewString(),
				Title:         "CPSC 310 Review Session",
				Description:   "Final exam review for CPSC 310.",
				StartsAt:      start,
				EndsAt:        start.Add(2 * time.Hour),
				Location:      "Alter Hall 203",
				OrganizerID:   "prof.wu",
				OrganizerName: "Prof. Wu",
			}
			if err := events.Add(event); err != nil {
				return err
			}
			fd.Add(event)

			for _, student := range [][3]string{
				{"s1001", "Alice Nguyen", "alice.nguyen@campus.events"},
				{"s1002", "Marcus Webb", "marcus.webb@campus.events"},
				{"s1003", "Priya Shah", "priya.shah@campus.events"},
			} {
				rsvps.Add(models.RSVP{
					ID:           uuid.NewString(),
					EventID:      event.ID,
					StudentID:    student[0],
					StudentName:  student[1],
					StudentEmail: student[2],
					Status:       models.RSVPStatusConfirmed,
					RespondedAt:  time.Now(),
				})
			}

			outcome, err := svc.CancelEvent(c.Context, event.ID, c.String("reason"))
			if err != nil {
				return fmt.Errorf("cancellation failed: %w", err)
			}

			fmt.Printf("Validation: %s\n", outcome.Validation.Message)
			fmt.Printf("Notified %d student(s), %d urgent.\n",
				outcome.Notifications.TotalRecipients, outcome.Notifications.UrgentCount)
			fmt.Printf("Sync overall success: %v\n", outcome.Sync.OverallSuccess)
			for _, r := range engine.History().ForEvent(event.ID) {
				status := "ok"
				if !r.Success {
					status = "failed: " + r.ErrMessage
				}
				fmt.Printf("  %s -> %s (%d bytes)\n", r.Integration, status, r.DocBytes)
			}
			return nil
		},
	}
}

func docCommand() *cli.Command {
	return &cli.Command{
		Name:  "doc",
		Usage: "Print the calendar-exchange document for a sample canceled event.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(envOr("LOG_LEVEL", "warn"))
			engine, err := calendar.NewEngine(logger)
			if err != nil {
				return err
			}

			start := time.Now().Add(10 * time.Hour)
			canceledAt := time.Now()
			event := &models.Event{
				ID:                 uuid.NewString(),
				Title:              "CPSC 310 Review Session",
				Description:        "Final exam review for CPSC 310.",
				StartsAt:           start,
				EndsAt:             start.Add(2 * time.Hour),
				Location:           "Alter Hall 203",
				OrganizerID:        "prof.wu",
				Canceled:           true,
				CancellationReason: "Family emergency",
				CanceledAt:         &canceledAt,
			}

			doc, err := engine.GenerateSyncDocument(event)
			if err != nil {
				return err
			}
			fmt.Print(doc)
			return nil
		},
	}
}

// buildSyncEngine wires the integration registry. Simulated targets are
// the default; real Google and iCloud targets replace them when their
// credentials are configured in the environment.
func buildSyncEngine(c *cli.Context, logger *slog.Logger) (*calendar.Engine, error) {
	var integrations []calendar.Integration

	if account := os.Getenv("GOOGLE_ACCOUNT"); account != "" {
		gTarget, err := google.NewIntegration(
			c.Context, logger, "google_calendar",
			os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"),
			account, envOr("GOOGLE_CALENDAR_ID", "primary"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create google integration: %w", err)
		}
		integrations = append(integrations, gTarget)
	} else {
		integrations = append(integrations, calendar.NewSimulatedIntegration(logger, "google_calendar"))
	}

	if username := os.Getenv("ICLOUD_USERNAME"); username != "" {
		iTarget, err := icloud.NewIntegration(
			logger, "icloud",
			username, os.Getenv("ICLOUD_APP_SPECIFIC_PASSWORD"), os.Getenv("ICLOUD_CALENDAR_NAME"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create caldav integration: %w", err)
		}
		integrations = append(integrations, iTarget)
	} else {
		integrations = append(integrations, calendar.NewSimulatedIntegration(logger, "outlook"))
	}

	return calendar.NewEngine(logger, integrations...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
