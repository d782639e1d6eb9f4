package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"vilma/internal/attendlog"
	"vilma/internal/compose"
	"vilma/internal/config"
	"vilma/internal/google"
	"vilma/internal/workflow"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "vilma",
		Usage: "Evaluate an upcoming training event and send confirmation, cancellation or reminder emails.",
		Commands: []*cli.Command{
			authCommand(),
			testCommand(),
			eventCommand(),
			runCommand(),
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
		Usage: "Authenticate with Google to get an API token. Run this once, before anything else.",
		Action: func(c *cli.Context) error {
			logger := setupLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if google.HasToken(cfg.TokenFile()) {
				logger.Info("Credentials already exist, no need to run this again. You can verify them with the 'test' command.", "file", cfg.TokenFile())
				return nil
			}

			oauthConfig, err := google.GetOAuthConfigForAuthFlow(os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"))
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(oauthConfig, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			if err := google.SaveToken(cfg.TokenFile(), token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", cfg.TokenFile())
			return nil
		},
	}
}

func testCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Verify the saved credentials by listing upcoming calendar events.",
		Action: func(c *cli.Context) error {
			logger := setupLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			calendarClient, err := google.NewCalendarClient(c.Context, logger, os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"), cfg.TokenFile(), cfg.CalendarID)
			if err != nil {
				return fmt.Errorf("failed to create calendar client: %w", err)
			}

			return calendarClient.TestAccess(c.Context)
		},
	}
}

func eventCommand() *cli.Command {
	return &cli.Command{
		Name:      "event",
		Usage:     "Process one specific event by its ID.",
		ArgsUsage: "<event-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "reminder", Usage: "Send the pre-event reminder instead of running the quorum decision."},
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be sent without sending, deleting or writing anything."},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("please provide an event ID: vilma event <event-id>")
			}

			logger := setupLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			runner, err := buildRunner(c, logger, cfg, c.Bool("dry-run"))
			if err != nil {
				return err
			}
			return runner.RunEvent(c.Context, c.Args().First(), c.Bool("reminder"))
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Process the event scheduled a fixed number of days from today.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Usage: "How many days ahead to look for the event. Defaults to days_ahead from the config."},
			&cli.BoolFlag{Name: "reminder", Usage: "Send the pre-event reminder instead of running the quorum decision."},
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be sent without sending, deleting or writing anything."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			days := cfg.DaysAhead
			if c.IsSet("days") {
				days = c.Int("days")
			}

			runner, err := buildRunner(c, logger, cfg, c.Bool("dry-run"))
			if err != nil {
				return err
			}
			return runner.RunWindow(c.Context, days, c.Bool("reminder"))
		},
	}
}

// buildRunner wires the workflow together: the Google API clients, the
// composer and the attendee log.
func buildRunner(c *cli.Context, logger *slog.Logger, cfg *config.Config, dryRun bool) (*workflow.Runner, error) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")

	calendarClient, err := google.NewCalendarClient(c.Context, logger, clientID, clientSecret, cfg.TokenFile(), cfg.CalendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	gmailClient, err := google.NewGmailClient(c.Context, logger, clientID, clientSecret, cfg.TokenFile())
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}

	composer := compose.New(logger, cfg.TemplatesDir(), cfg.Locale)
	attendees := attendlog.New(logger, cfg.PlayerLogDir())

	return workflow.NewRunner(logger, cfg, composer, attendees, gmailClient, calendarClient, dryRun), nil
}

func setupLogger() *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
