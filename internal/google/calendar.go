package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"vilma/internal/models"
)

// Window lookups expect exactly one event on the target day; both of these
// abort the run.
var (
	ErrNoEvent        = errors.New("no event found in window")
	ErrMultipleEvents = errors.New("multiple events found in window")
)

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service    *calendar.Service
	calendarID string
	logger     *slog.Logger
}

// NewCalendarClient creates a new Google Calendar client.
// It handles loading the saved token and setting up an authenticated HTTP client.
func NewCalendarClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, tokenFile, calendarID string) (*CalendarClient, error) {
	client, err := newHTTPClient(ctx, clientID, clientSecret, tokenFile)
	if err != nil {
		return nil, err
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{service: service, calendarID: calendarID, logger: logger}, nil
}

// EventByID fetches a single event by its identifier.
func (c *CalendarClient) EventByID(ctx context.Context, eventID string) (*models.Event, error) {
	c.logger.Debug("Fetching event by ID", "eventID", eventID)

	item, err := c.service.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}
	return toEvent(item)
}

// EventInWindow fetches the single event scheduled on the given local day.
// Zero events or more than one event on that day are errors; the job is built
// around one session per day.
func (c *CalendarClient) EventInWindow(ctx context.Context, day time.Time) (*models.Event, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	c.logger.Info("Fetching events in window", "timeMin", dayStart.Format(time.RFC3339), "timeMax", dayEnd.Format(time.RFC3339))

	events, err := c.service.Events.List(c.calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	switch len(events.Items) {
	case 0:
		return nil, ErrNoEvent
	case 1:
		return toEvent(events.Items[0])
	default:
		return nil, fmt.Errorf("%w: got %d events, expected 1", ErrMultipleEvents, len(events.Items))
	}
}

// Delete removes the event from the calendar without notifying attendees.
func (c *CalendarClient) Delete(ctx context.Context, eventID string) error {
	err := c.service.Events.Delete(c.calendarID, eventID).SendUpdates("none").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	c.logger.Info("Deleted event from calendar.", "eventID", eventID)
	return nil
}

// TestAccess verifies the credentials work by listing the next few upcoming
// events.
func (c *CalendarClient) TestAccess(ctx context.Context) error {
	events, err := c.service.Events.List(c.calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(time.Now().Format(time.RFC3339)).
		MaxResults(10).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to retrieve events: %w", err)
	}

	if len(events.Items) == 0 {
		c.logger.Info("Access OK. No upcoming events found.")
		return nil
	}

	c.logger.Info("Access OK.", "upcoming", len(events.Items))
	for _, item := range events.Items {
		start := item.Start.DateTime
		if start == "" {
			start = item.Start.Date
		}
		c.logger.Info("Upcoming event", "start", start, "summary", item.Summary, "id", item.Id)
	}
	return nil
}

// toEvent converts a Google Calendar event to the internal Event model.
func toEvent(item *calendar.Event) (*models.Event, error) {
	start, err := toEventTime(item.Start)
	if err != nil {
		return nil, fmt.Errorf("event %s has an invalid start: %w", item.Id, err)
	}
	end, err := toEventTime(item.End)
	if err != nil {
		return nil, fmt.Errorf("event %s has an invalid end: %w", item.Id, err)
	}

	var attendees []models.Attendee
	for _, a := range item.Attendees {
		attendees = append(attendees, models.Attendee{
			Email:    a.Email,
			Response: models.ResponseStatus(a.ResponseStatus),
		})
	}

	return &models.Event{
		ID:        item.Id,
		Summary:   item.Summary,
		Start:     start,
		End:       end,
		Attendees: attendees,
	}, nil
}

func toEventTime(t *calendar.EventDateTime) (models.EventTime, error) {
	if t == nil {
		return models.EventTime{}, errors.New("missing time")
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return models.EventTime{}, fmt.Errorf("bad dateTime %q: %w", t.DateTime, err)
		}
		return models.EventTime{Time: parsed}, nil
	}
	parsed, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return models.EventTime{}, fmt.Errorf("bad date %q: %w", t.Date, err)
	}
	return models.EventTime{Time: parsed, DateOnly: true}, nil
}
