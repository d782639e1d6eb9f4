// Package workflow executes the notification plans an evaluation produces
// against the real collaborators: Gmail, the calendar and the attendee log.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vilma/internal/compose"
	"vilma/internal/config"
	"vilma/internal/evaluate"
	"vilma/internal/models"
)

// MailSender hands a transport-encoded message to the mail API.
type MailSender interface {
	Send(ctx context.Context, raw string) error
}

// Calendar is the calendar collaborator: event lookup and best-effort
// deletion.
type Calendar interface {
	EventByID(ctx context.Context, eventID string) (*models.Event, error)
	EventInWindow(ctx context.Context, day time.Time) (*models.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// AttendeeRecorder persists the accepted-attendee audit log.
type AttendeeRecorder interface {
	Record(event *models.Event, emails []string) error
}

// Runner orchestrates one evaluation run for one event.
type Runner struct {
	logger    *slog.Logger
	cfg       *config.Config
	composer  *compose.Composer
	attendees AttendeeRecorder
	sender    MailSender
	calendar  Calendar
	dryRun    bool
}

// NewRunner creates a Runner.
func NewRunner(logger *slog.Logger, cfg *config.Config, composer *compose.Composer, attendees AttendeeRecorder, sender MailSender, calendar Calendar, dryRun bool) *Runner {
	return &Runner{
		logger:    logger,
		cfg:       cfg,
		composer:  composer,
		attendees: attendees,
		sender:    sender,
		calendar:  calendar,
		dryRun:    dryRun,
	}
}

// RunWindow processes the single event scheduled daysAhead local days from
// now. A failed or ambiguous lookup aborts the run before anything is sent.
func (r *Runner) RunWindow(ctx context.Context, daysAhead int, reminderPass bool) error {
	day := time.Now().In(r.cfg.Location()).AddDate(0, 0, daysAhead)

	event, err := r.calendar.EventInWindow(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to fetch event %d day(s) ahead: %w", daysAhead, err)
	}
	return r.Process(ctx, event, reminderPass)
}

// RunEvent processes one specific event by its identifier.
func (r *Runner) RunEvent(ctx context.Context, eventID string, reminderPass bool) error {
	event, err := r.calendar.EventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to fetch event: %w", err)
	}
	return r.Process(ctx, event, reminderPass)
}

// Process evaluates the event and executes the resulting plans in order.
// Per-plan failures (template or send) are logged and do not stop the
// remaining plans; the attendee log write and the calendar deletion are
// likewise best-effort. Deletion always runs last.
func (r *Runner) Process(ctx context.Context, event *models.Event, reminderPass bool) error {
	r.logger.Info("Processing event.", "summary", event.Summary, "start", event.Start.Time, "attendees", len(event.Attendees), "reminderPass", reminderPass)

	result := evaluate.Evaluate(event, r.cfg.Quorum, reminderPass, evaluate.Addresses{
		Organizer: r.cfg.OrganizerEmail,
		Admin:     r.cfg.AdminEmail,
		Notify:    r.cfg.NotifyEmail,
	})

	for _, plan := range result.Plans {
		r.sendPlan(ctx, event, plan)
	}

	if len(result.LoggedAttendees) > 0 {
		if r.dryRun {
			r.logger.Info("[DRY RUN] Would record accepted attendees.", "count", len(result.LoggedAttendees))
		} else if err := r.attendees.Record(event, result.LoggedAttendees); err != nil {
			r.logger.Error("Failed to record attendees, continuing.", "error", err)
		}
	}

	if result.DeleteEvent {
		if r.dryRun {
			r.logger.Info("[DRY RUN] Would delete event from calendar.", "eventID", event.ID)
		} else if err := r.calendar.Delete(ctx, event.ID); err != nil {
			// Cancellation mail may already be out; the operator has to
			// reconcile the calendar by hand.
			r.logger.Error("Failed to delete event, it may remain on the calendar.", "eventID", event.ID, "error", err)
		}
	}

	return nil
}

// sendPlan composes, encodes and sends a single plan. Failures affect this
// plan only.
func (r *Runner) sendPlan(ctx context.Context, event *models.Event, plan evaluate.Plan) {
	msg, err := r.composer.Compose(event, plan)
	if err != nil {
		r.logger.Error("Failed to compose message, skipping plan.", "kind", plan.Kind.String(), "error", err)
		return
	}

	raw, err := msg.Encode()
	if err != nil {
		r.logger.Error("Failed to encode message, skipping plan.", "kind", plan.Kind.String(), "error", err)
		return
	}

	if r.dryRun {
		r.logger.Info("[DRY RUN] Would send email.", "kind", plan.Kind.String(), "to", msg.To, "subject", msg.Subject)
		return
	}

	if err := r.sender.Send(ctx, raw); err != nil {
		r.logger.Error("Failed to send email, continuing.", "kind", plan.Kind.String(), "to", msg.To, "error", err)
		return
	}

	r.logger.Info("Sent email.", "kind", plan.Kind.String(), "to", msg.To)
}
