// Package evaluate decides what mail an event should generate. It is pure:
// it inspects the event's attendee responses and returns a list of
// notification plans for the workflow to execute, without touching the
// calendar, the mailbox or the filesystem itself.
package evaluate

import (
	"vilma/internal/format"
	"vilma/internal/models"
)

// TemplateKind selects the mail template a plan is rendered with.
type TemplateKind int

const (
	KindConfirm TemplateKind = iota
	KindCancel
	KindCancelPlayers
	KindPlayerReport
	KindReminder
)

// String returns the template-table name of the kind.
func (k TemplateKind) String() string {
	switch k {
	case KindConfirm:
		return "confirm"
	case KindCancel:
		return "cancel"
	case KindCancelPlayers:
		return "cancel-players"
	case KindPlayerReport:
		return "player-report"
	case KindReminder:
		return "reminder"
	default:
		return "unknown"
	}
}

// Plan is a single outbound mail the workflow should send: a template kind
// plus the recipients and kind-specific variables it needs. Players is set
// only for player reports, VoteEnd only for reminders.
type Plan struct {
	Kind    TemplateKind
	To      string
	Bcc     string
	Players []string
	VoteEnd string
}

// Addresses holds the fixed recipient addresses evaluation routes mail to.
type Addresses struct {
	Organizer string // the organizing body (venue administration)
	Admin     string // the operator running the job
	Notify    string // the player-facing notification address
}

// Result is the full outcome of evaluating one event: the plans to send in
// order, whether the event should be removed from the calendar, and which
// attendee addresses to record in the audit log.
type Result struct {
	Plans           []Plan
	DeleteEvent     bool
	LoggedAttendees []string
}

// Evaluate inspects the event's attendee responses against the quorum and
// produces the notification plans for it.
//
// A reminder pass short-circuits everything: it yields a single reminder plan
// and never deletes or logs. Otherwise, events with fewer accepted attendees
// than the quorum are cancelled (administrative notice first, then the player
// notice, then calendar deletion); events at or above quorum get a player
// report to the admin followed by the player-facing confirmation, and the
// accepted addresses are recorded.
func Evaluate(event *models.Event, quorum int, reminderPass bool, addr Addresses) Result {
	if reminderPass {
		return Result{Plans: []Plan{reminderPlan(event, addr)}}
	}

	accepted := event.Accepted()
	if len(accepted) < quorum {
		return Result{
			Plans: []Plan{
				{Kind: KindCancel, To: addr.Organizer, Bcc: addr.Admin},
				{Kind: KindCancelPlayers, To: addr.Notify, Bcc: addr.Admin},
			},
			DeleteEvent: true,
		}
	}

	emails := make([]string, len(accepted))
	for i, a := range accepted {
		emails[i] = a.Email
	}
	return Result{
		Plans: []Plan{
			{Kind: KindPlayerReport, To: addr.Admin, Players: emails},
			{Kind: KindConfirm, To: addr.Notify},
		},
		LoggedAttendees: emails,
	}
}

func reminderPlan(event *models.Event, addr Addresses) Plan {
	// All-day events have no vote deadline hour; the template renders the
	// field empty in that case.
	voteEnd, err := format.HourMinute(event.Start)
	if err != nil {
		voteEnd = ""
	}
	return Plan{Kind: KindReminder, To: addr.Notify, VoteEnd: voteEnd}
}
