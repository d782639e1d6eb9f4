package models

import "time"

// ResponseStatus is an attendee's reply to a calendar invitation, using the
// Google Calendar wire values.
type ResponseStatus string

const (
	ResponseNeedsAction ResponseStatus = "needsAction"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseTentative   ResponseStatus = "tentative"
	ResponseAccepted    ResponseStatus = "accepted"
)

// Attendee is a single invitee on an event.
type Attendee struct {
	Email    string
	Response ResponseStatus
}

// EventTime is a point in time on the calendar. All-day events carry only a
// date, in which case DateOnly is set and the clock portion of Time is not
// meaningful.
type EventTime struct {
	Time     time.Time
	DateOnly bool
}

// Event represents a calendar event.
// This is an internal representation, independent of any specific calendar provider.
type Event struct {
	ID        string     // Unique identifier from the source calendar
	Summary   string     // Title of the event
	Start     EventTime  // Start of the event
	End       EventTime  // End of the event
	Attendees []Attendee // Invitees, in the order the calendar returns them
}

// Accepted returns the attendees that accepted the invitation, preserving
// their original order.
func (e *Event) Accepted() []Attendee {
	var accepted []Attendee
	for _, a := range e.Attendees {
		if a.Response == ResponseAccepted {
			accepted = append(accepted, a)
		}
	}
	return accepted
}
