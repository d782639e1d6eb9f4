// Package compose turns notification plans into ready-to-send Gmail raw
// messages: it renders the body template for the plan's kind, assembles the
// RFC 2822 message around it, and transport-encodes the result.
package compose

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"vilma/internal/evaluate"
	"vilma/internal/format"
	"vilma/internal/models"
)

// templateFiles maps every plan kind to its body template file. Adding a plan
// kind means adding one entry here and one template file.
var templateFiles = map[evaluate.TemplateKind]string{
	evaluate.KindConfirm:       "confirm.tmpl",
	evaluate.KindCancel:        "cancel.tmpl",
	evaluate.KindCancelPlayers: "cancel-players.tmpl",
	evaluate.KindPlayerReport:  "player-report.tmpl",
	evaluate.KindReminder:      "reminder.tmpl",
}

// subjects maps every plan kind to its subject line; %s is the display date.
var subjects = map[evaluate.TemplateKind]string{
	evaluate.KindConfirm:       "Training on %s is confirmed",
	evaluate.KindCancel:        "Training on %s is cancelled",
	evaluate.KindCancelPlayers: "Training on %s is cancelled",
	evaluate.KindPlayerReport:  "Player report for %s",
	evaluate.KindReminder:      "Reminder: vote for training on %s",
}

// Variables is the substitution context a body template is rendered with.
// Each template uses the subset relevant to its kind and ignores the rest.
type Variables struct {
	SendTo    string
	Date      string
	From      string
	To        string
	DayOfWeek string
	Players   []string
	SendBcc   string
	VoteEnd   string
}

// Message is a composed notification, ready to be transport-encoded.
type Message struct {
	To      string
	Bcc     string
	Subject string
	Body    string
	Invite  []byte // optional text/calendar part
}

// Composer renders plans into messages using the body templates found in a
// directory on disk.
type Composer struct {
	templatesDir string
	locale       string
	logger       *slog.Logger
}

// New creates a Composer reading templates from templatesDir. The locale
// controls how weekday names are rendered.
func New(logger *slog.Logger, templatesDir, locale string) *Composer {
	return &Composer{templatesDir: templatesDir, locale: locale, logger: logger}
}

// Compose renders the plan's template against the event and returns the
// resulting message. Date, hour and weekday variables are always derived from
// the event's own start and end times, never passed in. A missing template
// file or a render failure is an error for this plan only.
func (c *Composer) Compose(event *models.Event, plan evaluate.Plan) (*Message, error) {
	fromHour, err := format.HourMinute(event.Start)
	if err != nil {
		return nil, fmt.Errorf("event %q start: %w", event.Summary, err)
	}
	toHour, err := format.HourMinute(event.End)
	if err != nil {
		return nil, fmt.Errorf("event %q end: %w", event.Summary, err)
	}

	vars := Variables{
		SendTo:    plan.To,
		Date:      format.DisplayDate(event.Start),
		From:      fromHour,
		To:        toHour,
		DayOfWeek: format.WeekdayName(event.Start, c.locale),
		Players:   plan.Players,
		SendBcc:   plan.Bcc,
		VoteEnd:   plan.VoteEnd,
	}

	body, err := c.render(plan.Kind, vars)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		To:      plan.To,
		Bcc:     plan.Bcc,
		Subject: fmt.Sprintf(subjects[plan.Kind], vars.Date),
		Body:    body,
	}

	if plan.Kind == evaluate.KindConfirm {
		invite, err := buildInvite(event)
		if err != nil {
			return nil, fmt.Errorf("failed to build invite for event %q: %w", event.Summary, err)
		}
		msg.Invite = invite
	}

	c.logger.Debug("Composed message.", "kind", plan.Kind.String(), "to", plan.To)
	return msg, nil
}

// render loads and executes the body template for the kind.
func (c *Composer) render(kind evaluate.TemplateKind, vars Variables) (string, error) {
	name, ok := templateFiles[kind]
	if !ok {
		return "", fmt.Errorf("no template registered for kind %q", kind)
	}

	path := filepath.Join(c.templatesDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}

	tmpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", path, err)
	}
	return buf.String(), nil
}

// buildInvite serializes the event as an iCalendar object so the
// confirmation mail carries a text/calendar part players can re-add.
func buildInvite(event *models.Event) ([]byte, error) {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uuid.New().String())
	ve.Props.SetText(ical.PropSummary, event.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.Start.Time)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.End.Time)
	for _, a := range event.Accepted() {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText(fmt.Sprintf("mailto:%s", a.Email))
		ve.Props.Add(p)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//vilma//EN")
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode assembles the full RFC 2822 message and returns it base64url
// encoded, the form the Gmail API expects in the raw field.
func (m *Message) Encode() (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	if m.Bcc != "" {
		fmt.Fprintf(&buf, "Bcc: %s\r\n", m.Bcc)
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&buf, "Message-ID: <%s@vilma>\r\n", uuid.New().String())
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(m.Invite) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		buf.WriteString(m.Body)
	} else if err := writeMultipart(&buf, m); err != nil {
		return "", fmt.Errorf("failed to assemble multipart message: %w", err)
	}

	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

func writeMultipart(buf *bytes.Buffer, m *Message) error {
	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=\"UTF-8\""},
	})
	if err != nil {
		return err
	}
	if _, err := text.Write([]byte(m.Body)); err != nil {
		return err
	}

	attachment, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {"text/calendar; method=REQUEST; charset=\"UTF-8\""},
		"Content-Disposition": {`attachment; filename="invite.ics"`},
	})
	if err != nil {
		return err
	}
	if _, err := attachment.Write(m.Invite); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	fmt.Fprintf(buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())
	_, err = parts.WriteTo(buf)
	return err
}
