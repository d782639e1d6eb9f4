package config

import (
	"strings"
	"testing"
)

const validConfig = `
quorum = 6
organizer_email = "office@venue.example"
admin_email = "admin@club.example"
notify_email = "players@club.example"
base_dir = "/var/lib/vilma"
`

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.CalendarID != "primary" {
		t.Errorf("CalendarID = %q, want primary", cfg.CalendarID)
	}
	if cfg.Timezone != "Europe/Budapest" {
		t.Errorf("Timezone = %q, want Europe/Budapest", cfg.Timezone)
	}
	if cfg.Locale != "hu" {
		t.Errorf("Locale = %q, want hu", cfg.Locale)
	}
	if cfg.DaysAhead != 1 {
		t.Errorf("DaysAhead = %d, want 1", cfg.DaysAhead)
	}
}

func TestParsePaths(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := cfg.TemplatesDir(); got != "/var/lib/vilma/emails" {
		t.Errorf("TemplatesDir = %q", got)
	}
	if got := cfg.PlayerLogDir(); got != "/var/lib/vilma/player-logs" {
		t.Errorf("PlayerLogDir = %q", got)
	}
	if got := cfg.TokenFile(); got != "/var/lib/vilma/auth/token.json" {
		t.Errorf("TokenFile = %q", got)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(validConfig + `
calendar_id = "club@group.calendar.google.com"
timezone = "UTC"
locale = "en"
days_ahead = 2
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CalendarID != "club@group.calendar.google.com" || cfg.Timezone != "UTC" || cfg.Locale != "en" || cfg.DaysAhead != 2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing quorum", strings.Replace(validConfig, "quorum = 6", "", 1), "quorum"},
		{"missing organizer", strings.Replace(validConfig, `organizer_email = "office@venue.example"`, "", 1), "organizer_email"},
		{"bad timezone", validConfig + "\ntimezone = \"Mars/Olympus\"", "timezone"},
		{"negative days", validConfig + "\ndays_ahead = -1", "days_ahead"},
		{"malformed toml", "quorum = =", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse: got nil error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
