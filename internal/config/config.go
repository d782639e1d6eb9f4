// Package config loads the job configuration. The configuration is read once
// at startup into an immutable struct that is passed into every component;
// nothing reads it from ambient state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the fully resolved job configuration.
type Config struct {
	Quorum         int    `toml:"quorum"`          // minimum accepted attendees to hold the event
	OrganizerEmail string `toml:"organizer_email"` // the organizing body (venue administration)
	AdminEmail     string `toml:"admin_email"`     // the operator's own address
	NotifyEmail    string `toml:"notify_email"`    // player-facing notification address
	CalendarID     string `toml:"calendar_id"`     // Google calendar to read, default "primary"
	Timezone       string `toml:"timezone"`        // IANA zone the event day is computed in
	Locale         string `toml:"locale"`          // locale for weekday names in mail bodies
	DaysAhead      int    `toml:"days_ahead"`      // default lead time for the window lookup
	BaseDir        string `toml:"base_dir"`        // root for templates, logs and tokens
}

const fileName = "config.toml"

// Load reads the configuration, trying the current directory first and then
// ~/.config/vilma/.
func Load() (*Config, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", homeErr)
		}
		data, err = os.ReadFile(filepath.Join(home, ".config", "vilma", fileName))
		if err != nil {
			return nil, fmt.Errorf("config file not found in current directory or ~/.config/vilma: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a TOML configuration document.
func Parse(data []byte) (*Config, error) {
	cfg := Config{
		CalendarID: "primary",
		Timezone:   "Europe/Budapest",
		Locale:     "hu",
		DaysAhead:  1,
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.BaseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.BaseDir = filepath.Join(home, ".config", "vilma")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Quorum < 1 {
		return fmt.Errorf("quorum must be at least 1, got %d", c.Quorum)
	}
	for name, v := range map[string]string{
		"organizer_email": c.OrganizerEmail,
		"admin_email":     c.AdminEmail,
		"notify_email":    c.NotifyEmail,
	} {
		if v == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}
	if c.DaysAhead < 0 {
		return fmt.Errorf("days_ahead must not be negative, got %d", c.DaysAhead)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// TemplatesDir is where the mail body templates live.
func (c *Config) TemplatesDir() string { return filepath.Join(c.BaseDir, "emails") }

// PlayerLogDir is where per-event attendee files are written.
func (c *Config) PlayerLogDir() string { return filepath.Join(c.BaseDir, "player-logs") }

// TokenFile is where the OAuth token is persisted.
func (c *Config) TokenFile() string { return filepath.Join(c.BaseDir, "auth", "token.json") }

// Location returns the configured timezone. Validation already checked it
// parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
