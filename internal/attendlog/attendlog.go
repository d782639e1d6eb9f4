// Package attendlog records which players accepted an event. The log is
// write-only audit output: one plain-text file per event, named after the
// event's start time, one address per line.
package attendlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vilma/internal/format"
	"vilma/internal/models"
)

// Log writes attendee files under a base directory.
type Log struct {
	baseDir string
	logger  *slog.Logger
}

// New creates a Log writing under baseDir.
func New(logger *slog.Logger, baseDir string) *Log {
	return &Log{baseDir: baseDir, logger: logger}
}

// Record writes the attendee addresses for the event, one per line. A
// previous file for the same start time is overwritten whole; the log keeps
// only the latest list per event.
func (l *Log) Record(event *models.Event, emails []string) error {
	if err := os.MkdirAll(l.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create attendee log directory: %w", err)
	}

	path := filepath.Join(l.baseDir, format.FileStamp(event.Start)+".txt")
	if err := os.WriteFile(path, []byte(strings.Join(emails, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write attendee log: %w", err)
	}

	l.logger.Info("Recorded accepted attendees.", "file", path, "count", len(emails))
	return nil
}
