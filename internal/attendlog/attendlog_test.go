package attendlog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vilma/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEvent(t *testing.T) *models.Event {
	t.Helper()
	start, err := time.Parse(time.RFC3339, "2024-05-14T19:00:00+02:00")
	if err != nil {
		t.Fatal(err)
	}
	return &models.Event{
		ID:    "evt-1",
		Start: models.EventTime{Time: start},
		End:   models.EventTime{Time: start.Add(2 * time.Hour)},
	}
}

func TestRecordWritesOnePerLine(t *testing.T) {
	dir := t.TempDir()
	l := New(testLogger(), dir)

	if err := l.Record(testEvent(t), []string{"a@x", "c@x"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2024-05-14T19:00:00+02:00.txt"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if string(data) != "a@x\nc@x" {
		t.Errorf("log contents = %q, want %q", data, "a@x\nc@x")
	}
}

func TestRecordLastWriteWins(t *testing.T) {
	dir := t.TempDir()
	l := New(testLogger(), dir)
	event := testEvent(t)

	if err := l.Record(event, []string{"a@x", "b@x", "c@x"}); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := l.Record(event, []string{"d@x"}); err != nil {
		t.Fatalf("second Record: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2024-05-14T19:00:00+02:00.txt"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if string(data) != "d@x" {
		t.Errorf("log contents = %q, want only the second list", data)
	}
}

func TestRecordCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "player-logs")
	l := New(testLogger(), dir)

	if err := l.Record(testEvent(t), []string{"a@x"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("base dir was not created: %v", err)
	}
}

func TestRecordUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file modes do not apply to root")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	l := New(testLogger(), filepath.Join(dir, "player-logs"))
	if err := l.Record(testEvent(t), []string{"a@x"}); err == nil {
		t.Error("Record into unwritable dir: got nil error")
	}
}
