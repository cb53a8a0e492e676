package logger

import (
	"bytes"
	"os"
	"testing"
	"time"
)

func fixedClock(t *testing.T) {
	t.Helper()
	now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() {
		now = time.Now
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
}

func TestSetVerbose(t *testing.T) {
	fixedClock(t)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if got := buf.String(); got != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Section("Poll")

	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got: %q", buf.String())
	}
}

func TestSection_WhenVerbose(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Poll")

	if got := buf.String(); got != "\n=== Poll ===\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestLevels_AlwaysPrinted(t *testing.T) {
	fixedClock(t)

	tests := []struct {
		name     string
		log      func(string, ...any)
		expected string
	}{
		{"info", Info, "2024-03-01T09:30:00Z [INFO] poll complete: 3 files\n"},
		{"warn", Warn, "2024-03-01T09:30:00Z [WARN] poll complete: 3 files\n"},
		{"error", Error, "2024-03-01T09:30:00Z [ERROR] poll complete: 3 files\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(false)

			tt.log("poll complete: %d files", 3)

			if got := buf.String(); got != tt.expected {
				t.Errorf("unexpected output: %q", got)
			}
		})
	}
}
