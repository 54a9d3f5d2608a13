package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, MinLevel: LevelWarn})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "warn message") {
		t.Errorf("expected first entry to be the warning, got %q", lines[0])
	}
}

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, MinLevel: LevelDebug})

	log.WithFields(map[string]interface{}{
		"day":      "2025-01-01",
		"programs": 42,
	}).Info("programs replaced")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if entry.Level != LevelInfo {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "programs replaced" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.Context["day"] != "2025-01-01" {
		t.Errorf("unexpected context: %v", entry.Context)
	}
}

func TestLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf})

	log.Error("refresh failed", errors.New("connection refused"))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if entry.Error != "connection refused" {
		t.Errorf("expected error field, got %q", entry.Error)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Format: "text"})

	log.WithFields(map[string]interface{}{"channel": "bbc1.uk"}).Info("channel added")

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "channel added") {
		t.Errorf("unexpected text output %q", out)
	}
	if !strings.Contains(out, "channel=bbc1.uk") {
		t.Errorf("expected fields in text output, got %q", out)
	}
}

func TestInitialize_Singletons(t *testing.T) {
	Initialize("debug", "error", "json")
	defer Initialize("info", "info", "json")

	if AppLogger().minLevel != LevelDebug {
		t.Errorf("expected app logger at debug, got %s", AppLogger().minLevel)
	}
	if DatabaseLogger().minLevel != LevelError {
		t.Errorf("expected database logger at error, got %s", DatabaseLogger().minLevel)
	}
}
