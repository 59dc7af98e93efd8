package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "speedreader.log")
	logger, err := New(Options{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("corrupt preference", "key", "bom_word_index")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "key=bom_word_index") {
		t.Fatalf("expected warn record, got %s", out)
	}
}

func TestLevelIsAdjustable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speedreader.log")
	logger, err := New(Options{Level: "error", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = logger.Close() }()
	logger.Level.Set(slog.LevelDebug)
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatalf("expected debug to be enabled after level change")
	}
}

func TestNoDestinationDiscards(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Error("dropped")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("DEBUG"); err != nil || lvl != slog.LevelDebug {
		t.Fatalf("unexpected %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected New to reject unknown level")
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, slog.LevelInfo).Info("saved", "chapter", 3)
	if !strings.Contains(buf.String(), "chapter=3") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("target.wpm"); got != "TARGET_WPM" {
		t.Fatalf("unexpected key %q", got)
	}
}
