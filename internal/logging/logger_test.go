package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, err := NewLogger(Options{Dir: dir})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	log.Info("test_message_from_logging_test")
	_ = log.Sync()

	b, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"test_message_from_logging_test"`) {
		t.Fatalf("message not written: %s", b)
	}
}

func TestNewLogger_Level(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(Options{Dir: dir, Level: "warn"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Info("dropped_info")
	log.Warn("kept_warn")
	_ = log.Sync()

	b, _ := os.ReadFile(filepath.Join(dir, fileName))
	if strings.Contains(string(b), "dropped_info") || !strings.Contains(string(b), "kept_warn") {
		t.Fatalf("level not applied: %s", b)
	}

	if _, err := NewLogger(Options{Dir: dir, Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
