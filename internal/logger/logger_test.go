package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, f, err := New(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	l.Debug("hidden")
	l.Info("fetched next races", "kept", 3)
	if err := f.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	b, _ := os.ReadFile(path)
	out := string(b)
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug line to be filtered but found %q", out)
	}
	if !strings.Contains(out, `msg="fetched next races" kept=3`) {
		t.Errorf("expected info line but found %q", out)
	}
}

func TestNewInvalidPath(t *testing.T) {
	if _, _, err := New(filepath.Join(t.TempDir(), "missing", "app.log"), slog.LevelDebug); err == nil {
		t.Errorf("expected an error but found none")
	}
}
