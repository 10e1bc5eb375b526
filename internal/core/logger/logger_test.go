package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"realestate3d/internal/core/config"
)

func TestFromConfigWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(config.Log{Level: "info", JSON: true, File: file, MaxSizeMB: 1})
	l.Info("booking created")
	cleanup()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "booking created") {
		t.Fatalf("log file missing entry: %s", b)
	}
}

func TestConsoleFileSinkHasNoColor(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(config.Log{Level: "info", JSON: false, File: file, MaxSizeMB: 1})
	l.Warn("slow upload")
	cleanup()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "WARN") || !strings.Contains(string(b), "slow upload") {
		t.Fatalf("log file missing entry: %q", b)
	}
	if strings.Contains(string(b), "\x1b[") {
		t.Fatalf("ansi escapes in log file: %q", b)
	}
}

func TestBuildBadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := Build(Options{Level: "loud"})
	defer cleanup()
	if l.Core().Enabled(-1) {
		t.Fatal("debug should be disabled when level falls back to info")
	}
	if !l.Core().Enabled(0) {
		t.Fatal("info should be enabled")
	}
}
