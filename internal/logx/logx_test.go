package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"fslcmd/internal/paths"
)

func TestNewWritesTimestampedFile(t *testing.T) {
	wp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	logger, closer, err := New(wp, "debug")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	logger.Debug("built command", "tool", "BET")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	entries, err := os.ReadDir(wp.LogsDir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".log") {
		t.Fatalf("expected one log file, got %v", entries)
	}
	data, err := os.ReadFile(filepath.Join(wp.LogsDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(data), "tool=BET") {
		t.Fatalf("log file missing fields:\n%s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug": log.DebugLevel,
		"warn":  log.WarnLevel,
		"ERROR": log.ErrorLevel,
		"":      log.InfoLevel,
		"loud":  log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
