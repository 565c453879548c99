package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeInstall(t *testing.T, version string, programs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"bin", "etc"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if version != "" {
		if err := os.WriteFile(filepath.Join(root, "etc", "fslversion"), []byte(version+"\n"), 0o644); err != nil {
			t.Fatalf("write fslversion: %v", err)
		}
	}
	for _, p := range programs {
		if err := os.WriteFile(filepath.Join(root, "bin", executableName(p)), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root
}

func statusFor(t *testing.T, statuses []Status, tool string) Status {
	t.Helper()
	for _, s := range statuses {
		if s.Tool == tool {
			return s
		}
	}
	t.Fatalf("no status for %s", tool)
	return Status{}
}

func TestDetectFromFSLDir(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	root := fakeInstall(t, "6.0.7.4:ba5a4b26", "bet", "flirt")

	statuses, err := Detect(WithFSLDir(context.Background(), root))
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if len(statuses) != len(Programs())+1 {
		t.Fatalf("expected %d statuses, got %d", len(Programs())+1, len(statuses))
	}

	suite := statuses[0]
	if suite.Tool != SuiteName || suite.Version != "6.0.7.4" || !suite.Satisfied {
		t.Fatalf("unexpected suite status: %+v", suite)
	}
	bet := statusFor(t, statuses, "bet")
	if bet.Source != SourceFSLDir || bet.Path != filepath.Join(root, "bin", "bet") || bet.Version != "6.0.7.4" {
		t.Fatalf("unexpected bet status: %+v", bet)
	}
	fast := statusFor(t, statuses, "fast")
	if fast.Satisfied || fast.Error != "not found" {
		t.Fatalf("fast should be missing: %+v", fast)
	}
}

func TestDetectFallsBackToPath(t *testing.T) {
	bin := fakeInstall(t, "", "fnirt")
	t.Setenv("PATH", filepath.Join(bin, "bin"))
	t.Setenv("FSLDIR", "")

	statuses, err := Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if statuses[0].Error != "FSLDIR is not set" {
		t.Fatalf("expected FSLDIR error, got %+v", statuses[0])
	}
	fnirt := statusFor(t, statuses, "fnirt")
	if fnirt.Source != SourceSystem || !fnirt.Satisfied {
		t.Fatalf("unexpected fnirt status: %+v", fnirt)
	}
}

func TestDetectMinimumVersion(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	root := fakeInstall(t, "5.0.11")

	statuses, err := Detect(WithFSLDir(context.Background(), root))
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	suite := statuses[0]
	if suite.Satisfied || !strings.Contains(suite.Error, "below minimum 6.0.0") {
		t.Fatalf("expected version below minimum, got %+v", suite)
	}

	ctx := WithMinimums(WithFSLDir(context.Background(), root), map[string]string{"FSL": "6.0.6"})
	root = fakeInstall(t, "6.0.5.2")
	statuses, err = Detect(WithFSLDir(ctx, root))
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	suite = statuses[0]
	if suite.Minimum != "6.0.6" || suite.Satisfied {
		t.Fatalf("expected override minimum 6.0.6 to fail, got %+v", suite)
	}
	if len(suite.Notes) != 1 {
		t.Fatalf("expected a note about the override, got %v", suite.Notes)
	}
}

func TestResolveMinimumVersion(t *testing.T) {
	def := ToolDefinition{Name: SuiteName, MinimumVersion: "6.0.0"}
	tests := []struct {
		override string
		want     string
		notes    int
	}{
		{"", "6.0.0", 0},
		{"6.0.0", "6.0.0", 0},
		{"6.0.7", "6.0.7", 1},
		{"5.0", "6.0.0", 1},
		{"latest", "6.0.0", 1},
	}
	for _, tt := range tests {
		ctx := WithMinimums(context.Background(), map[string]string{SuiteName: tt.override})
		got, notes := resolveMinimumVersion(ctx, def)
		if got != tt.want || len(notes) != tt.notes {
			t.Fatalf("override %q: got %q %v, want %q with %d notes", tt.override, got, notes, tt.want, tt.notes)
		}
	}
}

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		version, minimum string
		want             bool
	}{
		{"6.0.7.4", "6.0.0", true},
		{"6.0", "6.0.0", true},
		{"5.0.11", "6.0.0", false},
		{"", "6.0.0", false},
		{"garbage", "6.0.0", false},
		{"5.0.0", "", true},
	}
	for _, tt := range tests {
		if got := meetsMinimum(tt.version, tt.minimum); got != tt.want {
			t.Fatalf("meetsMinimum(%q, %q) = %v, want %v", tt.version, tt.minimum, got, tt.want)
		}
	}
}

func TestReadVersionMissingFile(t *testing.T) {
	if _, err := readVersion(filepath.Join(t.TempDir(), "fslversion")); err == nil {
		t.Fatalf("expected error for missing version file")
	}
}
