package fsl

import (
	"os"
	"path/filepath"
	"testing"
)

// workdir moves the test into a fresh working directory and returns it.
func workdir(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd error: %v", err)
	}
	return cwd
}

// touch creates an empty file under dir and returns its path.
func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// fixedOutputType pins the process-wide output type for one test.
func fixedOutputType(t *testing.T, ot OutputType) {
	t.Helper()
	if err := SetOutputType(ot); err != nil {
		t.Fatalf("SetOutputType error: %v", err)
	}
	t.Cleanup(resetOutputType)
}

func mustSet(t *testing.T, inv *Invocation, values map[string]any) {
	t.Helper()
	if err := inv.SetAll(values); err != nil {
		t.Fatalf("SetAll error: %v", err)
	}
}

func mustCmdline(t *testing.T, inv *Invocation) string {
	t.Helper()
	cmd, err := inv.Cmdline()
	if err != nil {
		t.Fatalf("Cmdline error: %v", err)
	}
	return cmd
}

func mustOutputs(t *testing.T, inv *Invocation) Outputs {
	t.Helper()
	out, err := inv.Outputs()
	if err != nil {
		t.Fatalf("Outputs error: %v", err)
	}
	return out
}
