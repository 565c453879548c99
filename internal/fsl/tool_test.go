package fsl

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		query string
		want  *Tool
	}{
		{"BET", BET},
		{"ApplyXfm", ApplyXFM},
		{"applyxfm", ApplyXFM},
		{"flirt", FLIRT},
		{"mcflirt", MCFLIRT},
		{"run_first_all", FIRST},
		{"fnirt", FNIRT},
	}
	for _, tt := range tests {
		got, err := Lookup(tt.query)
		if err != nil {
			t.Fatalf("Lookup(%q) error: %v", tt.query, err)
		}
		if got != tt.want {
			t.Fatalf("Lookup(%q) = %s, want %s", tt.query, got.Name, tt.want.Name)
		}
	}

	var unknown *UnknownToolError
	if _, err := Lookup("susan"); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownToolError, got %v", err)
	}
}

func TestToolsCatalog(t *testing.T) {
	var names []string
	for _, tool := range Tools() {
		names = append(names, tool.Name)
	}
	want := []string{"ApplyWarp", "ApplyXFM", "BET", "FAST", "FIRST", "FLIRT", "FNIRT", "FUGUE", "MCFLIRT"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
	if Aliases()["ApplyXfm"] != "ApplyXFM" {
		t.Fatalf("missing ApplyXfm alias")
	}
}

// Every tool must refuse to build before its required inputs are set.
func TestToolsRequireInputs(t *testing.T) {
	for _, tool := range Tools() {
		_, err := tool.New().Cmdline()
		var missing *MissingMandatoryInputError
		if !errors.As(err, &missing) {
			t.Fatalf("%s: expected MissingMandatoryInputError, got %v", tool.Name, err)
		}
	}
}

// File inputs that must exist reject missing paths at Set time.
func TestToolsRejectMissingFiles(t *testing.T) {
	for _, tool := range Tools() {
		for _, spec := range tool.Options.Specs() {
			if !spec.MustExist {
				continue
			}
			var value any = "/no/such/input.nii.gz"
			if spec.Kind == KindList {
				value = repeat("/no/such/input.nii.gz", max(spec.MinLen, 1))
			}
			err := tool.New().Set(spec.Name, value)
			var badPath *InvalidInputPathError
			if !errors.As(err, &badPath) {
				t.Fatalf("%s.%s: expected InvalidInputPathError, got %v", tool.Name, spec.Name, err)
			}
		}
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
