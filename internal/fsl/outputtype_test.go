package fsl

import "testing"

func TestOutputTypeExtensions(t *testing.T) {
	want := map[OutputType]string{
		OutputNIfTI:       ".nii",
		OutputNIfTIGz:     ".nii.gz",
		OutputNIfTIPair:   ".img",
		OutputNIfTIPairGz: ".img.gz",
	}
	for ot, ext := range want {
		if got := ot.Ext(); got != ext {
			t.Fatalf("%s.Ext() = %q, want %q", ot, got, ext)
		}
	}
	if got := OutputType("BOGUS").Ext(); got != ".nii.gz" {
		t.Fatalf("unknown output type ext = %q, want default", got)
	}
}

func TestParseOutputType(t *testing.T) {
	got, err := ParseOutputType(" nifti_pair ")
	if err != nil {
		t.Fatalf("ParseOutputType error: %v", err)
	}
	if got != OutputNIfTIPair {
		t.Fatalf("ParseOutputType = %q", got)
	}
	if _, err := ParseOutputType("ANALYZE"); err == nil {
		t.Fatalf("expected error for unknown output type")
	}
}

func TestCurrentOutputTypeReadsEnvironment(t *testing.T) {
	resetOutputType()
	t.Setenv(OutputTypeEnv, "NIFTI")
	if got := CurrentOutputType(); got != OutputNIfTI {
		t.Fatalf("CurrentOutputType = %q, want NIFTI", got)
	}

	t.Setenv(OutputTypeEnv, "garbage")
	if got := CurrentOutputType(); got != DefaultOutputType {
		t.Fatalf("CurrentOutputType with invalid env = %q, want default", got)
	}
}

func TestSetOutputTypeOverridesEnvironment(t *testing.T) {
	t.Setenv(OutputTypeEnv, "NIFTI")
	fixedOutputType(t, OutputNIfTIPairGz)
	if got := CurrentOutputType(); got != OutputNIfTIPairGz {
		t.Fatalf("CurrentOutputType = %q, want NIFTI_PAIR_GZ", got)
	}
	if err := SetOutputType("nope"); err == nil {
		t.Fatalf("expected error for invalid output type")
	}
}
