package fsl

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFUGUENeedsFieldSource(t *testing.T) {
	in := touch(t, t.TempDir(), "dumbfile.nii.gz")
	fugue := FUGUE.New()
	mustSet(t, fugue, map[string]any{"in_file": in})

	_, err := fugue.Cmdline()
	var missing *MissingMandatoryInputError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingMandatoryInputError, got %v", err)
	}
	if !missing.OneOf || len(missing.Fields) != 3 {
		t.Fatalf("expected a one-of error over three fields, got %+v", missing)
	}
}

func TestFUGUEDerivedOutputs(t *testing.T) {
	cwd := workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	infile := touch(t, t.TempDir(), "dumbfile.nii.gz")

	tests := []struct {
		name   string
		values map[string]any
		output string
		want   string
		flag   string
	}{
		{
			name:   "unmasked fieldmap",
			values: map[string]any{"save_unmasked_fmap": true, "fmap_in_file": infile, "mask_file": infile},
			output: "fmap_out_file",
			want:   "dumbfile_fieldmap_unmasked.nii.gz",
			flag:   "--savefmap=dumbfile_fieldmap_unmasked.nii.gz",
		},
		{
			name:   "unmasked shift",
			values: map[string]any{"save_unmasked_shift": true, "fmap_in_file": infile, "dwell_time": 1e-3, "mask_file": infile},
			output: "shift_out_file",
			want:   "dumbfile_vsm_unmasked.nii.gz",
			flag:   "--saveshift=dumbfile_vsm_unmasked.nii.gz",
		},
		{
			name:   "unwarp",
			values: map[string]any{"in_file": infile, "mask_file": infile, "shift_in_file": infile},
			output: "unwarped_file",
			want:   "dumbfile_unwarped.nii.gz",
			flag:   "--unwarp=dumbfile_unwarped.nii.gz",
		},
		{
			name:   "forward warp",
			values: map[string]any{"in_file": infile, "phasemap_in_file": infile, "forward_warping": true},
			output: "warped_file",
			want:   "dumbfile_warped.nii.gz",
			flag:   "--warp=dumbfile_warped.nii.gz",
		},
	}
	for _, tt := range tests {
		fugue := FUGUE.New()
		mustSet(t, fugue, tt.values)

		out := mustOutputs(t, fugue)
		if got, want := out.Path(tt.output), filepath.Join(cwd, tt.want); got != want {
			t.Fatalf("%s: %s = %q, want %q", tt.name, tt.output, got, want)
		}
		cmd := mustCmdline(t, fugue)
		if !strings.Contains(cmd, " "+tt.flag) {
			t.Fatalf("%s: Cmdline %q missing %q", tt.name, cmd, tt.flag)
		}
	}
}

func TestFUGUEUnmaskedShiftCmdline(t *testing.T) {
	workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	infile := touch(t, t.TempDir(), "dumbfile.nii.gz")

	fugue := FUGUE.New()
	mustSet(t, fugue, map[string]any{"save_unmasked_shift": true, "fmap_in_file": infile, "dwell_time": 1e-3, "mask_file": infile})
	want := "fugue --dwell=0.0010000000 --loadfmap=" + infile + " --mask=" + infile +
		" --unmaskshift --saveshift=dumbfile_vsm_unmasked.nii.gz"
	if got := mustCmdline(t, fugue); got != want {
		t.Fatalf("Cmdline = %q\nwant %q", got, want)
	}
}

func TestFUGUEShiftSourcePrefersFieldmap(t *testing.T) {
	cwd := workdir(t)
	fixedOutputType(t, OutputNIfTI)
	dir := t.TempDir()
	fmap := touch(t, dir, "fmap.nii")
	phase := touch(t, dir, "phase.nii")
	shift := touch(t, dir, "shift.nii")

	fugue := FUGUE.New()
	mustSet(t, fugue, map[string]any{
		"fmap_in_file":     fmap,
		"phasemap_in_file": phase,
		"shift_in_file":    shift,
		"save_shift":       true,
		"save_fmap":        true,
	})
	want := Outputs{
		"shift_out_file": {filepath.Join(cwd, "fmap_vsm.nii")},
		"fmap_out_file":  {filepath.Join(cwd, "shift_fieldmap.nii")},
	}
	if diff := cmp.Diff(want, mustOutputs(t, fugue)); diff != "" {
		t.Fatalf("Outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestFUGUEExplicitOutputs(t *testing.T) {
	workdir(t)
	infile := touch(t, t.TempDir(), "dumbfile.nii.gz")

	fugue := FUGUE.New()
	mustSet(t, fugue, map[string]any{"in_file": infile, "shift_in_file": infile, "unwarped_file": "fixed.nii.gz", "warped_file": "ignored.nii.gz"})
	cmd := mustCmdline(t, fugue)
	if !strings.Contains(cmd, " --unwarp=fixed.nii.gz") {
		t.Fatalf("Cmdline %q missing explicit --unwarp", cmd)
	}
	if strings.Contains(cmd, "--warp=") {
		t.Fatalf("Cmdline %q should skip --warp when unwarping", cmd)
	}
	out := mustOutputs(t, fugue)
	if got := out.Names(); !cmp.Equal(got, []string{"unwarped_file"}) {
		t.Fatalf("output names = %v", got)
	}
}
