package fsl

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFASTCmdline(t *testing.T) {
	in := touch(t, t.TempDir(), "foo.nii.gz")

	fast := FAST.New()
	mustSet(t, fast, map[string]any{"in_files": in, "verbose": true})
	if got, want := mustCmdline(t, fast), "fast -v -S 1 "+in; got != want {
		t.Fatalf("Cmdline = %q, want %q", got, want)
	}

	fast2 := FAST.New()
	mustSet(t, fast2, map[string]any{"in_files": []string{in, in}, "verbose": true})
	if got, want := mustCmdline(t, fast2), "fast -v -S 2 "+in+" "+in; got != want {
		t.Fatalf("Cmdline = %q, want %q", got, want)
	}
}

func TestFASTOptions(t *testing.T) {
	in := touch(t, t.TempDir(), "foo.nii.gz")
	opts := map[string]struct {
		flag  string
		value any
	}{
		"number_classes":       {"-n 4", 4},
		"bias_iters":           {"-I 5", 5},
		"bias_lowpass":         {"-l 15", 15},
		"img_type":             {"-t 2", 2},
		"init_seg_smooth":      {"-f 0.035", 0.035},
		"segments":             {"-g", true},
		"init_transform":       {"-a " + in, in},
		"other_priors":         {"-A " + in + " " + in + " " + in, []string{in, in, in}},
		"no_pve":               {"--nopve", true},
		"output_biasfield":     {"-b", true},
		"output_biascorrected": {"-B", true},
		"no_bias":              {"-N", true},
		"out_basename":         {"-o fasted", "fasted"},
		"use_priors":           {"-P", true},
		"segment_iters":        {"-W 14", 14},
		"mixel_smooth":         {"-R 0.25", 0.25},
		"iters_afterbias":      {"-O 3", 3},
		"hyper":                {"-H 0.15", 0.15},
		"verbose":              {"-v", true},
		"manual_seg":           {"-s " + in, in},
		"probability_maps":     {"-p", true},
	}
	for name, opt := range opts {
		fast := FAST.New()
		mustSet(t, fast, map[string]any{"in_files": in, name: opt.value})
		want := strings.Join([]string{"fast", opt.flag, "-S 1", in}, " ")
		if got := mustCmdline(t, fast); got != want {
			t.Fatalf("%s: Cmdline = %q, want %q", name, got, want)
		}
	}
}

func TestFASTOutputsDirectory(t *testing.T) {
	indir := t.TempDir()
	in := touch(t, indir, "foo.nii.gz")
	cwd := workdir(t)

	check := func(out Outputs, prefix string) {
		t.Helper()
		for _, file := range out.Files() {
			if !strings.HasPrefix(file, prefix) {
				t.Fatalf("output %q not rooted at %q", file, prefix)
			}
		}
	}

	fast := FAST.New()
	mustSet(t, fast, map[string]any{"in_files": in})
	check(mustOutputs(t, fast), filepath.Join(indir, "foo"))

	mustSet(t, fast, map[string]any{"out_basename": "a_basename"})
	check(mustOutputs(t, fast), filepath.Join(cwd, "a_basename"))
}

func TestFASTOutputs(t *testing.T) {
	fixedOutputType(t, OutputNIfTIGz)
	indir := t.TempDir()
	in := touch(t, indir, "foo.nii.gz")
	p := func(name string) string { return filepath.Join(indir, name) }

	fast := FAST.New()
	mustSet(t, fast, map[string]any{
		"in_files":             in,
		"number_classes":       2,
		"segments":             true,
		"output_biascorrected": true,
		"output_biasfield":     true,
		"probability_maps":     true,
	})
	want := Outputs{
		"tissue_class_map":     {p("foo_seg.nii.gz")},
		"mixeltype":            {p("foo_mixeltype.nii.gz")},
		"tissue_class_files":   {p("foo_seg_0.nii.gz"), p("foo_seg_1.nii.gz")},
		"restored_image":       {p("foo_restore.nii.gz")},
		"partial_volume_map":   {p("foo_pveseg.nii.gz")},
		"partial_volume_files": {p("foo_pve_0.nii.gz"), p("foo_pve_1.nii.gz")},
		"bias_field":           {p("foo_bias.nii.gz")},
		"probability_maps":     {p("foo_prob_0.nii.gz"), p("foo_prob_1.nii.gz")},
	}
	if diff := cmp.Diff(want, mustOutputs(t, fast)); diff != "" {
		t.Fatalf("Outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestFASTMultiChannelOutputs(t *testing.T) {
	fixedOutputType(t, OutputNIfTI)
	indir := t.TempDir()
	t1 := touch(t, indir, "t1.nii")
	t2 := touch(t, indir, "t2.nii")

	fast := FAST.New()
	mustSet(t, fast, map[string]any{"in_files": []string{t1, t2}, "output_biascorrected": true, "no_pve": true})
	out := mustOutputs(t, fast)

	want := []string{filepath.Join(indir, "t2_restore_1.nii"), filepath.Join(indir, "t2_restore_2.nii")}
	if diff := cmp.Diff(want, out["restored_image"]); diff != "" {
		t.Fatalf("restored_image mismatch (-want +got):\n%s", diff)
	}
	if _, ok := out["partial_volume_map"]; ok {
		t.Fatalf("no_pve should drop partial volume outputs")
	}
}
