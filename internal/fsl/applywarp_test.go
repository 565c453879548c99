package fsl

import (
	"path/filepath"
	"testing"
)

func TestApplyWarpCmdline(t *testing.T) {
	cwd := workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	dir := t.TempDir()
	in := touch(t, dir, "sub.nii.gz")
	ref := touch(t, dir, "ref.nii.gz")
	outfile := filepath.Join(cwd, "sub_warp.nii.gz")

	opts := map[string]struct {
		flag  string
		value any
	}{
		"out_file": {"--out=bar.nii", "bar.nii"},
		"premat":   {"--premat=" + ref, ref},
		"postmat":  {"--postmat=" + ref, ref},
	}
	for name, opt := range opts {
		awarp := ApplyWarp.New()
		mustSet(t, awarp, map[string]any{"in_file": in, "ref_file": ref, "field_file": ref, name: opt.value})

		want := "applywarp --in=" + in + " --ref=" + ref + " --out=" + outfile + " --warp=" + ref + " " + opt.flag
		if name == "out_file" {
			want = "applywarp --in=" + in + " --ref=" + ref + " --out=bar.nii --warp=" + ref
		}
		if got := mustCmdline(t, awarp); got != want {
			t.Fatalf("%s: Cmdline = %q\nwant %q", name, got, want)
		}
	}
}

func TestApplyWarpTrailingOptions(t *testing.T) {
	workdir(t)
	dir := t.TempDir()
	in := touch(t, dir, "sub.nii.gz")
	ref := touch(t, dir, "ref.nii.gz")

	awarp := ApplyWarp.New()
	mustSet(t, awarp, map[string]any{"relwarp": true, "interp": "spline", "in_file": in, "ref_file": ref, "out_file": "o.nii.gz", "supersample": true})
	want := "applywarp --in=" + in + " --ref=" + ref + " --out=o.nii.gz --super --interp=spline --rel"
	if got := mustCmdline(t, awarp); got != want {
		t.Fatalf("Cmdline = %q\nwant %q", got, want)
	}

	out := mustOutputs(t, awarp)
	if got, want := out.Path("out_file"), absPath("o.nii.gz"); got != want {
		t.Fatalf("out_file = %q, want %q", got, want)
	}
}
