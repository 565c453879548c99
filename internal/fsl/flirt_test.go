package fsl

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFLIRTCmdline(t *testing.T) {
	workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	dir := t.TempDir()
	in := touch(t, dir, "sub.nii.gz")
	ref := touch(t, dir, "ref.nii.gz")

	flirted := FLIRT.New()
	mustSet(t, flirted, map[string]any{
		"in_file":         in,
		"reference":       ref,
		"out_file":        "outfile",
		"out_matrix_file": "outmat.mat",
		"bins":            256,
		"cost":            "mutualinfo",
	})
	want := "flirt -in " + in + " -ref " + ref + " -out outfile -omat outmat.mat -bins 256 -cost mutualinfo"
	if got := mustCmdline(t, flirted); got != want {
		t.Fatalf("Cmdline = %q\nwant %q", got, want)
	}

	flirter := FLIRT.New()
	var missing *MissingMandatoryInputError
	if _, err := flirter.Cmdline(); !errors.As(err, &missing) {
		t.Fatalf("expected MissingMandatoryInputError, got %v", err)
	}
	mustSet(t, flirter, map[string]any{"in_file": in})
	if _, err := flirter.Cmdline(); !errors.As(err, &missing) {
		t.Fatalf("expected MissingMandatoryInputError without reference, got %v", err)
	}
	mustSet(t, flirter, map[string]any{"reference": ref})
	want = "flirt -in " + in + " -ref " + ref + " -out sub_flirt.nii.gz -omat sub_flirt.mat"
	if got := mustCmdline(t, flirter); got != want {
		t.Fatalf("Cmdline = %q\nwant %q", got, want)
	}
}

func TestFLIRTOptions(t *testing.T) {
	workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	dir := t.TempDir()
	in := touch(t, dir, "sub.nii.gz")
	ref := touch(t, dir, "ref.nii.gz")
	aux := touch(t, dir, "aux.nii")

	opts := map[string]struct {
		flag  string
		value any
	}{
		"apply_isoxfm":     {"-applyisoxfm 1.500000", 1.5},
		"datatype":         {"-datatype float", "float"},
		"cost_func":        {"-searchcost corratio", "corratio"},
		"uses_qform":       {"-usesqform", true},
		"display_init":     {"-displayinit", true},
		"angle_rep":        {"-anglerep euler", "euler"},
		"interp":           {"-interp spline", "spline"},
		"sinc_width":       {"-sincwidth 7", 7},
		"sinc_window":      {"-sincwindow hanning", "hanning"},
		"dof":              {"-dof 6", 6},
		"no_resample":      {"-noresample", true},
		"force_scaling":    {"-forcescaling", true},
		"min_sampling":     {"-minsampling 2.000000", 2.0},
		"padding_size":     {"-paddingsize 1", 1},
		"searchr_x":        {"-searchrx -45 45", []int{-45, 45}},
		"searchr_y":        {"-searchry -45 45", []int{-45, 45}},
		"searchr_z":        {"-searchrz -45 45", []int{-45, 45}},
		"no_search":        {"-nosearch", true},
		"coarse_search":    {"-coarsesearch 60", 60},
		"fine_search":      {"-finesearch 18", 18},
		"schedule":         {"-schedule " + aux, aux},
		"ref_weight":       {"-refweight " + aux, aux},
		"in_weight":        {"-inweight " + aux, aux},
		"no_clamp":         {"-noclamp", true},
		"no_resample_blur": {"-noresampblur", true},
		"rigid2D":          {"-2D", true},
		"verbose":          {"-verbose 1", 1},
		"bgvalue":          {"-setbackground 0.000000", 0},
		"wm_seg":           {"-wmseg " + aux, aux},
		"fieldmap":         {"-fieldmap " + aux, aux},
		"pedir":            {"-pedir -2", -2},
		"echospacing":      {"-echospacing 0.000500", 0.0005},
		"bbrtype":          {"-bbrtype global_abs", "global_abs"},
		"bbrslope":         {"-bbrslope 0.500000", 0.5},
	}
	prefix := strings.Join([]string{"flirt -in", in, "-ref", ref, "-out sub_flirt.nii.gz -omat sub_flirt.mat"}, " ")
	for name, opt := range opts {
		flirter := FLIRT.New()
		mustSet(t, flirter, map[string]any{"in_file": in, "reference": ref, name: opt.value})
		if got, want := mustCmdline(t, flirter), prefix+" "+opt.flag; got != want {
			t.Fatalf("%s: Cmdline = %q\nwant %q", name, got, want)
		}
	}
}

func TestFLIRTApplyXFMNeedsTransform(t *testing.T) {
	dir := t.TempDir()
	in := touch(t, dir, "sub.nii.gz")
	ref := touch(t, dir, "ref.nii.gz")

	flirter := FLIRT.New()
	mustSet(t, flirter, map[string]any{"in_file": in, "reference": ref, "apply_xfm": true})
	var invalid *InvalidValueError
	if _, err := flirter.Cmdline(); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidValueError, got %v", err)
	}
	mustSet(t, flirter, map[string]any{"uses_qform": true})
	if _, err := flirter.Cmdline(); err != nil {
		t.Fatalf("Cmdline error: %v", err)
	}
}

func TestFLIRTOutputs(t *testing.T) {
	cwd := workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	dir := t.TempDir()
	in := touch(t, dir, "sub.nii.gz")
	ref := touch(t, dir, "ref.nii.gz")

	flirter := FLIRT.New()
	mustSet(t, flirter, map[string]any{"in_file": in, "reference": ref, "out_file": "foo.nii.gz", "out_matrix_file": "bar.nii.gz"})
	got := mustOutputs(t, flirter)
	want := Outputs{
		"out_file":        {filepath.Join(cwd, "foo.nii.gz")},
		"out_matrix_file": {filepath.Join(cwd, "bar.nii.gz")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Outputs mismatch (-want +got):\n%s", diff)
	}

	derived := FLIRT.New()
	mustSet(t, derived, map[string]any{"in_file": in, "reference": ref, "save_log": true})
	got = mustOutputs(t, derived)
	want = Outputs{
		"out_file":        {filepath.Join(cwd, "sub_flirt.nii.gz")},
		"out_matrix_file": {filepath.Join(cwd, "sub_flirt.mat")},
		"out_log":         {filepath.Join(cwd, "sub_flirt.log")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("derived Outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyXFM(t *testing.T) {
	workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	dir := t.TempDir()
	in := touch(t, dir, "sub.nii.gz")
	ref := touch(t, dir, "ref.nii.gz")
	mat := touch(t, dir, "affine.mat")

	xfm, err := New("ApplyXfm")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if xfm.Tool() != ApplyXFM {
		t.Fatalf("ApplyXfm alias resolved to %s", xfm.Tool().Name)
	}

	mustSet(t, xfm, map[string]any{"in_file": in, "reference": ref})
	var invalid *InvalidValueError
	if _, err := xfm.Cmdline(); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidValueError without a matrix, got %v", err)
	}

	mustSet(t, xfm, map[string]any{"in_matrix_file": mat})
	want := "flirt -in " + in + " -ref " + ref + " -out sub_flirt.nii.gz -omat sub_flirt.mat -applyxfm -init " + mat
	if got := mustCmdline(t, xfm); got != want {
		t.Fatalf("Cmdline = %q\nwant %q", got, want)
	}

	iso := ApplyXFM.New()
	mustSet(t, iso, map[string]any{"in_file": in, "reference": ref, "apply_isoxfm": 2})
	if got := mustCmdline(t, iso); strings.Contains(got, "-applyxfm") {
		t.Fatalf("default -applyxfm emitted with -applyisoxfm: %q", got)
	}
}
