package fsl

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMCFLIRTCmdline(t *testing.T) {
	cwd := workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	in := touch(t, t.TempDir(), "bold.nii.gz")

	frt := MCFLIRT.New()
	var missing *MissingMandatoryInputError
	if _, err := frt.Cmdline(); !errors.As(err, &missing) {
		t.Fatalf("expected MissingMandatoryInputError, got %v", err)
	}

	mustSet(t, frt, map[string]any{"in_file": in})
	outfile := filepath.Join(cwd, "bold_mcf.nii.gz")
	if got, want := mustCmdline(t, frt), "mcflirt -in "+in+" -out "+outfile; got != want {
		t.Fatalf("Cmdline = %q, want %q", got, want)
	}

	mustSet(t, frt, map[string]any{"out_file": "/newdata/bar.nii"})
	if got, want := mustCmdline(t, frt), "mcflirt -in "+in+" -out /newdata/bar.nii"; got != want {
		t.Fatalf("Cmdline = %q, want %q", got, want)
	}
}

func TestMCFLIRTOptions(t *testing.T) {
	cwd := workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	in := touch(t, t.TempDir(), "bold.nii.gz")
	instr := "-in " + in
	outstr := "-out " + filepath.Join(cwd, "bold_mcf.nii.gz")

	opts := map[string]struct {
		flag  string
		value any
	}{
		"cost":          {"-cost mutualinfo", "mutualinfo"},
		"bins":          {"-bins 256", 256},
		"dof":           {"-dof 6", 6},
		"ref_vol":       {"-refvol 2", 2},
		"scaling":       {"-scaling 6.00", 6.0},
		"smooth":        {"-smooth 1.00", 1.0},
		"rotation":      {"-rotation 2", 2},
		"stages":        {"-stages 3", 3},
		"init":          {"-init " + in, in},
		"interpolation": {"-spline_final", "spline"},
		"use_gradient":  {"-gdt", true},
		"use_contour":   {"-edge", true},
		"mean_vol":      {"-meanvol", true},
		"stats_imgs":    {"-stats", true},
		"save_mats":     {"-mats", true},
		"save_plots":    {"-plots", true},
		"save_rms":      {"-rmsabs -rmsrel", true},
	}
	// options named before out_file sort ahead of -out
	before := map[string]bool{"init": true, "cost": true, "dof": true, "mean_vol": true, "bins": true, "interpolation": true}
	for name, opt := range opts {
		fnt := MCFLIRT.New()
		mustSet(t, fnt, map[string]any{"in_file": in, name: opt.value})
		parts := []string{"mcflirt", instr, outstr, opt.flag}
		if before[name] {
			parts = []string{"mcflirt", instr, opt.flag, outstr}
		}
		if got, want := mustCmdline(t, fnt), strings.Join(parts, " "); got != want {
			t.Fatalf("%s: Cmdline = %q\nwant %q", name, got, want)
		}
	}
}

func TestMCFLIRTOutputs(t *testing.T) {
	cwd := workdir(t)
	fixedOutputType(t, OutputNIfTIGz)
	in := touch(t, t.TempDir(), "bold.nii.gz")

	frt := MCFLIRT.New()
	mustSet(t, frt, map[string]any{
		"in_file":    in,
		"stats_imgs": true,
		"mean_vol":   true,
		"save_plots": true,
		"save_mats":  true,
		"save_rms":   true,
	})
	p := func(name string) string { return filepath.Join(cwd, name) }
	want := Outputs{
		"out_file":     {p("bold_mcf.nii.gz")},
		"variance_img": {p("bold_mcf_variance.nii.gz")},
		"std_img":      {p("bold_mcf_sigma.nii.gz")},
		"mean_img":     {p("bold_mcf_mean_reg.nii.gz")},
		"par_file":     {p("bold_mcf.par")},
		"mat_file":     {p("bold_mcf.mat")},
		"rms_files":    {p("bold_mcf_abs.rms"), p("bold_mcf_rel.rms")},
	}
	if diff := cmp.Diff(want, mustOutputs(t, frt)); diff != "" {
		t.Fatalf("Outputs mismatch (-want +got):\n%s", diff)
	}
}
