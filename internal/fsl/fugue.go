package fsl

// FUGUE unwarps EPI images using a field map, or warps them forward to
// match distortions.
var FUGUE = register(&Tool{
	Name:    "FUGUE",
	Program: "fugue",
	Desc:    "Unwarp or forward-warp an EPI image using a B0 field map.",
	Options: MustRegistry(
		OptionSpec{Name: "in_file", Flag: "--in=%s", Kind: KindFile, MustExist: true, Desc: "filename of input volume"},
		OptionSpec{Name: "shift_in_file", Flag: "--loadshift=%s", Kind: KindFile, MustExist: true, Desc: "filename for reading pixel shift volume"},
		OptionSpec{Name: "phasemap_in_file", Flag: "--phasemap=%s", Kind: KindFile, MustExist: true, Desc: "filename for input phase image"},
		OptionSpec{Name: "fmap_in_file", Flag: "--loadfmap=%s", Kind: KindFile, MustExist: true, Desc: "filename for loading fieldmap (rad/s)"},
		OptionSpec{Name: "unwarped_file", Flag: "--unwarp=%s", Kind: KindFile, Desc: "apply unwarping and save as filename"},
		OptionSpec{Name: "warped_file", Flag: "--warp=%s", Kind: KindFile, Desc: "apply forward warping and save as filename"},
		OptionSpec{Name: "forward_warping", Kind: KindBool, Desc: "apply forward warping instead of unwarping"},
		OptionSpec{Name: "dwell_to_asym_ratio", Flag: "--dwelltoasym=%.10f", Kind: KindFloat, Desc: "set the dwell to asym time ratio"},
		OptionSpec{Name: "dwell_time", Flag: "--dwell=%.10f", Kind: KindFloat, Desc: "set the EPI dwell time per phase-encode line, same as echo spacing (sec)"},
		OptionSpec{Name: "asym_se_time", Flag: "--asym=%.10f", Kind: KindFloat, Desc: "set the fieldmap asymmetric spin echo time (sec)"},
		OptionSpec{Name: "median_2dfilter", Flag: "--median", Kind: KindBool, Desc: "apply 2D median filtering"},
		OptionSpec{Name: "despike_2dfilter", Flag: "--despike", Kind: KindBool, Desc: "apply a 2D de-spiking filter"},
		OptionSpec{Name: "no_gap_fill", Flag: "--nofill", Kind: KindBool, Desc: "do not apply gap-filling measure to the fieldmap"},
		OptionSpec{Name: "no_extend", Flag: "--noextend", Kind: KindBool, Desc: "do not apply rigid-body extrapolation to the fieldmap"},
		OptionSpec{Name: "smooth2d", Flag: "--smooth2=%.2f", Kind: KindFloat, Desc: "apply 2D Gaussian smoothing of sigma N (in mm)"},
		OptionSpec{Name: "smooth3d", Flag: "--smooth3=%.2f", Kind: KindFloat, Desc: "apply 3D Gaussian smoothing of sigma N (in mm)"},
		OptionSpec{Name: "poly_order", Flag: "--poly=%d", Kind: KindInt, Desc: "apply polynomial fitting of order N"},
		OptionSpec{Name: "fourier_order", Flag: "--fourier=%d", Kind: KindInt, Desc: "apply Fourier (sinusoidal) fitting of order N"},
		OptionSpec{Name: "pava", Flag: "--pava", Kind: KindBool, Desc: "apply monotonic enforcement via PAVA"},
		OptionSpec{Name: "despike_threshold", Flag: "--despikethreshold=%s", Kind: KindString, Desc: "specify the threshold for de-spiking (default=3.0)"},
		OptionSpec{Name: "unwarp_direction", Flag: "--unwarpdir=%s", Kind: KindEnum, Choices: []string{"x", "y", "z", "x-", "y-", "z-"}, Desc: "specifies direction of warping (default y)"},
		OptionSpec{Name: "phase_conjugate", Flag: "--phaseconj", Kind: KindBool, Desc: "apply phase conjugate method of unwarping"},
		OptionSpec{Name: "icorr", Flag: "--icorr", Kind: KindBool, Requires: []string{"shift_in_file"}, Desc: "apply intensity correction to unwarping (pixel shift method only)"},
		OptionSpec{Name: "icorr_only", Flag: "--icorronly", Kind: KindBool, Desc: "apply intensity correction only"},
		OptionSpec{Name: "mask_file", Flag: "--mask=%s", Kind: KindFile, MustExist: true, Desc: "filename for loading valid mask"},
		OptionSpec{Name: "nokspace", Flag: "--nokspace", Kind: KindBool, Desc: "do not use k-space forward warping"},
		OptionSpec{Name: "save_shift", Kind: KindBool, Xor: []string{"save_unmasked_shift"}, Desc: "write pixel shift volume"},
		OptionSpec{Name: "shift_out_file", Flag: "--saveshift=%s", Kind: KindFile, Desc: "filename for saving pixel shift volume"},
		OptionSpec{Name: "save_unmasked_shift", Flag: "--unmaskshift", Kind: KindBool, Xor: []string{"save_shift"}, Desc: "saves the unmasked shiftmap when using --saveshift"},
		OptionSpec{Name: "save_fmap", Kind: KindBool, Xor: []string{"save_unmasked_fmap"}, Desc: "write field map volume"},
		OptionSpec{Name: "fmap_out_file", Flag: "--savefmap=%s", Kind: KindFile, Desc: "filename for saving fieldmap (rad/s)"},
		OptionSpec{Name: "save_unmasked_fmap", Flag: "--unmaskfmap", Kind: KindBool, Xor: []string{"save_fmap"}, Desc: "saves the unmasked fieldmap when using --savefmap"},
	),
	prepare:     fuguePrepare,
	listOutputs: fugueOutputs,
})

var fugueOutputNames = []string{"unwarped_file", "warped_file", "shift_out_file", "fmap_out_file"}

// fuguePrepare picks which outputs are written and which input their names
// are derived from.
func fuguePrepare(inv *Invocation, plan *buildPlan) error {
	phase := inv.IsSet("phasemap_in_file")
	vsm := inv.IsSet("shift_in_file")
	fmap := inv.IsSet("fmap_in_file")
	if !phase && !vsm && !fmap {
		return &MissingMandatoryInputError{
			Tool:   inv.tool.Name,
			Fields: []string{"phasemap_in_file", "shift_in_file", "fmap_in_file"},
			OneOf:  true,
		}
	}

	skip := func(names ...string) {
		for _, name := range names {
			plan.skip[name] = true
			delete(plan.templates, name)
		}
	}

	switch {
	case !inv.IsSet("in_file"):
		skip("unwarped_file", "warped_file")
	case inv.flag("forward_warping"):
		skip("unwarped_file")
		if !inv.IsSet("warped_file") {
			plan.templates["warped_file"] = nameTemplate{source: "in_file", template: "%s_warped"}
		}
	default:
		skip("warped_file")
		if !inv.IsSet("unwarped_file") {
			plan.templates["unwarped_file"] = nameTemplate{source: "in_file", template: "%s_unwarped"}
		}
	}

	if !inv.IsSet("shift_out_file") {
		masked, unmasked := inv.flag("save_shift"), inv.flag("save_unmasked_shift")
		if masked || unmasked {
			source := firstSet(inv, "fmap_in_file", "phasemap_in_file", "shift_in_file")
			template := "%s_vsm"
			if unmasked {
				template = "%s_vsm_unmasked"
			}
			plan.templates["shift_out_file"] = nameTemplate{source: source, template: template}
		} else {
			skip("save_shift", "save_unmasked_shift", "shift_out_file")
		}
	}

	if !inv.IsSet("fmap_out_file") {
		masked, unmasked := inv.flag("save_fmap"), inv.flag("save_unmasked_fmap")
		if masked || unmasked {
			source := firstSet(inv, "shift_in_file", "phasemap_in_file", "fmap_in_file")
			template := "%s_fieldmap"
			if unmasked {
				template = "%s_fieldmap_unmasked"
			}
			plan.templates["fmap_out_file"] = nameTemplate{source: source, template: template}
		} else {
			skip("save_fmap", "save_unmasked_fmap", "fmap_out_file")
		}
	}
	return nil
}

func firstSet(inv *Invocation, names ...string) string {
	for _, name := range names {
		if inv.IsSet(name) {
			return name
		}
	}
	return ""
}

func fugueOutputs(inv *Invocation) (Outputs, error) {
	plan, err := inv.validate()
	if err != nil {
		return nil, err
	}
	out := Outputs{}
	for _, name := range fugueOutputNames {
		if plan.skip[name] {
			continue
		}
		path, err := inv.templatedOutput(name, plan)
		if err != nil {
			return nil, err
		}
		out.set(name, path)
	}
	return out, nil
}
