package fsl

var flirtCosts = []string{"mutualinfo", "corratio", "normcorr", "normmi", "leastsq", "labeldiff", "bbr"}

var flirtOptions = MustRegistry(
	OptionSpec{Name: "in_file", Flag: "-in %s", Kind: KindFile, Position: 1, Mandatory: true, MustExist: true, Desc: "input file"},
	OptionSpec{Name: "reference", Flag: "-ref %s", Kind: KindFile, Position: 2, Mandatory: true, MustExist: true, Desc: "reference file"},
	OptionSpec{Name: "out_file", Flag: "-out %s", Kind: KindFile, Position: 3, NameSource: "in_file", NameTemplate: "%s_flirt", Desc: "registered output file"},
	OptionSpec{Name: "out_matrix_file", Flag: "-omat %s", Kind: KindFile, Position: 4, NameSource: "in_file", NameTemplate: "%s_flirt.mat", KeepExt: true, Desc: "output affine matrix in 4x4 ascii format"},
	OptionSpec{Name: "out_log", Kind: KindFile, NameSource: "in_file", NameTemplate: "%s_flirt.log", KeepExt: true, Requires: []string{"save_log"}, Desc: "output log"},
	OptionSpec{Name: "in_matrix_file", Flag: "-init %s", Kind: KindFile, Desc: "input 4x4 affine matrix"},
	OptionSpec{Name: "apply_xfm", Flag: "-applyxfm", Kind: KindBool, Desc: "apply transformation supplied by in_matrix_file or uses_qform"},
	OptionSpec{Name: "apply_isoxfm", Flag: "-applyisoxfm %f", Kind: KindFloat, Xor: []string{"apply_xfm"}, Desc: "as apply_xfm but forces isotropic resampling"},
	OptionSpec{Name: "datatype", Flag: "-datatype %s", Kind: KindEnum, Choices: []string{"char", "short", "int", "float", "double"}, Desc: "force output data type"},
	OptionSpec{Name: "cost", Flag: "-cost %s", Kind: KindEnum, Choices: flirtCosts, Desc: "cost function"},
	OptionSpec{Name: "cost_func", Flag: "-searchcost %s", Kind: KindEnum, Choices: flirtCosts, Desc: "cost function used during search"},
	OptionSpec{Name: "uses_qform", Flag: "-usesqform", Kind: KindBool, Desc: "initialize using sform or qform"},
	OptionSpec{Name: "display_init", Flag: "-displayinit", Kind: KindBool, Desc: "display initial matrix"},
	OptionSpec{Name: "angle_rep", Flag: "-anglerep %s", Kind: KindEnum, Choices: []string{"quaternion", "euler"}, Desc: "representation of rotation angles"},
	OptionSpec{Name: "interp", Flag: "-interp %s", Kind: KindEnum, Choices: []string{"trilinear", "nearestneighbour", "sinc", "spline"}, Desc: "final interpolation method used in reslicing"},
	OptionSpec{Name: "sinc_width", Flag: "-sincwidth %d", Kind: KindInt, Desc: "full-width in voxels"},
	OptionSpec{Name: "sinc_window", Flag: "-sincwindow %s", Kind: KindEnum, Choices: []string{"rectangular", "hanning", "blackman"}, Desc: "sinc window"},
	OptionSpec{Name: "bins", Flag: "-bins %d", Kind: KindInt, Desc: "number of histogram bins"},
	OptionSpec{Name: "dof", Flag: "-dof %d", Kind: KindInt, Desc: "number of transform degrees of freedom"},
	OptionSpec{Name: "no_resample", Flag: "-noresample", Kind: KindBool, Desc: "do not change input sampling"},
	OptionSpec{Name: "force_scaling", Flag: "-forcescaling", Kind: KindBool, Desc: "force rescaling even for low-res images"},
	OptionSpec{Name: "min_sampling", Flag: "-minsampling %f", Kind: KindFloat, Desc: "set minimum voxel dimension for sampling"},
	OptionSpec{Name: "padding_size", Flag: "-paddingsize %d", Kind: KindInt, Desc: "for apply_xfm: interpolates outside image by size"},
	OptionSpec{Name: "searchr_x", Flag: "-searchrx %s", Kind: KindList, Elem: KindInt, MinLen: 2, MaxLen: 2, Desc: "search angles along x-axis, in degrees"},
	OptionSpec{Name: "searchr_y", Flag: "-searchry %s", Kind: KindList, Elem: KindInt, MinLen: 2, MaxLen: 2, Desc: "search angles along y-axis, in degrees"},
	OptionSpec{Name: "searchr_z", Flag: "-searchrz %s", Kind: KindList, Elem: KindInt, MinLen: 2, MaxLen: 2, Desc: "search angles along z-axis, in degrees"},
	OptionSpec{Name: "no_search", Flag: "-nosearch", Kind: KindBool, Desc: "set all angular searches to ranges 0 to 0"},
	OptionSpec{Name: "coarse_search", Flag: "-coarsesearch %d", Kind: KindInt, Desc: "coarse search delta angle"},
	OptionSpec{Name: "fine_search", Flag: "-finesearch %d", Kind: KindInt, Desc: "fine search delta angle"},
	OptionSpec{Name: "schedule", Flag: "-schedule %s", Kind: KindFile, MustExist: true, Desc: "replaces default schedule"},
	OptionSpec{Name: "ref_weight", Flag: "-refweight %s", Kind: KindFile, MustExist: true, Desc: "file for reference weighting volume"},
	OptionSpec{Name: "in_weight", Flag: "-inweight %s", Kind: KindFile, MustExist: true, Desc: "file for input weighting volume"},
	OptionSpec{Name: "no_clamp", Flag: "-noclamp", Kind: KindBool, Desc: "do not use intensity clamping"},
	OptionSpec{Name: "no_resample_blur", Flag: "-noresampblur", Kind: KindBool, Desc: "do not use blurring on downsampling"},
	OptionSpec{Name: "rigid2D", Flag: "-2D", Kind: KindBool, Desc: "use 2D rigid body mode, ignores dof"},
	OptionSpec{Name: "save_log", Kind: KindBool, Desc: "save to log file"},
	OptionSpec{Name: "verbose", Flag: "-verbose %d", Kind: KindInt, Desc: "verbose mode, 0 is least"},
	OptionSpec{Name: "bgvalue", Flag: "-setbackground %f", Kind: KindFloat, Desc: "use specified background value for points outside FOV"},
	OptionSpec{Name: "wm_seg", Flag: "-wmseg %s", Kind: KindFile, MustExist: true, Desc: "white matter segmentation volume needed by BBR cost function"},
	OptionSpec{Name: "wm_coords", Flag: "-wmcoords %s", Kind: KindFile, MustExist: true, Desc: "white matter boundary coordinates for BBR cost function"},
	OptionSpec{Name: "wm_normals", Flag: "-wmnorms %s", Kind: KindFile, MustExist: true, Desc: "white matter boundary normals for BBR cost function"},
	OptionSpec{Name: "fieldmap", Flag: "-fieldmap %s", Kind: KindFile, MustExist: true, Desc: "fieldmap image in rads/s"},
	OptionSpec{Name: "fieldmapmask", Flag: "-fieldmapmask %s", Kind: KindFile, MustExist: true, Desc: "mask for fieldmap image"},
	OptionSpec{Name: "pedir", Flag: "-pedir %d", Kind: KindInt, Desc: "phase encode direction of EPI, 1/2/3=x/y/z and -1/-2/-3=-x/-y/-z"},
	OptionSpec{Name: "echospacing", Flag: "-echospacing %f", Kind: KindFloat, Desc: "value of EPI echo spacing, units of seconds"},
	OptionSpec{Name: "bbrtype", Flag: "-bbrtype %s", Kind: KindEnum, Choices: []string{"signed", "global_abs", "local_abs"}, Desc: "type of bbr cost function"},
	OptionSpec{Name: "bbrslope", Flag: "-bbrslope %f", Kind: KindFloat, Desc: "value of bbr slope"},
)

// FLIRT is linear (affine) intra- and inter-modal registration.
var FLIRT = register(&Tool{
	Name:        "FLIRT",
	Program:     "flirt",
	Desc:        "Linear (affine) intra- and inter-modal brain image registration.",
	Options:     flirtOptions,
	prepare:     flirtPrepare,
	listOutputs: flirtOutputs,
})

// ApplyXFM resamples an image with an existing transform. It is flirt with
// -applyxfm on by default.
var ApplyXFM = register(&Tool{
	Name:    "ApplyXFM",
	Program: "flirt",
	Desc:    "Apply an existing affine transformation to an image.",
	Options: flirtOptions.with(
		OptionSpec{Name: "apply_xfm", Flag: "-applyxfm", Kind: KindBool, Default: true, UseDefault: true, Xor: []string{"apply_isoxfm"}, Desc: "apply transformation supplied by in_matrix_file or uses_qform"},
	),
	prepare:     flirtPrepare,
	listOutputs: flirtOutputs,
})

func flirtPrepare(inv *Invocation, _ *buildPlan) error {
	applyXFM := inv.flag("apply_xfm")
	if !inv.IsSet("apply_xfm") {
		spec, _ := inv.tool.Options.Lookup("apply_xfm")
		applyXFM = spec.UseDefault && spec.Default == true && !inv.IsSet("apply_isoxfm")
	}
	if applyXFM && !inv.IsSet("in_matrix_file") && !inv.flag("uses_qform") {
		return &InvalidValueError{
			Tool:   inv.tool.Name,
			Field:  "apply_xfm",
			Value:  true,
			Reason: "requires in_matrix_file or uses_qform",
		}
	}
	return nil
}

func flirtOutputs(inv *Invocation) (Outputs, error) {
	plan, err := inv.validate()
	if err != nil {
		return nil, err
	}
	out := Outputs{}
	for _, name := range []string{"out_file", "out_matrix_file", "out_log"} {
		path, err := inv.templatedOutput(name, plan)
		if err != nil {
			return nil, err
		}
		out.set(name, path)
	}
	return out, nil
}
