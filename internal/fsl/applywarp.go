package fsl

// ApplyWarp applies a nonlinear warp field (and optional affines) to an
// image.
var ApplyWarp = register(&Tool{
	Name:    "ApplyWarp",
	Program: "applywarp",
	Desc:    "Apply FSL warps to an image.",
	Options: MustRegistry(
		OptionSpec{Name: "in_file", Flag: "--in=%s", Kind: KindFile, Position: 1, Mandatory: true, MustExist: true, Desc: "image to be warped"},
		OptionSpec{Name: "ref_file", Flag: "--ref=%s", Kind: KindFile, Position: 2, Mandatory: true, MustExist: true, Desc: "reference image"},
		OptionSpec{Name: "out_file", Flag: "--out=%s", Kind: KindFile, Position: 3, GenFile: true, Desc: "output filename"},
		OptionSpec{Name: "field_file", Flag: "--warp=%s", Kind: KindFile, MustExist: true, Desc: "file containing warp field"},
		OptionSpec{Name: "abswarp", Flag: "--abs", Kind: KindBool, Xor: []string{"relwarp"}, Desc: "treat warp field as absolute: x' = w(x)"},
		OptionSpec{Name: "relwarp", Flag: "--rel", Kind: KindBool, Position: -1, Xor: []string{"abswarp"}, Desc: "treat warp field as relative: x' = x + w(x)"},
		OptionSpec{Name: "datatype", Flag: "--datatype=%s", Kind: KindEnum, Choices: []string{"char", "short", "int", "float", "double"}, Desc: "force output data type"},
		OptionSpec{Name: "supersample", Flag: "--super", Kind: KindBool, Desc: "intermediary supersampling of output, default is off"},
		OptionSpec{Name: "superlevel", Flag: "--superlevel=%s", Kind: KindString, Desc: "level of intermediary supersampling, a for automatic or integer level"},
		OptionSpec{Name: "premat", Flag: "--premat=%s", Kind: KindFile, MustExist: true, Desc: "filename for pre-transform (affine matrix)"},
		OptionSpec{Name: "postmat", Flag: "--postmat=%s", Kind: KindFile, MustExist: true, Desc: "filename for post-transform (affine matrix)"},
		OptionSpec{Name: "mask_file", Flag: "--mask=%s", Kind: KindFile, MustExist: true, Desc: "filename for mask image (in reference space)"},
		OptionSpec{Name: "interp", Flag: "--interp=%s", Kind: KindEnum, Position: -2, Choices: []string{"nn", "trilinear", "sinc", "spline"}, Desc: "interpolation method"},
	),
	genFilename: func(inv *Invocation, name string) (string, error) {
		if name != "out_file" {
			return "", nil
		}
		return applyWarpOutFile(inv)
	},
	listOutputs: func(inv *Invocation) (Outputs, error) {
		path, err := applyWarpOutFile(inv)
		if err != nil {
			return nil, err
		}
		out := Outputs{}
		out.set("out_file", path)
		return out, nil
	},
})

func applyWarpOutFile(inv *Invocation) (string, error) {
	if out := inv.str("out_file"); out != "" {
		return absPath(out), nil
	}
	return inv.genFname(inv.str("in_file"), DeriveOptions{Suffix: "_warp"})
}
