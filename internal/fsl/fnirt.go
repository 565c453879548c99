package fsl

import (
	"path/filepath"
	"strings"
)

// fnirtFilemap maps FNIRT output options to the suffix used when deriving
// their names.
var fnirtFilemap = map[string]string{
	"warped_file":           "warped",
	"field_file":            "field",
	"jacobian_file":         "field_jacobian",
	"modulatedref_file":     "modulated",
	"out_intensitymap_file": "intmap",
	"log_file":              "log",
	"fieldcoeff_file":       "fieldwarp",
}

var binaryFlags = []string{"0", "1"}

// FNIRT is nonlinear registration. Every option is a --key=value token.
var FNIRT = register(&Tool{
	Name:    "FNIRT",
	Program: "fnirt",
	Desc:    "Nonlinear registration of an image to a reference.",
	Options: MustRegistry(
		OptionSpec{Name: "ref_file", Flag: "--ref=%s", Kind: KindFile, Mandatory: true, MustExist: true, Desc: "name of reference image"},
		OptionSpec{Name: "in_file", Flag: "--in=%s", Kind: KindFile, Mandatory: true, MustExist: true, Desc: "name of input image"},
		OptionSpec{Name: "affine_file", Flag: "--aff=%s", Kind: KindFile, MustExist: true, Desc: "name of file containing affine transform"},
		OptionSpec{Name: "inwarp_file", Flag: "--inwarp=%s", Kind: KindFile, MustExist: true, Desc: "name of file containing initial non-linear warps"},
		OptionSpec{Name: "in_intensitymap_file", Flag: "--intin=%s", Kind: KindList, Elem: KindFile, MustExist: true, MinLen: 1, MaxLen: 2, Desc: "name of file/files containing initial intensity mapping"},
		OptionSpec{Name: "fieldcoeff_file", Flag: "--cout=%s", Kind: KindOutput, Desc: "name of output file with field coefficients or true"},
		OptionSpec{Name: "warped_file", Flag: "--iout=%s", Kind: KindFile, GenFile: true, Desc: "name of output image"},
		OptionSpec{Name: "field_file", Flag: "--fout=%s", Kind: KindOutput, Desc: "name of output file with field or true"},
		OptionSpec{Name: "jacobian_file", Flag: "--jout=%s", Kind: KindOutput, Desc: "name of file for writing out the Jacobian of the field"},
		OptionSpec{Name: "modulatedref_file", Flag: "--refout=%s", Kind: KindOutput, Desc: "name of file for writing out intensity modulated --ref"},
		OptionSpec{Name: "out_intensitymap_file", Flag: "--intout=%s", Kind: KindOutput, Desc: "name of files for writing information pertaining to intensity mapping"},
		OptionSpec{Name: "log_file", Flag: "--logout=%s", Kind: KindFile, GenFile: true, Desc: "name of log-file"},
		OptionSpec{Name: "config_file", Flag: "--config=%s", Kind: KindFile, MustExist: true, Choices: []string{"T1_2_MNI152_2mm", "FA_2_FMRIB58_1mm"}, Desc: "name of config file specifying command line arguments"},
		OptionSpec{Name: "refmask_file", Flag: "--refmask=%s", Kind: KindFile, MustExist: true, Desc: "name of file with mask in reference space"},
		OptionSpec{Name: "inmask_file", Flag: "--inmask=%s", Kind: KindFile, MustExist: true, Desc: "name of file with mask in input image space"},
		OptionSpec{Name: "skip_refmask", Flag: "--applyrefmask=0", Kind: KindBool, Xor: []string{"apply_refmask"}, Desc: "skip specified refmask if set"},
		OptionSpec{Name: "skip_inmask", Flag: "--applyinmask=0", Kind: KindBool, Xor: []string{"apply_inmask"}, Desc: "skip specified inmask if set"},
		OptionSpec{Name: "apply_refmask", Flag: "--applyrefmask=%s", Kind: KindList, Elem: KindEnum, Choices: binaryFlags, Sep: ",", Xor: []string{"skip_refmask"}, Desc: "list of iterations to use reference mask on (1 to use, 0 to skip)"},
		OptionSpec{Name: "apply_inmask", Flag: "--applyinmask=%s", Kind: KindList, Elem: KindEnum, Choices: binaryFlags, Sep: ",", Xor: []string{"skip_inmask"}, Desc: "list of iterations to use input mask on (1 to use, 0 to skip)"},
		OptionSpec{Name: "skip_implicit_ref_masking", Flag: "--imprefm=0", Kind: KindBool, Desc: "skip implicit masking based on value in --ref image"},
		OptionSpec{Name: "refmask_val", Flag: "--imprefval=%f", Kind: KindFloat, Desc: "value to mask out in --ref image"},
		OptionSpec{Name: "skip_implicit_in_masking", Flag: "--impinm=0", Kind: KindBool, Desc: "skip implicit masking based on value in --in image"},
		OptionSpec{Name: "inmask_val", Flag: "--impinval=%f", Kind: KindFloat, Desc: "value to mask out in --in image"},
		OptionSpec{Name: "max_nonlin_iter", Flag: "--miter=%s", Kind: KindList, Elem: KindInt, Sep: ",", Desc: "max number of non-linear iterations"},
		OptionSpec{Name: "subsampling_scheme", Flag: "--subsamp=%s", Kind: KindList, Elem: KindInt, Sep: ",", Desc: "sub-sampling scheme"},
		OptionSpec{Name: "warp_resolution", Flag: "--warpres=%d,%d,%d", Kind: KindList, Elem: KindInt, MinLen: 3, MaxLen: 3, Desc: "(approximate) resolution (in mm) of warp basis in x-, y- and z-direction"},
		OptionSpec{Name: "spline_order", Flag: "--splineorder=%d", Kind: KindInt, Desc: "order of spline, 2 is quadratic spline, 3 is cubic spline"},
		OptionSpec{Name: "in_fwhm", Flag: "--infwhm=%s", Kind: KindList, Elem: KindInt, Sep: ",", Desc: "FWHM (in mm) of gaussian smoothing kernel for input volume"},
		OptionSpec{Name: "ref_fwhm", Flag: "--reffwhm=%s", Kind: KindList, Elem: KindInt, Sep: ",", Desc: "FWHM (in mm) of gaussian smoothing kernel for ref volume"},
		OptionSpec{Name: "regularization_model", Flag: "--regmod=%s", Kind: KindEnum, Choices: []string{"membrane_energy", "bending_energy"}, Desc: "model for regularisation of warp-field"},
		OptionSpec{Name: "regularization_lambda", Flag: "--lambda=%s", Kind: KindList, Elem: KindFloat, Sep: ",", Desc: "weight of regularisation"},
		OptionSpec{Name: "skip_lambda_ssq", Flag: "--ssqlambda=0", Kind: KindBool, Desc: "if true, lambda is not weighted by current ssq"},
		OptionSpec{Name: "jacobian_range", Flag: "--jacrange=%f,%f", Kind: KindList, Elem: KindFloat, MinLen: 2, MaxLen: 2, Desc: "allowed range of Jacobian determinants"},
		OptionSpec{Name: "derive_from_ref", Flag: "--refderiv", Kind: KindBool, Desc: "if true, ref image is used to calculate derivatives"},
		OptionSpec{Name: "intensity_mapping_model", Flag: "--intmod=%s", Kind: KindEnum, Choices: []string{"none", "global_linear", "global_non_linear", "local_linear", "global_non_linear_with_bias", "local_non_linear"}, Desc: "model for intensity-mapping"},
		OptionSpec{Name: "intensity_mapping_order", Flag: "--intorder=%d", Kind: KindInt, Desc: "order of polynomial for mapping intensities"},
		OptionSpec{Name: "biasfield_resolution", Flag: "--biasres=%d,%d,%d", Kind: KindList, Elem: KindInt, MinLen: 3, MaxLen: 3, Desc: "resolution (in mm) of bias-field modelling local intensities"},
		OptionSpec{Name: "bias_regularization_lambda", Flag: "--biaslambda=%f", Kind: KindFloat, Desc: "weight of regularisation for bias-field"},
		OptionSpec{Name: "skip_intensity_mapping", Flag: "--estint=0", Kind: KindBool, Xor: []string{"apply_intensity_mapping"}, Desc: "skip estimate intensity-mapping"},
		OptionSpec{Name: "apply_intensity_mapping", Flag: "--estint=%s", Kind: KindList, Elem: KindEnum, Choices: binaryFlags, Sep: ",", Xor: []string{"skip_intensity_mapping"}, Desc: "list of subsampling levels to apply intensity mapping for"},
		OptionSpec{Name: "hessian_precision", Flag: "--numprec=%s", Kind: KindEnum, Choices: []string{"double", "float"}, Desc: "precision for representing Hessian"},
	),
	genFilename: func(inv *Invocation, name string) (string, error) {
		if _, ok := fnirtFilemap[name]; !ok {
			return "", nil
		}
		return fnirtDerived(inv, name)
	},
	formatArg:   fnirtFormat,
	listOutputs: fnirtOutputs,
})

func fnirtDerived(inv *Invocation, name string) (string, error) {
	opts := DeriveOptions{Suffix: "_" + fnirtFilemap[name]}
	if name == "log_file" {
		opts.Ext = ".txt"
	}
	return inv.genFname(inv.str("in_file"), opts)
}

// fnirtOutput resolves one output option: an explicit path made absolute,
// or a derived name when the option is generated or set to true.
func fnirtOutput(inv *Invocation, name string) (string, error) {
	switch v := inv.values[name].(type) {
	case string:
		return absPath(v), nil
	case bool:
		if !v {
			return "", nil
		}
		return fnirtDerived(inv, name)
	}
	spec, _ := inv.tool.Options.Lookup(name)
	if spec.GenFile {
		return fnirtDerived(inv, name)
	}
	return "", nil
}

// intensityMapBase strips the image extension from an intensity map name;
// fnirt adds its own suffixes.
func intensityMapBase(path string) string {
	dir, stem, _ := SplitFilename(path)
	if dir == "" {
		return stem
	}
	return filepath.Join(dir, stem)
}

func fnirtFormat(inv *Invocation, spec OptionSpec, value any) ([]string, bool, error) {
	switch {
	case spec.Name == "in_intensitymap_file":
		files := inv.strs(spec.Name)
		return []string{strings.Replace(spec.Flag, "%s", intensityMapBase(files[0]), 1)}, true, nil
	case spec.Name == "out_intensitymap_file":
		path, err := fnirtOutput(inv, spec.Name)
		if err != nil || path == "" {
			return nil, true, err
		}
		return []string{strings.Replace(spec.Flag, "%s", intensityMapBase(path), 1)}, true, nil
	}
	if _, ok := fnirtFilemap[spec.Name]; !ok {
		return nil, false, nil
	}
	path, err := fnirtOutput(inv, spec.Name)
	if err != nil || path == "" {
		return nil, true, err
	}
	return []string{strings.Replace(spec.Flag, "%s", path, 1)}, true, nil
}

func fnirtOutputs(inv *Invocation) (Outputs, error) {
	out := Outputs{}
	for name := range fnirtFilemap {
		path, err := fnirtOutput(inv, name)
		if err != nil {
			return nil, err
		}
		if path == "" {
			continue
		}
		if name == "out_intensitymap_file" {
			out.set(name, path, intensityMapBase(path)+".txt")
			continue
		}
		out.set(name, path)
	}
	return out, nil
}
