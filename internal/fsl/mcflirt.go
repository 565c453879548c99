package fsl

import (
	"path/filepath"
	"strings"
)

// MCFLIRT is intra-modal motion correction for fMRI time series.
var MCFLIRT = register(&Tool{
	Name:    "MCFLIRT",
	Program: "mcflirt",
	Desc:    "Intra-modal motion correction for fMRI time series.",
	Options: MustRegistry(
		OptionSpec{Name: "in_file", Flag: "-in %s", Kind: KindFile, Position: 1, Mandatory: true, MustExist: true, Desc: "timeseries to motion-correct"},
		OptionSpec{Name: "out_file", Flag: "-out %s", Kind: KindFile, GenFile: true, Desc: "file to write"},
		OptionSpec{Name: "cost", Flag: "-cost %s", Kind: KindEnum, Choices: []string{"mutualinfo", "woods", "corratio", "normcorr", "normmi", "leastsquares"}, Desc: "cost function to optimize"},
		OptionSpec{Name: "bins", Flag: "-bins %d", Kind: KindInt, Desc: "number of histogram bins"},
		OptionSpec{Name: "dof", Flag: "-dof %d", Kind: KindInt, Desc: "degrees of freedom for the transformation"},
		OptionSpec{Name: "ref_vol", Flag: "-refvol %d", Kind: KindInt, Desc: "volume to align frames to"},
		OptionSpec{Name: "scaling", Flag: "-scaling %.2f", Kind: KindFloat, Desc: "scaling factor to use"},
		OptionSpec{Name: "smooth", Flag: "-smooth %.2f", Kind: KindFloat, Desc: "smoothing factor for the cost function"},
		OptionSpec{Name: "rotation", Flag: "-rotation %d", Kind: KindInt, Desc: "scaling factor for rotation tolerances"},
		OptionSpec{Name: "stages", Flag: "-stages %d", Kind: KindInt, Desc: "stages (if 4, perform final search with sinc interpolation)"},
		OptionSpec{Name: "init", Flag: "-init %s", Kind: KindFile, MustExist: true, Desc: "initial transformation matrix"},
		OptionSpec{Name: "interpolation", Flag: "-%s_final", Kind: KindEnum, Choices: []string{"spline", "nn", "sinc"}, Desc: "interpolation method for transformation"},
		OptionSpec{Name: "use_gradient", Flag: "-gdt", Kind: KindBool, Desc: "run search on gradient images"},
		OptionSpec{Name: "use_contour", Flag: "-edge", Kind: KindBool, Desc: "run search on contour images"},
		OptionSpec{Name: "mean_vol", Flag: "-meanvol", Kind: KindBool, Desc: "register to mean volume"},
		OptionSpec{Name: "stats_imgs", Flag: "-stats", Kind: KindBool, Desc: "produce variance and std. dev. images"},
		OptionSpec{Name: "save_mats", Flag: "-mats", Kind: KindBool, Desc: "save transformation matrices"},
		OptionSpec{Name: "save_plots", Flag: "-plots", Kind: KindBool, Desc: "save transformation parameters"},
		OptionSpec{Name: "save_rms", Flag: "-rmsabs -rmsrel", Kind: KindBool, Desc: "save rms displacement parameters"},
		OptionSpec{Name: "ref_file", Flag: "-reffile %s", Kind: KindFile, MustExist: true, Desc: "target image for motion correction"},
	),
	genFilename: func(inv *Invocation, name string) (string, error) {
		if name != "out_file" {
			return "", nil
		}
		return mcflirtOutFile(inv)
	},
	listOutputs: mcflirtOutputs,
})

func mcflirtOutFile(inv *Invocation) (string, error) {
	if out := inv.str("out_file"); out != "" {
		return absPath(out), nil
	}
	return inv.genFname(inv.str("in_file"), DeriveOptions{Suffix: "_mcf"})
}

func mcflirtOutputs(inv *Invocation) (Outputs, error) {
	outFile, err := mcflirtOutFile(inv)
	if err != nil {
		return nil, err
	}
	out := Outputs{}
	out.set("out_file", outFile)

	// side images keep the output's directory and replace its image extension
	dir, stem, _ := SplitFilename(outFile)
	base := filepath.Join(dir, stem)
	ext := inv.OutputType().Ext()

	if inv.flag("stats_imgs") {
		out.set("variance_img", base+"_variance"+ext)
		out.set("std_img", base+"_sigma"+ext)
	}
	if inv.flag("mean_vol") {
		out.set("mean_img", base+"_mean_reg"+ext)
	}
	// mcflirt appends .par/.mat/.rms to the full output name
	trimmed := strings.TrimSuffix(outFile, ext)
	if inv.flag("save_plots") {
		out.set("par_file", trimmed+".par")
	}
	if inv.flag("save_mats") {
		out.set("mat_file", trimmed+".mat")
	}
	if inv.flag("save_rms") {
		out.set("rms_files", trimmed+"_abs.rms", trimmed+"_rel.rms")
	}
	return out, nil
}
