package fsl

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// FAST segments a brain image into tissue classes.
var FAST = register(&Tool{
	Name:    "FAST",
	Program: "fast",
	Desc:    "Segment a 3D image of the brain into different tissue types.",
	Options: MustRegistry(
		OptionSpec{Name: "in_files", Flag: "%s", Kind: KindList, Elem: KindFile, Position: -1, Mandatory: true, MustExist: true, MinLen: 1, Desc: "image, or multi-channel set of images, to be segmented"},
		OptionSpec{Name: "out_basename", Flag: "-o %s", Kind: KindString, Desc: "base name of output files"},
		OptionSpec{Name: "number_classes", Flag: "-n %d", Kind: KindInt, Bounds: &Range{1, 10}, Desc: "number of tissue-type classes"},
		OptionSpec{Name: "output_biasfield", Flag: "-b", Kind: KindBool, Desc: "output estimated bias field"},
		OptionSpec{Name: "output_biascorrected", Flag: "-B", Kind: KindBool, Desc: "output restored image (bias-corrected image)"},
		OptionSpec{Name: "img_type", Flag: "-t %d", Kind: KindInt, Bounds: &Range{1, 3}, Desc: "1 = T1, 2 = T2, 3 = PD"},
		OptionSpec{Name: "bias_iters", Flag: "-I %d", Kind: KindInt, Bounds: &Range{1, 10}, Desc: "number of main-loop iterations during bias-field removal"},
		OptionSpec{Name: "bias_lowpass", Flag: "-l %d", Kind: KindInt, Bounds: &Range{4, 40}, Desc: "bias field smoothing extent (FWHM) in mm"},
		OptionSpec{Name: "init_seg_smooth", Flag: "-f %.3f", Kind: KindFloat, Bounds: &Range{0.0001, 0.1}, Desc: "initial segmentation spatial smoothness"},
		OptionSpec{Name: "segments", Flag: "-g", Kind: KindBool, Desc: "outputs a separate binary image for each tissue type"},
		OptionSpec{Name: "init_transform", Flag: "-a %s", Kind: KindFile, MustExist: true, Desc: "standard to input FLIRT transform"},
		OptionSpec{Name: "other_priors", Flag: "-A %s", Kind: KindList, Elem: KindFile, MustExist: true, MinLen: 3, MaxLen: 3, Desc: "alternative prior images"},
		OptionSpec{Name: "no_pve", Flag: "--nopve", Kind: KindBool, Desc: "turn off PVE (partial volume estimation)"},
		OptionSpec{Name: "no_bias", Flag: "-N", Kind: KindBool, Desc: "do not remove bias field"},
		OptionSpec{Name: "use_priors", Flag: "-P", Kind: KindBool, Desc: "use priors throughout"},
		OptionSpec{Name: "segment_iters", Flag: "-W %d", Kind: KindInt, Bounds: &Range{1, 50}, Desc: "number of segmentation-initialisation iterations"},
		OptionSpec{Name: "mixel_smooth", Flag: "-R %.2f", Kind: KindFloat, Bounds: &Range{0, 1}, Desc: "spatial smoothness for mixeltype"},
		OptionSpec{Name: "iters_afterbias", Flag: "-O %d", Kind: KindInt, Bounds: &Range{1, 20}, Desc: "number of main-loop iterations after bias-field removal"},
		OptionSpec{Name: "hyper", Flag: "-H %.2f", Kind: KindFloat, Bounds: &Range{0, 1}, Desc: "segmentation spatial smoothness"},
		OptionSpec{Name: "verbose", Flag: "-v", Kind: KindBool, Desc: "switch on diagnostic messages"},
		OptionSpec{Name: "manual_seg", Flag: "-s %s", Kind: KindFile, MustExist: true, Desc: "filename containing intensities"},
		OptionSpec{Name: "probability_maps", Flag: "-p", Kind: KindBool, Desc: "outputs individual probability maps"},
	),
	formatArg: func(inv *Invocation, spec OptionSpec, value any) ([]string, bool, error) {
		if spec.Name != "in_files" {
			return nil, false, nil
		}
		files := inv.strs("in_files")
		return append([]string{"-S", strconv.Itoa(len(files))}, files...), true, nil
	},
	listOutputs: fastOutputs,
})

func fastOutputs(inv *Invocation) (Outputs, error) {
	files := inv.strs("in_files")
	nfiles := len(files)

	// fast writes beside the last input unless -o names a base.
	base := files[nfiles-1]
	dir := filepath.Dir(absPath(base))
	if b := inv.str("out_basename"); b != "" {
		base = b
		dir = ""
	}
	gen := func(suffix string) (string, error) {
		return inv.genFname(base, DeriveOptions{Suffix: suffix, Dir: dir})
	}
	series := func(format string, n, start int) ([]string, error) {
		paths := make([]string, 0, n)
		for i := 0; i < n; i++ {
			p, err := gen(fmt.Sprintf(format, i+start))
			if err != nil {
				return nil, err
			}
			paths = append(paths, p)
		}
		return paths, nil
	}
	// single-channel runs write an unnumbered file, multi-channel runs
	// number them from 1.
	perChannel := func(suffix string) ([]string, error) {
		if nfiles == 1 {
			p, err := gen(suffix)
			return []string{p}, err
		}
		return series(suffix+"_%d", nfiles, 1)
	}

	nclasses := 3
	if n, ok := inv.values["number_classes"].(int); ok {
		nclasses = n
	}

	out := Outputs{}
	for _, single := range []struct{ name, suffix string }{
		{"tissue_class_map", "_seg"},
		{"mixeltype", "_mixeltype"},
	} {
		p, err := gen(single.suffix)
		if err != nil {
			return nil, err
		}
		out.set(single.name, p)
	}

	if inv.flag("segments") {
		paths, err := series("_seg_%d", nclasses, 0)
		if err != nil {
			return nil, err
		}
		out.set("tissue_class_files", paths...)
	}
	if inv.flag("output_biascorrected") {
		paths, err := perChannel("_restore")
		if err != nil {
			return nil, err
		}
		out.set("restored_image", paths...)
	}
	if !inv.flag("no_pve") {
		p, err := gen("_pveseg")
		if err != nil {
			return nil, err
		}
		out.set("partial_volume_map", p)
		paths, err := series("_pve_%d", nclasses, 0)
		if err != nil {
			return nil, err
		}
		out.set("partial_volume_files", paths...)
	}
	if inv.flag("output_biasfield") {
		paths, err := perChannel("_bias")
		if err != nil {
			return nil, err
		}
		out.set("bias_field", paths...)
	}
	if inv.flag("probability_maps") {
		paths, err := series("_prob_%d", nclasses, 0)
		if err != nil {
			return nil, err
		}
		out.set("probability_maps", paths...)
	}
	return out, nil
}
