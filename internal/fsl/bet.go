package fsl

import "path/filepath"

var betSurfaces = []string{"robust", "padding", "remove_eyes", "surfaces", "t2_guided", "functional", "reduce_bias"}

func betXor(name string) []string {
	out := make([]string, 0, len(betSurfaces)-1)
	for _, other := range betSurfaces {
		if other != name {
			out = append(out, other)
		}
	}
	return out
}

// BET runs brain extraction: bet <input> <output> [options].
var BET = register(&Tool{
	Name:    "BET",
	Program: "bet",
	Desc:    "Delete non-brain tissue from an image of the whole head.",
	Options: MustRegistry(
		OptionSpec{Name: "in_file", Flag: "%s", Kind: KindFile, Position: 1, Mandatory: true, MustExist: true, Desc: "input file to skull strip"},
		OptionSpec{Name: "out_file", Flag: "%s", Kind: KindFile, Position: 2, GenFile: true, Desc: "name of output skull stripped image"},
		OptionSpec{Name: "outline", Flag: "-o", Kind: KindBool, Desc: "create surface outline image"},
		OptionSpec{Name: "mask", Flag: "-m", Kind: KindBool, Desc: "create binary mask image"},
		OptionSpec{Name: "skull", Flag: "-s", Kind: KindBool, Desc: "create skull image"},
		OptionSpec{Name: "no_output", Flag: "-n", Kind: KindBool, Desc: "don't generate segmented output"},
		OptionSpec{Name: "frac", Flag: "-f %.2f", Kind: KindFloat, Bounds: &Range{0, 1}, Desc: "fractional intensity threshold"},
		OptionSpec{Name: "vertical_gradient", Flag: "-g %.2f", Kind: KindFloat, Bounds: &Range{-1, 1}, Desc: "vertical gradient in fractional intensity threshold"},
		OptionSpec{Name: "radius", Flag: "-r %d", Kind: KindInt, Desc: "head radius in mm"},
		OptionSpec{Name: "center", Flag: "-c %s", Kind: KindList, Elem: KindInt, MinLen: 3, MaxLen: 3, Desc: "center of gravity in voxels"},
		OptionSpec{Name: "threshold", Flag: "-t", Kind: KindBool, Desc: "apply thresholding to segmented brain image and mask"},
		OptionSpec{Name: "mesh", Flag: "-e", Kind: KindBool, Desc: "generate a vtk mesh brain surface"},
		OptionSpec{Name: "robust", Flag: "-R", Kind: KindBool, Xor: betXor("robust"), Desc: "robust brain centre estimation"},
		OptionSpec{Name: "padding", Flag: "-Z", Kind: KindBool, Xor: betXor("padding"), Desc: "improve BET if FOV is very small in Z"},
		OptionSpec{Name: "remove_eyes", Flag: "-S", Kind: KindBool, Xor: betXor("remove_eyes"), Desc: "eye and optic nerve cleanup"},
		OptionSpec{Name: "surfaces", Flag: "-A", Kind: KindBool, Xor: betXor("surfaces"), Desc: "run bet2 and betsurf to get additional skull and scalp surfaces"},
		OptionSpec{Name: "t2_guided", Flag: "-A2 %s", Kind: KindFile, Xor: betXor("t2_guided"), Desc: "as surfaces, with a T2 image"},
		OptionSpec{Name: "functional", Flag: "-F", Kind: KindBool, Xor: betXor("functional"), Desc: "apply to 4D fMRI data"},
		OptionSpec{Name: "reduce_bias", Flag: "-B", Kind: KindBool, Xor: betXor("reduce_bias"), Desc: "bias field and neck cleanup"},
		OptionSpec{Name: "verbose", Flag: "-v", Kind: KindBool, Desc: "verbose output"},
	),
	genFilename: func(inv *Invocation, name string) (string, error) {
		if name != "out_file" {
			return "", nil
		}
		return inv.genFname(inv.str("in_file"), DeriveOptions{Suffix: "_brain"})
	},
	listOutputs: betOutputs,
})

func betOutputs(inv *Invocation) (Outputs, error) {
	out := Outputs{}
	brain := inv.str("out_file")
	if brain == "" {
		var err error
		brain, err = inv.genFname(inv.str("in_file"), DeriveOptions{Suffix: "_brain"})
		if err != nil {
			return nil, err
		}
	}
	brain = absPath(brain)
	if !inv.flag("no_output") {
		out.set("out_file", brain)
	}

	dir := filepath.Dir(brain)
	side := func(suffix, ext string) (string, error) {
		return inv.genFname(brain, DeriveOptions{Suffix: suffix, Ext: ext, Dir: dir})
	}
	type sideOutput struct {
		name, suffix, ext string
		on                bool
	}
	surfaces := inv.flag("surfaces") || inv.IsSet("t2_guided")
	sides := []sideOutput{
		{"meshfile", "_mesh", ".vtk", inv.flag("mesh") || surfaces},
		{"mask_file", "_mask", "", inv.flag("mask") || inv.flag("reduce_bias")},
		{"outline_file", "_overlay", "", inv.flag("outline")},
		{"inskull_mask_file", "_inskull_mask", "", surfaces},
		{"inskull_mesh_file", "_inskull_mesh", "", surfaces},
		{"outskull_mask_file", "_outskull_mask", "", surfaces},
		{"outskull_mesh_file", "_outskull_mesh", "", surfaces},
		{"outskin_mask_file", "_outskin_mask", "", surfaces},
		{"outskin_mesh_file", "_outskin_mesh", "", surfaces},
		{"skull_mask_file", "_skull_mask", "", surfaces},
		{"skull_file", "_skull", "", inv.flag("skull")},
	}
	for _, s := range sides {
		if !s.on {
			continue
		}
		path, err := side(s.suffix, s.ext)
		if err != nil {
			return nil, err
		}
		out.set(s.name, path)
	}
	return out, nil
}
