package fsl

import (
	"fmt"
	"strings"
)

// firstStructures are segmented when no explicit list is given.
var firstStructures = []string{
	"L_Hipp", "R_Hipp", "L_Accu", "R_Accu", "L_Amyg", "R_Amyg",
	"L_Caud", "R_Caud", "L_Pall", "R_Pall", "L_Puta", "R_Puta",
	"L_Thal", "R_Thal", "BrStem",
}

// FIRST runs subcortical segmentation through run_first_all.
var FIRST = register(&Tool{
	Name:    "FIRST",
	Program: "run_first_all",
	Desc:    "Model-based segmentation of subcortical structures.",
	Options: MustRegistry(
		OptionSpec{Name: "in_file", Flag: "-i %s", Kind: KindFile, Position: -2, Mandatory: true, MustExist: true, Desc: "input data file"},
		OptionSpec{Name: "out_file", Flag: "-o %s", Kind: KindFile, Position: -1, Mandatory: true, Default: "segmented", UseDefault: true, Desc: "output data file"},
		OptionSpec{Name: "verbose", Flag: "-v", Kind: KindBool, Position: 1, Desc: "use verbose logging"},
		OptionSpec{Name: "brain_extracted", Flag: "-b", Kind: KindBool, Position: 2, Desc: "input structural image is already brain-extracted"},
		OptionSpec{Name: "no_cleanup", Flag: "-d", Kind: KindBool, Position: 3, Desc: "do not clean up intermediate files"},
		OptionSpec{Name: "method", Flag: "-m %s", Kind: KindEnum, Position: 4, Choices: []string{"auto", "fast", "none"}, Default: "auto", UseDefault: true, Xor: []string{"method_as_numerical_threshold"}, Desc: "method for boundary correction"},
		OptionSpec{Name: "method_as_numerical_threshold", Flag: "-m %.4f", Kind: KindFloat, Position: 4, Desc: "threshold for boundary correction"},
		OptionSpec{Name: "list_of_specific_structures", Flag: "-s %s", Kind: KindList, Elem: KindString, Sep: ",", Position: 5, MinLen: 1, Desc: "structures to segment, comma separated"},
		OptionSpec{Name: "affine_file", Flag: "-a %s", Kind: KindFile, Position: 6, MustExist: true, Desc: "affine matrix to use (e.g. img2std.mat)"},
	),
	listOutputs: firstOutputs,
})

// firstMethodTag is the method component run_first_all writes into output
// names.
func firstMethodTag(inv *Invocation) string {
	if t, ok := inv.values["method_as_numerical_threshold"].(float64); ok {
		return strings.Replace(fmt.Sprintf("%.4f", t), ".", "", 1)
	}
	method, ok := inv.values["method"].(string)
	if !ok {
		method = "auto"
	}
	if method == "none" {
		return "none"
	}
	if method == "auto" && inv.IsSet("list_of_specific_structures") {
		return "none"
	}
	return "fast"
}

func firstOutName(inv *Invocation) string {
	out := inv.str("out_file")
	if out == "" {
		out = "segmented"
	}
	_, stem, _ := SplitFilename(out)
	return stem
}

func firstOutputs(inv *Invocation) (Outputs, error) {
	outname := firstOutName(inv)
	method := firstMethodTag(inv)
	structures := inv.strs("list_of_specific_structures")
	if len(structures) == 0 {
		structures = firstStructures
	}

	out := Outputs{}
	out.set("original_segmentations", absPath(fmt.Sprintf("%s_all_%s_origsegs.nii.gz", outname, method)))
	out.set("segmentation_file", absPath(fmt.Sprintf("%s_all_%s_firstseg.nii.gz", outname, method)))

	meshes := make([]string, len(structures))
	bvars := make([]string, len(structures))
	for i, s := range structures {
		meshes[i] = absPath(fmt.Sprintf("%s-%s_first.vtk", outname, s))
		bvars[i] = absPath(fmt.Sprintf("%s-%s_first.bvars", outname, s))
	}
	out.set("vtk_surfaces", meshes...)
	out.set("bvars", bvars...)
	return out, nil
}
