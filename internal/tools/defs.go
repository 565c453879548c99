package tools

import (
	"runtime"

	"fslcmd/internal/fsl"
)

// SuiteName identifies the FSL installation as a whole.
const SuiteName = "fsl"

var suiteDefinition = ToolDefinition{
	Name:           SuiteName,
	MinimumVersion: "6.0.0",
	VersionFile:    "etc/fslversion",
	Binaries:       catalogBinaries(),
}

func catalogBinaries() []BinarySpec {
	seen := map[string]bool{}
	var bins []BinarySpec
	for _, tool := range fsl.Tools() {
		if seen[tool.Program] {
			continue
		}
		seen[tool.Program] = true
		bins = append(bins, BinarySpec{ID: tool.Program, Executable: executableName(tool.Program)})
	}
	return bins
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// Definition returns the FSL suite definition.
func Definition() ToolDefinition {
	return suiteDefinition
}

// Programs lists the executables the catalog depends on.
func Programs() []string {
	names := make([]string, 0, len(suiteDefinition.Binaries))
	for _, bin := range suiteDefinition.Binaries {
		names = append(names, bin.ID)
	}
	return names
}
