package tools

type Source string

const (
	SourceUnknown Source = ""
	SourceFSLDir  Source = "fsldir"
	SourceSystem  Source = "system"
)

// Status captures the resolved state of the FSL installation or one of its
// programs.
type Status struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version,omitempty"`
	Minimum   string   `json:"minimum,omitempty"`
	Source    Source   `json:"source"`
	Path      string   `json:"path,omitempty"`
	Satisfied bool     `json:"satisfied"`
	Error     string   `json:"error,omitempty"`
	Notes     []string `json:"notes,omitempty"`
}

// BinarySpec describes an executable shipped with FSL.
type BinarySpec struct {
	ID         string
	Executable string
}

// ToolDefinition contains metadata required to check an installation.
type ToolDefinition struct {
	Name           string
	MinimumVersion string
	// VersionFile is relative to the installation root.
	VersionFile string
	Binaries    []BinarySpec
}
