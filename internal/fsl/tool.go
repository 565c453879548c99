package fsl

import (
	"sort"
	"strings"
)

// Tool describes one external FSL binary: its program name, its option
// table, and the rules used to derive and list its outputs.
type Tool struct {
	Name    string
	Program string
	Desc    string
	Options *Registry

	// genFilename derives GenFile options and KindOutput options set to true.
	genFilename func(inv *Invocation, name string) (string, error)
	// formatArg renders an option itself when handled is true.
	formatArg func(inv *Invocation, spec OptionSpec, value any) (tokens []string, handled bool, err error)
	// prepare runs tool-specific checks and adjusts the build plan.
	prepare func(inv *Invocation, plan *buildPlan) error
	// listOutputs returns the expected output files.
	listOutputs func(inv *Invocation) (Outputs, error)
}

// New returns an empty invocation of the tool.
func (t *Tool) New() *Invocation {
	return &Invocation{tool: t, values: map[string]any{}}
}

// Outputs maps output names to the absolute paths a run is expected to
// produce. Multi-file outputs hold several paths.
type Outputs map[string][]string

// Path returns the first path of an output, or "".
func (o Outputs) Path(name string) string {
	if paths := o[name]; len(paths) > 0 {
		return paths[0]
	}
	return ""
}

// Names returns output names sorted.
func (o Outputs) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Files returns every path, ordered by output name.
func (o Outputs) Files() []string {
	var files []string
	for _, name := range o.Names() {
		files = append(files, o[name]...)
	}
	return files
}

func (o Outputs) set(name string, paths ...string) {
	var kept []string
	for _, p := range paths {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) > 0 {
		o[name] = kept
	}
}

var catalog = map[string]*Tool{}

// aliases maps deprecated tool names to their current names.
var aliases = map[string]string{
	"ApplyXfm": "ApplyXFM",
}

func register(t *Tool) *Tool {
	catalog[t.Name] = t
	return t
}

// Lookup finds a tool by exact name, then by alias, then case-insensitively
// by name or program.
func Lookup(name string) (*Tool, error) {
	if t, ok := catalog[name]; ok {
		return t, nil
	}
	if target, ok := aliases[name]; ok {
		return catalog[target], nil
	}
	tools := Tools()
	for _, t := range tools {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	for _, t := range tools {
		// ApplyXFM shares flirt; the name pass above keeps FLIRT reachable.
		if strings.EqualFold(t.Program, name) && t.Name != "ApplyXFM" {
			return t, nil
		}
	}
	return nil, &UnknownToolError{Name: name}
}

// New returns an empty invocation of the named tool.
func New(name string) (*Invocation, error) {
	t, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return t.New(), nil
}

// Tools returns the catalog sorted by name.
func Tools() []*Tool {
	tools := make([]*Tool, 0, len(catalog))
	for _, t := range catalog {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Aliases returns the deprecated name table.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}
