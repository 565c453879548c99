package fsl

import (
	"fmt"
	"sort"
	"strings"
)

// Invocation is one configured run of a tool. Values are validated when set
// and the command line is rebuilt from them on every call.
type Invocation struct {
	tool       *Tool
	values     map[string]any
	outputType OutputType
}

// Tool returns the tool the invocation runs.
func (inv *Invocation) Tool() *Tool {
	return inv.tool
}

// Set validates value against the option's spec and stores it. A failed Set
// leaves the invocation unchanged.
func (inv *Invocation) Set(name string, value any) error {
	spec, ok := inv.tool.Options.Lookup(name)
	if !ok {
		return &UnknownOptionError{Tool: inv.tool.Name, Name: name}
	}
	norm, err := normalize(inv.tool.Name, spec, value)
	if err != nil {
		return err
	}
	inv.values[name] = norm
	return nil
}

// SetAll applies values in name order and stops at the first error.
func (inv *Invocation) SetAll(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := inv.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Unset clears an option back to "not set".
func (inv *Invocation) Unset(name string) {
	delete(inv.values, name)
}

// Get returns the stored value of an option.
func (inv *Invocation) Get(name string) (any, bool) {
	v, ok := inv.values[name]
	return v, ok
}

// IsSet reports whether an option has a value.
func (inv *Invocation) IsSet(name string) bool {
	_, ok := inv.values[name]
	return ok
}

// Values returns a copy of the set values.
func (inv *Invocation) Values() map[string]any {
	out := make(map[string]any, len(inv.values))
	for k, v := range inv.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the invocation.
func (inv *Invocation) Clone() *Invocation {
	return &Invocation{tool: inv.tool, values: inv.Values(), outputType: inv.outputType}
}

// SetOutputType overrides the process-wide output type for this invocation.
func (inv *Invocation) SetOutputType(t OutputType) error {
	if !t.Valid() {
		return &InvalidValueError{Tool: inv.tool.Name, Field: "output_type", Value: t, Reason: "unknown output type"}
	}
	inv.outputType = t
	return nil
}

// OutputType returns the effective output type.
func (inv *Invocation) OutputType() OutputType {
	if inv.outputType != "" {
		return inv.outputType
	}
	return CurrentOutputType()
}

// Cmdline returns the full command line: program and arguments joined by
// single spaces.
func (inv *Invocation) Cmdline() (string, error) {
	args, err := inv.Args()
	if err != nil {
		return "", err
	}
	return strings.Join(append([]string{inv.tool.Program}, args...), " "), nil
}

// Args returns the argument tokens, without the program name.
func (inv *Invocation) Args() ([]string, error) {
	plan, err := inv.validate()
	if err != nil {
		return nil, err
	}

	var args []string
	for _, spec := range inv.tool.Options.Specs() {
		if plan.skip[spec.Name] {
			continue
		}
		value, ok, err := inv.argValue(spec, plan)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		tokens, err := inv.format(spec, value)
		if err != nil {
			return nil, err
		}
		args = append(args, tokens...)
	}
	return args, nil
}

// Outputs returns the expected output files. Mandatory inputs must be set.
func (inv *Invocation) Outputs() (Outputs, error) {
	if _, err := inv.validate(); err != nil {
		return nil, err
	}
	if inv.tool.listOutputs == nil {
		return Outputs{}, nil
	}
	return inv.tool.listOutputs(inv)
}

// nameTemplate derives an option value from another option's file stem.
type nameTemplate struct {
	source   string
	template string
	keepExt  bool
}

// buildPlan carries per-build decisions made by tool hooks.
type buildPlan struct {
	skip      map[string]bool
	templates map[string]nameTemplate
}

func (inv *Invocation) validate() (*buildPlan, error) {
	toolName := inv.tool.Name
	var missing []string
	for _, spec := range inv.tool.Options.Specs() {
		if spec.Mandatory && !inv.IsSet(spec.Name) && !spec.UseDefault {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingMandatoryInputError{Tool: toolName, Fields: missing}
	}

	for _, spec := range inv.tool.Options.Specs() {
		value, ok := inv.values[spec.Name]
		if !ok {
			continue
		}
		if err := checkExists(toolName, spec, value); err != nil {
			return nil, err
		}
		for _, other := range spec.Xor {
			if inv.IsSet(other) {
				return nil, &InvalidValueError{Tool: toolName, Field: spec.Name, Reason: "mutually exclusive with " + other}
			}
		}
		if isFalse(value) {
			continue
		}
		for _, req := range spec.Requires {
			if !inv.IsSet(req) {
				return nil, &InvalidValueError{Tool: toolName, Field: spec.Name, Reason: "requires " + req}
			}
		}
	}

	plan := &buildPlan{skip: map[string]bool{}, templates: map[string]nameTemplate{}}
	for _, spec := range inv.tool.Options.Specs() {
		if spec.NameSource != "" {
			plan.templates[spec.Name] = nameTemplate{source: spec.NameSource, template: spec.NameTemplate, keepExt: spec.KeepExt}
		}
	}
	if inv.tool.prepare != nil {
		if err := inv.tool.prepare(inv, plan); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func checkExists(tool string, spec OptionSpec, value any) error {
	if !spec.MustExist {
		return nil
	}
	paths := []any{value}
	if items, ok := value.([]any); ok {
		paths = items
	}
	for _, p := range paths {
		s, ok := p.(string)
		if !ok || contains(spec.Choices, s) {
			continue
		}
		if !fileExists(s) {
			return &InvalidInputPathError{Tool: tool, Field: spec.Name, Path: s}
		}
	}
	return nil
}

func isFalse(value any) bool {
	b, ok := value.(bool)
	return ok && !b
}

// argValue decides the value emitted for an option, if any.
func (inv *Invocation) argValue(spec OptionSpec, plan *buildPlan) (any, bool, error) {
	if value, ok := inv.values[spec.Name]; ok {
		return value, true, nil
	}
	if tmpl, ok := plan.templates[spec.Name]; ok {
		name, err := inv.nameFromSource(spec, tmpl)
		if err != nil || name == "" {
			return nil, false, err
		}
		return name, true, nil
	}
	if spec.GenFile && inv.tool.genFilename != nil {
		name, err := inv.tool.genFilename(inv, spec.Name)
		if err != nil || name == "" {
			return nil, false, err
		}
		return name, true, nil
	}
	if spec.UseDefault {
		for _, other := range spec.Xor {
			if inv.IsSet(other) {
				return nil, false, nil
			}
		}
		return spec.Default, true, nil
	}
	return nil, false, nil
}

func (inv *Invocation) format(spec OptionSpec, value any) ([]string, error) {
	if inv.tool.formatArg != nil {
		tokens, handled, err := inv.tool.formatArg(inv, spec, value)
		if err != nil || handled {
			return tokens, err
		}
	}
	if spec.Kind == KindOutput {
		if b, ok := value.(bool); ok {
			if !b || inv.tool.genFilename == nil {
				return nil, nil
			}
			name, err := inv.tool.genFilename(inv, spec.Name)
			if err != nil {
				return nil, err
			}
			value = name
		}
	}
	return render(spec, value)
}

// nameFromSource builds a cwd-relative name from the source option's stem.
// It returns "" when the source is unset, an xor partner is set, or a
// required option is missing.
func (inv *Invocation) nameFromSource(spec OptionSpec, tmpl nameTemplate) (string, error) {
	for _, other := range spec.Xor {
		if inv.IsSet(other) {
			return "", nil
		}
	}
	for _, req := range spec.Requires {
		if !inv.IsSet(req) {
			return "", nil
		}
	}
	source, ok := inv.values[tmpl.source]
	if !ok {
		return "", nil
	}
	if items, isList := source.([]any); isList && len(items) > 0 {
		source = items[0]
	}
	path, ok := source.(string)
	if !ok || path == "" {
		return "", fmt.Errorf("%s: %s: name source %s is not a path", inv.tool.Name, spec.Name, tmpl.source)
	}

	template := tmpl.template
	if template == "" {
		template = "%s_generated"
	}
	_, stem, sourceExt := SplitFilename(path)
	name := fmt.Sprintf(template, stem)
	_, _, ext := SplitFilename(name)
	if tmpl.keepExt && (ext != "" || sourceExt != "") {
		if ext == "" {
			name += sourceExt
		}
		return name, nil
	}
	return name + inv.OutputType().Ext(), nil
}

// templatedOutput returns the absolute path of a name-templated option:
// the explicit value if set, otherwise the derived name in the working
// directory.
func (inv *Invocation) templatedOutput(name string, plan *buildPlan) (string, error) {
	if v, ok := inv.values[name].(string); ok {
		return absPath(v), nil
	}
	spec, _ := inv.tool.Options.Lookup(name)
	tmpl, ok := plan.templates[name]
	if !ok {
		return "", nil
	}
	derived, err := inv.nameFromSource(spec, tmpl)
	if err != nil {
		return "", err
	}
	return absPath(derived), nil
}

// genFname derives an output path from base, defaulting the extension to the
// invocation's output type.
func (inv *Invocation) genFname(base string, opts DeriveOptions) (string, error) {
	if !opts.KeepExt && opts.Ext == "" {
		opts.Ext = inv.OutputType().Ext()
	}
	path, err := Derive(base, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", inv.tool.Name, err)
	}
	return path, nil
}

func (inv *Invocation) str(name string) string {
	s, _ := inv.values[name].(string)
	return s
}

func (inv *Invocation) flag(name string) bool {
	b, _ := inv.values[name].(bool)
	return b
}

func (inv *Invocation) strs(name string) []string {
	switch v := inv.values[name].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}
