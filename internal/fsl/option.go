package fsl

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the value kind of an option.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindEnum
	KindFile
	KindList
	// KindOutput is an output file that may be given as a path, or as true
	// to have the tool derive the name.
	KindOutput
)

var kindNames = map[Kind]string{
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindEnum:   "enum",
	KindFile:   "file",
	KindList:   "list",
	KindOutput: "output",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Range bounds numeric values, inclusive.
type Range struct {
	Low, High float64
}

func (r *Range) contains(v float64) bool {
	return r == nil || (v >= r.Low && v <= r.High)
}

// OptionSpec describes one command-line option of a tool.
//
// Flag is an argument template: whitespace separates tokens and fmt verbs are
// substituted with the value ("-f %.2f", "--in=%s", "-o"). Position places the
// option among the leading (>0, ascending) or trailing (<0, -2 before -1)
// arguments; options with Position 0 are emitted between them, ordered by
// name.
type OptionSpec struct {
	Name     string
	Flag     string
	Kind     Kind
	Elem     Kind
	Sep      string
	Position int

	Mandatory bool
	MustExist bool
	Choices   []string
	Bounds    *Range
	MinLen    int
	MaxLen    int

	// GenFile options are derived by the tool when unset.
	GenFile bool
	// NameSource/NameTemplate derive a cwd-relative name from another
	// option's stem when unset. KeepExt keeps an extension already present
	// in the template instead of appending the output type extension.
	NameSource   string
	NameTemplate string
	KeepExt      bool

	Xor      []string
	Requires []string

	Default    any
	UseDefault bool

	Desc string
}

// Registry is the ordered, immutable option table of one tool.
type Registry struct {
	specs  map[string]OptionSpec
	order  []string
	sealed bool
}

// NewRegistry registers specs in order and seals the registry.
func NewRegistry(specs ...OptionSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]OptionSpec, len(specs))}
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return nil, err
		}
	}
	r.Seal()
	return r, nil
}

// MustRegistry is NewRegistry for package-level tool tables.
func MustRegistry(specs ...OptionSpec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds an option. Names must be unique within the registry.
func (r *Registry) Register(spec OptionSpec) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if r.specs == nil {
		r.specs = map[string]OptionSpec{}
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return fmt.Errorf("option name is empty")
	}
	if _, exists := r.specs[name]; exists {
		return &DuplicateOptionError{Name: name}
	}
	if spec.Kind == KindList && spec.Sep == "" {
		spec.Sep = " "
	}
	r.specs[name] = spec
	r.order = append(r.order, name)
	return nil
}

// Seal computes the emission order and rejects further registrations.
func (r *Registry) Seal() {
	if r.sealed {
		return
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		a, b := r.specs[r.order[i]], r.specs[r.order[j]]
		ga, gb := positionGroup(a.Position), positionGroup(b.Position)
		if ga != gb {
			return ga < gb
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Name < b.Name
	})
	r.sealed = true
}

func positionGroup(pos int) int {
	switch {
	case pos > 0:
		return 0
	case pos == 0:
		return 1
	default:
		return 2
	}
}

// Lookup returns the spec for name.
func (r *Registry) Lookup(name string) (OptionSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns option names in emission order.
func (r *Registry) Names() []string {
	r.Seal()
	return append([]string(nil), r.order...)
}

// Specs returns option specs in emission order.
func (r *Registry) Specs() []OptionSpec {
	names := r.Names()
	specs := make([]OptionSpec, len(names))
	for i, name := range names {
		specs[i] = r.specs[name]
	}
	return specs
}

// with returns a sealed copy of the registry with the named specs replaced.
func (r *Registry) with(overrides ...OptionSpec) *Registry {
	specs := make([]OptionSpec, 0, len(r.order))
	replaced := make(map[string]OptionSpec, len(overrides))
	for _, o := range overrides {
		replaced[o.Name] = o
	}
	for _, name := range r.order {
		if o, ok := replaced[name]; ok {
			specs = append(specs, o)
			continue
		}
		specs = append(specs, r.specs[name])
	}
	return MustRegistry(specs...)
}

// Resolve renders the flag tokens for a value. Values are normalized against
// the spec first, so a raw caller value is accepted.
func (r *Registry) Resolve(name string, value any) ([]string, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, &UnknownOptionError{Name: name}
	}
	norm, err := normalize("", spec, value)
	if err != nil {
		return nil, err
	}
	return render(spec, norm)
}

// render substitutes an already normalized value into the flag template.
func render(spec OptionSpec, value any) ([]string, error) {
	parts := strings.Fields(spec.Flag)
	switch v := value.(type) {
	case bool:
		if !v {
			return nil, nil
		}
		return parts, nil
	case []any:
		return renderList(spec, parts, v)
	}

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if countVerbs(part) == 0 {
			tokens = append(tokens, part)
			continue
		}
		tokens = append(tokens, fmt.Sprintf(part, value))
	}
	return tokens, nil
}

func renderList(spec OptionSpec, parts []string, values []any) ([]string, error) {
	tokens := make([]string, 0, len(parts)+len(values))
	for _, part := range parts {
		switch n := countVerbs(part); {
		case n == 0:
			tokens = append(tokens, part)
		case n > 1:
			if n != len(values) {
				return nil, &InvalidValueError{Field: spec.Name, Value: values, Reason: fmt.Sprintf("expected %d values", n)}
			}
			tokens = append(tokens, fmt.Sprintf(part, values...))
		case part == "%s" && spec.Sep == " ":
			for _, v := range values {
				tokens = append(tokens, formatElem(v))
			}
		default:
			elems := make([]string, len(values))
			for i, v := range values {
				elems[i] = formatElem(v)
			}
			tokens = append(tokens, fmt.Sprintf(part, strings.Join(elems, spec.Sep)))
		}
	}
	return tokens, nil
}

func formatElem(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// countVerbs counts fmt verbs in s, ignoring "%%".
func countVerbs(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}

// normalize converts a caller value into the canonical Go type for the
// spec's kind and checks its constraints.
func normalize(tool string, spec OptionSpec, value any) (any, error) {
	invalid := func(reason string) error {
		return &InvalidValueError{Tool: tool, Field: spec.Name, Value: value, Reason: reason}
	}

	switch spec.Kind {
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, invalid("expected a boolean")
		}
		return b, nil
	case KindList:
		items, ok := toSlice(value)
		if !ok {
			items = []any{value}
		}
		if spec.MinLen > 0 && len(items) < spec.MinLen {
			return nil, invalid(fmt.Sprintf("expected at least %d items", spec.MinLen))
		}
		if spec.MaxLen > 0 && len(items) > spec.MaxLen {
			return nil, invalid(fmt.Sprintf("expected at most %d items", spec.MaxLen))
		}
		if len(items) == 0 {
			return nil, invalid("list is empty")
		}
		elemSpec := spec
		elemSpec.Kind = spec.Elem
		out := make([]any, len(items))
		for i, item := range items {
			v, err := normalize(tool, elemSpec, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindOutput:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, invalid("path is empty")
			}
			return v, nil
		}
		return nil, invalid("expected a path or true")
	}
	return normalizeScalar(tool, spec, value)
}

func normalizeScalar(tool string, spec OptionSpec, value any) (any, error) {
	invalid := func(reason string) error {
		return &InvalidValueError{Tool: tool, Field: spec.Name, Value: value, Reason: reason}
	}

	switch spec.Kind {
	case KindInt:
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, invalid("expected an integer")
		}
		if !spec.Bounds.contains(f) {
			return nil, invalid(fmt.Sprintf("must be within [%g, %g]", spec.Bounds.Low, spec.Bounds.High))
		}
		return int(f), nil
	case KindFloat:
		f, ok := toFloat(value)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalid("expected a finite number")
		}
		if !spec.Bounds.contains(f) {
			return nil, invalid(fmt.Sprintf("must be within [%g, %g]", spec.Bounds.Low, spec.Bounds.High))
		}
		return f, nil
	case KindString, KindEnum:
		s, ok := value.(string)
		if !ok {
			f, isNum := toFloat(value)
			if !isNum {
				return nil, invalid("expected a string")
			}
			s = formatElem(normalizeNumber(f))
		}
		if spec.Kind == KindEnum && !contains(spec.Choices, s) {
			return nil, invalid(fmt.Sprintf("must be one of %s", strings.Join(spec.Choices, ", ")))
		}
		return s, nil
	case KindFile:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, invalid("expected a file path")
		}
		if spec.MustExist && !contains(spec.Choices, s) && !fileExists(s) {
			return nil, &InvalidInputPathError{Tool: tool, Field: spec.Name, Path: s}
		}
		return s, nil
	}
	return nil, invalid("unsupported option kind " + spec.Kind.String())
}

func normalizeNumber(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	case []int:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	}
	return nil, false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseValue converts command-line text into a value for spec. Lists accept
// comma or whitespace separated items.
func ParseValue(spec OptionSpec, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch spec.Kind {
	case KindBool:
		if raw == "" {
			return true, nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &InvalidValueError{Field: spec.Name, Value: raw, Reason: "expected a boolean"}
		}
		return b, nil
	case KindOutput:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b, nil
		}
		return raw, nil
	case KindList:
		fields := strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		items := make([]any, len(fields))
		elem := spec
		elem.Kind = spec.Elem
		for i, field := range fields {
			v, err := ParseValue(elem, field)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &InvalidValueError{Field: spec.Name, Value: raw, Reason: "expected an integer"}
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &InvalidValueError{Field: spec.Name, Value: raw, Reason: "expected a number"}
		}
		return f, nil
	}
	return raw, nil
}
