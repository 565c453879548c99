// Package batch loads HCL files describing many FSL invocations and checks or
// runs them together.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"fslcmd/internal/fsl"
)

const (
	attrExpect     = "expect"
	attrOutputType = "output_type"
)

// fileRoot holds everything a batch file may declare at the top level.
type fileRoot struct {
	OutputType  *string            `hcl:"output_type,optional"`
	Invocations []*invocationBlock `hcl:"invocation,block"`
}

type invocationBlock struct {
	Tool string   `hcl:"tool,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Entry is one decoded invocation block. Values hold plain Go values ready for
// fsl.Invocation.Set.
type Entry struct {
	Tool       string
	Name       string
	Values     map[string]any
	Expect     string
	HasExpect  bool
	OutputType fsl.OutputType
	Pos        string
}

// Plan is a decoded batch file.
type Plan struct {
	Path       string
	Dir        string
	OutputType fsl.OutputType
	Entries    []Entry
}

// Load parses and decodes the batch file at path. Expressions may refer to
// batch_dir (the file's directory) and work_dir (the current directory).
func Load(ctx context.Context, path string) (*Plan, error) {
	logger := log.FromContext(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve batch path: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(abs)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, diags)
	}

	plan := &Plan{Path: abs, Dir: filepath.Dir(abs)}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"batch_dir": cty.StringVal(plan.Dir),
			"work_dir":  cty.StringVal(cwd),
		},
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode batch file %s: %w", path, diags)
	}
	if root.OutputType != nil {
		ot, err := fsl.ParseOutputType(*root.OutputType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		plan.OutputType = ot
	}

	seen := make(map[string]string)
	for _, block := range root.Invocations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := decodeEntry(block, evalCtx)
		if err != nil {
			return nil, err
		}
		if prior, ok := seen[entry.Name]; ok {
			return nil, fmt.Errorf("%s: duplicate invocation %q (first declared at %s)", entry.Pos, entry.Name, prior)
		}
		seen[entry.Name] = entry.Pos
		plan.Entries = append(plan.Entries, entry)
	}

	logger.Debug("batch file loaded", "path", abs, "invocations", len(plan.Entries))
	return plan, nil
}

func decodeEntry(block *invocationBlock, evalCtx *hcl.EvalContext) (Entry, error) {
	entry := Entry{
		Tool:   block.Tool,
		Name:   block.Name,
		Values: make(map[string]any),
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return entry, fmt.Errorf("invocation %q: %w", block.Name, diags)
	}
	entry.Pos = block.Body.MissingItemRange().String()
	if len(attrs) > 0 {
		entry.Pos = firstRange(attrs).String()
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := attrs[name]
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return entry, fmt.Errorf("invocation %q: %w", block.Name, diags)
		}
		switch name {
		case attrExpect:
			if val.Type() != cty.String || val.IsNull() {
				return entry, fmt.Errorf("%s: expect must be a string", attr.Range)
			}
			entry.Expect, entry.HasExpect = val.AsString(), true
			continue
		case attrOutputType:
			if val.Type() != cty.String || val.IsNull() {
				return entry, fmt.Errorf("%s: output_type must be a string", attr.Range)
			}
			ot, err := fsl.ParseOutputType(val.AsString())
			if err != nil {
				return entry, fmt.Errorf("%s: %w", attr.Range, err)
			}
			entry.OutputType = ot
			continue
		}
		goVal, err := ctyToValue(val)
		if err != nil {
			return entry, fmt.Errorf("%s: %s: %w", attr.Range, name, err)
		}
		entry.Values[name] = goVal
	}
	return entry, nil
}

// firstRange returns the earliest attribute position in the block.
func firstRange(attrs hcl.Attributes) hcl.Range {
	var first hcl.Range
	for _, attr := range attrs {
		if first.Filename == "" || attr.Range.Start.Byte < first.Start.Byte {
			first = attr.Range
		}
	}
	return first
}

// ctyToValue converts a decoded HCL value into the plain Go values the
// option registry understands.
func ctyToValue(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, fmt.Errorf("value is null")
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			v, err := ctyToValue(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
