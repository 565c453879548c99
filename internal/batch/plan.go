package batch

import (
	"errors"
	"fmt"
	"path/filepath"

	"fslcmd/internal/fsl"
)

// Job pairs a batch entry with its configured invocation.
type Job struct {
	Entry      Entry
	Invocation *fsl.Invocation
	// Key identifies the job in the state store across runs.
	Key string
}

// Build creates an invocation for every entry. Entries that fail are reported
// together; the jobs that did build are still returned.
func (p *Plan) Build() ([]Job, error) {
	var (
		jobs []Job
		errs []error
	)
	for _, entry := range p.Entries {
		job, err := p.buildEntry(entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, errors.Join(errs...)
}

func (p *Plan) buildEntry(entry Entry) (Job, error) {
	wrap := func(err error) error {
		return fmt.Errorf("invocation %q (%s): %w", entry.Name, entry.Pos, err)
	}

	inv, err := fsl.New(entry.Tool)
	if err != nil {
		return Job{}, wrap(err)
	}
	ot := entry.OutputType
	if ot == "" {
		ot = p.OutputType
	}
	if ot != "" {
		if err := inv.SetOutputType(ot); err != nil {
			return Job{}, wrap(err)
		}
	}

	values := make(map[string]any, len(entry.Values))
	for name, value := range entry.Values {
		spec, ok := inv.Tool().Options.Lookup(name)
		if !ok {
			return Job{}, wrap(&fsl.UnknownOptionError{Tool: inv.Tool().Name, Name: name})
		}
		values[name] = p.resolvePaths(spec, value)
	}
	if err := inv.SetAll(values); err != nil {
		return Job{}, wrap(err)
	}
	return Job{Entry: entry, Invocation: inv, Key: p.Path + "#" + entry.Name}, nil
}

// resolvePaths anchors relative file and output paths at the batch file's
// directory. Fixed choices (such as FLIRT's "identity") pass through.
func (p *Plan) resolvePaths(spec fsl.OptionSpec, value any) any {
	anchor := func(v any) any {
		s, ok := v.(string)
		if !ok || s == "" || filepath.IsAbs(s) {
			return v
		}
		for _, choice := range spec.Choices {
			if s == choice {
				return v
			}
		}
		return filepath.Join(p.Dir, s)
	}

	switch spec.Kind {
	case fsl.KindFile, fsl.KindOutput:
		return anchor(value)
	case fsl.KindList:
		items, ok := value.([]any)
		if !ok || spec.Elem != fsl.KindFile {
			return value
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = anchor(item)
		}
		return out
	}
	return value
}
