package batch

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// CheckResult compares an entry's expected command line with the built one.
type CheckResult struct {
	Name     string
	Tool     string
	Expected string
	Actual   string
	Err      error
}

// OK reports whether the entry built and matched its expectation.
func (r CheckResult) OK() bool {
	return r.Err == nil && r.Expected == r.Actual
}

// Diff renders the difference inline: removed text as [-x-], added text as {+x+}.
func (r CheckResult) Diff() string {
	if r.Err != nil || r.Expected == r.Actual {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(r.Expected, r.Actual, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// Check builds every entry that declares an expect attribute and compares
// its command line. Entries without one are skipped.
func (p *Plan) Check() []CheckResult {
	var results []CheckResult
	for _, entry := range p.Entries {
		if !entry.HasExpect {
			continue
		}
		res := CheckResult{Name: entry.Name, Tool: entry.Tool, Expected: strings.TrimSpace(entry.Expect)}
		job, err := p.buildEntry(entry)
		if err == nil {
			res.Actual, err = job.Invocation.Cmdline()
		}
		res.Err = err
		results = append(results, res)
	}
	return results
}
