package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"fslcmd/internal/runner"
)

// RunOptions configures a batch run.
type RunOptions struct {
	Concurrency int
	Force       bool
	// StatePath enables skipping of up-to-date jobs when set.
	StatePath string
	Runner    runner.Runner
	Exec      runner.Options
	Logger    *log.Logger
	Reporter  ProgressReporter
}

// ProgressReporter receives notifications as jobs move through a run. Start
// is not called for skipped jobs. Calls may arrive from several goroutines.
type ProgressReporter interface {
	Start(job Job, reason string)
	Complete(result JobResult)
}

// LineReporter writes one line per started, skipped or finished job.
type LineReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineReporter reports to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Start(job Job, reason string) {
	r.printf("run  %s (%s)", job.Entry.Name, reason)
}

func (r *LineReporter) Complete(res JobResult) {
	switch {
	case res.Err != nil:
		r.printf("fail %s: %v", res.Name, res.Err)
	case res.Action == ActionSkip:
		r.printf("skip %s (%s)", res.Name, res.Reason)
	default:
		r.printf("done %s", res.Name)
	}
}

func (r *LineReporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format+"\n", args...)
}

type nopReporter struct{}

func (nopReporter) Start(Job, string)  {}
func (nopReporter) Complete(JobResult) {}

// JobResult is the outcome of one job.
type JobResult struct {
	Name   string
	Tool   string
	Action string
	Reason string
	Result *runner.Result
	Err    error
}

// Run executes jobs with bounded concurrency. All failures are joined into
// the returned error; results are always complete and in job order.
func Run(ctx context.Context, jobs []Job, opts RunOptions) ([]JobResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	state := emptyState()
	if opts.StatePath != "" {
		loaded, err := LoadState(opts.StatePath)
		if err != nil {
			return nil, err
		}
		state = loaded
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	results := make([]JobResult, len(jobs))
	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
	)

	for i, job := range jobs {
		res := JobResult{Name: job.Entry.Name, Tool: job.Entry.Tool}

		cmdline, err := job.Invocation.Cmdline()
		if err != nil {
			res.Err = err
			results[i] = res
			reporter.Complete(res)
			continue
		}
		outputs, err := job.Invocation.Outputs()
		if err != nil {
			res.Err = err
			results[i] = res
			reporter.Complete(res)
			continue
		}
		inputHash := InputHash(job.Invocation)
		res.Action, res.Reason = state.Decide(job.Key, cmdline, inputHash, outputs.Files(), opts.Force)
		if res.Action == ActionSkip {
			logger.Debug("skipping job", "name", res.Name, "reason", res.Reason)
			results[i] = res
			reporter.Complete(res)
			continue
		}

		if err := ctx.Err(); err != nil {
			res.Err = err
			results[i] = res
			reporter.Complete(res)
			continue
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			res.Err = ctx.Err()
			results[i] = res
			reporter.Complete(res)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			reporter.Start(job, res.Reason)
			execOpts := opts.Exec
			execOpts.Logger = logger.With("job", res.Name)
			out, err := runner.Execute(ctx, opts.Runner, job.Invocation, execOpts)
			res.Result, res.Err = out, err
			if err == nil {
				state.Record(job.Key, JobState{
					CmdlineHash: CmdlineHash(cmdline),
					InputHash:   inputHash,
					RanAt:       time.Now().UTC(),
					Outputs:     outputs.Files(),
					DurationS:   out.Duration.Seconds(),
				})
			}
			results[i] = res
			reporter.Complete(res)
		}()
	}
	wg.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("invocation %q: %w", res.Name, res.Err))
		}
	}
	if opts.StatePath != "" {
		state.Prune(jobs)
		if err := state.Save(opts.StatePath); err != nil {
			errs = append(errs, fmt.Errorf("save state: %w", err))
		}
	}
	return results, errors.Join(errs...)
}
