// Package runner executes built FSL invocations.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"fslcmd/internal/fsl"
)

type RunOptions struct {
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner starts an external program. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriter := io.Writer(&stdoutBuf)
	if opts.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, opts.Stdout)
	}
	stderrWriter := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderrBuf, opts.Stderr)
	}

	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	err := cmd.Run()
	return RunResult{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}, err
}

var _ Runner = CmdRunner{}

// Options controls a single Execute call.
type Options struct {
	// Binary overrides program lookup entirely.
	Binary string
	// FSLDir is searched before PATH. Empty means $FSLDIR.
	FSLDir string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// Result describes a finished execution.
type Result struct {
	RunID    string
	Binary   string
	Args     []string
	Cmdline  string
	Outputs  fsl.Outputs
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// MissingOutputError reports outputs the program did not produce.
type MissingOutputError struct {
	Tool  string
	Paths []string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("%s: expected output missing: %s", e.Tool, strings.Join(e.Paths, ", "))
}

// CommandError wraps a failed process together with its captured stderr.
type CommandError struct {
	Tool   string
	Binary string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Binary, e.Err)
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ErrBinaryNotFound is returned when a program is neither in $FSLDIR/bin nor on PATH.
var ErrBinaryNotFound = errors.New("binary not found")

// Execute validates inv, runs its program and checks that every listed
// output exists afterwards.
func Execute(ctx context.Context, r Runner, inv *fsl.Invocation, opts Options) (*Result, error) {
	if r == nil {
		r = CmdRunner{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	tool := inv.Tool()
	args, err := inv.Args()
	if err != nil {
		return nil, err
	}
	outputs, err := inv.Outputs()
	if err != nil {
		return nil, err
	}
	binary, err := ResolveBinary(tool.Program, opts.Binary, opts.FSLDir)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:   uuid.New().String(),
		Binary:  binary,
		Args:    args,
		Cmdline: strings.Join(append([]string{tool.Program}, args...), " "),
		Outputs: outputs,
	}
	logger = logger.With("run", res.RunID, "tool", tool.Name)
	logger.Info("executing", "cmdline", res.Cmdline)

	env := append([]string{fsl.OutputTypeEnv + "=" + inv.OutputType().String()}, opts.Env...)
	if opts.FSLDir != "" {
		env = append(env, "FSLDIR="+opts.FSLDir)
	}

	start := time.Now()
	run, runErr := r.Run(ctx, binary, res.Args, RunOptions{
		Env:    env,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
	res.Duration = time.Since(start)
	res.Stdout, res.Stderr = run.Stdout, run.Stderr
	if runErr != nil {
		logger.Error("execution failed", "err", runErr, "duration", res.Duration)
		return res, &CommandError{Tool: tool.Name, Binary: binary, Stderr: string(run.Stderr), Err: runErr}
	}

	var missing []string
	for _, path := range outputs.Files() {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		logger.Error("outputs missing", "paths", missing)
		return res, &MissingOutputError{Tool: tool.Name, Paths: missing}
	}

	logger.Info("finished", "duration", res.Duration, "outputs", len(outputs.Files()))
	return res, nil
}

// ResolveBinary picks the executable for program: an explicit path wins,
// then $FSLDIR/bin, then PATH.
func ResolveBinary(program, explicit, fslDir string) (string, error) {
	if explicit != "" {
		if info, err := os.Stat(explicit); err != nil || info.IsDir() {
			return "", fmt.Errorf("%s: %w at %s", program, ErrBinaryNotFound, explicit)
		}
		return explicit, nil
	}
	if fslDir == "" {
		fslDir = os.Getenv("FSLDIR")
	}
	if fslDir != "" {
		candidate := filepath.Join(fslDir, "bin", program)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	if path, err := exec.LookPath(program); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%s: %w", program, ErrBinaryNotFound)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}
