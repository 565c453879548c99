package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

type contextKeyFSLDir struct{}

// WithFSLDir overrides $FSLDIR for detection.
func WithFSLDir(ctx context.Context, dir string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKeyFSLDir{}, dir)
}

func fslDir(ctx context.Context) string {
	if dir, ok := ctx.Value(contextKeyFSLDir{}).(string); ok {
		return dir
	}
	return strings.TrimSpace(os.Getenv("FSLDIR"))
}

// Detect reports the FSL installation first, followed by one status per
// catalog program in catalog order.
func Detect(ctx context.Context) ([]Status, error) {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	def := Definition()
	root := fslDir(ctx)
	suite := detectSuite(ctx, def, root)
	statuses := []Status{suite}

	for _, bin := range def.Binaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		statuses = append(statuses, detectOne(bin, root, suite))
	}
	return statuses, nil
}

func detectSuite(ctx context.Context, def ToolDefinition, root string) Status {
	minimum, notes := resolveMinimumVersion(ctx, def)
	status := Status{Tool: def.Name, Minimum: minimum, Notes: notes}

	if root == "" {
		status.Error = "FSLDIR is not set"
		return status
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		status.Error = fmt.Sprintf("FSLDIR %s is not a directory", root)
		return status
	}
	status.Path = root
	status.Source = SourceFSLDir

	version, err := readVersion(filepath.Join(root, def.VersionFile))
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = version
	status.Satisfied = meetsMinimum(version, minimum)
	if !status.Satisfied {
		status.Error = fmt.Sprintf("version %s below minimum %s", version, minimum)
	}
	return status
}

func detectOne(bin BinarySpec, root string, suite Status) Status {
	status := Status{Tool: bin.ID}

	if root != "" {
		candidate := filepath.Join(root, "bin", bin.Executable)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			status.Path = candidate
			status.Source = SourceFSLDir
			status.Version = suite.Version
			status.Satisfied = true
			return status
		}
	}

	path, err := exec.LookPath(bin.Executable)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			status.Error = "not found"
		} else {
			status.Error = err.Error()
		}
		return status
	}
	status.Path = path
	status.Source = SourceSystem
	status.Satisfied = true
	if root != "" {
		status.Notes = append(status.Notes, "found on PATH outside FSLDIR")
	}
	return status
}
