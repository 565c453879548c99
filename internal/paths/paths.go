package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fslcmd/internal/config"
)

// WorkspacePaths captures canonical locations for an fslcmd workspace.
type WorkspacePaths struct {
	Root       string
	ConfigFile string
	EnvFile    string
	MetaDir    string
	LogsDir    string
	StateFile  string
}

// Resolve determines the workspace root using the optional --dir flag or the
// current working directory when the flag is empty.
func Resolve(dirFlag string) (WorkspacePaths, error) {
	var (
		root string
		err  error
	)

	if dirFlag != "" {
		root, err = filepath.Abs(dirFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return WorkspacePaths{}, fmt.Errorf("resolve workspace root: %w", err)
	}

	return newWorkspacePaths(root), nil
}

func newWorkspacePaths(root string) WorkspacePaths {
	metaDir := filepath.Join(root, ".fslcmd")
	return WorkspacePaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "fslcmd.yaml"),
		EnvFile:    filepath.Join(root, ".env"),
		MetaDir:    metaDir,
		LogsDir:    filepath.Join(metaDir, "logs"),
		StateFile:  filepath.Join(metaDir, "state.json"),
	}
}

// ApplyConfig overrides locations the workspace config sets.
func ApplyConfig(wp WorkspacePaths, cfg config.Config) WorkspacePaths {
	if logs := strings.TrimSpace(cfg.Paths.LogsDir); logs != "" {
		wp.LogsDir = resolveWorkspacePath(wp.Root, logs)
	}
	if state := strings.TrimSpace(cfg.Paths.StateFile); state != "" {
		wp.StateFile = resolveWorkspacePath(wp.Root, state)
	}
	return wp
}

func resolveWorkspacePath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the workspace root exists on disk.
func (p WorkspacePaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the hidden .fslcmd directory and the logs directory.
func (p WorkspacePaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
