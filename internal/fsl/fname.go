package fsl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// specialExtensions are treated as a single extension when splitting names.
var specialExtensions = []string{".nii.gz", ".tar.gz", ".niml.dset"}

// SplitFilename splits a path into directory, stem and extension, keeping
// compound image extensions such as ".nii.gz" together.
func SplitFilename(path string) (dir, stem, ext string) {
	dir = filepath.Dir(path)
	if dir == "." && !strings.HasPrefix(path, "."+string(filepath.Separator)) {
		dir = ""
	}
	name := filepath.Base(path)
	if path == "" {
		name = ""
	}

	lower := strings.ToLower(name)
	for _, special := range specialExtensions {
		if strings.HasSuffix(lower, special) && len(name) > len(special) {
			return dir, name[:len(name)-len(special)], name[len(name)-len(special):]
		}
	}

	ext = filepath.Ext(name)
	if ext == name {
		// dotfiles such as ".hidden" have no extension
		return dir, name, ""
	}
	return dir, strings.TrimSuffix(name, ext), ext
}

// DeriveOptions controls Derive.
type DeriveOptions struct {
	Suffix string
	// Ext replaces the input extension unless KeepExt is set.
	Ext     string
	KeepExt bool
	// Dir roots the result; empty means the current working directory.
	Dir string
}

var errEmptyBasename = errors.New("cannot derive a filename from an empty basename")

// Derive computes dir/stem+suffix+ext for an input path. The result is
// always absolute.
func Derive(input string, opts DeriveOptions) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", errEmptyBasename
	}
	_, stem, ext := SplitFilename(input)
	if !opts.KeepExt {
		ext = opts.Ext
	}

	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = cwd
	}
	return filepath.Abs(filepath.Join(dir, stem+opts.Suffix+ext))
}

// absPath is filepath.Abs that leaves empty strings alone.
func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
