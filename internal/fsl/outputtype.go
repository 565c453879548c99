package fsl

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// OutputType selects the image format FSL binaries write, mirroring the
// FSLOUTPUTTYPE environment variable.
type OutputType string

const (
	OutputNIfTI       OutputType = "NIFTI"
	OutputNIfTIGz     OutputType = "NIFTI_GZ"
	OutputNIfTIPair   OutputType = "NIFTI_PAIR"
	OutputNIfTIPairGz OutputType = "NIFTI_PAIR_GZ"

	// DefaultOutputType is used when FSLOUTPUTTYPE is unset or invalid.
	DefaultOutputType = OutputNIfTIGz

	// OutputTypeEnv is the environment variable FSL reads.
	OutputTypeEnv = "FSLOUTPUTTYPE"
)

var outputExtensions = map[OutputType]string{
	OutputNIfTI:       ".nii",
	OutputNIfTIGz:     ".nii.gz",
	OutputNIfTIPair:   ".img",
	OutputNIfTIPairGz: ".img.gz",
}

// Ext returns the file extension written for the output type.
func (t OutputType) Ext() string {
	if ext, ok := outputExtensions[t]; ok {
		return ext
	}
	return outputExtensions[DefaultOutputType]
}

// Valid reports whether t names a known output type.
func (t OutputType) Valid() bool {
	_, ok := outputExtensions[t]
	return ok
}

func (t OutputType) String() string {
	return string(t)
}

// ParseOutputType accepts an output type name case-insensitively.
func ParseOutputType(raw string) (OutputType, error) {
	t := OutputType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown output type %q (expected one of %s)", raw, strings.Join(OutputTypeNames(), ", "))
	}
	return t, nil
}

// OutputTypeNames lists the known output types sorted by name.
func OutputTypeNames() []string {
	names := make([]string, 0, len(outputExtensions))
	for t := range outputExtensions {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

var (
	outputTypeMu   sync.RWMutex
	outputTypeSet  bool
	outputTypeProc OutputType
)

// CurrentOutputType returns the process-wide output type. Until SetOutputType
// is called it is read from FSLOUTPUTTYPE, falling back to NIFTI_GZ.
func CurrentOutputType() OutputType {
	outputTypeMu.RLock()
	if outputTypeSet {
		t := outputTypeProc
		outputTypeMu.RUnlock()
		return t
	}
	outputTypeMu.RUnlock()

	if t, err := ParseOutputType(os.Getenv(OutputTypeEnv)); err == nil {
		return t
	}
	return DefaultOutputType
}

// SetOutputType fixes the process-wide output type.
func SetOutputType(t OutputType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown output type %q", t)
	}
	outputTypeMu.Lock()
	defer outputTypeMu.Unlock()
	outputTypeProc = t
	outputTypeSet = true
	return nil
}

// resetOutputType restores environment-driven behaviour; used by tests.
func resetOutputType() {
	outputTypeMu.Lock()
	defer outputTypeMu.Unlock()
	outputTypeSet = false
	outputTypeProc = ""
}
