package fsl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRegistrySealed is returned when an option is registered after the
// registry has been sealed.
var ErrRegistrySealed = errors.New("option registry is sealed")

// MissingMandatoryInputError reports mandatory fields that were never set.
// OneOf marks a group where any single field would have satisfied the tool.
type MissingMandatoryInputError struct {
	Tool   string
	Fields []string
	OneOf  bool
}

func (e *MissingMandatoryInputError) Error() string {
	if e.OneOf {
		return fmt.Sprintf("%s: missing mandatory input: one of %s", e.Tool, strings.Join(e.Fields, ", "))
	}
	if len(e.Fields) == 1 {
		return fmt.Sprintf("%s: missing mandatory input %s", e.Tool, e.Fields[0])
	}
	return fmt.Sprintf("%s: missing mandatory inputs %s", e.Tool, strings.Join(e.Fields, ", "))
}

// InvalidInputPathError reports a file input that does not exist on disk.
type InvalidInputPathError struct {
	Tool  string
	Field string
	Path  string
}

func (e *InvalidInputPathError) Error() string {
	return fmt.Sprintf("%s: %s: file %q does not exist", e.Tool, e.Field, e.Path)
}

// InvalidValueError reports a value that fails its declared type, range or
// relationship with other options.
type InvalidValueError struct {
	Tool   string
	Field  string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %s", e.Tool, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s=%v: %s", e.Tool, e.Field, e.Value, e.Reason)
}

// UnknownOptionError reports an option name the tool does not declare.
type UnknownOptionError struct {
	Tool string
	Name string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%s: unknown option %q", e.Tool, e.Name)
}

// UnknownToolError reports a tool name missing from the catalog.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// DuplicateOptionError reports a second registration of the same option name.
type DuplicateOptionError struct {
	Name string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("option %q registered twice", e.Name)
}
