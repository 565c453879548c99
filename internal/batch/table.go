package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"fslcmd/internal/fsl"
)

const (
	colTool = "tool"
	colName = "name"
)

// TableError is a problem with one cell or row of a table batch file.
type TableError struct {
	Line    int
	Field   string
	Message string
}

func (e TableError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}

// TableErrors aggregates every problem found in a table.
type TableErrors []TableError

func (errs TableErrors) Error() string {
	if len(errs) == 0 {
		return "invalid table"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Open loads a batch file, choosing the table reader for .csv and .tsv files
// and HCL for anything else.
func Open(ctx context.Context, path string) (*Plan, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return LoadTable(ctx, path)
	}
	return Load(ctx, path)
}

// LoadTable reads a comma or tab separated file with one invocation per row.
// The tool and name columns are required; output_type and expect are
// optional; every other column names an option. Empty cells leave the option
// unset. Values are parsed by option kind, so list cells hold space or comma
// separated items. When rows are invalid the returned error is TableErrors
// and no plan is returned.
func LoadTable(ctx context.Context, path string) (*Plan, error) {
	logger := log.FromContext(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve batch path: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("batch table is empty")
	}

	comma, err := detectDelimiter(data)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	plan := &Plan{Path: abs, Dir: filepath.Dir(abs)}
	expand := strings.NewReplacer("${batch_dir}", plan.Dir, "${work_dir}", cwd)

	var (
		header []string
		errs   TableErrors
		seen   = map[string]int{}
		line   = 0
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse batch table: %w", err)
		}
		line++

		if header == nil {
			header, err = readHeader(record)
			if err != nil {
				return nil, err
			}
			continue
		}
		if isEmptyRecord(record) {
			continue
		}

		entry, rowErrs := parseRow(record, header, line, expand)
		entry.Pos = abs + ":" + strconv.Itoa(line)
		if prev, dup := seen[entry.Name]; dup && entry.Name != "" {
			rowErrs = append(rowErrs, TableError{Line: line, Field: colName, Message: fmt.Sprintf("duplicate name %q (first on row %d)", entry.Name, prev)})
		}
		seen[entry.Name] = line
		errs = append(errs, rowErrs...)
		plan.Entries = append(plan.Entries, entry)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if len(plan.Entries) == 0 {
		return nil, errors.New("no data rows found")
	}
	logger.Debug("loaded batch table", "path", abs, "invocations", len(plan.Entries))
	return plan, nil
}

func detectDelimiter(data []byte) (rune, error) {
	headerLine, _, _ := bytes.Cut(data, []byte("\n"))
	switch {
	case bytes.ContainsRune(headerLine, '\t'):
		return '\t', nil
	case bytes.ContainsRune(headerLine, ','):
		return ',', nil
	}
	return 0, errors.New("unable to detect delimiter (expected comma or tab)")
}

func readHeader(record []string) ([]string, error) {
	header := make([]string, len(record))
	index := make(map[string]bool, len(record))
	for i, raw := range record {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if index[name] {
			return nil, fmt.Errorf("duplicate header: %s", name)
		}
		index[name] = true
		header[i] = name
	}
	for _, required := range []string{colTool, colName} {
		if !index[required] {
			return nil, fmt.Errorf("missing required header: %s", required)
		}
	}
	return header, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRow(record, header []string, line int, expand *strings.Replacer) (Entry, []TableError) {
	var errs []TableError
	cells := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(record) {
			cells[name] = strings.TrimSpace(record[i])
		}
	}

	entry := Entry{Tool: cells[colTool], Name: cells[colName], Values: map[string]any{}}
	if entry.Name == "" {
		errs = append(errs, TableError{Line: line, Field: colName, Message: "name is required"})
	}
	tool, err := fsl.Lookup(entry.Tool)
	if err != nil {
		return entry, append(errs, TableError{Line: line, Field: colTool, Message: err.Error()})
	}
	entry.Tool = tool.Name

	for _, name := range header {
		raw := cells[name]
		switch {
		case name == colTool || name == colName || raw == "":
			continue
		case name == attrExpect:
			entry.Expect, entry.HasExpect = expand.Replace(raw), true
			continue
		case name == attrOutputType:
			ot, err := fsl.ParseOutputType(raw)
			if err != nil {
				errs = append(errs, TableError{Line: line, Field: name, Message: err.Error()})
			}
			entry.OutputType = ot
			continue
		}

		spec, ok := tool.Options.Lookup(name)
		if !ok {
			// Mixed tables carry columns for other tools.
			if !catalogOption(name) {
				errs = append(errs, TableError{Line: line, Field: name, Message: "no tool accepts this option"})
			}
			continue
		}
		value, err := fsl.ParseValue(spec, expand.Replace(raw))
		if err != nil {
			errs = append(errs, TableError{Line: line, Field: name, Message: err.Error()})
			continue
		}
		entry.Values[name] = value
	}
	return entry, errs
}

func catalogOption(name string) bool {
	for _, tool := range fsl.Tools() {
		if _, ok := tool.Options.Lookup(name); ok {
			return true
		}
	}
	return false
}
