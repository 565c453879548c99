package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode describes how batch progress is rendered.
type OutputMode int

const (
	// ModeTUI redraws a live job table.
	ModeTUI OutputMode = iota
	// ModePlain prints one line per job event.
	ModePlain
	// ModeJSON prints nothing while running; the caller emits JSON at the end.
	ModeJSON
)

// DetectMode picks the progress mode for out. A live table needs a real
// terminal that is not dumb and not a CI runner.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	switch {
	case jsonOutput:
		return ModeJSON
	case noProgress, os.Getenv("CI") != "":
		return ModePlain
	}
	file, ok := out.(*os.File)
	if !ok {
		return ModePlain
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return ModePlain
	}
	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}
