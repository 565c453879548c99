package tools

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// readVersion reads an fslversion file, whose first line looks like
// "6.0.7.4:ba5a4b26".
func readVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read FSL version: %w", err)
	}
	line := firstLine(strings.TrimSpace(string(data)))
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("read FSL version: %s is empty", path)
	}
	return line, nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// parseVersion maps FSL's four-part versions onto semver by keeping the
// first three numeric parts.
func parseVersion(version string) (*semver.Version, error) {
	parts := numericParts(version)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid version %q", version)
	}
	for len(parts) < 3 {
		parts = append(parts, 0)
	}
	return semver.NewVersion(fmt.Sprintf("%d.%d.%d", parts[0], parts[1], parts[2]))
}

func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}
	v, err := parseVersion(version)
	if err != nil {
		return false
	}
	m, err := parseVersion(minimum)
	if err != nil {
		return true
	}
	return !v.LessThan(m)
}

func numericParts(version string) []int {
	var parts []int
	current := strings.Builder{}
	for _, r := range version {
		if r >= '0' && r <= '9' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			val, _ := strconv.Atoi(current.String())
			parts = append(parts, val)
			current.Reset()
		}
	}
	if current.Len() > 0 {
		val, _ := strconv.Atoi(current.String())
		parts = append(parts, val)
	}
	return parts
}
