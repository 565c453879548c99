package tools

import (
	"context"
	"fmt"
	"strings"
)

type contextKeyMinimums struct{}

// WithMinimums annotates the context with workspace minimum version overrides,
// keyed by tool name ("fsl" for the suite).
func WithMinimums(ctx context.Context, minimums map[string]string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(minimums) == 0 {
		return ctx
	}
	cleaned := make(map[string]string, len(minimums))
	for name, value := range minimums {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		cleaned[strings.ToLower(name)] = trimmed
	}
	if len(cleaned) == 0 {
		return ctx
	}
	return context.WithValue(ctx, contextKeyMinimums{}, cleaned)
}

func minimumOverride(ctx context.Context, tool string) string {
	if ctx == nil {
		return ""
	}
	overrides, ok := ctx.Value(contextKeyMinimums{}).(map[string]string)
	if !ok {
		return ""
	}
	return overrides[strings.ToLower(tool)]
}

func resolveMinimumVersion(ctx context.Context, def ToolDefinition) (string, []string) {
	minimum := strings.TrimSpace(def.MinimumVersion)

	override := strings.TrimSpace(minimumOverride(ctx, def.Name))
	if override == "" {
		return minimum, nil
	}
	if _, err := parseVersion(override); err != nil {
		return minimum, []string{fmt.Sprintf("config minimum %q ignored: %v", override, err)}
	}

	var notes []string
	if meetsMinimum(override, minimum) {
		if override != minimum {
			notes = append(notes, fmt.Sprintf("minimum overridden by workspace config (%s)", override))
		}
		return override, notes
	}

	notes = append(notes, fmt.Sprintf("config minimum %s ignored; default minimum %s is higher", override, minimum))
	return minimum, notes
}
