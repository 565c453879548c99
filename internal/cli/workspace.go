package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"fslcmd/internal/config"
	"fslcmd/internal/fsl"
	"fslcmd/internal/logx"
	"fslcmd/internal/paths"
	"fslcmd/internal/runner"
	"fslcmd/internal/tools"
)

// newRunner is swapped out by tests.
var newRunner = func() runner.Runner { return runner.CmdRunner{} }

// workspace is the resolved environment every command works in.
type workspace struct {
	paths  paths.WorkspacePaths
	cfg    config.Config
	logger *log.Logger
}

// loadWorkspace resolves paths, loads .env and fslcmd.yaml, then applies flag
// and environment overrides (flag > env > file).
func loadWorkspace() (*workspace, error) {
	wp, err := paths.Resolve(settings.GetString("dir"))
	if err != nil {
		return nil, err
	}
	applied, err := config.LoadEnvFile(wp.EnvFile)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(wp.ConfigFile)
	if err != nil {
		return nil, err
	}
	wp = paths.ApplyConfig(wp, cfg)

	if ot := strings.TrimSpace(settings.GetString("output-type")); ot != "" {
		cfg.OutputType = ot
	}
	if lvl := strings.TrimSpace(settings.GetString("log-level")); lvl != "" {
		cfg.LogLevel = lvl
	}

	ot, err := fsl.ParseOutputType(cfg.OutputType)
	if err != nil {
		return nil, err
	}
	if err := fsl.SetOutputType(ot); err != nil {
		return nil, err
	}

	ws := &workspace{paths: wp, cfg: cfg, logger: logx.Stderr(cfg.LogLevel)}
	if len(applied) > 0 {
		ws.logger.Debug("loaded .env", "vars", applied)
	}
	return ws, nil
}

// detectContext carries workspace overrides into tool detection.
func (ws *workspace) detectContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = tools.WithMinimums(ctx, ws.cfg.Tools.Minimums)
	return tools.WithFSLDir(ctx, ws.cfg.FSLDir)
}

// newInvocation creates an invocation of tool with workspace defaults applied
// first and then each --set assignment in order.
func (ws *workspace) newInvocation(tool string, assignments []string) (*fsl.Invocation, error) {
	inv, err := fsl.New(tool)
	if err != nil {
		return nil, err
	}
	if defaults := ws.cfg.ToolDefaults(inv.Tool().Name); len(defaults) > 0 {
		if err := inv.SetAll(defaults); err != nil {
			return nil, fmt.Errorf("workspace defaults: %w", err)
		}
	}
	for _, raw := range assignments {
		name, value, err := parseAssignment(inv.Tool(), raw)
		if err != nil {
			return nil, err
		}
		if err := inv.Set(name, value); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// parseAssignment splits "name=value" and parses value according to the
// option's kind. A bare name sets a boolean option.
func parseAssignment(tool *fsl.Tool, raw string) (string, any, error) {
	name, value, hasValue := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	spec, ok := tool.Options.Lookup(name)
	if !ok {
		return "", nil, &fsl.UnknownOptionError{Tool: tool.Name, Name: name}
	}
	if !hasValue {
		if spec.Kind != fsl.KindBool && spec.Kind != fsl.KindOutput {
			return "", nil, fmt.Errorf("--set %s: missing value", name)
		}
		return name, true, nil
	}
	parsed, err := fsl.ParseValue(spec, value)
	if err != nil {
		return "", nil, err
	}
	return name, parsed, nil
}
