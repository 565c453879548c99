package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fslcmd/internal/logx"
	"fslcmd/internal/runner"
)

var runBinary string

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Run a tool invocation and verify its outputs",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	addSetFlag(cmd)
	cmd.Flags().StringVar(&runBinary, "binary", "", "Explicit path to the program (skips FSLDIR and PATH lookup)")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	inv, err := ws.newInvocation(args[0], setValues)
	if err != nil {
		return err
	}

	logger, closer, err := ws.fileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	res, err := runner.Execute(cmd.Context(), newRunner(), inv, runner.Options{
		Binary: runBinary,
		FSLDir: ws.cfg.FSLDir,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if outputJSON {
		payload := struct {
			RunID   string              `json:"run_id"`
			Cmdline string              `json:"cmdline"`
			Outputs map[string][]string `json:"outputs"`
			Seconds float64             `json:"duration_s"`
		}{res.RunID, res.Cmdline, res.Outputs, res.Duration.Seconds()}
		return printJSON(cmd, payload)
	}
	for _, path := range res.Outputs.Files() {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// fileLogger opens the workspace log file; without a writable workspace it
// falls back to the console logger.
func (ws *workspace) fileLogger() (*log.Logger, io.Closer, error) {
	logger, closer, err := logx.New(ws.paths, ws.cfg.LogLevel)
	if err != nil {
		ws.logger.Warn("file logging disabled", "err", err)
		return ws.logger, io.NopCloser(nil), nil
	}
	return logger, closer, nil
}
