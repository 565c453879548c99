package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"fslcmd/internal/batch"
	"fslcmd/internal/runner"
	"fslcmd/internal/tui"
)

var (
	batchForce       bool
	batchConcurrency int
	batchNoProgress  bool
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Check or run invocations declared in an HCL or CSV batch file",
	}
	cmd.AddCommand(newBatchCheckCmd())
	cmd.AddCommand(newBatchRunCmd())
	return cmd
}

func newBatchCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Compare built command lines with their expect attributes",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatchCheck,
	}
}

func newBatchRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run every invocation, skipping those already up to date",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatchRun,
	}
	cmd.Flags().BoolVar(&batchForce, "force", false, "Run every invocation even when up to date")
	cmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Parallel invocations (default from config)")
	cmd.Flags().BoolVar(&batchNoProgress, "no-progress", false, "Print plain progress lines instead of a live table")
	return cmd
}

func runBatchCheck(cmd *cobra.Command, args []string) error {
	if _, err := loadWorkspace(); err != nil {
		return err
	}
	plan, err := batch.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	results := plan.Check()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}

	if outputJSON {
		type checkRow struct {
			Name     string `json:"name"`
			Tool     string `json:"tool"`
			OK       bool   `json:"ok"`
			Expected string `json:"expected"`
			Actual   string `json:"actual,omitempty"`
			Diff     string `json:"diff,omitempty"`
			Error    string `json:"error,omitempty"`
		}
		rows := make([]checkRow, 0, len(results))
		for _, r := range results {
			row := checkRow{Name: r.Name, Tool: r.Tool, OK: r.OK(), Expected: r.Expected, Actual: r.Actual, Diff: r.Diff()}
			if r.Err != nil {
				row.Error = r.Err.Error()
			}
			rows = append(rows, row)
		}
		if err := printJSON(cmd, rows); err != nil {
			return err
		}
	} else {
		printCheckResults(cmd, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d invocations do not match", failed, len(results))
	}
	return nil
}

func printCheckResults(cmd *cobra.Command, results []batch.CheckResult) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)
	out := cmd.OutOrStdout()

	if len(results) == 0 {
		fmt.Fprintln(out, faint.Render("(no invocations declare expect)"))
		return
	}
	for _, r := range results {
		label := bold.Render(r.Name) + faint.Render(" ("+r.Tool+")")
		switch {
		case r.Err != nil:
			fmt.Fprintln(out, red.Render("✗")+" "+label)
			fmt.Fprintln(out, "  "+red.Render(r.Err.Error()))
		case r.OK():
			fmt.Fprintln(out, green.Render("✓")+" "+label)
		default:
			fmt.Fprintln(out, red.Render("✗")+" "+label)
			fmt.Fprintln(out, "  "+r.Diff())
		}
	}
}

func runBatchRun(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	plan, err := batch.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	jobs, buildErr := plan.Build()
	if len(jobs) == 0 {
		return buildErr
	}

	logger, closer, err := ws.fileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = ws.cfg.Batch.Concurrency
	}
	opts := batch.RunOptions{
		Concurrency: concurrency,
		Force:       batchForce,
		StatePath:   ws.paths.StateFile,
		Runner:      newRunner(),
		Exec:        runner.Options{FSLDir: ws.cfg.FSLDir},
		Logger:      logger,
	}

	var (
		results []batch.JobResult
		runErr  error
	)
	switch tui.DetectMode(cmd.ErrOrStderr(), batchNoProgress, outputJSON) {
	case tui.ModeTUI:
		model := tui.NewBatchModel(plan.Path, jobs)
		err := tui.RunWithWork(cmd.Context(), cmd.ErrOrStderr(), model, func(send func(tea.Msg)) {
			opts.Reporter = tui.NewBatchReporter(send)
			results, runErr = batch.Run(cmd.Context(), jobs, opts)
		})
		if err != nil {
			return err
		}
	case tui.ModePlain:
		opts.Reporter = batch.NewLineReporter(cmd.ErrOrStderr())
		results, runErr = batch.Run(cmd.Context(), jobs, opts)
	default:
		results, runErr = batch.Run(cmd.Context(), jobs, opts)
	}

	if outputJSON {
		type runRow struct {
			Name   string `json:"name"`
			Tool   string `json:"tool"`
			Action string `json:"action"`
			Reason string `json:"reason"`
			RunID  string `json:"run_id,omitempty"`
			Error  string `json:"error,omitempty"`
		}
		rows := make([]runRow, 0, len(results))
		for _, r := range results {
			row := runRow{Name: r.Name, Tool: r.Tool, Action: r.Action, Reason: r.Reason}
			if r.Result != nil {
				row.RunID = r.Result.RunID
			}
			if r.Err != nil {
				row.Error = r.Err.Error()
			}
			rows = append(rows, row)
		}
		if err := printJSON(cmd, rows); err != nil {
			return err
		}
	} else {
		ran, skipped := 0, 0
		for _, r := range results {
			switch {
			case r.Err != nil:
			case r.Action == batch.ActionSkip:
				skipped++
			default:
				ran++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d ran, %d skipped, %d failed\n", ran, skipped, len(results)-ran-skipped)
	}
	return errors.Join(buildErr, runErr)
}
