package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"fslcmd/internal/tools"
)

var toolsStrict bool

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the FSL installation",
	}

	cmd.AddCommand(newToolsListCmd())

	return cmd
}

func newToolsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List FSL and the programs the catalog needs",
		RunE:  runToolsList,
	}
	cmd.Flags().BoolVar(&toolsStrict, "strict", false, "Exit non-zero when anything is missing or too old")
	return cmd
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	statuses, err := tools.Detect(ws.detectContext(cmd.Context()))
	if err != nil {
		return err
	}

	if outputJSON {
		if err := printJSON(cmd, statuses); err != nil {
			return err
		}
	} else {
		printStatuses(cmd, statuses)
	}

	if toolsStrict {
		return ensureStrict(statuses)
	}
	return nil
}

func printStatuses(cmd *cobra.Command, statuses []tools.Status) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)
	out := cmd.OutOrStdout()

	for _, st := range statuses {
		if st.Satisfied {
			headline := green.Render("✓") + " " + bold.Render(st.Tool)
			if st.Version != "" {
				headline += " v" + st.Version
			}
			if st.Minimum != "" {
				headline += faint.Render(" (minimum: " + st.Minimum + ")")
			}
			fmt.Fprintln(out, headline)

			detail := string(st.Source)
			if st.Path != "" {
				detail += " · " + st.Path
			}
			fmt.Fprintln(out, faint.Render("  "+detail))
		} else {
			headline := red.Render("✗") + " " + bold.Render(st.Tool)
			if st.Error != "" {
				headline += red.Render(" (" + st.Error + ")")
			}
			fmt.Fprintln(out, headline)
		}
		for _, note := range st.Notes {
			fmt.Fprintln(out, faint.Render("  "+note))
		}
	}

	if len(statuses) > 0 && statuses[0].Tool == tools.SuiteName && !statuses[0].Satisfied {
		fmt.Fprintln(out)
		for _, hint := range tools.InstallHints() {
			fmt.Fprintln(out, faint.Render(hint))
		}
	}
}

func ensureStrict(statuses []tools.Status) error {
	var failures []string
	for _, st := range statuses {
		if !st.Satisfied {
			failures = append(failures, st.Tool)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("unsatisfied: %v", failures)
	}
	return nil
}
