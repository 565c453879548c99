package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"fslcmd/internal/config"
	"fslcmd/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialise the workspace configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default fslcmd.yaml if none exists",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check fslcmd.yaml against the tool catalog",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	})

	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd, ws.cfg)
	}
	data, err := ws.cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(settings.GetString("dir"))
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", pp.ConfigFile)
		return nil
	}

	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pp.ConfigFile)
	return nil
}

// runConfigValidate reads the file directly so that an invalid output type
// is reported rather than aborting workspace setup.
func runConfigValidate(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(settings.GetString("dir"))
	if err != nil {
		return err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	results := cfg.Validate()

	failed := false
	for _, r := range results {
		if r.Level == "error" {
			failed = true
		}
	}

	if outputJSON {
		if results == nil {
			results = []config.ValidationResult{}
		}
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	} else {
		red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, green.Render("✓")+" "+pp.ConfigFile)
		}
		for _, r := range results {
			marker := yellow.Render("!")
			if r.Level == "error" {
				marker = red.Render("✗")
			}
			fmt.Fprintln(out, marker+" "+r.Message)
		}
	}

	if failed {
		return errors.New("configuration is invalid")
	}
	return nil
}
