package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var setValues []string

func addSetFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&setValues, "set", nil, "Option assignment name=value (repeatable); a bare name sets a flag")
}

func newCmdlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmdline <tool>",
		Short: "Print the command line for a tool invocation",
		Args:  cobra.ExactArgs(1),
		RunE:  runCmdline,
	}
	addSetFlag(cmd)
	return cmd
}

func runCmdline(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	inv, err := ws.newInvocation(args[0], setValues)
	if err != nil {
		return err
	}
	line, err := inv.Cmdline()
	if err != nil {
		return err
	}

	if outputJSON {
		argv, err := inv.Args()
		if err != nil {
			return err
		}
		payload := struct {
			Tool       string   `json:"tool"`
			Program    string   `json:"program"`
			Args       []string `json:"args"`
			Cmdline    string   `json:"cmdline"`
			OutputType string   `json:"output_type"`
		}{inv.Tool().Name, inv.Tool().Program, argv, line, inv.OutputType().String()}
		return printJSON(cmd, payload)
	}

	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

func newOutputsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outputs <tool>",
		Short: "List the files a tool invocation will produce",
		Args:  cobra.ExactArgs(1),
		RunE:  runOutputs,
	}
	addSetFlag(cmd)
	return cmd
}

func runOutputs(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	inv, err := ws.newInvocation(args[0], setValues)
	if err != nil {
		return err
	}
	outputs, err := inv.Outputs()
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(cmd, outputs)
	}
	for _, name := range outputs.Names() {
		for _, path := range outputs[name] {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", name, path)
		}
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
