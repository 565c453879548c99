package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"fslcmd/internal/fsl"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options <tool>",
		Short: "Describe the options a tool accepts",
		Args:  cobra.ExactArgs(1),
		RunE:  runOptions,
	}
}

type optionRow struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Flag      string   `json:"flag"`
	Position  int      `json:"position,omitempty"`
	Mandatory bool     `json:"mandatory,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Xor       []string `json:"xor,omitempty"`
	Requires  []string `json:"requires,omitempty"`
	Desc      string   `json:"desc,omitempty"`
}

func runOptions(cmd *cobra.Command, args []string) error {
	tool, err := fsl.Lookup(args[0])
	if err != nil {
		return err
	}

	specs := tool.Options.Specs()
	rows := make([]optionRow, 0, len(specs))
	for _, spec := range specs {
		kind := spec.Kind.String()
		if spec.Kind == fsl.KindList {
			kind += "(" + spec.Elem.String() + ")"
		}
		rows = append(rows, optionRow{
			Name:      spec.Name,
			Kind:      kind,
			Flag:      spec.Flag,
			Position:  spec.Position,
			Mandatory: spec.Mandatory,
			Choices:   spec.Choices,
			Xor:       spec.Xor,
			Requires:  spec.Requires,
			Desc:      spec.Desc,
		})
	}

	if outputJSON {
		return printJSON(cmd, rows)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", tool.Name, tool.Program, tool.Desc)
	fmt.Fprintln(cmd.OutOrStdout(), optionsTable(rows).Render())
	return nil
}

func optionsTable(rows []optionRow) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"OPTION", "KIND", "FLAG", "POS", "REQUIRED", "DESCRIPTION"})
	for _, r := range rows {
		pos := ""
		if r.Position != 0 {
			pos = fmt.Sprint(r.Position)
		}
		desc := r.Desc
		if len(r.Choices) > 0 {
			desc += " [" + strings.Join(r.Choices, "|") + "]"
		}
		tw.AppendRow(table.Row{r.Name, r.Kind, r.Flag, pos, formatBool(r.Mandatory), desc})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignCenter},
		{Number: 6, WidthMax: 60},
	})
	tw.SetStyle(table.StyleLight)
	return tw
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
