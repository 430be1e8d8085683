package commands

import (
	"path/filepath"

	"jailpop/internal/lookup"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	lookupCmd.Flags().String("in", "", "The tab separated facility dataset.")
	lookupCmd.Flags().String("out", "", "The directory the lookup files are written to.")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [--in <dataset.tsv>] [--out <dir>]",
	Short: "Builds the facility lookup tables from the dataset.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		input := flagOr(cmd, "in", env.config.Lookup.Input)
		out := flagOr(cmd, "out", env.config.Lookup.Out)

		dataset, err := lookup.ReadFile(input)
		if err != nil {
			fatal("failed to read dataset", err)
		}
		outputs, err := lookup.BuildAll(dataset)
		if err != nil {
			fatal("failed to build lookup tables", err)
		}
		err = lookup.WriteAll(out, outputs)
		if err != nil {
			fatal("failed to write lookup tables", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"File", "Keys"})
		for _, o := range outputs {
			t.AppendRow(table.Row{filepath.Join(out, o.Filename), o.Keys})
		}
		t.AppendFooter(table.Row{"Rows read", len(dataset.Rows)})
		t.Render()
	},
}
