package commands

import (
	"bytes"
	"path/filepath"

	"jailpop/internal/scrapers/stlouis"
	"jailpop/pkg/osutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	stlouisHarvestCmd.Flags().String("out", "", "The directory snapshots are written to.")
	stlouisExportCmd.Flags().String("in", "", "The directory of harvested snapshots.")
	stlouisExportCmd.Flags().String("out", "", "The csv file to write.")
	stlouisExportCmd.Flags().Bool("strict", false, "Fail instead of writing rows for facilities without an id.")

	stlouisCmd.AddCommand(stlouisHarvestCmd)
	stlouisCmd.AddCommand(stlouisExportCmd)
	rootCmd.AddCommand(stlouisCmd)
}

var stlouisCmd = &cobra.Command{
	Use:   "stlouis",
	Short: "Daily inmate population dashboard of the City of St. Louis.",
}

var stlouisHarvestCmd = &cobra.Command{
	Use:   "harvest [--out <dir>]",
	Short: "Saves a snapshot of the last day of every elapsed month.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := env.config.StLouis
		harvester := stlouis.NewHarvester(env.client, env.tel, env.clock, stlouis.HarvestOptions{
			DashboardURL: config.DashboardURL,
			Dir:          flagOr(cmd, "out", config.SnapshotDir),
			FirstYear:    config.FirstYear,
			Delay:        config.Delay.Delay(),
		})

		result, err := harvester.Run(cmd.Context())

		t := newTable()
		t.AppendHeader(table.Row{"Fetched", "Skipped", "Last fetched"})
		last := ""
		if len(result.Fetched) > 0 {
			last = result.Fetched[len(result.Fetched)-1].String()
		}
		t.AppendRow(table.Row{len(result.Fetched), len(result.Skipped), last})
		t.Render()

		if err != nil {
			fatal("harvest stopped", err)
		}
	},
}

var stlouisExportCmd = &cobra.Command{
	Use:   "export [--in <dir>] [--out <file.csv>] [--strict]",
	Short: "Flattens the harvested snapshots into one csv row per facility and day.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := env.config.StLouis
		in := flagOr(cmd, "in", config.SnapshotDir)
		out := flagOr(cmd, "out", config.ExportPath)
		strict, err := cmd.Flags().GetBool("strict")
		if err != nil {
			fatal("read flag strict", err)
		}

		snapshots, err := stlouis.ReadSnapshots(in)
		if err != nil {
			fatal("failed to read snapshots", err)
		}
		export := stlouis.Flatten(env.tel, snapshots, config.FacilityIDs)

		if len(export.Unmapped) > 0 {
			t := newTable()
			t.SetTitle("Facilities without an id")
			t.AppendHeader(table.Row{"Facility", "Rows", "Closest known", "Similarity"})
			for _, u := range export.Unmapped {
				t.AppendRow(table.Row{u.Name, u.Rows, u.Suggestion, u.Similarity})
			}
			t.Render()
		}
		if strict {
			err = export.Check()
			if err != nil {
				fatal("refusing to export", err)
			}
		}

		var buf bytes.Buffer
		err = stlouis.WriteCSV(&buf, export.Rows)
		if err != nil {
			fatal("failed to encode csv", err)
		}
		err = osutil.WriteFileAtomic(out, buf.Bytes())
		if err != nil {
			fatal("failed to write csv", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Snapshots", "Rows", "Written"})
		t.AppendRow(table.Row{len(snapshots), len(export.Rows), filepath.Clean(out)})
		t.Render()
	},
}
