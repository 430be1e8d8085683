package commands

import (
	"context"
	"path/filepath"

	"jailpop/internal/scrapers/download"
	"jailpop/internal/scrapers/florida"
	"jailpop/pkg/osutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	addDownloadFlags(floridaDownloadCmd)
	floridaUrlsCmd.Flags().String("out", "", "The directory url_mapping.json is written to.")

	floridaCmd.AddCommand(floridaDownloadCmd)
	floridaCmd.AddCommand(floridaUrlsCmd)
	rootCmd.AddCommand(floridaCmd)
}

var floridaCmd = &cobra.Command{
	Use:   "florida",
	Short: "Monthly jail reports of the Florida Department of Corrections.",
}

func fetchFloridaIndex(ctx context.Context) florida.Index {
	scraper := florida.NewScraper(env.client, env.tel, env.config.Florida.IndexURL)
	index, err := scraper.FetchIndex(ctx)
	if err != nil {
		fatal("failed to fetch florida index", err)
	}
	printFloridaSkipped(index.Skipped)
	return index
}

func printFloridaSkipped(skipped []florida.Skipped) {
	if len(skipped) == 0 {
		return
	}
	t := newTable()
	t.SetTitle("Skipped links")
	t.AppendHeader(table.Row{"Label", "URL", "Reason"})
	for _, s := range skipped {
		t.AppendRow(table.Row{s.Label, s.URL, s.Err.Error()})
	}
	t.Render()
}

var floridaDownloadCmd = &cobra.Command{
	Use:   "download [--out <dir>] [--force]",
	Short: "Downloads every monthly report as <YYYY-MM>.pdf.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := env.config.Florida
		index := fetchFloridaIndex(cmd.Context())
		runDownloads(cmd, index.Items(), download.Options{
			Dir:       flagOr(cmd, "out", config.Out),
			Delay:     config.Delay.Delay(),
			VerifyPDF: config.VerifyPDFs,
		})
	},
}

var floridaUrlsCmd = &cobra.Command{
	Use:   "urls [--out <dir>]",
	Short: "Writes the period -> report url mapping to url_mapping.json.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		index := fetchFloridaIndex(cmd.Context())
		mapping := index.URLMapping()

		path := filepath.Join(flagOr(cmd, "out", env.config.Florida.Out), "url_mapping.json")
		err := osutil.WriteJSON(path, mapping)
		if err != nil {
			fatal("failed to write url mapping", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Period", "URL"})
		for _, r := range index.Reports {
			t.AppendRow(table.Row{r.Key.String(), r.URL})
		}
		t.SortBy([]table.SortBy{{Name: "Period", Mode: table.Asc}})
		t.AppendFooter(table.Row{"Written", path})
		t.Render()
	},
}
