package commands

import (
	"jailpop/internal/scrapers/download"
	"jailpop/internal/scrapers/tcjs"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	addDownloadFlags(tcjsCurrentCmd)
	addDownloadFlags(tcjsHistoricalCmd)

	tcjsCmd.AddCommand(tcjsCurrentCmd)
	tcjsCmd.AddCommand(tcjsHistoricalCmd)
	rootCmd.AddCommand(tcjsCmd)
}

var tcjsCmd = &cobra.Command{
	Use:   "tcjs",
	Short: "Abbreviated population reports of the Texas Commission on Jail Standards.",
}

func newTcjsScraper() tcjs.Scraper {
	config := env.config.TCJS
	return tcjs.NewScraper(env.client, env.tel, env.clock, tcjs.Options{
		UploadsPrefix: config.UploadsPrefix,
		HistoricalURL: config.HistoricalURL,
		FirstYear:     config.FirstYear,
	})
}

var tcjsCurrentCmd = &cobra.Command{
	Use:   "current [--out <dir>] [--force]",
	Short: "Tries the current-report url of every month since first_year.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := env.config.TCJS
		runDownloads(cmd, newTcjsScraper().Current(), download.Options{
			Dir:       flagOr(cmd, "out", config.CurrentOut),
			Delay:     config.Delay.Delay(),
			VerifyPDF: config.VerifyPDFs,
		})
	},
}

var tcjsHistoricalCmd = &cobra.Command{
	Use:   "historical [--out <dir>] [--force]",
	Short: "Downloads every report linked from the historical reports page.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := env.config.TCJS
		items, skipped, err := newTcjsScraper().Historical(cmd.Context())
		if err != nil {
			fatal("failed to fetch historical reports page", err)
		}

		if len(skipped) > 0 {
			t := newTable()
			t.SetTitle("Skipped links")
			t.AppendHeader(table.Row{"URL", "Reason"})
			for _, s := range skipped {
				t.AppendRow(table.Row{s.URL, s.Err.Error()})
			}
			t.Render()
		}

		runDownloads(cmd, items, download.Options{
			Dir:       flagOr(cmd, "out", config.HistoricalOut),
			Delay:     config.Delay.Delay(),
			VerifyPDF: config.VerifyPDFs,
		})
	},
}
