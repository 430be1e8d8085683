package commands

import (
	"fmt"
	"strings"

	"jailpop/internal/scrapers/download"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "The directory the pdfs are written to.")
	cmd.Flags().Bool("force", false, "Download reports whose file already exists.")
}

func runDownloads(cmd *cobra.Command, items []download.Item, opts download.Options) {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		fatal("read flag force", err)
	}
	opts.Force = force

	downloader := download.NewDownloader(env.client, env.tel, opts)
	results, err := downloader.Run(cmd.Context(), items)
	printDownloads(results)
	if err != nil {
		fatal("download interrupted", err)
	}
}

func printDownloads(results []download.Result) {
	counts := map[download.Status]int{}

	t := newTable()
	t.AppendHeader(table.Row{"Period", "Status", "HTTP", "Pages", "Path"})
	for _, r := range results {
		counts[r.Status]++
		code := ""
		if r.Code != 0 {
			code = fmt.Sprint(r.Code)
		}
		pages := ""
		if r.Pages != 0 {
			pages = fmt.Sprint(r.Pages)
		}
		t.AppendRow(table.Row{r.Item.Key.String(), r.Status, code, pages, r.Path})
	}
	t.AppendFooter(table.Row{"Total", len(results), "", "", formatCounts(counts)})
	t.Render()
}

func formatCounts(counts map[download.Status]int) string {
	var parts []string
	for _, status := range []download.Status{
		download.StatusSaved,
		download.StatusExists,
		download.StatusFailed,
		download.StatusInvalid,
	} {
		if counts[status] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", status, counts[status]))
		}
	}
	return strings.Join(parts, ", ")
}
