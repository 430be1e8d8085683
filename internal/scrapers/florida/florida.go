// Package florida scrapes the monthly county jail reports published by the
// Florida Department of Corrections.
package florida

import (
	"context"
	"fmt"
	"strings"

	"jailpop/internal/components/telemetry"
	"jailpop/internal/fetch"
	"jailpop/internal/period"
	"jailpop/internal/scrapers/download"
	"jailpop/pkg/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultIndexURL = "http://www.dc.state.fl.us/pub/jails/index.html"

const (
	report_scraper_index = "scraper.index"
	report_scraper_label = "scraper.label"
)

var tracer = otel.Tracer("jailpop.internal.scrapers.florida")

// Report is a monthly report linked from the index page.
type Report struct {
	Key   period.Key
	URL   string
	Label string
}

// Skipped is a pdf link that looked like a report but whose label did not parse.
type Skipped struct {
	Label string
	URL   string
	Err   error
}

type Index struct {
	Reports []Report
	Skipped []Skipped
}

// URLMapping is the period -> url map written by `florida urls`. When a period is
// linked twice the later link wins.
func (i Index) URLMapping() map[string]string {
	out := make(map[string]string, len(i.Reports))
	for _, r := range i.Reports {
		out[r.Key.String()] = r.URL
	}
	return out
}

func (i Index) Items() []download.Item {
	items := make([]download.Item, len(i.Reports))
	for n, r := range i.Reports {
		items[n] = download.Item{Key: r.Key, URL: r.URL}
	}
	return items
}

type Scraper struct {
	client   *fetch.Client
	tel      telemetry.API
	indexUrl string
}

func NewScraper(client *fetch.Client, tel telemetry.API, indexUrl string) Scraper {
	if indexUrl == "" {
		indexUrl = DefaultIndexURL
	}
	return Scraper{
		client:   client,
		tel:      telemetry.NewScopedAPI("florida", tel),
		indexUrl: indexUrl,
	}
}

// FetchIndex reads the listing page and returns every pdf whose aria-label
// names a monthly report.
func (s Scraper) FetchIndex(ctx context.Context) (Index, error) {
	ctx, span := tracer.Start(ctx, "FetchIndex")
	defer span.End()

	doc, pageUrl, err := s.client.Document(ctx, s.indexUrl)
	if err != nil {
		s.tel.ReportBroken(report_scraper_index, err)
		return Index{}, fmt.Errorf("florida index: %w", err)
	}

	var index Index
	for _, anchor := range htmlutil.GetAnchors(ctx, pageUrl, doc.Find("a")) {
		if !anchor.HasExtension(".pdf") {
			continue
		}
		label := strings.ToLower(anchor.AriaLabel)
		if !strings.Contains(label, "report") {
			continue
		}

		key, err := period.ParseReportLabel(label)
		if err != nil {
			s.tel.ReportWarning(report_scraper_label, err, anchor.Href)
			index.Skipped = append(index.Skipped, Skipped{Label: anchor.AriaLabel, URL: anchor.Href, Err: err})
			continue
		}
		index.Reports = append(index.Reports, Report{Key: key, URL: anchor.Href, Label: anchor.AriaLabel})
	}

	span.SetAttributes(
		attribute.Int("reports", len(index.Reports)),
		attribute.Int("skipped", len(index.Skipped)),
	)
	s.tel.ReportCount("reports", int64(len(index.Reports)))
	return index, nil
}
