// Package tcjs scrapes the abbreviated population reports of the Texas
// Commission on Jail Standards.
package tcjs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jailpop/internal/components/chrono"
	"jailpop/internal/components/telemetry"
	"jailpop/internal/fetch"
	"jailpop/internal/period"
	"jailpop/internal/scrapers/download"
	"jailpop/pkg/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultUploadsPrefix  = "https://www.tcjs.state.tx.us/wp-content/uploads"
	DefaultHistoricalURL  = "https://www.tcjs.state.tx.us/historical-population-reports/"
	DefaultFirstYear      = 2020
	currentReportFilename = "AbbreRptCurrent.pdf"
)

const (
	report_scraper_historical = "scraper.historical"
	report_scraper_href       = "scraper.href"
)

var tracer = otel.Tracer("jailpop.internal.scrapers.tcjs")

type Options struct {
	UploadsPrefix string
	HistoricalURL string
	// FirstYear is the oldest year tried by Current, reports before 2020 were
	// never found under the current-report url.
	FirstYear int
}

type Scraper struct {
	client *fetch.Client
	tel    telemetry.API
	clock  chrono.API
	opts   Options
}

func NewScraper(client *fetch.Client, tel telemetry.API, clock chrono.API, opts Options) Scraper {
	if opts.UploadsPrefix == "" {
		opts.UploadsPrefix = DefaultUploadsPrefix
	}
	opts.UploadsPrefix = strings.TrimSuffix(opts.UploadsPrefix, "/")
	if opts.HistoricalURL == "" {
		opts.HistoricalURL = DefaultHistoricalURL
	}
	if opts.FirstYear == 0 {
		opts.FirstYear = DefaultFirstYear
	}
	return Scraper{
		client: client,
		tel:    telemetry.NewScopedAPI("tcjs", tel),
		clock:  clock,
		opts:   opts,
	}
}

// CurrentReportURL is where the report uploaded in a given month lives, the
// report is a snapshot as of the first day of that month.
func (s Scraper) CurrentReportURL(key period.Key) string {
	return fmt.Sprintf("%s/%04d/%02d/%s", s.opts.UploadsPrefix, key.Year, int(key.Month), currentReportFilename)
}

// Current lists every month that may have a current-report upload: this year up to
// the current month, then every month of each past year back to FirstYear.
func (s Scraper) Current() []download.Item {
	now := s.clock.Now()

	var items []download.Item
	for month := time.January; month <= now.Month(); month++ {
		key := period.Month(now.Year(), month)
		items = append(items, download.Item{Key: key, URL: s.CurrentReportURL(key)})
	}
	for year := now.Year() - 1; year >= s.opts.FirstYear; year-- {
		for month := time.January; month <= time.December; month++ {
			key := period.Month(year, month)
			items = append(items, download.Item{Key: key, URL: s.CurrentReportURL(key)})
		}
	}
	return items
}

// Skipped is a historical link whose period could not be derived.
type Skipped struct {
	URL string
	Err error
}

// Historical reads the historical reports page, links are uploads opened in a new tab.
func (s Scraper) Historical(ctx context.Context) ([]download.Item, []Skipped, error) {
	ctx, span := tracer.Start(ctx, "Historical")
	defer span.End()

	doc, pageUrl, err := s.client.Document(ctx, s.opts.HistoricalURL)
	if err != nil {
		s.tel.ReportBroken(report_scraper_historical, err)
		return nil, nil, fmt.Errorf("tcjs historical index: %w", err)
	}

	var items []download.Item
	var skipped []Skipped
	for _, anchor := range htmlutil.GetAnchors(ctx, pageUrl, doc.Find("a")) {
		if !strings.HasPrefix(anchor.Href, s.opts.UploadsPrefix) || anchor.Target != "_blank" {
			continue
		}
		key, err := period.ParseTCJSHref(anchor.Href)
		if err != nil {
			s.tel.ReportWarning(report_scraper_href, err)
			skipped = append(skipped, Skipped{URL: anchor.Href, Err: err})
			continue
		}
		items = append(items, download.Item{Key: key, URL: anchor.Href})
	}

	span.SetAttributes(attribute.Int("reports", len(items)), attribute.Int("skipped", len(skipped)))
	s.tel.ReportCount("historical_reports", int64(len(items)))
	return items, skipped, nil
}
