// Package stlouis harvests the daily inmate population dashboard of the City of
// St. Louis, one snapshot per month, and flattens the snapshots into a csv.
package stlouis

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"jailpop/internal/components/chrono"
	"jailpop/internal/components/telemetry"
	"jailpop/internal/components/throttle"
	"jailpop/internal/fetch"
	"jailpop/internal/period"
	"jailpop/pkg/osutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultDashboardURL = "https://www.stlouis-mo.gov/data/dashboards/inmates/by-day.cfm"
	DefaultFirstYear    = 2000
)

const (
	report_harvester_fetch = "harvester.fetch"
	report_harvester_parse = "harvester.parse"
)

var tracer = otel.Tracer("jailpop.internal.scrapers.stlouis")

type HarvestOptions struct {
	DashboardURL string
	Dir          string
	FirstYear    int
	Delay        throttle.Delay
}

type Harvester struct {
	client *fetch.Client
	tel    telemetry.API
	clock  chrono.API
	opts   HarvestOptions
}

func NewHarvester(client *fetch.Client, tel telemetry.API, clock chrono.API, opts HarvestOptions) Harvester {
	if opts.DashboardURL == "" {
		opts.DashboardURL = DefaultDashboardURL
	}
	if opts.FirstYear == 0 {
		opts.FirstYear = DefaultFirstYear
	}
	return Harvester{
		client: client,
		tel:    telemetry.NewScopedAPI("stlouis", tel),
		clock:  clock,
		opts:   opts,
	}
}

// dashboardFilters are sent in this order after the date, source urls in the
// exported csv keep the order the dashboard itself uses.
var dashboardFilters = []string{"race", "sex", "employment", "maritalStatus", "topCharge"}

// DashboardURL is the by-day dashboard for a date with every filter set to "all".
func (h Harvester) DashboardURL(day period.Key) string {
	var query strings.Builder
	query.WriteString("date=")
	query.WriteString(url.QueryEscape(day.Time().Format("01/02/2006")))
	for _, filter := range dashboardFilters {
		query.WriteString("&")
		query.WriteString(filter)
		query.WriteString("=all")
	}
	return h.opts.DashboardURL + "?" + query.String()
}

// Periods returns the last day of every month from January of FirstYear up to the
// last month that has fully elapsed.
func (h Harvester) Periods() []period.Key {
	now := h.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var keys []period.Key
	for year := h.opts.FirstYear; year <= now.Year(); year++ {
		for month := time.January; month <= time.December; month++ {
			key := period.LastDayOfMonth(year, month)
			if !key.Time().Before(today) {
				return keys
			}
			keys = append(keys, key)
		}
	}
	return keys
}

func (h Harvester) Path(day period.Key) string {
	return filepath.Join(h.opts.Dir, day.Filename(".json"))
}

type HarvestResult struct {
	Fetched []period.Key
	Skipped []period.Key
}

// Run fetches every period whose snapshot is not on disk yet. Any failure stops the
// run, already written snapshots stay and are skipped by the next run.
func (h Harvester) Run(ctx context.Context) (HarvestResult, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var result HarvestResult
	for _, day := range h.Periods() {
		exists, err := osutil.Exists(h.Path(day))
		if err != nil {
			return result, err
		}
		if exists {
			result.Skipped = append(result.Skipped, day)
			continue
		}

		err = h.harvest(ctx, day)
		if err != nil {
			return result, err
		}
		result.Fetched = append(result.Fetched, day)
	}

	span.SetAttributes(
		attribute.Int("fetched", len(result.Fetched)),
		attribute.Int("skipped", len(result.Skipped)),
	)
	h.tel.ReportCount("snapshots_fetched", int64(len(result.Fetched)))
	return result, nil
}

func (h Harvester) harvest(ctx context.Context, day period.Key) error {
	link := h.DashboardURL(day)
	h.tel.ReportDebug("fetching snapshot", day.String(), link)

	doc, _, err := h.client.Document(ctx, link)
	if err != nil {
		h.tel.ReportBroken(report_harvester_fetch, err, day.String())
		return fmt.Errorf("snapshot %s: %w", day, err)
	}

	pause, err := h.opts.Delay.Wait(ctx)
	if err != nil {
		return err
	}
	h.tel.ReportDebug("sleeping between snapshots", pause.String())

	snapshot, err := ParseSnapshot(doc, link, day.String())
	if err != nil {
		h.tel.ReportBroken(report_harvester_parse, err, day.String())
		return fmt.Errorf("snapshot %s: %w", day, err)
	}

	return osutil.WriteJSON(h.Path(day), snapshot)
}
