// Package download saves report pdfs to disk one at a time with a politeness
// delay between downloads.
package download

import (
	"context"
	"fmt"
	"path/filepath"

	"jailpop/internal/components/telemetry"
	"jailpop/internal/components/throttle"
	"jailpop/internal/fetch"
	"jailpop/internal/period"
	"jailpop/pkg/osutil"
	"jailpop/pkg/pdfutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	report_downloader_fetch  = "downloader.fetch"
	report_downloader_verify = "downloader.verify"
	report_downloader_status = "downloader.status"
)

var tracer = otel.Tracer("jailpop.internal.scrapers.download")

// Item is a single pdf to fetch.
type Item struct {
	Key period.Key
	URL string
}

type Status string

const (
	StatusSaved   Status = "saved"
	StatusExists  Status = "exists"
	StatusFailed  Status = "failed"
	StatusInvalid Status = "invalid"
)

type Result struct {
	Item   Item
	Path   string
	Status Status
	// HTTP status code, 0 when no request was made
	Code  int
	Pages int
}

type Options struct {
	Dir   string
	Delay throttle.Delay
	// Force downloads items whose file already exists.
	Force bool
	// VerifyPDF rejects bodies pdfcpu cannot read.
	VerifyPDF bool
}

type Downloader struct {
	client *fetch.Client
	tel    telemetry.API
	opts   Options
}

func NewDownloader(client *fetch.Client, tel telemetry.API, opts Options) Downloader {
	return Downloader{client: client, tel: tel, opts: opts}
}

// Run downloads every item in order. Non 2xx responses and invalid pdfs are
// recorded in the results and skipped, transport errors and cancellation stop the run.
func (d Downloader) Run(ctx context.Context, items []Item) ([]Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.Int("items", len(items)))

	var results []Result
	var saved int64
	for _, item := range items {
		result, err := d.one(ctx, item)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if result.Status != StatusSaved {
			continue
		}
		saved++

		pause, err := d.opts.Delay.Wait(ctx)
		if err != nil {
			return results, err
		}
		d.tel.ReportDebug("sleeping between downloads", pause.String())
	}

	d.tel.ReportCount("downloaded", saved)
	return results, nil
}

func (d Downloader) one(ctx context.Context, item Item) (Result, error) {
	path := filepath.Join(d.opts.Dir, item.Key.Filename(".pdf"))
	result := Result{Item: item, Path: path}

	if !d.opts.Force {
		exists, err := osutil.Exists(path)
		if err != nil {
			return result, err
		}
		if exists {
			result.Status = StatusExists
			return result, nil
		}
	}

	res, err := d.client.Get(ctx, item.URL)
	if err != nil {
		d.tel.ReportBroken(report_downloader_fetch, err, item.URL)
		return result, fmt.Errorf("download %s: %w", item.URL, err)
	}
	result.Code = res.StatusCode()
	if !res.IsSuccess() {
		d.tel.ReportWarning(report_downloader_status, res.StatusCode(), item.URL)
		result.Status = StatusFailed
		return result, nil
	}

	body := res.Body()
	if d.opts.VerifyPDF {
		pages, err := pdfutil.PageCount(body)
		if err != nil {
			d.tel.ReportWarning(report_downloader_verify, err, item.URL)
			result.Status = StatusInvalid
			return result, nil
		}
		result.Pages = pages
	}

	err = osutil.WriteFileAtomic(path, body)
	if err != nil {
		return result, fmt.Errorf("write %s: %w", path, err)
	}
	d.tel.ReportDebug("saved report", path, item.URL)
	result.Status = StatusSaved
	return result, nil
}
