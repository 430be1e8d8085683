// Package fetch is the http client shared by every scraper.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"jailpop/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_get      = "client.get"
	report_client_document = "client.document"
)

// DefaultUserAgent is sent on every request, some of the dashboards refuse the go default.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/101.0.4951.64 Safari/537.36"

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond caps the request rate of the client, <= 0 means unlimited.
	RequestsPerSecond float64
	CloudflareBypass  bool
	// Dump, when not nil, receives every request/response pair.
	Dump telemetry.MessageOutput
}

// StatusError is returned by Document for non 2xx responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(tel telemetry.API, opts Options) *Client {
	tel = telemetry.NewScopedAPI("fetch", tel)

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient.SetHeader("user-agent", userAgent)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	rateLimiter := rate.NewLimiter(limit, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel, opts.Dump)

	return &Client{http: httpClient, tel: tel}
}

// Get fetches a url, non 2xx responses are returned without an error so callers
// can decide whether to skip them.
func (c *Client) Get(ctx context.Context, link string) (*resty.Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		c.tel.ReportBroken(report_client_get, fmt.Errorf("GET %s: %w", link, err))
		return nil, err
	}
	return res, nil
}

// Document fetches a page and parses it as html, it returns the final url of the
// page for resolving relative links.
func (c *Client) Document(ctx context.Context, link string) (*goquery.Document, *url.URL, error) {
	res, err := c.Get(ctx, link)
	if err != nil {
		return nil, nil, err
	}
	if !res.IsSuccess() {
		err = &StatusError{URL: link, Status: res.StatusCode()}
		c.tel.ReportBroken(report_client_document, err)
		return nil, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_document, fmt.Errorf("parse %s: %w", link, err))
		return nil, nil, err
	}

	pageUrl, err := url.Parse(link)
	if err != nil {
		return nil, nil, err
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		pageUrl = res.RawResponse.Request.URL
	}
	return doc, pageUrl, nil
}
