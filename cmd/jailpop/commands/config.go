package commands

import (
	"time"

	"jailpop/internal/components/telemetry"
	"jailpop/internal/components/throttle"
	"jailpop/internal/fetch"
	"jailpop/internal/scrapers/florida"
	"jailpop/internal/scrapers/stlouis"
	"jailpop/internal/scrapers/tcjs"
	"jailpop/pkg/configutil"
)

type HttpConfig struct {
	UserAgent         string  `json:"user_agent"`
	TimeoutSeconds    float64 `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
}

type DelayConfig struct {
	MinSeconds float64 `json:"min_seconds"`
	MaxSeconds float64 `json:"max_seconds"`
}

func (c DelayConfig) Delay() throttle.Delay {
	return throttle.FromSeconds(c.MinSeconds, c.MaxSeconds)
}

type LookupConfig struct {
	Input string `json:"input"`
	Out   string `json:"out"`
}

type FloridaConfig struct {
	IndexURL   string      `json:"index_url"`
	Out        string      `json:"out"`
	Delay      DelayConfig `json:"delay"`
	VerifyPDFs bool        `json:"verify_pdfs"`
}

type TCJSConfig struct {
	UploadsPrefix string      `json:"uploads_prefix"`
	HistoricalURL string      `json:"historical_url"`
	CurrentOut    string      `json:"current_out"`
	HistoricalOut string      `json:"historical_out"`
	FirstYear     int         `json:"first_year"`
	Delay         DelayConfig `json:"delay"`
	VerifyPDFs    bool        `json:"verify_pdfs"`
}

type StLouisConfig struct {
	DashboardURL string         `json:"dashboard_url"`
	SnapshotDir  string         `json:"snapshot_dir"`
	ExportPath   string         `json:"export_path"`
	FirstYear    int            `json:"first_year"`
	Delay        DelayConfig    `json:"delay"`
	FacilityIDs  map[string]int `json:"facility_ids"`
}

type Config struct {
	// Timezone decides what "today" is for the current-report and harvest commands.
	Timezone string               `json:"timezone"`
	Http     HttpConfig           `json:"http"`
	Lookup   LookupConfig         `json:"lookup"`
	Florida  FloridaConfig        `json:"florida"`
	TCJS     TCJSConfig           `json:"tcjs"`
	StLouis  StLouisConfig        `json:"stlouis"`
	Otlp     telemetry.OtlpConfig `json:"otlp"`
}

func DefaultConfig() Config {
	facilityIDs := make(map[string]int, len(stlouis.DefaultFacilityIDs))
	for name, id := range stlouis.DefaultFacilityIDs {
		facilityIDs[name] = id
	}

	return Config{
		Timezone: "America/Chicago",
		Http: HttpConfig{
			UserAgent:         fetch.DefaultUserAgent,
			TimeoutSeconds:    60,
			RequestsPerSecond: 1,
		},
		Lookup: LookupConfig{
			Input: "38323-0001-Data.tsv",
			Out:   ".",
		},
		Florida: FloridaConfig{
			IndexURL: florida.DefaultIndexURL,
			Out:      "data/florida",
			Delay:    DelayConfig{MinSeconds: 3, MaxSeconds: 6},
		},
		TCJS: TCJSConfig{
			UploadsPrefix: tcjs.DefaultUploadsPrefix,
			HistoricalURL: tcjs.DefaultHistoricalURL,
			CurrentOut:    "data/tcjs/current",
			HistoricalOut: "data/tcjs/historical",
			FirstYear:     tcjs.DefaultFirstYear,
			Delay:         DelayConfig{MinSeconds: 3, MaxSeconds: 6},
		},
		StLouis: StLouisConfig{
			DashboardURL: stlouis.DefaultDashboardURL,
			SnapshotDir:  "data/stlouis",
			ExportPath:   "inmate_population_snapshots.csv",
			FirstYear:    stlouis.DefaultFirstYear,
			Delay:        DelayConfig{MinSeconds: 1, MaxSeconds: 3},
			FacilityIDs:  facilityIDs,
		},
	}
}

// LoadConfig reads the config file and its local override on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return configutil.Load(path, DefaultConfig())
}

func (c HttpConfig) Options() fetch.Options {
	return fetch.Options{
		UserAgent:         c.UserAgent,
		Timeout:           time.Duration(c.TimeoutSeconds * float64(time.Second)),
		RequestsPerSecond: c.RequestsPerSecond,
		CloudflareBypass:  c.CloudflareBypass,
	}
}
