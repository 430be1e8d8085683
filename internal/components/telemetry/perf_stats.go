package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
)

var perfMeter = otel.Meter("jailpop.perf_stats")
var cpuGauge, _ = perfMeter.Float64Gauge("process.cpu_percent")
var rssGauge, _ = perfMeter.Int64Gauge("process.rss_mb")
var goroutineGauge, _ = perfMeter.Int64Gauge("process.goroutines")

// PerfSample is a single reading of this process's resource usage.
type PerfSample struct {
	CPUPercent float64
	RssMB      int64
	Goroutines int
}

// SamplePerf reads the current resource usage of this process.
func SamplePerf(ctx context.Context) (PerfSample, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return PerfSample{}, err
	}
	cpu, err := proc.PercentWithContext(ctx, 0)
	if err != nil {
		return PerfSample{}, err
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return PerfSample{}, err
	}
	return PerfSample{
		CPUPercent: cpu,
		RssMB:      int64(mem.RSS / 1_000_000),
		Goroutines: runtime.NumGoroutine(),
	}, nil
}

// InstrumentPerfStats records process gauges every interval until ctx is done,
// harvests of a few hundred pages run long enough for this to be useful.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sample, err := SamplePerf(ctx)
				if err != nil {
					slog.Debug("failed to sample process stats", "err", err)
					continue
				}
				cpuGauge.Record(ctx, sample.CPUPercent)
				rssGauge.Record(ctx, sample.RssMB)
				goroutineGauge.Record(ctx, int64(sample.Goroutines))
			case <-ctx.Done():
				return
			}
		}
	}()
}
