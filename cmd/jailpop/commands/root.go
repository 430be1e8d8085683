package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"jailpop/internal/components/chrono"
	"jailpop/internal/components/telemetry"
	"jailpop/internal/fetch"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// environment is everything a command needs, built once the flags are parsed.
type environment struct {
	config Config
	tel    telemetry.API
	clock  chrono.API
	client *fetch.Client
	otel   telemetry.Telemetry
}

var env environment

var (
	configPath *string
	verbose    *bool
	dumpHttp   *string
)

var rootCmd = &cobra.Command{
	Use:   "jailpop",
	Short: "jailpop collects jail population reports and builds facility lookup tables.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)

		config, err := LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		otel, err := telemetry.Setup(cmd.Context(), "jailpop", config.Otlp)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		if otel.MeterProvider != nil {
			telemetry.InstrumentPerfStats(cmd.Context(), time.Second*30)
		}

		clock, err := chrono.NewStandardImpl(config.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		tel := telemetry.SlogAPI{}
		opts := config.Http.Options()
		if *dumpHttp != "" {
			output, err := telemetry.NewDirectoryOutput(*dumpHttp)
			if err != nil {
				return fmt.Errorf("http dump directory: %w", err)
			}
			opts.Dump = output
		}

		env = environment{
			config: config,
			tel:    tel,
			clock:  clock,
			client: fetch.NewClient(tel, opts),
			otel:   otel,
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "jailpop.json5", "The config file, <name>.local.json5 next to it overrides it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages.")
	dumpHttp = rootCmd.PersistentFlags().String("dump-http", "", "Write every http request/response to this directory.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := env.otel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	shutdownTelemetry()
	os.Exit(1)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// flagOr returns the flag's value, or fallback when the flag was not given.
func flagOr(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		fatal("read flag "+name, err)
	}
	return value
}
