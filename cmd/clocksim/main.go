// Command clocksim replays a generated key access pattern against
// several cache replacement policies and reports their hit rates.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"github.com/djdv/go-clock/internal/workload"
)

type (
	config struct {
		capacity, length int
		seed             int64
		pattern          string
		policies         string
		metrics, verbose bool
	}
	outcome struct {
		policy string
		workload.Result
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var (
		cfg   config
		flags = flag.NewFlagSet("clocksim", flag.ContinueOnError)
	)
	flags.SetOutput(stderr)
	flags.IntVar(&cfg.capacity, "capacity", 512, "Number of entries each cache holds")
	flags.IntVar(&cfg.length, "length", 1<<16, "Accesses to replay (rounded up to a power of two)")
	flags.Int64Var(&cfg.seed, "seed", workload.DefaultSeed, "Seed for randomized patterns")
	flags.StringVar(&cfg.pattern, "pattern", "zipf", "Access pattern: sequential, loop, zipf or uniform")
	flags.StringVar(&cfg.policies, "policies", strings.Join(policyNames(), ","), "Comma separated policies to compare")
	flags.BoolVar(&cfg.metrics, "metrics", false, "Print OpenTelemetry metrics of the clock policies to stdout")
	flags.BoolVar(&cfg.verbose, "v", false, "Log debug messages")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.capacity < 1 {
		return cfg, fmt.Errorf("-capacity must be positive, got %d", cfg.capacity)
	}
	if cfg.length < 1 {
		return cfg, fmt.Errorf("-length must be positive, got %d", cfg.length)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	pattern, err := workload.Lookup(cfg.pattern, cfg.length, cfg.seed)
	if err != nil {
		return err
	}
	selected, err := selectPolicies(cfg.policies)
	if err != nil {
		return err
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if cfg.verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	var meter metric.Meter = noop.NewMeterProvider().Meter("")
	if cfg.metrics {
		var provider *sdkmetric.MeterProvider
		if provider, err = newMeterProvider(stdout); err != nil {
			return err
		}
		defer func() {
			// Shutdown flushes the final collection to the exporter.
			err = errors.Join(err, provider.Shutdown(context.Background()))
		}()
		meter = provider.Meter("github.com/djdv/go-clock/cmd/clocksim")
	}

	level.Debug(logger).Log("msg", "generating sequence",
		"pattern", pattern.Name, "capacity", cfg.capacity, "length", cfg.length)
	sequence := pattern.Generate(cfg.capacity)

	outcomes, err := replayAll(ctx, selected, cfg.capacity, meter, sequence)
	if err != nil {
		return err
	}
	results := log.NewLogfmtLogger(stdout)
	for _, o := range outcomes {
		if err := results.Log(
			"policy", o.policy,
			"pattern", pattern.Name,
			"capacity", cfg.capacity,
			"hits", o.Hits,
			"misses", o.Misses,
			"hit_rate_pct", fmt.Sprintf("%.2f", o.HitRate()),
		); err != nil {
			return err
		}
	}
	level.Info(logger).Log("msg", "replay complete", "policies", len(outcomes))
	return nil
}

// replayAll runs every policy over the same sequence concurrently.
// Each cache is created and used by a single goroutine.
func replayAll(
	ctx context.Context, selected []policy,
	capacity int, meter metric.Meter, sequence []int,
) ([]outcome, error) {
	outcomes := make([]outcome, len(selected))
	group, ctx := errgroup.WithContext(ctx)
	for i, p := range selected {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cache, err := p.new(capacity, meter)
			if err != nil {
				return fmt.Errorf("%s: %w", p.name, err)
			}
			outcomes[i] = outcome{
				policy: p.name,
				Result: workload.Replay(cache, sequence),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func newMeterProvider(w io.Writer) (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(w),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}
