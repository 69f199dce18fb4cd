// Package main is a simple example app to write logs to see log rotation in action.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golift.io/logrotatorr"
	"golift.io/logrotatorr/interval"
	"golift.io/logrotatorr/metrics"
)

// ///////////////////////////////////////////////////////////////////////// //

/* This is a simple example app to write logs to see log rotation in action. */

// Usage, timestamp names and compression:
//   go run ./cmd/exampleapp time --compress gzip
//
// Usage, classical numbered files no compression:
//   go run ./cmd/exampleapp int
//
// Usage, classical numbered files, rotate every everyInterval:
//   go run ./cmd/exampleapp every
//
// Usage, everything from a file, with metrics:
//   go run ./cmd/exampleapp time --config app.yaml --metrics 127.0.0.1:9100

const (
	bytesPerLogLine = 5000
	timeBetweenLogs = time.Millisecond * 5
	everyInterval   = "2s"
	fileCount       = 10
)

// ///////////////////////////////////////////////////////////////////////// //

type flags struct {
	config   string
	compress string
	metrics  string
	verbose  bool
}

func main() {
	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	flags := &flags{}

	root := &cobra.Command{
		Use:          "exampleapp",
		Short:        "Write fake logs to see log rotation in action",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&flags.compress, "compress", "", "gzip, or a shell command with ${src} and ${dst}")
	root.PersistentFlags().StringVar(&flags.metrics, "metrics", "", "listen address for Prometheus metrics")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print every rotation event")

	root.AddCommand(
		&cobra.Command{
			Use:   "time",
			Short: "Rotate by size into time-stamped files",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), flags, func(*Config) {})
			},
		},
		&cobra.Command{
			Use:   "int",
			Short: "Rotate by size into numbered files",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), flags, func(c *Config) { c.Rotate = fileCount })
			},
		},
		&cobra.Command{
			Use:   "every",
			Short: "Rotate every " + everyInterval + " into numbered files",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), flags, func(c *Config) {
					c.Rotate, c.Size, c.Interval = fileCount, 0, interval.MustParse(everyInterval)
				})
			},
		},
		&cobra.Command{
			Use:   "immutable",
			Short: "Write every " + everyInterval + " into a new time-stamped file",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), flags, func(c *Config) {
					c.Immutable, c.Interval = true, interval.MustParse(everyInterval)
				})
			},
		},
	)

	return root
}

// run builds a logger from the config file, the flags and the mode, then writes logs until interrupted.
func run(ctx context.Context, flags *flags, mode func(*Config)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(flags.config)
	if err != nil {
		return err
	}

	mode(config)

	if flags.compress != "" {
		config.Compress = flags.compress
	}

	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}

	rotator := config.rotator()
	rotator.Observer = &logrotatorr.SlogObserver{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}

	if flags.metrics != "" {
		if rotator.Observer, err = serveMetrics(ctx, flags.metrics, rotator.Observer); err != nil {
			return err
		}
	}

	logger, err := logrotatorr.New(rotator)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	log.SetFlags(log.LstdFlags)
	log.SetOutput(logger)

	err = makeLogs(ctx)
	if cerr := logger.Close(); err == nil {
		err = cerr
	}

	return err
}

// serveMetrics exposes the rotation metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string, next logrotatorr.Observer) (logrotatorr.Observer, error) {
	registry := prometheus.NewRegistry()

	stats, err := metrics.New(registry, "exampleapp", next)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	return stats, nil
}

// Write fake logs!
func makeLogs(ctx context.Context) error {
	logLine := string(bytes.Repeat([]byte{'_'}, bytesPerLogLine))

	ticker := time.NewTicker(timeBetweenLogs)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-ticker.C:
			fmt.Print(".")

			if err := log.Output(0, logLine); err != nil {
				return fmt.Errorf("writing log line: %w", err)
			}
		}
	}
}
