// Command nflweek loads one NFL week from ESPN and prints games, teams and
// standings as JSON. Logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/nfl-league/external/espn"
	"github.com/riskibarqy/nfl-league/internal/config"
	"github.com/riskibarqy/nfl-league/internal/domain/nfl"
	"github.com/riskibarqy/nfl-league/internal/metrics"
	"github.com/riskibarqy/nfl-league/internal/observability"
	"github.com/riskibarqy/nfl-league/internal/platform/debugdump"
	"github.com/riskibarqy/nfl-league/internal/platform/logging"
	"github.com/riskibarqy/nfl-league/internal/platform/resilience"
	"github.com/riskibarqy/nfl-league/internal/usecase"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("nflweek", flag.ContinueOnError)
	flags.SetOutput(stderr)
	week := flags.Int("week", 0, "week to load, 1-18 regular season and 19-22 postseason (overrides NFL_WEEK)")
	resource := flags.String("resource", resourceAll, "games, teams, standings or all")
	envFile := flags.String("env-file", ".env", "dotenv file read before the environment")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if !validResource(*resource) {
		fmt.Fprintf(stderr, "unknown -resource %q: use games, teams, standings or all\n", *resource)
		return exitUsage
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "load %s: %v\n", *envFile, err)
		return exitError
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitError
	}
	if *week != 0 {
		cfg.Week = *week
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "invalid -week: %v\n", err)
			return exitUsage
		}
	}

	logger, flushLogs, err := observability.InitLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return exitError
	}
	logging.SetDefault(logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := flushLogs(flushCtx); err != nil {
			fmt.Fprintf(stderr, "flush logs: %v\n", err)
		}
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return exitError
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	report, err := loadWeek(ctx, cfg, *resource, logger, m)
	if err != nil {
		logger.ErrorContext(ctx, "load week failed", "week", cfg.Week, "resource", *resource, "error", err)
		return exitError
	}

	encoder := sonic.ConfigStd.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		logger.Error("encode report", "error", err)
		return exitError
	}

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, registry); err != nil {
			logger.Warn("write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}
	return exitOK
}

func loadWeek(ctx context.Context, cfg config.Config, resource string, logger *logging.Logger, m *metrics.Metrics) (Report, error) {
	ctx, span := otel.Tracer("nfl-league/cmd/nflweek").Start(ctx, "nflweek.loadWeek")
	defer span.End()
	span.SetAttributes(attribute.Int("nfl.week", cfg.Week), attribute.String("nfl.resource", resource))

	client := espn.NewClient(espn.ClientConfig{
		SiteBaseURL:      cfg.ESPNSiteBaseURL,
		StandingsBaseURL: cfg.ESPNStandingsBaseURL,
		CoreBaseURL:      cfg.ESPNCoreBaseURL,
		Timeout:          cfg.ESPNTimeout,
		Logger:           logger.Named("espn"),
		Metrics:          m,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	opts := []usecase.SessionOption{usecase.WithLogger(logger.With("week", cfg.Week))}
	if cfg.SourceDir != "" {
		data, err := usecase.LoadDumpedSource(cfg.SourceDir, cfg.Week)
		if err != nil {
			return Report{}, fmt.Errorf("replay %s: %w", cfg.SourceDir, err)
		}
		logger.Info("replaying dumped payloads", "dir", cfg.SourceDir, "week", cfg.Week)
		opts = append(opts, usecase.WithSourceData(data))
	}
	if cfg.DebugDir != "" {
		opts = append(opts, usecase.WithDebugDump(debugdump.NewWriter(cfg.DebugDir)))
	}
	if cfg.BestEffort {
		opts = append(opts, usecase.WithBestEffort())
	}

	session, err := usecase.NewLeagueSession(cfg.Week, client, opts...)
	if err != nil {
		return Report{}, err
	}
	report, err := buildReport(ctx, session, resource)
	if err != nil {
		return Report{}, err
	}

	m.SetLoaded("game", len(report.Games))
	m.SetLoaded("team", len(report.Teams))
	m.SetLoaded("standing", len(report.Standings))
	for _, problem := range session.Problems() {
		var recordErr *nfl.MalformedRecordError
		if errors.As(problem, &recordErr) {
			m.RecordSkipped(recordErr.Kind)
		}
	}
	return report, nil
}
