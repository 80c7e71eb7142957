package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"

	"github.com/okian/possession/internal/adapters/report"
	"github.com/okian/possession/internal/adapters/repository"
	"github.com/okian/possession/internal/adapters/tsv"
	app "github.com/okian/possession/internal/app"
	"github.com/okian/possession/internal/config"
	"github.com/okian/possession/internal/domain/dedupe"
	"github.com/okian/possession/pkg/logger"
	"github.com/okian/possession/pkg/metrics"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2

	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one batch and returns the process exit code.
func run(ctx context.Context, stderr io.Writer) int {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return exitConfig
	}

	if err := logger.InitWithOptions(cfg.LogFormat, stderr); err != nil {
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitConfig
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	rep, err := runBatch(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "batch failed", logger.Error(err))
		return exitFailed
	}
	if rep.AllFailed() {
		log.Error(ctx, "no game could be rated", logger.Int("games", rep.Games))
		return exitFailed
	}
	return exitOK
}

func runBatch(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Report, error) {
	ds, err := tsv.Load(ctx, tsv.Paths{
		EventCodes: cfg.EventCodesPath,
		Lineups:    cfg.LineupPath,
		PlayByPlay: cfg.PlayByPlayPath,
	}, dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.DedupeSize)))
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	var (
		store  repository.Store = repository.NewMemoryStore()
		sqlite *repository.SQLiteStore
	)
	if cfg.SQLitePath != "" {
		sqlite, err = repository.OpenSQLite(ctx, cfg.SQLitePath, repository.WithRunID(runID))
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = sqlite.Close()
		}()
		store = repository.NewMultiStore(store, sqlite)
		log.Info(ctx, "writing run to sqlite", logger.String("path", cfg.SQLitePath))
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithStore(store),
		app.WithPossessionDump(cfg.DumpPossessions),
		app.WithRunID(runID),
	)
	rep, err := svc.Run(ctx, ds)
	if err != nil {
		return nil, err
	}

	for _, f := range rep.Failures {
		log.Warn(ctx, "game skipped", logger.String("game", f.GameID), logger.Error(f.Err))
	}
	if sqlite != nil {
		if err := sqlite.FinishRun(ctx, rep.Games, len(rep.Failures)); err != nil {
			return nil, err
		}
	}
	if err := report.WriteFile(cfg.OutputPath, rep.Rows); err != nil {
		return nil, err
	}
	log.Info(ctx, "ratings written",
		logger.String("path", cfg.OutputPath),
		logger.Int("rows", len(rep.Rows)),
	)

	recordSystemMetrics(rep)
	if cfg.MetricsPath != "" {
		if err := metrics.WriteTextfile(cfg.MetricsPath); err != nil {
			return nil, err
		}
	}
	return &rep, nil
}

// recordSystemMetrics snapshots process metrics at the end of the batch.
func recordSystemMetrics(rep app.Report) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
	metrics.RecordBatchDuration(rep.Duration.Seconds())
}
