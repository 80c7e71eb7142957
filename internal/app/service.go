// Package service runs a rating batch: it splits the dataset into games,
// rates them on a worker pool and collects the outcome from the store.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/possession/internal/adapters/mq/queue"
	workerpool "github.com/okian/possession/internal/adapters/mq/worker"
	repository "github.com/okian/possession/internal/adapters/repository"
	"github.com/okian/possession/internal/adapters/tsv"
	"github.com/okian/possession/internal/domain/catalog"
	"github.com/okian/possession/internal/domain/game"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/logger"
	"github.com/okian/possession/pkg/metrics"
)

// Report is the outcome of one batch.
type Report struct {
	RunID    string
	Games    int
	Rows     []model.RatingRow
	Failures []model.GameFailure
	Duration time.Duration
}

// AllFailed reports whether the batch had games and none of them was rated.
func (r *Report) AllFailed() bool {
	return r.Games > 0 && len(r.Failures) == r.Games
}

// Service rates every game of a dataset.
type Service struct {
	mu sync.Mutex

	// Core components
	store     repository.Store
	processor workerpool.Processor

	// Configuration
	workerCount int
	queueSize   int
	dump        bool
	runID       string

	// State
	running bool
	last    *Report

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of games rated in parallel.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the game queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets where results and failures are written. A fresh memory
// store is used for each run otherwise.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithProcessor replaces the game processor built from the dataset's event
// codes.
func WithProcessor(p workerpool.Processor) Option {
	return func(s *Service) {
		s.processor = p
	}
}

// WithPossessionDump logs every possession at debug level.
func WithPossessionDump(enabled bool) Option {
	return func(s *Service) {
		s.dump = enabled
	}
}

// WithRunID fixes the id reported for the run.
func WithRunID(id string) Option {
	return func(s *Service) {
		s.runID = id
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   4096,
		logger:      nil, // resolved on first run
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run rates every game in ds. A game that cannot be rated is reported in
// Report.Failures and does not stop the batch; the returned error is only
// set when the batch itself could not run.
func (s *Service) Run(ctx context.Context, ds tsv.Dataset) (Report, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Report{}, ErrAlreadyRunning
	}
	s.running = true
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	start := time.Now()
	runID := s.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	processor := s.processor
	if processor == nil {
		cat, err := catalog.New(ds.Codes)
		if err != nil {
			return Report{}, fmt.Errorf("build event catalog: %w", err)
		}
		processor = game.NewProcessor(cat, game.WithPossessionDump(s.dump))
	}
	store := s.store
	if store == nil {
		store = repository.NewMemoryStore()
	}

	games := game.GroupByGame(ds.Events, ds.Lineups)
	s.logger.Info(ctx, "starting batch",
		logger.String("run_id", runID),
		logger.Int("games", len(games)),
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
	)

	queue := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	pool := workerpool.NewPool(s.workerCount, queue, processor, store)
	pool.Start(ctx)

	for _, g := range games {
		if err := queue.Put(ctx, g); err != nil {
			_ = pool.Shutdown(context.WithoutCancel(ctx))
			return Report{}, fmt.Errorf("enqueue game %s: %w", g.GameID, err)
		}
	}
	if err := queue.Close(); err != nil {
		return Report{}, err
	}
	if err := pool.Wait(ctx); err != nil {
		return Report{}, fmt.Errorf("wait for workers: %w", err)
	}
	// Workers also stop on cancellation, leaving games unrated.
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rows, err := store.Rows(ctx)
	if err != nil {
		return Report{}, err
	}
	failures, err := store.Failures(ctx)
	if err != nil {
		return Report{}, err
	}
	metrics.UpdateStoredRows(len(rows))

	report := Report{
		RunID:    runID,
		Games:    len(games),
		Rows:     rows,
		Failures: failures,
		Duration: time.Since(start),
	}
	s.logger.Info(ctx, "batch finished",
		logger.String("run_id", runID),
		logger.Int("games", report.Games),
		logger.Int("failed", len(failures)),
		logger.Int("rows", len(rows)),
		logger.Int64("duration_ms", report.Duration.Milliseconds()),
	)

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"running":     s.running,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.last != nil {
		stats["runId"] = s.last.RunID
		stats["games"] = s.last.Games
		stats["failed"] = len(s.last.Failures)
		stats["rows"] = len(s.last.Rows)
	}
	return stats
}
