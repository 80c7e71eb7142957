// Package worker rates queued games concurrently.
//
// Each game is independent: a worker takes a job off the queue, runs the game
// processor on it and hands the result or the failure to the sink. A failing
// game never stops the other workers.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/possession/internal/adapters/mq/queue"
	"github.com/okian/possession/internal/domain/game"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/logger"
	"github.com/okian/possession/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Processor rates one game.
type Processor interface {
	Process(ctx context.Context, in model.GameInput) (model.GameResult, error)
}

// Sink receives the outcome of every game.
type Sink interface {
	PutResult(ctx context.Context, res model.GameResult) error
	PutFailure(ctx context.Context, f model.GameFailure) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until the queue is drained or ctx is cancelled.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	sink      Sink
	name      string

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, processor Processor, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: processor,
		sink:      sink,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				// Queue closed and drained
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error storing game outcome", logger.String("game", job.GameID), logger.Error(err))
			}
		}
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob rates one game and stores the outcome. Only sink errors are
// returned; a game that cannot be rated is stored as a failure.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	res, err := w.processor.Process(ctx, job)
	metrics.RecordGameLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		reason := game.Reason(err)
		metrics.RecordGameFailed(reason)
		w.logger.Warn(ctx, "game could not be rated",
			logger.String("game", job.GameID),
			logger.String("reason", reason),
			logger.Error(err),
		)
		return w.sink.PutFailure(ctx, model.GameFailure{GameID: job.GameID, Err: err})
	}

	metrics.RecordGameProcessed()
	metrics.RecordPossessions(res.Stats.Possessions)
	metrics.RecordPlays(res.Stats.Plays)
	metrics.RecordResyncs(res.Stats.Resyncs)
	metrics.RecordDeferredSubstitutions(res.Stats.DeferredSubs)
	for source, n := range res.Stats.InferredTeams {
		metrics.RecordTeamInference(source, n)
	}
	w.logger.Debug(ctx, "game rated",
		logger.String("game", job.GameID),
		logger.Int("periods", res.Stats.Periods),
		logger.Int("possessions", res.Stats.Possessions),
		logger.Int("players", len(res.Rows)),
	)
	return w.sink.PutResult(ctx, res)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, processor Processor, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			processor,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained or ctx is cancelled.
func (p *Pool) Wait(ctx context.Context) error {
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		if err := worker.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
