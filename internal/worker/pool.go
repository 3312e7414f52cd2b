// Package worker implements the buffered worker pool behind match ingestion.
// HTTP handlers enqueue documents and return; workers write them to the
// match store in batches. A full queue sheds load instead of blocking.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// Prometheus metrics
var (
	matchesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_matches_ingested_total",
		Help: "Total number of match documents accepted into the queue",
	})

	matchesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_matches_stored_total",
		Help: "Total number of match documents written to the store",
	})

	matchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_matches_failed_total",
		Help: "Total number of match documents that failed to store",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scrimstats_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scrimstats_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts into the match store",
		Buckets: prometheus.DefBuckets,
	})

	matchesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrimstats_matches_load_shed_total",
		Help: "Total number of match documents dropped due to load shedding",
	})
)

// MatchWriter is the part of the match store the pool writes to
type MatchWriter interface {
	InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error)
}

// Job represents a unit of work for the worker pool
type Job struct {
	Match      models.RawMatch
	BatchID    uuid.UUID
	ReceivedAt time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
	Store         MatchWriter
	// OnFlush runs after a batch is stored, with the number of documents written.
	OnFlush func(ctx context.Context, stored int)
	Logger  *zap.Logger
}

// Pool manages a pool of workers for async match ingestion
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop stops accepting jobs, drains the queue and waits for the workers.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a document to the queue without blocking. It returns false
// when the queue is full or the pool is stopped.
func (p *Pool) Enqueue(match models.RawMatch, batchID uuid.UUID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warnw("Worker pool stopped, dropping match", "matchId", match.MatchID())
		matchesLoadShed.Inc()
		return false
	}

	job := Job{
		Match:      match,
		BatchID:    batchID,
		ReceivedAt: time.Now(),
	}

	select {
	case p.jobQueue <- job:
		matchesIngested.Inc()
		return true
	default:
		p.logger.Warnw("Worker queue full, dropping match", "matchId", match.MatchID(), "batchId", batchID)
		matchesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker collects jobs into batches, flushing on size or on the ticker.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		stored, err := p.processBatch(batch)
		if stored > 0 {
			matchesStored.Add(float64(stored))
		}
		if err != nil {
			p.logger.Errorw("Batch insert failed",
				"worker", id,
				"batchSize", len(batch),
				"stored", stored,
				"error", err,
			)
			matchesFailed.Add(float64(len(batch) - stored))
		} else {
			p.logger.Debugw("Batch stored", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		if stored > 0 && p.config.OnFlush != nil {
			p.config.OnFlush(context.Background(), stored)
		}

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch writes one batch to the store. The write context is not tied
// to the pool so that a shutdown still flushes queued documents.
func (p *Pool) processBatch(batch []Job) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.config.WriteTimeout)
	defer cancel()

	docs := make([]models.RawMatch, len(batch))
	for i, job := range batch {
		docs[i] = job.Match
	}
	return p.config.Store.InsertMatches(ctx, docs)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
