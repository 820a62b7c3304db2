package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

// ErrQueueFull is returned by Submit when the ingest queue is saturated
var ErrQueueFull = errors.New("ingest queue is full")

// ErrPoolClosed is returned by Submit after shutdown has begun
var ErrPoolClosed = errors.New("ingest pool is shut down")

// Pool manages a pool of persistence worker goroutines
type Pool struct {
	size         int
	store        ports.EntryStore
	eventBus     ports.EventBus
	metrics      ports.MetricsCollector
	logger       *zap.Logger
	health       *HealthMonitor
	maxRetries   int
	retryDelay   time.Duration
	storeTimeout time.Duration

	queue   chan *domain.Entry
	workers []*worker
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// worker represents a single persistence goroutine
type worker struct {
	id      string
	pool    *Pool
	status  WorkerStatus
	mu      sync.RWMutex
	lastJob time.Time
}

// WorkerStatus represents worker status
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusBusy    WorkerStatus = "busy"
	WorkerStatusStopped WorkerStatus = "stopped"
)

// Config holds ingest pool configuration
type Config struct {
	QueueSize           int
	Workers             int
	MaxRetries          int
	RetryDelay          time.Duration
	StoreTimeout        time.Duration
	HealthCheckInterval time.Duration
}

// NewPool creates a new ingest pool
func NewPool(
	cfg Config,
	store ports.EntryStore,
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
) *Pool {
	pool := &Pool{
		size:         cfg.Workers,
		store:        store,
		eventBus:     eventBus,
		metrics:      metrics,
		logger:       logger,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		storeTimeout: cfg.StoreTimeout,
		queue:        make(chan *domain.Entry, cfg.QueueSize),
		workers:      make([]*worker, cfg.Workers),
	}

	pool.health = NewHealthMonitor(pool, cfg.HealthCheckInterval, logger)

	return pool
}

// Start starts the ingest pool
func (p *Pool) Start() error {
	p.logger.Info("starting ingest pool",
		zap.Int("workers", p.size),
		zap.Int("queue_size", cap(p.queue)))

	for i := 0; i < p.size; i++ {
		w := &worker{
			id:      fmt.Sprintf("worker-%d", i),
			pool:    p,
			status:  WorkerStatusIdle,
			lastJob: time.Now(),
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run()
	}

	p.health.Start()

	p.logger.Info("ingest pool started", zap.Int("workers", p.size))
	return nil
}

// Submit queues an entry for background persistence. It never blocks:
// a saturated queue returns ErrQueueFull so the API can shed load.
func (p *Pool) Submit(entry *domain.Entry) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- entry:
		p.metrics.SetQueueDepth(len(p.queue))
		return nil
	default:
		p.metrics.IncEntriesDropped()
		return ErrQueueFull
	}
}

// QueueDepth returns the number of entries waiting to be persisted
func (p *Pool) QueueDepth() int {
	return len(p.queue)
}

// Shutdown gracefully shuts down the pool. The queue is closed to new
// submissions and workers drain what remains, bounded by ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.logger.Info("shutting down ingest pool", zap.Int("pending", len(p.queue)))

	p.health.Stop()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("ingest pool shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout with %d entries pending", len(p.queue))
	}
}

// GetStatus returns the status of all workers
func (p *Pool) GetStatus() map[string]WorkerStatus {
	status := make(map[string]WorkerStatus)
	for _, w := range p.workers {
		w.mu.RLock()
		status[w.id] = w.status
		w.mu.RUnlock()
	}
	return status
}

// Healthy reports whether the pool can currently make progress
func (p *Pool) Healthy() bool {
	return p.health.IsHealthy()
}

// run is the main worker loop. It exits when the queue is closed and
// drained.
func (w *worker) run() {
	defer w.pool.wg.Done()

	w.pool.logger.Info("worker started", zap.String("worker_id", w.id))

	for entry := range w.pool.queue {
		w.persist(entry)
		w.pool.metrics.SetQueueDepth(len(w.pool.queue))
	}

	w.mu.Lock()
	w.status = WorkerStatusStopped
	w.mu.Unlock()
	w.pool.logger.Info("worker stopped", zap.String("worker_id", w.id))
}

// persist stores a single entry, retrying transient failures
func (w *worker) persist(entry *domain.Entry) {
	w.mu.Lock()
	w.status = WorkerStatusBusy
	w.lastJob = time.Now()
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.status = WorkerStatusIdle
		w.mu.Unlock()
	}()

	entry.CreatedAt = time.Now().UTC()

	var (
		id  int64
		err error
	)
	for attempt := 0; attempt <= w.pool.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(w.pool.retryDelay)
		}

		ctx, cancel := context.WithTimeout(context.Background(), w.pool.storeTimeout)
		start := time.Now()
		id, err = w.pool.store.Insert(ctx, entry)
		w.pool.metrics.ObserveStoreDuration("insert", time.Since(start))
		cancel()

		if err == nil {
			break
		}

		w.pool.logger.Warn("entry insert failed",
			zap.String("worker_id", w.id),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	if err != nil {
		w.pool.metrics.IncEntriesFailed()
		w.pool.logger.Error("entry dropped after retries",
			zap.String("worker_id", w.id),
			zap.String("user_id", entry.UserID.String()),
			zap.String("action", entry.Action),
			zap.Error(err))
		return
	}

	entry.ID = id
	w.pool.metrics.IncEntriesStored()

	w.publish(entry)
}

// publish emits the entry.stored event. Publish failures are logged
// and do not affect the stored entry.
func (w *worker) publish(entry *domain.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), w.pool.storeTimeout)
	defer cancel()

	event := ports.Event{
		ID:        uuid.NewString(),
		Type:      ports.EventEntryStored,
		Timestamp: time.Now().UTC(),
		Entry:     entry,
	}

	if err := w.pool.eventBus.Publish(ctx, ports.TopicEntries, event); err != nil {
		w.pool.logger.Error("failed to publish entry event",
			zap.String("worker_id", w.id),
			zap.Int64("entry_id", entry.ID),
			zap.Error(err))
	}
}
