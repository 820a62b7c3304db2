package logsvc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tripspark/logsvc/internal/application/ingest"
	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

// Pagination bounds for listings
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Service coordinates entry ingestion and queries
type Service struct {
	store     ports.EntryStore
	pool      *ingest.Pool
	metrics   ports.MetricsCollector
	validator *Validator
	logger    *zap.Logger
}

// NewService creates a new log service
func NewService(
	store ports.EntryStore,
	pool *ingest.Pool,
	metrics ports.MetricsCollector,
	validator *Validator,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:     store,
		pool:      pool,
		metrics:   metrics,
		validator: validator,
		logger:    logger,
	}
}

// Accept validates an entry and queues it for background persistence.
// It returns as soon as the entry is queued; the write lands later.
func (s *Service) Accept(ctx context.Context, entry *domain.Entry) error {
	if err := s.validator.Validate(entry); err != nil {
		s.logger.Debug("entry validation failed", zap.Error(err))
		return err
	}

	if err := s.pool.Submit(entry); err != nil {
		s.logger.Error("entry submission failed",
			zap.String("user_id", entry.UserID.String()),
			zap.Error(err))
		return err
	}

	s.metrics.IncEntriesAccepted()
	return nil
}

// Get returns a single entry by its numeric id
func (s *Service) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns entries matching the filter, newest first. The filter's
// Limit is clamped to [1, MaxListLimit]; zero means DefaultListLimit.
func (s *Service) List(ctx context.Context, filter ports.EntryFilter) ([]*domain.Entry, error) {
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit < 1 || filter.Limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d",
			domain.ErrInvalidEntry, MaxListLimit)
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidEntry)
	}

	entries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, nil
}

// Count returns the total number of stored entries
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// Health reports storage reachability and ingest pool health
func (s *Service) Health(ctx context.Context) map[string]string {
	checks := map[string]string{
		"storage": "ok",
		"ingest":  "ok",
	}

	if err := s.store.Ping(ctx); err != nil {
		checks["storage"] = err.Error()
	}
	if !s.pool.Healthy() {
		checks["ingest"] = "unhealthy"
	}

	return checks
}
