package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

const (
	entryKeyPrefix = "logsvc:entry:"
	sequenceKey    = "logsvc:entry:seq"
	indexKey       = "logsvc:entry:index"
)

// EntryStore implements ports.EntryStore using Redis. Entries are
// stored as JSON under logsvc:entry:<id>, ids come from an INCR
// sequence, and a sorted set scored by created_at keeps the
// newest-first listing order.
type EntryStore struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewEntryStore creates a new Redis entry store. A zero ttl keeps
// entries forever.
func NewEntryStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *EntryStore {
	return &EntryStore{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Insert assigns the next id from the sequence and stores the entry
func (s *EntryStore) Insert(ctx context.Context, entry *domain.Entry) (int64, error) {
	id, err := s.client.Incr(ctx, sequenceKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate entry id: %w", err)
	}

	stored := entry.Clone()
	stored.ID = id

	data, err := json.Marshal(stored)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, getEntryKey(id), data, s.ttl)
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(stored.CreatedAt.UnixNano()),
		Member: id,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to save entry: %w", err)
	}

	s.logger.Debug("entry saved",
		zap.Int64("entry_id", id),
		zap.String("action", stored.Action))

	return id, nil
}

// Get retrieves an entry by id
func (s *EntryStore) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	data, err := s.client.Get(ctx, getEntryKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var entry domain.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	return &entry, nil
}

// List returns entries matching the filter, newest first. Filters are
// applied while walking the index so offset and limit count matching
// entries only.
func (s *EntryStore) List(ctx context.Context, filter ports.EntryFilter) ([]*domain.Entry, error) {
	results := make([]*domain.Entry, 0, filter.Limit)

	var (
		start   int64
		skipped int
	)
	const page = 100

	for {
		ids, err := s.client.ZRevRange(ctx, indexKey, start, start+page-1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry index: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		start += int64(len(ids))

		for _, member := range ids {
			data, err := s.client.Get(ctx, entryKeyPrefix+member).Bytes()
			if err != nil {
				// Expired entry still present in the index
				if err == redis.Nil {
					continue
				}
				return nil, fmt.Errorf("failed to get entry: %w", err)
			}

			var entry domain.Entry
			if err := json.Unmarshal(data, &entry); err != nil {
				s.logger.Warn("skipping undecodable entry", zap.String("key", member))
				continue
			}

			if filter.UserID != nil && entry.UserID != *filter.UserID {
				continue
			}
			if filter.PlaceName != nil && entry.PlaceName != *filter.PlaceName {
				continue
			}

			if skipped < filter.Offset {
				skipped++
				continue
			}

			results = append(results, &entry)
			if filter.Limit > 0 && len(results) >= filter.Limit {
				return results, nil
			}
		}
	}

	return results, nil
}

// Count returns the number of indexed entries
func (s *EntryStore) Count(ctx context.Context) (int64, error) {
	count, err := s.client.ZCard(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// Ping checks the Redis connection
func (s *EntryStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close is a no-op; the shared client is closed by the caller
func (s *EntryStore) Close() error {
	return nil
}

// getEntryKey returns the Redis key for an entry
func getEntryKey(id int64) string {
	return fmt.Sprintf("%s%d", entryKeyPrefix, id)
}
