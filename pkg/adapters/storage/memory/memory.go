package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

// EntryStore implements ports.EntryStore using an in-memory map.
// This is the default backend and the test double.
type EntryStore struct {
	entries map[int64]*domain.Entry
	nextID  int64
	mu      sync.RWMutex
}

// NewEntryStore creates a new in-memory entry store
func NewEntryStore() *EntryStore {
	return &EntryStore{
		entries: make(map[int64]*domain.Entry),
		nextID:  1,
	}
}

// Insert assigns the next id and stores a copy of the entry
func (s *EntryStore) Insert(ctx context.Context, entry *domain.Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	stored := entry.Clone()
	stored.ID = id
	s.entries[id] = stored

	return id, nil
}

// Get retrieves an entry by id
func (s *EntryStore) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}

	return entry.Clone(), nil
}

// List returns entries matching the filter, newest first
func (s *EntryStore) List(ctx context.Context, filter ports.EntryFilter) ([]*domain.Entry, error) {
	s.mu.RLock()

	results := make([]*domain.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		if filter.PlaceName != nil && entry.PlaceName != *filter.PlaceName {
			continue
		}
		results = append(results, entry.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID > results[j].ID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if filter.Offset >= len(results) {
		return []*domain.Entry{}, nil
	}
	results = results[filter.Offset:]

	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}

	return results, nil
}

// Count returns the number of stored entries
func (s *EntryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.entries)), nil
}

// Ping always succeeds for the in-memory store
func (s *EntryStore) Ping(ctx context.Context) error {
	return nil
}

// Close releases the store
func (s *EntryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[int64]*domain.Entry)
	return nil
}
