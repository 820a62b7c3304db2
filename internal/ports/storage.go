package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tripspark/logsvc/internal/domain"
)

// ErrNotFound is returned by stores when no entry matches the given id
var ErrNotFound = errors.New("entry not found")

// EntryFilter narrows and pages a listing. Nil filter fields match
// everything; Limit and Offset are assumed pre-validated by the caller.
type EntryFilter struct {
	UserID    *uuid.UUID
	PlaceName *string
	Offset    int
	Limit     int
}

// EntryStore persists activity log entries.
//
// Insert assigns the entry id (monotonically increasing from 1) and
// returns it. List returns entries newest first; filters are applied
// before offset and limit.
type EntryStore interface {
	Insert(ctx context.Context, entry *domain.Entry) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
