package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

func newEntry(userID uuid.UUID, place, action string, createdAt time.Time) *domain.Entry {
	return &domain.Entry{
		UserID:    userID,
		UserName:  "Jane Doe",
		PlaceName: place,
		Action:    action,
		CreatedAt: createdAt,
	}
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()
	userID := uuid.New()

	for i := 1; i <= 3; i++ {
		id, err := store.Insert(ctx, newEntry(userID, "Tokyo", "visited_place", time.Now()))
		require.NoError(t, err)
		assert.Equal(t, int64(i), id)
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGet(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()

	entry := newEntry(uuid.New(), "Tokyo", "visited_place", time.Now())
	id, err := store.Insert(ctx, entry)
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, entry.UserID, got.UserID)
	assert.Equal(t, "Tokyo", got.PlaceName)

	_, err = store.Get(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestInsertStoresCopy(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()

	entry := newEntry(uuid.New(), "Tokyo", "visited_place", time.Now())
	id, err := store.Insert(ctx, entry)
	require.NoError(t, err)

	// Mutating the submitted entry must not change the stored one
	entry.PlaceName = "Osaka"

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", got.PlaceName)
}

func TestListNewestFirst(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2025, 11, 18, 18, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := store.Insert(ctx, newEntry(userID, "Tokyo", "visited_place", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	entries, err := store.List(ctx, ports.EntryFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt))
	}
	assert.Equal(t, int64(5), entries[0].ID)
}

func TestListFilters(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	_, err := store.Insert(ctx, newEntry(alice, "Tokyo", "visited_place", time.Now()))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newEntry(alice, "Osaka", "rated_place", time.Now()))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newEntry(bob, "Tokyo", "visited_place", time.Now()))
	require.NoError(t, err)

	entries, err := store.List(ctx, ports.EntryFilter{UserID: &alice, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	tokyo := "Tokyo"
	entries, err = store.List(ctx, ports.EntryFilter{PlaceName: &tokyo, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = store.List(ctx, ports.EntryFilter{UserID: &alice, PlaceName: &tokyo, Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, alice, entries[0].UserID)
	assert.Equal(t, "Tokyo", entries[0].PlaceName)
}

func TestListPagination(t *testing.T) {
	store := NewEntryStore()
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2025, 11, 18, 18, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		_, err := store.Insert(ctx, newEntry(userID, "Tokyo", "visited_place", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	page, err := store.List(ctx, ports.EntryFilter{Offset: 0, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, int64(10), page[0].ID)

	page, err = store.List(ctx, ports.EntryFilter{Offset: 3, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, int64(7), page[0].ID)

	page, err = store.List(ctx, ports.EntryFilter{Offset: 9, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, err = store.List(ctx, ports.EntryFilter{Offset: 50, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, page)
}
