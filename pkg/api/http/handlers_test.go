package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripspark/logsvc/internal/application/ingest"
	"github.com/tripspark/logsvc/internal/application/logsvc"
	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
	eventsmemory "github.com/tripspark/logsvc/pkg/adapters/events/memory"
	storagememory "github.com/tripspark/logsvc/pkg/adapters/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *storagememory.EntryStore) {
	t.Helper()

	store := storagememory.NewEntryStore()
	pool := ingest.NewPool(ingest.Config{
		QueueSize:           16,
		Workers:             2,
		MaxRetries:          1,
		RetryDelay:          time.Millisecond,
		StoreTimeout:        time.Second,
		HealthCheckInterval: time.Minute,
	}, store, eventsmemory.NewInMemoryEventBus(), ports.NopMetrics{}, zap.NewNop())

	require.NoError(t, pool.Start())
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	service := logsvc.NewService(store, pool, ports.NopMetrics{}, logsvc.NewValidator(), zap.NewNop())

	server := NewServer(&Config{
		Port:    8080,
		Service: service,
		Logger:  zap.NewNop(),
	})

	return server, store
}

func doRequest(server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func seedEntries(t *testing.T, store *storagememory.EntryStore, userID uuid.UUID, place string, n int) {
	t.Helper()

	base := time.Date(2025, 11, 18, 18, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := store.Insert(context.Background(), &domain.Entry{
			UserID:    userID,
			UserName:  "Jane Doe",
			PlaceName: place,
			Action:    "visited_place",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestCreateLogAccepted(t *testing.T) {
	server, store := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/logs", map[string]interface{}{
		"user_id":    uuid.NewString(),
		"user_name":  "Jane Doe",
		"place_name": "Tokyo",
		"rating":     5,
		"feedback":   "Loved the sushi and alley restaurants!",
		"action":     "visited_place",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"accepted"}`, rec.Body.String())

	// Persistence happens in the background
	require.Eventually(t, func() bool {
		count, err := store.Count(context.Background())
		return err == nil && count == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCreateLogRejectsMissingFields(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/logs", map[string]interface{}{
		"user_name": "Jane Doe",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestCreateLogRejectsOutOfRangeRating(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/logs", map[string]interface{}{
		"user_id":    uuid.NewString(),
		"user_name":  "Jane Doe",
		"place_name": "Tokyo",
		"rating":     9,
		"action":     "visited_place",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestListLogsPagination(t *testing.T) {
	server, store := newTestServer(t)
	seedEntries(t, store, uuid.New(), "Tokyo", 15)

	rec := doRequest(server, http.MethodGet, "/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListLogsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Logs, 10)
	assert.Equal(t, int64(15), resp.Total)
	assert.Equal(t, 10, resp.Limit)

	// Newest first
	assert.Equal(t, int64(15), resp.Logs[0].ID)

	rec = doRequest(server, http.MethodGet, "/logs?offset=10&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Logs, 5)
	assert.Equal(t, 10, resp.Offset)
}

func TestListLogsFilters(t *testing.T) {
	server, store := newTestServer(t)
	alice := uuid.New()
	seedEntries(t, store, alice, "Tokyo", 3)
	seedEntries(t, store, uuid.New(), "Osaka", 2)

	rec := doRequest(server, http.MethodGet, "/logs?user_id="+alice.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListLogsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 3)
	for _, e := range resp.Logs {
		assert.Equal(t, alice, e.UserID)
	}

	rec = doRequest(server, http.MethodGet, "/logs?place_name=Osaka", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Logs, 2)
}

func TestListLogsRejectsBadQuery(t *testing.T) {
	server, _ := newTestServer(t)

	for _, path := range []string{
		"/logs?user_id=not-a-uuid",
		"/logs?offset=-1",
		"/logs?offset=abc",
		"/logs?limit=0",
		"/logs?limit=101",
	} {
		rec := doRequest(server, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestGetLog(t *testing.T) {
	server, store := newTestServer(t)
	seedEntries(t, store, uuid.New(), "Tokyo", 1)

	rec := doRequest(server, http.MethodGet, "/logs/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entry domain.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, "Tokyo", entry.PlaceName)
}

func TestGetLogNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/logs/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetLogRejectsNonNumericID(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/logs/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestMetricsExposed(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
