package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is open on the REST surface as well
	},
}

// Handler handles WebSocket connections
type Handler struct {
	eventBus ports.EventBus
	metrics  ports.MetricsCollector
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(eventBus ports.EventBus, metrics ports.MetricsCollector, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleEntryStream streams newly persisted entries to the client. An
// optional user_id query parameter narrows the stream to one user.
func (h *Handler) HandleEntryStream(c *gin.Context) {
	var userFilter *uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a valid UUID"})
			return
		}
		userFilter = &userID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.metrics.IncStreamClients()
	defer h.metrics.DecStreamClients()

	h.logger.Info("WebSocket connection established",
		zap.String("client", c.ClientIP()))

	entryChan := make(chan *domain.Entry, 10)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := h.subscribe(ctx, entryChan); err != nil {
		h.logger.Error("failed to subscribe to entry events", zap.Error(err))
		return
	}

	// Detect client disconnects; incoming frames are otherwise ignored
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-entryChan:
			if entry == nil {
				continue
			}

			if userFilter != nil && entry.UserID != *userFilter {
				continue
			}

			data, err := json.Marshal(entry)
			if err != nil {
				h.logger.Error("failed to marshal entry", zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("failed to write message", zap.Error(err))
				return
			}
		}
	}
}

// subscribe registers a bus handler that feeds the channel
func (h *Handler) subscribe(ctx context.Context, ch chan<- *domain.Entry) error {
	handler := func(ctx context.Context, event ports.Event) error {
		if event.Type != ports.EventEntryStored || event.Entry == nil {
			return nil
		}

		select {
		case ch <- event.Entry:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Channel full, skip entry
			h.logger.Warn("entry channel full, dropping entry",
				zap.Int64("entry_id", event.Entry.ID))
		}
		return nil
	}

	return h.eventBus.Subscribe(ctx, ports.TopicEntries, handler)
}
