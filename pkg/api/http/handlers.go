package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripspark/logsvc/internal/application/ingest"
	"github.com/tripspark/logsvc/internal/application/logsvc"
	"github.com/tripspark/logsvc/internal/domain"
	"github.com/tripspark/logsvc/internal/ports"
)

// CreateLogRequest represents an entry submission request
type CreateLogRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	UserName  string    `json:"user_name" binding:"required"`
	PlaceName string    `json:"place_name" binding:"required"`
	Rating    *float64  `json:"rating"`
	Feedback  string    `json:"feedback"`
	Action    string    `json:"action" binding:"required"`
}

// ListLogsResponse represents a paginated listing response
type ListLogsResponse struct {
	Logs   []*domain.Entry `json:"logs"`
	Total  int64           `json:"total"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	checks := s.service.Health(c.Request.Context())

	status := "healthy"
	code := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleCreateLog accepts an entry for background persistence
func (s *Server) handleCreateLog(c *gin.Context) {
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	entry := &domain.Entry{
		UserID:    req.UserID,
		UserName:  req.UserName,
		PlaceName: req.PlaceName,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
		Action:    req.Action,
	}

	if err := s.service.Accept(c.Request.Context(), entry); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEntry):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: ErrorDetail{
					Code:    "VALIDATION_FAILED",
					Message: err.Error(),
				},
			})
		case errors.Is(err, ingest.ErrQueueFull), errors.Is(err, ingest.ErrPoolClosed):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error: ErrorDetail{
					Code:    "OVERLOADED",
					Message: "The service cannot accept entries right now",
				},
			})
		default:
			s.logger.Error("failed to accept entry", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INTERNAL",
					Message: err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// handleListLogs lists entries with optional filters and pagination
func (s *Server) handleListLogs(c *gin.Context) {
	filter := ports.EntryFilter{Limit: logsvc.DefaultListLimit}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: "user_id must be a valid UUID",
				},
			})
			return
		}
		filter.UserID = &userID
	}

	if raw := c.Query("place_name"); raw != "" {
		placeName := raw
		filter.PlaceName = &placeName
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: "offset must be a non-negative integer",
				},
			})
			return
		}
		filter.Offset = offset
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > logsvc.MaxListLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: "limit must be an integer between 1 and 100",
				},
			})
			return
		}
		filter.Limit = limit
	}

	entries, err := s.service.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INTERNAL",
				Message: "Failed to list entries",
			},
		})
		return
	}

	total, err := s.service.Count(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to count entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INTERNAL",
				Message: "Failed to count entries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, ListLogsResponse{
		Logs:   entries,
		Total:  total,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// handleGetLog retrieves a single entry by its numeric id
func (s *Server) handleGetLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "id must be a numeric entry id",
			},
		})
		return
	}

	entry, err := s.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: ErrorDetail{
					Code:    "NOT_FOUND",
					Message: "Log not found",
				},
			})
			return
		}

		s.logger.Error("failed to get entry", zap.Int64("entry_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INTERNAL",
				Message: "Failed to get entry",
			},
		})
		return
	}

	c.JSON(http.StatusOK, entry)
}
