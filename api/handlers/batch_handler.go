package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/app-fetch-go/internal/app"
	"github.com/yourusername/app-fetch-go/internal/domain"
	"go.uber.org/zap"
)

// BatchHandler starts, inspects and cancels batches
type BatchHandler struct {
	batchMgr   *app.BatchManager
	defaultDir string
	logger     *zap.Logger
}

// NewBatchHandler creates a new batch handler. defaultDir is used when a
// request does not name a destination.
func NewBatchHandler(batchMgr *app.BatchManager, defaultDir string, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{
		batchMgr:   batchMgr,
		defaultDir: defaultDir,
		logger:     logger,
	}
}

// StartBatchRequest represents a request to start a batch
type StartBatchRequest struct {
	Dir  string   `json:"dir,omitempty"`
	Apps []string `json:"apps,omitempty"`
	All  bool     `json:"all,omitempty"`
}

// BatchResponse is a batch with its per-application records
type BatchResponse struct {
	Batch     *domain.Batch      `json:"batch"`
	Downloads []*domain.Download `json:"downloads"`
}

// StartBatch handles POST /api/v1/batches
func (h *BatchHandler) StartBatch(c *gin.Context) {
	var req StartBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dir := req.Dir
	if dir == "" {
		dir = h.defaultDir
	}

	names := req.Apps
	if req.All {
		names = nil
		for _, application := range h.batchMgr.Catalog().Apps() {
			names = append(names, application.Name)
		}
	}

	// The batch outlives the request
	batch, err := h.batchMgr.Start(context.Background(), dir, names, nil)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBatchRunning):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAppNotFound), errors.Is(err, domain.ErrEmptySelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to start batch", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, batch)
}

// GetCurrent handles GET /api/v1/batches/current
func (h *BatchHandler) GetCurrent(c *gin.Context) {
	h.respondCurrent(c)
}

// CancelBatch handles POST /api/v1/batches/current/cancel. It returns once
// the batch has stopped, after the in-flight chunk was written.
func (h *BatchHandler) CancelBatch(c *gin.Context) {
	if err := h.batchMgr.Cancel(); err != nil {
		if errors.Is(err, domain.ErrNoBatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.batchMgr.Wait()
	h.respondCurrent(c)
}

func (h *BatchHandler) respondCurrent(c *gin.Context) {
	batch, downloads, err := h.batchMgr.Current()
	if err != nil {
		if errors.Is(err, domain.ErrNoBatch) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to get current batch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, BatchResponse{Batch: batch, Downloads: downloads})
}
