package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/app-fetch-go/internal/app"
	"github.com/yourusername/app-fetch-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadHandler exposes the per-application download records
type DownloadHandler struct {
	batchMgr *app.BatchManager
	logger   *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(batchMgr *app.BatchManager, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		batchMgr: batchMgr,
		logger:   logger,
	}
}

// GetDownload handles GET /api/v1/downloads/:id
func (h *DownloadHandler) GetDownload(c *gin.Context) {
	id := c.Param("id")

	download, err := h.batchMgr.GetDownload(id)
	if err != nil {
		if errors.Is(err, domain.ErrDownloadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
			return
		}
		h.logger.Error("Failed to get download", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, download)
}

// ListDownloads handles GET /api/v1/downloads
func (h *DownloadHandler) ListDownloads(c *gin.Context) {
	filters := make(map[string]string)

	for _, key := range []string{"app", "status", "batch_id"} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	downloads, err := h.batchMgr.ListDownloads(filters)
	if err != nil {
		h.logger.Error("Failed to list downloads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, downloads)
}

// DeleteDownload handles DELETE /api/v1/downloads/:id
func (h *DownloadHandler) DeleteDownload(c *gin.Context) {
	id := c.Param("id")

	if err := h.batchMgr.DeleteDownload(id); err != nil {
		switch {
		case errors.Is(err, domain.ErrDownloadNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
		case errors.Is(err, domain.ErrDownloadActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to delete download", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "download deleted"})
}

// GetStats handles GET /api/v1/downloads/stats
func (h *DownloadHandler) GetStats(c *gin.Context) {
	stats, err := h.batchMgr.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
