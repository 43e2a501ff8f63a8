package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/app-fetch-go/internal/app"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	batchMgr *app.BatchManager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(batchMgr *app.BatchManager) *HealthHandler {
	return &HealthHandler{
		batchMgr: batchMgr,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Apps    int    `json:"apps"`
	Batch   struct {
		Running bool `json:"running"`
	} `json:"batch"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Apps:    h.batchMgr.Catalog().Len(),
	}
	response.Batch.Running = h.batchMgr.IsRunning()

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready. The service is ready once the catalog is loaded.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.batchMgr.Catalog().Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog is empty",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
