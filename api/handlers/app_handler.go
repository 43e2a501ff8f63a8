package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/app-fetch-go/internal/app"
	"github.com/yourusername/app-fetch-go/internal/domain"
	"go.uber.org/zap"
)

// AppHandler exposes the catalog and single-application resolution
type AppHandler struct {
	catalog     *domain.Catalog
	downloadMgr *app.DownloadManager
	logger      *zap.Logger
}

// NewAppHandler creates a new app handler
func NewAppHandler(catalog *domain.Catalog, downloadMgr *app.DownloadManager, logger *zap.Logger) *AppHandler {
	return &AppHandler{
		catalog:     catalog,
		downloadMgr: downloadMgr,
		logger:      logger,
	}
}

// ResolveResponse is the result of resolving one application
type ResolveResponse struct {
	Name     string          `json:"name"`
	Strategy domain.Strategy `json:"strategy"`
	Found    bool            `json:"found"`
	URL      string          `json:"url,omitempty"`
	Version  string          `json:"version,omitempty"`
	FileName string          `json:"file_name,omitempty"`
}

// ListApps handles GET /api/v1/apps
func (h *AppHandler) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Apps())
}

// ResolveApp handles GET /api/v1/apps/:name/resolve
func (h *AppHandler) ResolveApp(c *gin.Context) {
	name := c.Param("name")

	application, ok := h.catalog.Find(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}

	res, err := h.downloadMgr.ResolveApp(c.Request.Context(), application)
	if err != nil {
		h.logger.Error("Failed to resolve application", zap.String("app", name), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrTransport) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	response := ResolveResponse{
		Name:     application.Name,
		Strategy: application.Strategy,
		Found:    res.Found(),
	}
	if res.Found() {
		response.URL = res.URL
		response.Version = res.Version
		response.FileName = application.FileName(res.Version)
	}

	c.JSON(http.StatusOK, response)
}
