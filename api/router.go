package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/app-fetch-go/api/handlers"
	"github.com/yourusername/app-fetch-go/api/middleware"
	"github.com/yourusername/app-fetch-go/internal/app"
	"github.com/yourusername/app-fetch-go/pkg/logger"
)

// RouterConfig carries what the HTTP layer needs besides the services
type RouterConfig struct {
	DefaultDir string // destination for batches that do not name one
	LogsDir    string
}

// SetupRouter sets up the HTTP router. multiLog may be nil.
func SetupRouter(services *app.Services, config RouterConfig, log *zap.Logger, multiLog *logger.MultiLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log, multiLog))

	healthHandler := handlers.NewHealthHandler(services.BatchMgr)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		appHandler := handlers.NewAppHandler(services.Catalog, services.DownloadMgr, log)
		apps := v1.Group("/apps")
		{
			apps.GET("", appHandler.ListApps)
			apps.GET("/:name/resolve", appHandler.ResolveApp)
		}

		batchHandler := handlers.NewBatchHandler(services.BatchMgr, config.DefaultDir, log)
		batches := v1.Group("/batches")
		{
			batches.POST("", batchHandler.StartBatch)
			batches.GET("/current", batchHandler.GetCurrent)
			batches.POST("/current/cancel", batchHandler.CancelBatch)
		}

		downloadHandler := handlers.NewDownloadHandler(services.BatchMgr, log)
		downloads := v1.Group("/downloads")
		{
			downloads.GET("", downloadHandler.ListDownloads)
			downloads.GET("/stats", downloadHandler.GetStats)
			downloads.GET("/:id", downloadHandler.GetDownload)
			downloads.DELETE("/:id", downloadHandler.DeleteDownload)
		}

		logHandler := handlers.NewLogHandler(config.LogsDir)
		logs := v1.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/search", logHandler.SearchLogs)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
