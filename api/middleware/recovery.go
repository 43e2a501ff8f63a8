package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/app-fetch-go/pkg/logger"
	"go.uber.org/zap"
)

// Recovery returns a gin middleware for panic recovery. Panics are also
// written to the error category log when multiLog is not nil.
func Recovery(log *zap.Logger, multiLog *logger.MultiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				fields := []zap.Field{
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				}
				log.Error("Panic recovered", fields...)
				if multiLog != nil {
					multiLog.LogAppError("Panic recovered", fields...)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
