package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/logger"
)

// requestIDMiddleware tags every request with an id, echoes it back to the
// client, and logs the outcome with timing through the application logger.
func requestIDMiddleware() gin.HandlerFunc {
	log := logger.AppLogger()
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		started := time.Now()
		c.Next()

		log.WithFields(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"elapsed_ms": time.Since(started).Milliseconds(),
		}).Debug("request handled")
	}
}

// recoveryMiddleware converts handler panics into an INTERNAL_ERROR response
// and logs them instead of dropping the connection.
func recoveryMiddleware() gin.HandlerFunc {
	log := logger.AppLogger()
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"request_id": c.GetString("request_id"),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      fmt.Sprint(r),
				}).Error("handler panicked", nil)

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   string(apperrors.CodeInternal),
					Message: "an unexpected error occurred",
				})
			}
		}()
		c.Next()
	}
}
