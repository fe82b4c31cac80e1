package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/routineapp/routine-server/internal/logger"
)

// Logging logs every HTTP request with its duration and status.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()

	c.Next()

	duration := time.Since(start)
	l.logger.Info("request completed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration_ms", duration.Milliseconds(),
		"size", c.Writer.Size())

	for _, ginErr := range c.Errors {
		l.logger.Error("request error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", ginErr.Error())
	}
}
