package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/reqctx"
	"github.com/jengatrack/jengatrack/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestContext stamps every request with an id and a request-scoped logger.
// Downstream code pulls the logger back out with logger.FromContext.
func RequestContext(baseLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := baseLogger.With(zap.String("request_id", requestID))
		ctx := reqctx.WithRequestID(c.Request.Context(), requestID)
		ctx = logger.WithLogger(ctx, log)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		log.Debug("Request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
