// Package api assembles the gin router and request-pipeline middleware: the
// C9 route table, C10 per-request instrumentation, and C11 observability
// endpoints. Grounded on internal/gateway/server.go and router.go for the
// gin.New()+middleware-chain shape, and on
// internal/api/middleware/security.go's RequestID for the id-generation and
// structured access-log idiom.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dominicbrandes/aztec-exchange/internal/apperr"
	"github.com/dominicbrandes/aztec-exchange/internal/httpresp"
	"github.com/dominicbrandes/aztec-exchange/internal/metrics"
	"github.com/dominicbrandes/aztec-exchange/internal/reqctx"
)

const requestIDHeader = "X-Request-ID"
const requestIDContextKey = "request_id"

// RequestID generates an 8-character id per inbound request (matching
// original_source's generate_request_id(), a truncated uuid4), binds it into
// both the gin context (for httpresp) and the request's context.Context (for
// reqctx-aware logging), and echoes it back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()[:8]
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(reqctx.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog times the handler, records request_latency_seconds (skipping
// /metrics to avoid recursive skew), and emits one structured line per
// request carrying method, path, status, duration, and request id.
func AccessLog(logger *zap.Logger, reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start)
		if path != "/metrics" {
			reg.ObserveRequest(c.Request.Method, endpointLabel(path), duration)
		}

		logger.Info("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000.0),
			zap.String("request_id", c.GetString(requestIDContextKey)),
		)
	}
}

// endpointLabel reduces a route pattern to its last path segment for the
// request_latency_seconds label, with "root" standing in for "/".
func endpointLabel(path string) string {
	if path == "/" || path == "" {
		return "root"
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// Recover translates a panic in any downstream handler into the gateway's
// standard 500 envelope instead of the gin default, logging the recovered
// value and a stack trace.
func Recover(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered in handler",
					zap.Any("panic", r),
					zap.Stack("stack"),
					zap.String("request_id", c.GetString(requestIDContextKey)),
				)
				httpresp.WriteError(c, apperr.Unhandled(httpPanicError{r}))
			}
		}()
		c.Next()
	}
}

type httpPanicError struct{ value any }

func (e httpPanicError) Error() string { return http.StatusText(http.StatusInternalServerError) }
