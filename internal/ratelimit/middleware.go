package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dominicbrandes/aztec-exchange/internal/apperr"
	"github.com/dominicbrandes/aztec-exchange/internal/httpresp"
)

// evictionInterval is fixed rather than configurable: it only bounds memory,
// it never affects the rate-limit contract itself.
const evictionInterval = time.Minute

// ClientKey derives the bucket key for a request: "key:<api_key>" if the
// header is present at all (even if later found invalid by the
// authenticator, since rate limiting runs before authentication in the
// request pipeline), else "ip:<remote_ip>", else the constant "ip:unknown".
func ClientKey(apiKeyHeader string, c *gin.Context) string {
	if v := c.GetHeader(apiKeyHeader); v != "" {
		return "key:" + v
	}
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}

// Middleware returns a gin middleware enforcing l's sliding window on the
// key derived by ClientKey, set as response header Retry-After on rejection.
func Middleware(l *Limiter, apiKeyHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientKey(apiKeyHeader, c)
		allowed, retryAfter := l.Check(key, time.Now())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			httpresp.WriteError(c, apperr.RateLimit(int(retryAfter.Seconds())))
			return
		}
		c.Next()
	}
}

// RunEviction starts a best-effort background sweep of empty buckets every
// interval, stopping when ctx is cancelled. Registered against fx.Lifecycle
// by RegisterLifecycle so it starts and stops with the rest of the gateway.
func RunEviction(ctx context.Context, l *Limiter, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.Evict(now)
			}
		}
	}()
	logger.Debug("rate limiter eviction loop started", zap.Duration("interval", interval))
}

// RegisterLifecycle starts l's eviction loop on OnStart and stops it on
// OnStop, so the background goroutine's lifetime matches the gateway's.
func RegisterLifecycle(lc fx.Lifecycle, l *Limiter, logger *zap.Logger) {
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			RunEviction(ctx, l, evictionInterval, logger)
			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
