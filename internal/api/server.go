package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dominicbrandes/aztec-exchange/internal/config"
)

// Server owns the HTTP listener. Grounded on internal/gateway/server.go's
// fx.Lifecycle-hooked *http.Server, adapted to a single already-built
// *gin.Engine rather than assembling the router itself.
type Server struct {
	logger *zap.Logger
	http   *http.Server
}

// NewServer wires router into an *http.Server bound to cfg.Addr() and
// registers start/stop hooks with lc. ListenAndServe runs in its own
// goroutine so OnStart returns immediately, matching the teacher's pattern.
func NewServer(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config, router *gin.Engine) *Server {
	s := &Server{
		logger: logger,
		http:   &http.Server{Addr: cfg.Addr(), Handler: router},
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("gateway listening", zap.String("addr", s.http.Addr))
				if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("gateway server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("gateway shutting down")
			return s.http.Shutdown(ctx)
		},
	})

	return s
}
