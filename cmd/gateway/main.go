// Command gateway runs the exchange HTTP gateway: it resolves configuration
// from the environment, supervises the matching-engine subprocess, and
// serves the public HTTP API in front of it. Wiring follows
// cmd/gateway/main.go in the source tree's fx.New/fx.Supply/fx.Invoke shape.
package main

import (
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dominicbrandes/aztec-exchange/internal/api"
	"github.com/dominicbrandes/aztec-exchange/internal/config"
	"github.com/dominicbrandes/aztec-exchange/internal/engine"
	"github.com/dominicbrandes/aztec-exchange/internal/logging"
	"github.com/dominicbrandes/aztec-exchange/internal/metrics"
	"github.com/dominicbrandes/aztec-exchange/internal/model"
	"github.com/dominicbrandes/aztec-exchange/internal/ratelimit"
)

func main() {
	logger := logging.New()
	defer logger.Sync()

	projectRoot, err := os.Getwd()
	if err != nil {
		logger.Fatal("resolve working directory", zap.Error(err))
	}

	cfg, err := config.Load(projectRoot)
	if err != nil {
		logger.Fatal("load configuration", zap.Error(err))
	}

	app := fx.New(
		fx.Supply(logger, cfg),
		fx.Provide(
			metrics.New,
			model.NewValidator,
			newSupervisor,
			newLimiter,
			api.NewSupervisorEngineClient,
			api.NewHandlers,
			api.NewRouter,
			api.NewServer,
		),
		fx.Invoke(
			engine.RegisterLifecycle,
			ratelimit.RegisterLifecycle,
			func(*api.Server, *zap.Logger) {
				logger.Info("gateway assembled")
			},
		),
	)

	// fx.App.Run exits the process with a nonzero status if any OnStart hook
	// (notably engine.RegisterLifecycle's, which fails when the engine binary
	// cannot be spawned) returns an error, satisfying the spec's exit-code
	// contract without extra bookkeeping here.
	app.Run()
}

func newSupervisor(logger *zap.Logger, cfg *config.Config) *engine.Supervisor {
	return engine.NewSupervisor(logger, cfg.EnginePath, cfg.DataDir, cfg.EventLogPath, cfg.SnapshotDir)
}

func newLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSecs)*time.Second)
}
