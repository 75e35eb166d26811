// Package logging builds the gateway's structured JSON logger. It follows
// the teacher's zap.NewProduction()-style construction (see
// cmd/gateway/main.go in the source tree) but pins the encoder config to
// the exact field names and layout the gateway's log lines must carry.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dominicbrandes/aztec-exchange/internal/reqctx"
)

const loggerName = "aztec_exchange"

// New builds the process-wide JSON logger, writing to stdout with
// millisecond-precision ISO-8601 timestamps.
func New() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.LevelKey = "level"
	cfg.NameKey = "logger"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	encoder := zapcore.NewJSONEncoder(cfg)
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel)

	return zap.New(core).Named(loggerName)
}

// FromContext returns base annotated with the request id bound to ctx, or
// base unchanged when called outside request scope.
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if id := reqctx.RequestID(ctx); id != "" {
		return base.With(zap.String("request_id", id))
	}
	return base
}
