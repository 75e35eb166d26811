package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dominicbrandes/aztec-exchange/internal/apperr"
	"github.com/dominicbrandes/aztec-exchange/internal/engine"
	"github.com/dominicbrandes/aztec-exchange/internal/httpresp"
	"github.com/dominicbrandes/aztec-exchange/internal/logging"
	"github.com/dominicbrandes/aztec-exchange/internal/metrics"
	"github.com/dominicbrandes/aztec-exchange/internal/model"
)

const (
	defaultBookDepth  = 10
	defaultTradeLimit = 100
	maxTradeLimit     = 1000
)

// EngineClient is the subset of *engine.Client the handlers depend on,
// narrowed to an interface so tests can exercise the HTTP layer against a
// fake engine without a real subprocess.
type EngineClient interface {
	PlaceOrder(ctx context.Context, order model.CommandOrder) (*model.PlaceOrderResult, *engine.EngineError, error)
	CancelOrder(ctx context.Context, orderID int64) (*model.Order, *engine.EngineError, error)
	GetOrder(ctx context.Context, orderID int64) (*model.Order, *engine.EngineError, error)
	GetBook(ctx context.Context, symbol string, depth int) (*model.OrderBookResponse, *engine.EngineError, error)
	GetTrades(ctx context.Context, symbol string, limit int) (*model.TradesResult, *engine.EngineError, error)
	GetStats(ctx context.Context) (*model.StatsResult, *engine.EngineError, error)
	Health(ctx context.Context) (model.NanosTimestamp, error)
}

// Handlers holds everything the C9 route handlers need: the engine client,
// the request validator, and the metrics registry they update on the way
// through, grounded on the teacher's ServiceProxy (internal/gateway/proxy.go)
// as a logger+client-holding, fx-constructed component.
type Handlers struct {
	engine    EngineClient
	validator *model.Validator
	metrics   *metrics.Registry
	logger    *zap.Logger
}

// NewHandlers constructs a Handlers bound to one engine client.
func NewHandlers(engineClient EngineClient, validator *model.Validator, reg *metrics.Registry, logger *zap.Logger) *Handlers {
	return &Handlers{engine: engineClient, validator: validator, metrics: reg, logger: logger}
}

// PlaceOrder handles POST /api/v1/orders.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	var req model.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.WriteError(c, apperr.Validation("body", err.Error()))
		return
	}
	if verr := h.validator.ValidateStruct(req); verr != nil {
		httpresp.WriteError(c, verr)
		return
	}

	start := time.Now()
	result, engErr, err := h.engine.PlaceOrder(c.Request.Context(), req.ToCommandOrder())
	h.metrics.OrderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("place_order transport failure", zap.Error(err))
		h.metrics.EngineConnected.Set(0)
		httpresp.WriteError(c, apperr.Transport(err))
		return
	}
	if engErr != nil {
		h.metrics.OrdersRejectedTotal.WithLabelValues(engErr.Code).Inc()
		httpresp.WriteError(c, apperr.Business(http.StatusBadRequest, engErr.Code, engErr.Message))
		return
	}

	h.metrics.OrdersTotal.WithLabelValues(string(result.Order.Side), string(result.Order.Type), string(result.Order.Status)).Inc()
	for _, t := range result.Trades {
		h.metrics.TradesTotal.Inc()
		h.metrics.TradeVolumeTotal.WithLabelValues(t.Symbol).Add(float64(t.Quantity))
	}
	c.JSON(http.StatusOK, result)
}

// GetOrder handles GET /api/v1/orders/{id}.
func (h *Handlers) GetOrder(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		httpresp.WriteError(c, err)
		return
	}

	order, engErr, transportErr := h.engine.GetOrder(c.Request.Context(), id)
	if transportErr != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("get_order transport failure", zap.Error(transportErr))
		h.metrics.EngineConnected.Set(0)
		httpresp.WriteError(c, apperr.Transport(transportErr))
		return
	}
	if engErr != nil {
		httpresp.WriteError(c, apperr.Business(http.StatusNotFound, engErr.Code, engErr.Message))
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder handles DELETE /api/v1/orders/{id}.
func (h *Handlers) CancelOrder(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		httpresp.WriteError(c, err)
		return
	}

	order, engErr, transportErr := h.engine.CancelOrder(c.Request.Context(), id)
	if transportErr != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("cancel_order transport failure", zap.Error(transportErr))
		h.metrics.EngineConnected.Set(0)
		httpresp.WriteError(c, apperr.Transport(transportErr))
		return
	}
	if engErr != nil {
		httpresp.WriteError(c, apperr.Business(http.StatusNotFound, engErr.Code, engErr.Message))
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetBook handles GET /api/v1/book/{symbol}.
func (h *Handlers) GetBook(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	depth := queryIntOrDefault(c, "depth", defaultBookDepth)

	book, engErr, err := h.engine.GetBook(c.Request.Context(), symbol, depth)
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("get_book transport failure", zap.Error(err))
		h.metrics.EngineConnected.Set(0)
		httpresp.WriteError(c, apperr.Transport(err))
		return
	}
	if engErr != nil {
		httpresp.WriteError(c, apperr.Business(http.StatusInternalServerError, engErr.Code, engErr.Message))
		return
	}

	h.metrics.BookDepth.WithLabelValues(book.Symbol, "bid").Set(float64(len(book.Bids)))
	h.metrics.BookDepth.WithLabelValues(book.Symbol, "ask").Set(float64(len(book.Asks)))
	c.JSON(http.StatusOK, book)
}

// GetTrades handles GET /api/v1/trades/{symbol}.
func (h *Handlers) GetTrades(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	limit := clampedQueryInt(c, "limit", defaultTradeLimit, 1, maxTradeLimit)

	trades, engErr, err := h.engine.GetTrades(c.Request.Context(), symbol, limit)
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("get_trades transport failure", zap.Error(err))
		h.metrics.EngineConnected.Set(0)
		httpresp.WriteError(c, apperr.Transport(err))
		return
	}
	if engErr != nil {
		httpresp.WriteError(c, apperr.Business(http.StatusInternalServerError, engErr.Code, engErr.Message))
		return
	}
	c.JSON(http.StatusOK, trades)
}

// GetStats handles GET /api/v1/stats.
func (h *Handlers) GetStats(c *gin.Context) {
	stats, engErr, err := h.engine.GetStats(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("get_stats transport failure", zap.Error(err))
		h.metrics.EngineConnected.Set(0)
		httpresp.WriteError(c, apperr.Transport(err))
		return
	}
	if engErr != nil {
		httpresp.WriteError(c, apperr.Business(http.StatusInternalServerError, engErr.Code, engErr.Message))
		return
	}
	h.metrics.EngineEventSequence.Set(float64(stats.EventSequence))
	c.JSON(http.StatusOK, stats)
}

// Health handles GET /api/v1/health. Unlike every other handler, an engine
// transport failure here is reported as a 200 "degraded" body rather than a
// 500, per spec: health must not throw.
func (h *Handlers) Health(c *gin.Context) {
	ts, err := h.engine.Health(c.Request.Context())
	if err != nil {
		h.metrics.EngineConnected.Set(0)
		c.JSON(http.StatusOK, model.HealthResult{Status: "degraded", TimestampNs: 0, EngineConnected: false})
		return
	}
	h.metrics.EngineConnected.Set(1)
	c.JSON(http.StatusOK, model.HealthResult{Status: "healthy", TimestampNs: ts, EngineConnected: true})
}

// Root handles GET /, returning a constant service descriptor.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "aztec_exchange",
		"version": "1.0.0",
	})
}

func parseOrderID(c *gin.Context) (int64, *apperr.Error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("id", "must be an integer")
	}
	return id, nil
}

func normalizeSymbol(raw string) string {
	return strings.ToUpper(raw)
}

// queryIntOrDefault parses an integer query param, falling back to def on
// absence or malformed input.
func queryIntOrDefault(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// clampedQueryInt parses an integer query param like queryIntOrDefault, then
// clamps the result to [min, max] — used for /trades' limit, which the spec
// caps at 1000 but get_book's depth does not.
func clampedQueryInt(c *gin.Context, key string, def, min, max int) int {
	v := queryIntOrDefault(c, key, def)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
