// Package metrics provides the gateway's Prometheus collectors. Unlike the
// teacher's monitoring.MetricsCollector, which registers against the global
// default registry, Registry wraps a private *prometheus.Registry so tests
// can construct independent instances without collector-already-registered
// panics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBucketsMS = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// Registry holds every named collector the gateway updates from the
// request pipeline and the route handlers.
type Registry struct {
	reg *prometheus.Registry

	OrdersTotal         *prometheus.CounterVec
	OrdersRejectedTotal *prometheus.CounterVec
	TradesTotal         prometheus.Counter
	TradeVolumeTotal    *prometheus.CounterVec
	OrderLatency        prometheus.Histogram
	RequestLatency      *prometheus.HistogramVec
	EngineConnected     prometheus.Gauge
	BookDepth           *prometheus.GaugeVec
	EngineEventSequence prometheus.Gauge
}

// New constructs a Registry with all collectors registered against a fresh,
// private prometheus.Registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	bucketsSeconds := make([]float64, len(latencyBucketsMS))
	for i, ms := range latencyBucketsMS {
		bucketsSeconds[i] = ms / 1000.0
	}

	return &Registry{
		reg: reg,
		OrdersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of orders placed, by side/type/status.",
		}, []string{"side", "type", "status"}),
		OrdersRejectedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Total number of orders rejected by the engine, by reason.",
		}, []string{"reason"}),
		TradesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "trades_total",
			Help: "Total number of trades executed.",
		}),
		TradeVolumeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trade_volume_total",
			Help: "Total traded quantity, by symbol.",
		}, []string{"symbol"}),
		OrderLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_latency_seconds",
			Help:    "Latency of place_order engine round trips.",
			Buckets: bucketsSeconds,
		}),
		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "request_latency_seconds",
			Help:    "HTTP request latency, by method and endpoint.",
			Buckets: bucketsSeconds,
		}, []string{"method", "endpoint"}),
		EngineConnected: f.NewGauge(prometheus.GaugeOpts{
			Name: "engine_connected",
			Help: "1 if the engine subprocess is alive and responsive, 0 otherwise.",
		}),
		BookDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "book_depth",
			Help: "Last observed order book depth, by symbol and side.",
		}, []string{"symbol", "side"}),
		EngineEventSequence: f.NewGauge(prometheus.GaugeOpts{
			Name: "engine_event_sequence",
			Help: "Last observed engine event sequence number from get_stats.",
		}),
	}
}

// Handler returns the Prometheus text-format exposition handler for /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request's latency for any endpoint it is
// given; AccessLog skips the call for /metrics to avoid recursive skew.
func (r *Registry) ObserveRequest(method, endpoint string, d time.Duration) {
	r.RequestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
}
