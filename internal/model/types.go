// Package model holds the gateway's wire types: the inbound order request,
// the engine-returned entities it echoes back to HTTP callers, and the
// fixed-point/enum primitives shared between them.
package model

// Scalar is a 64-bit signed fixed-point decimal at scale 1e8: 100000000
// represents 1.0. It is a plain int64 under the hood — encoding/json already
// marshals a named integer type as a JSON number, which is the wire shape
// the engine protocol requires (never a string).
type Scalar int64

// NanosTimestamp is a wall-clock nanosecond timestamp.
type NanosTimestamp int64

// Side is an order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Type is an order type.
type Type string

const (
	TypeLimit  Type = "LIMIT"
	TypeMarket Type = "MARKET"
)

// Status is an order's lifecycle status as reported by the engine.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusPartial   Status = "PARTIAL"
	StatusFilled    Status = "FILLED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

// Order is the engine's canonical order representation.
type Order struct {
	ID              int64   `json:"id"`
	AccountID       string  `json:"account_id"`
	Symbol          string  `json:"symbol"`
	Side            Side    `json:"side"`
	Type            Type    `json:"type"`
	Price           Scalar  `json:"price"`
	Quantity        Scalar  `json:"quantity"`
	RemainingQty    Scalar  `json:"remaining_qty"`
	TimestampNs     NanosTimestamp `json:"timestamp_ns"`
	Status          Status  `json:"status"`
	IdempotencyKey  *string `json:"idempotency_key,omitempty"`
	ClientOrderID   *string `json:"client_order_id,omitempty"`
}

// Trade is one execution between a resting and an incoming order.
type Trade struct {
	ID               int64          `json:"id"`
	BuyOrderID       int64          `json:"buy_order_id"`
	SellOrderID      int64          `json:"sell_order_id"`
	Symbol           string         `json:"symbol"`
	Price            Scalar         `json:"price"`
	Quantity         Scalar         `json:"quantity"`
	TimestampNs      NanosTimestamp `json:"timestamp_ns"`
	BuyerAccountID   string         `json:"buyer_account_id"`
	SellerAccountID  string         `json:"seller_account_id"`
}

// BookLevel is one aggregated price level in an order book snapshot.
type BookLevel struct {
	Price      Scalar `json:"price"`
	Quantity   Scalar `json:"quantity"`
	OrderCount int    `json:"order_count"`
}

// OrderBookResponse is the HTTP-facing order book snapshot.
type OrderBookResponse struct {
	Symbol string      `json:"symbol"`
	Bids   []BookLevel `json:"bids"`
	Asks   []BookLevel `json:"asks"`
}

// PlaceOrderResult is the HTTP-facing response to a successful place_order.
type PlaceOrderResult struct {
	Order  Order   `json:"order"`
	Trades []Trade `json:"trades"`
}

// TradesResult is the HTTP-facing response to get_trades.
type TradesResult struct {
	Symbol string  `json:"symbol"`
	Trades []Trade `json:"trades"`
}

// StatsResult is the HTTP-facing response to get_stats.
type StatsResult struct {
	TotalOrders    int64 `json:"total_orders"`
	TotalTrades    int64 `json:"total_trades"`
	TotalCancels   int64 `json:"total_cancels"`
	TotalRejects   int64 `json:"total_rejects"`
	EventSequence  int64 `json:"event_sequence"`
}

// HealthResult is the HTTP-facing response to GET /health.
type HealthResult struct {
	Status          string         `json:"status"`
	TimestampNs     NanosTimestamp `json:"timestamp_ns"`
	EngineConnected bool           `json:"engine_connected"`
}
