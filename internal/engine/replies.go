package engine

import (
	"encoding/json"

	"github.com/dominicbrandes/aztec-exchange/internal/model"
)

// Envelope is the engine's reply shape: {success, data?, error?, req_id}.
// Data is left as raw bytes because its shape depends on which command it
// answers; each convenience method on Client decodes it a second time into
// the matching reply struct below.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *EngineError    `json:"error,omitempty"`
	ReqID   string          `json:"req_id"`
}

// EngineError is the engine's business-error payload.
type EngineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type placeOrderReply struct {
	Order  model.Order   `json:"order"`
	Trades []model.Trade `json:"trades"`
}

type orderReply struct {
	Order model.Order `json:"order"`
}

type bookReply struct {
	Symbol string             `json:"symbol"`
	Bids   []model.BookLevel  `json:"bids"`
	Asks   []model.BookLevel  `json:"asks"`
}

type tradesReply struct {
	Symbol string        `json:"symbol"`
	Trades []model.Trade `json:"trades"`
}

type statsReply struct {
	TotalOrders   int64 `json:"total_orders"`
	TotalTrades   int64 `json:"total_trades"`
	TotalCancels  int64 `json:"total_cancels"`
	TotalRejects  int64 `json:"total_rejects"`
	EventSequence int64 `json:"event_sequence"`
}

type healthReply struct {
	TimestampNs model.NanosTimestamp `json:"timestamp_ns"`
}
