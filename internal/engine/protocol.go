// Package engine owns the two tightly-coupled subsystems that talk to the
// matching engine subprocess: Supervisor (process lifecycle) and Client
// (the framed, serialized line protocol). This file defines the Go shape of
// every command the gateway can send, one struct per command, each
// embedding requestHeader so cmd/req_id sit at the top level of the
// marshaled JSON line.
package engine

import "github.com/dominicbrandes/aztec-exchange/internal/model"

// requestHeader carries the two fields every engine command must include.
type requestHeader struct {
	Cmd   string `json:"cmd"`
	ReqID string `json:"req_id"`
}

type placeOrderCommand struct {
	requestHeader
	Order model.CommandOrder `json:"order"`
}

type cancelOrderCommand struct {
	requestHeader
	OrderID int64 `json:"order_id"`
}

type getOrderCommand struct {
	requestHeader
	OrderID int64 `json:"order_id"`
}

type getBookCommand struct {
	requestHeader
	Symbol string `json:"symbol"`
	Depth  int    `json:"depth"`
}

type getTradesCommand struct {
	requestHeader
	Symbol string `json:"symbol"`
	Limit  int    `json:"limit"`
}

type getStatsCommand struct {
	requestHeader
}

type healthCommand struct {
	requestHeader
}

type shutdownCommand struct {
	requestHeader
}
