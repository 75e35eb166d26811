package model

// PlaceOrderRequest is the inbound HTTP body for POST /api/v1/orders.
//
// IdempotencyKey and ClientOrderID are pointers rather than plain strings:
// the engine distinguishes an absent field from a present-but-empty one, so
// decoding into pointers preserves "was this key present in the JSON" all
// the way through to command construction (see ToCommandOrder).
type PlaceOrderRequest struct {
	AccountID      string  `json:"account_id" validate:"required,min=1,max=64"`
	Symbol         string  `json:"symbol" validate:"required,symbol"`
	Side           Side    `json:"side" validate:"required,oneof=BUY SELL"`
	OrderType      Type    `json:"type" validate:"required,oneof=LIMIT MARKET"`
	Price          Scalar  `json:"price" validate:"gte=0"`
	Quantity       Scalar  `json:"quantity" validate:"gt=0"`
	IdempotencyKey *string `json:"idempotency_key,omitempty" validate:"omitempty,max=64"`
	ClientOrderID  *string `json:"client_order_id,omitempty" validate:"omitempty,max=64"`
}

// CommandOrder is the shape forwarded to the engine as the place_order
// command's "order" field. Optional fields are pointers with omitempty so a
// field absent from the HTTP body is absent from the outbound JSON too,
// never serialized as null.
type CommandOrder struct {
	AccountID      string  `json:"account_id"`
	Symbol         string  `json:"symbol"`
	Side           Side    `json:"side"`
	Type           Type    `json:"type"`
	Price          Scalar  `json:"price"`
	Quantity       Scalar  `json:"quantity"`
	IdempotencyKey *string `json:"idempotency_key,omitempty"`
	ClientOrderID  *string `json:"client_order_id,omitempty"`
}

// ToCommandOrder converts a validated request into the engine wire shape.
func (r PlaceOrderRequest) ToCommandOrder() CommandOrder {
	return CommandOrder{
		AccountID:      r.AccountID,
		Symbol:         r.Symbol,
		Side:           r.Side,
		Type:           r.OrderType,
		Price:          r.Price,
		Quantity:       r.Quantity,
		IdempotencyKey: r.IdempotencyKey,
		ClientOrderID:  r.ClientOrderID,
	}
}
