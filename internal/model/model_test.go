package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Price Scalar `json:"price"`
	}
	w := wrapper{Price: 5000000000000}

	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":5000000000000}`, string(b))

	var out wrapper
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, Scalar(5000000000000), out.Price)
}

func TestPlaceOrderRequest_OptionalFieldOmission(t *testing.T) {
	req := PlaceOrderRequest{
		AccountID: "u1",
		Symbol:    "BTC-USD",
		Side:      SideBuy,
		OrderType: TypeLimit,
		Price:     100,
		Quantity:  1,
	}
	cmd := req.ToCommandOrder()
	b, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "idempotency_key")
	assert.NotContains(t, string(b), "client_order_id")

	key := "abc"
	req.IdempotencyKey = &key
	cmd = req.ToCommandOrder()
	b, err = json.Marshal(cmd)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"idempotency_key":"abc"`)
}

func TestValidator_RejectsBadSymbol(t *testing.T) {
	v := NewValidator()
	req := PlaceOrderRequest{
		AccountID: "u1",
		Symbol:    "btc-usd",
		Side:      SideBuy,
		OrderType: TypeLimit,
		Price:     100,
		Quantity:  1,
	}
	err := v.ValidateStruct(req)
	require.NotNil(t, err)
	assert.Equal(t, "symbol", err.Details["field"])
}

func TestValidator_RejectsZeroQuantity(t *testing.T) {
	v := NewValidator()
	req := PlaceOrderRequest{
		AccountID: "u1",
		Symbol:    "BTC-USD",
		Side:      SideBuy,
		OrderType: TypeLimit,
		Price:     100,
		Quantity:  0,
	}
	err := v.ValidateStruct(req)
	require.NotNil(t, err)
	assert.Equal(t, "quantity", err.Details["field"])
}

func TestValidator_AcceptsValid(t *testing.T) {
	v := NewValidator()
	req := PlaceOrderRequest{
		AccountID: "u1",
		Symbol:    "BTC-USD",
		Side:      SideBuy,
		OrderType: TypeLimit,
		Price:     100,
		Quantity:  1,
	}
	assert.Nil(t, v.ValidateStruct(req))
}
