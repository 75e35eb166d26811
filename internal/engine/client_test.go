package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominicbrandes/aztec-exchange/internal/model"
)

type alwaysAlive struct{ alive bool }

func (a alwaysAlive) IsAlive() bool { return a.alive }

// newPipedClient wires a Client to an in-process fake engine goroutine that
// responds to each scanned line with respond(line).
func newPipedClient(t *testing.T, respond func(line []byte) []byte) (*Client, func()) {
	t.Helper()
	clientWriteSide, engineReadSide := io.Pipe()
	engineWriteSide, clientReadSide := io.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(engineReadSide)
		for scanner.Scan() {
			reply := respond(append([]byte(nil), scanner.Bytes()...))
			if reply == nil {
				engineWriteSide.Close()
				return
			}
			reply = append(reply, '\n')
			if _, err := engineWriteSide.Write(reply); err != nil {
				return
			}
		}
		engineWriteSide.Close()
	}()

	client := NewClient(clientWriteSide, clientReadSide, alwaysAlive{alive: true})
	cleanup := func() {
		clientWriteSide.Close()
		<-done
	}
	return client, cleanup
}

func TestClient_PlaceOrder_Success(t *testing.T) {
	client, cleanup := newPipedClient(t, func(line []byte) []byte {
		var req struct {
			Cmd   string `json:"cmd"`
			ReqID string `json:"req_id"`
		}
		require.NoError(t, json.Unmarshal(line, &req))
		assert.Equal(t, "place_order", req.Cmd)
		assert.NotEmpty(t, req.ReqID)

		env := Envelope{
			Success: true,
			ReqID:   req.ReqID,
			Data:    json.RawMessage(`{"order":{"id":1,"account_id":"u1","symbol":"BTC-USD","side":"BUY","type":"LIMIT","price":100,"quantity":1,"remaining_qty":1,"timestamp_ns":5,"status":"NEW"},"trades":[]}`),
		}
		b, _ := json.Marshal(env)
		return b
	})
	defer cleanup()

	result, engErr, err := client.PlaceOrder(context.Background(), model.CommandOrder{
		AccountID: "u1", Symbol: "BTC-USD", Side: model.SideBuy, Type: model.TypeLimit, Price: 100, Quantity: 1,
	})
	require.NoError(t, err)
	require.Nil(t, engErr)
	assert.Equal(t, int64(1), result.Order.ID)
	assert.Equal(t, model.StatusNew, result.Order.Status)
	assert.Empty(t, result.Trades)
}

func TestClient_BusinessError(t *testing.T) {
	client, cleanup := newPipedClient(t, func(line []byte) []byte {
		env := Envelope{Success: false, Error: &EngineError{Code: "ORDER_NOT_FOUND", Message: "no such order"}}
		b, _ := json.Marshal(env)
		return b
	})
	defer cleanup()

	order, engErr, err := client.GetOrder(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, order)
	require.NotNil(t, engErr)
	assert.Equal(t, "ORDER_NOT_FOUND", engErr.Code)
}

func TestClient_MalformedJSON(t *testing.T) {
	client, cleanup := newPipedClient(t, func(line []byte) []byte {
		return []byte("not json")
	})
	defer cleanup()

	_, _, err := client.GetStats(context.Background())
	require.Error(t, err)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Message, "invalid JSON")
}

func TestClient_EngineClosedConnection(t *testing.T) {
	client, cleanup := newPipedClient(t, func(line []byte) []byte {
		return nil // signals the fake engine to close its write side without replying
	})
	defer cleanup()

	_, _, err := client.GetStats(context.Background())
	require.Error(t, err)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Message, "no response")
}

func TestClient_EngineAlreadyExited(t *testing.T) {
	clientWriteSide, engineReadSide := io.Pipe()
	_, clientReadSide := io.Pipe()
	defer clientWriteSide.Close()
	defer engineReadSide.Close()

	client := NewClient(clientWriteSide, clientReadSide, alwaysAlive{alive: false})
	_, _, err := client.GetStats(context.Background())
	require.Error(t, err)
	assert.True(t, client.Faulted())
}

func TestClient_FaultedStaysFaulted(t *testing.T) {
	client, cleanup := newPipedClient(t, func(line []byte) []byte { return nil })
	defer cleanup()

	_, _, err := client.GetStats(context.Background())
	require.Error(t, err)
	assert.True(t, client.Faulted())

	_, _, err = client.GetStats(context.Background())
	require.Error(t, err)
}

func TestClient_SerializesConcurrentCalls(t *testing.T) {
	client, cleanup := newPipedClient(t, func(line []byte) []byte {
		var req struct {
			Cmd     string `json:"cmd"`
			ReqID   string `json:"req_id"`
			OrderID int64  `json:"order_id"`
		}
		_ = json.Unmarshal(line, &req)
		env := Envelope{Success: true, ReqID: req.ReqID, Data: json.RawMessage(`{"order":{"id":` + itoa(req.OrderID) + `,"account_id":"u","symbol":"BTC-USD","side":"BUY","type":"LIMIT","price":1,"quantity":1,"remaining_qty":1,"timestamp_ns":1,"status":"NEW"}}`)}
		b, _ := json.Marshal(env)
		return b
	})
	defer cleanup()

	const n = 20
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func(id int64) {
			order, _, err := client.GetOrder(context.Background(), id)
			require.NoError(t, err)
			results <- order.ID
		}(int64(i))
	}
	seen := make(map[int64]bool)
	for i := 0; i < n; i++ {
		id := <-results
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
