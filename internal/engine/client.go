package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dominicbrandes/aztec-exchange/internal/model"
)

// TransportError is returned by Client for every C5 failure mode: a closed
// pipe, a write failure, EOF before a newline, or a malformed JSON reply.
// Handlers wrap it with apperr.Transport before it reaches an HTTP response,
// so the caller never sees more than "an internal error occurred".
type TransportError struct {
	Message string
	Cause   error
	Raw     []byte
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Cause }

func newTransportError(msg string) *TransportError {
	return &TransportError{Message: msg}
}

func wrapTransportError(cause error) *TransportError {
	return &TransportError{Message: "engine transport failure", Cause: cause}
}

func newMalformedJSONError(raw []byte, cause error) *TransportError {
	return &TransportError{Message: "engine returned invalid JSON", Cause: cause, Raw: raw}
}

// AliveChecker reports whether the engine subprocess is still running,
// without blocking. Supervisor satisfies this interface; Client depends on
// the interface rather than *Supervisor so it can be exercised against a
// fake in tests.
type AliveChecker interface {
	IsAlive() bool
}

// Client is the gateway's only channel to the engine: one mutex serializes
// every send/receive pair over the shared stdin/stdout pipes, because the
// engine's replies are not correlated client-side by req_id (see
// requestHeader.ReqID — it is echoed back but never used for routing).
type Client struct {
	mu      sync.Mutex
	w       *bufio.Writer
	scanner *bufio.Scanner
	alive   AliveChecker
	faulted atomic.Bool
}

// NewClient wraps the supervisor's stdin writer and stdout reader. Client
// never closes either handle; Supervisor is the sole closer.
func NewClient(w io.Writer, r io.Reader, alive AliveChecker) *Client {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &Client{
		w:       bufio.NewWriter(w),
		scanner: scanner,
		alive:   alive,
	}
}

func newHeader(cmd string) requestHeader {
	return requestHeader{Cmd: cmd, ReqID: uuid.NewString()}
}

// send is the sole mutex-guarded critical section: one JSON line out, one
// JSON line in, paired and ordered per the spec's wire framing.
func (c *Client) send(cmd any) (*Envelope, error) {
	if c.faulted.Load() {
		return nil, newTransportError("engine not running")
	}
	if c.alive != nil && !c.alive.IsAlive() {
		c.faulted.Store(true)
		return nil, newTransportError("engine process already exited")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	if _, err := c.w.Write(data); err != nil {
		c.faulted.Store(true)
		return nil, wrapTransportError(err)
	}
	if err := c.w.Flush(); err != nil {
		c.faulted.Store(true)
		return nil, wrapTransportError(err)
	}

	if !c.scanner.Scan() {
		c.faulted.Store(true)
		if scanErr := c.scanner.Err(); scanErr != nil {
			return nil, wrapTransportError(scanErr)
		}
		return nil, newTransportError("engine closed connection (no response)")
	}

	line := append([]byte(nil), c.scanner.Bytes()...)
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		c.faulted.Store(true)
		return nil, newMalformedJSONError(line, err)
	}
	return &env, nil
}

// Faulted reports whether the client has recorded an unrecoverable
// transport failure and will reject all further sends.
func (c *Client) Faulted() bool {
	return c.faulted.Load()
}

// PlaceOrder sends place_order. A non-nil *EngineError indicates an
// envelope-level business error (success=false); a non-nil error indicates
// a transport failure. Exactly one of (result, engineErr, error) pairs is
// populated meaningfully on any given call.
func (c *Client) PlaceOrder(_ context.Context, order model.CommandOrder) (*model.PlaceOrderResult, *EngineError, error) {
	env, err := c.send(placeOrderCommand{requestHeader: newHeader("place_order"), Order: order})
	if err != nil {
		return nil, nil, err
	}
	if !env.Success {
		return nil, env.Error, nil
	}
	var reply placeOrderReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		return nil, nil, newMalformedJSONError(env.Data, err)
	}
	return &model.PlaceOrderResult{Order: reply.Order, Trades: reply.Trades}, nil, nil
}

// CancelOrder sends cancel_order.
func (c *Client) CancelOrder(_ context.Context, orderID int64) (*model.Order, *EngineError, error) {
	env, err := c.send(cancelOrderCommand{requestHeader: newHeader("cancel_order"), OrderID: orderID})
	if err != nil {
		return nil, nil, err
	}
	if !env.Success {
		return nil, env.Error, nil
	}
	var reply orderReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		return nil, nil, newMalformedJSONError(env.Data, err)
	}
	return &reply.Order, nil, nil
}

// GetOrder sends get_order.
func (c *Client) GetOrder(_ context.Context, orderID int64) (*model.Order, *EngineError, error) {
	env, err := c.send(getOrderCommand{requestHeader: newHeader("get_order"), OrderID: orderID})
	if err != nil {
		return nil, nil, err
	}
	if !env.Success {
		return nil, env.Error, nil
	}
	var reply orderReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		return nil, nil, newMalformedJSONError(env.Data, err)
	}
	return &reply.Order, nil, nil
}

// GetBook sends get_book.
func (c *Client) GetBook(_ context.Context, symbol string, depth int) (*model.OrderBookResponse, *EngineError, error) {
	env, err := c.send(getBookCommand{requestHeader: newHeader("get_book"), Symbol: symbol, Depth: depth})
	if err != nil {
		return nil, nil, err
	}
	if !env.Success {
		return nil, env.Error, nil
	}
	var reply bookReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		return nil, nil, newMalformedJSONError(env.Data, err)
	}
	return &model.OrderBookResponse{Symbol: reply.Symbol, Bids: reply.Bids, Asks: reply.Asks}, nil, nil
}

// GetTrades sends get_trades.
func (c *Client) GetTrades(_ context.Context, symbol string, limit int) (*model.TradesResult, *EngineError, error) {
	env, err := c.send(getTradesCommand{requestHeader: newHeader("get_trades"), Symbol: symbol, Limit: limit})
	if err != nil {
		return nil, nil, err
	}
	if !env.Success {
		return nil, env.Error, nil
	}
	var reply tradesReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		return nil, nil, newMalformedJSONError(env.Data, err)
	}
	return &model.TradesResult{Symbol: reply.Symbol, Trades: reply.Trades}, nil, nil
}

// GetStats sends get_stats.
func (c *Client) GetStats(_ context.Context) (*model.StatsResult, *EngineError, error) {
	env, err := c.send(getStatsCommand{requestHeader: newHeader("get_stats")})
	if err != nil {
		return nil, nil, err
	}
	if !env.Success {
		return nil, env.Error, nil
	}
	var reply statsReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		return nil, nil, newMalformedJSONError(env.Data, err)
	}
	return &model.StatsResult{
		TotalOrders:   reply.TotalOrders,
		TotalTrades:   reply.TotalTrades,
		TotalCancels:  reply.TotalCancels,
		TotalRejects:  reply.TotalRejects,
		EventSequence: reply.EventSequence,
	}, nil, nil
}

// Health sends health. Unlike the other convenience methods it is expected
// to be called even when the engine may be dead; callers treat any non-nil
// error as "degraded" rather than propagating it.
func (c *Client) Health(_ context.Context) (model.NanosTimestamp, error) {
	env, err := c.send(healthCommand{requestHeader: newHeader("health")})
	if err != nil {
		return 0, err
	}
	if !env.Success {
		return 0, fmt.Errorf("engine health check failed: %s", env.Error.Message)
	}
	var reply healthReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		return 0, newMalformedJSONError(env.Data, err)
	}
	return reply.TimestampNs, nil
}

// Shutdown sends shutdown. Callers (Supervisor.Stop) ignore any error it
// returns, per spec: graceful shutdown is best-effort.
func (c *Client) Shutdown(_ context.Context) error {
	_, err := c.send(shutdownCommand{requestHeader: newHeader("shutdown")})
	return err
}
