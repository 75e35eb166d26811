package api

import (
	"context"

	"github.com/dominicbrandes/aztec-exchange/internal/engine"
	"github.com/dominicbrandes/aztec-exchange/internal/model"
)

// supervisorEngineClient adapts *engine.Supervisor to the EngineClient
// interface by resolving the underlying *engine.Client lazily on every call.
// This indirection exists because fx builds the object graph (and thus
// constructs Handlers) before OnStart hooks run, so the supervisor's Client()
// is still nil at Handlers-construction time; by the time a request arrives
// the engine has started and Client() resolves.
type supervisorEngineClient struct {
	sup *engine.Supervisor
}

// NewSupervisorEngineClient wraps sup as an EngineClient for Handlers.
func NewSupervisorEngineClient(sup *engine.Supervisor) EngineClient {
	return &supervisorEngineClient{sup: sup}
}

func (s *supervisorEngineClient) client() *engine.Client { return s.sup.Client() }

func (s *supervisorEngineClient) PlaceOrder(ctx context.Context, order model.CommandOrder) (*model.PlaceOrderResult, *engine.EngineError, error) {
	return s.client().PlaceOrder(ctx, order)
}

func (s *supervisorEngineClient) CancelOrder(ctx context.Context, orderID int64) (*model.Order, *engine.EngineError, error) {
	return s.client().CancelOrder(ctx, orderID)
}

func (s *supervisorEngineClient) GetOrder(ctx context.Context, orderID int64) (*model.Order, *engine.EngineError, error) {
	return s.client().GetOrder(ctx, orderID)
}

func (s *supervisorEngineClient) GetBook(ctx context.Context, symbol string, depth int) (*model.OrderBookResponse, *engine.EngineError, error) {
	return s.client().GetBook(ctx, symbol, depth)
}

func (s *supervisorEngineClient) GetTrades(ctx context.Context, symbol string, limit int) (*model.TradesResult, *engine.EngineError, error) {
	return s.client().GetTrades(ctx, symbol, limit)
}

func (s *supervisorEngineClient) GetStats(ctx context.Context) (*model.StatsResult, *engine.EngineError, error) {
	return s.client().GetStats(ctx)
}

func (s *supervisorEngineClient) Health(ctx context.Context) (model.NanosTimestamp, error) {
	return s.client().Health(ctx)
}
