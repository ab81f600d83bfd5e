package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nimasrn/ledger/internal/model"
	xhttp "github.com/nimasrn/ledger/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) ListClients(ctx context.Context) ([]*model.ClientSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ClientSummary), args.Error(1)
}

func (m *MockClientService) CreateClient(ctx context.Context, name string) (*model.Client, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, id int64, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *MockClientService) DeleteClient(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockMovementService struct {
	mock.Mock
}

func (m *MockMovementService) ListMovements(ctx context.Context, clientID int64) ([]*model.Movement, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Movement), args.Error(1)
}

func (m *MockMovementService) RecordSale(ctx context.Context, req model.SaleRequest) (*model.Movement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movement), args.Error(1)
}

func (m *MockMovementService) RecordPayment(ctx context.Context, req model.PaymentRequest) (*model.Movement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movement), args.Error(1)
}

func (m *MockMovementService) UpdateMovement(ctx context.Context, id int64, u model.MovementUpdate) error {
	return m.Called(ctx, id, u).Error(0)
}

func (m *MockMovementService) UpdateMovementField(ctx context.Context, id int64, field string, value any) error {
	return m.Called(ctx, id, field, value).Error(0)
}

func (m *MockMovementService) DeleteMovement(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Get(ctx context.Context) model.Health {
	return m.Called(ctx).Get(0).(model.Health)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

// newTestRouter registers every ledger route the way cmd/api does.
func newTestRouter(clients ClientService, movements MovementService, health HealthService) xhttp.RequestHandler {
	r := xhttp.CreateDefaultRouter()
	api := r.Group("/api")
	if clients != nil {
		RegisterClientRoutes(api, NewClientHandler(clients))
	}
	if movements != nil {
		RegisterMovementRoutes(api, NewMovementHandler(movements))
	}
	if health != nil {
		RegisterHealthRoutes(api, NewHealthHandler(health))
	}
	return r.Handler
}

func serve(h xhttp.RequestHandler, method, path, body string) *xhttp.RequestCtx {
	var b []byte
	if body != "" {
		b = []byte(body)
	}
	ctx := setupTestContext(method, path, b)
	h(ctx)
	return ctx
}

func decodeBody(t *testing.T, ctx *xhttp.RequestCtx, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), dst), string(ctx.Response.Body()))
}

