package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/nimasrn/ledger/internal/model"
	xhttp "github.com/nimasrn/ledger/pkg/http"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientHandler_ListClients(t *testing.T) {
	t.Run("shapes debt and last payment", func(t *testing.T) {
		svc := new(MockClientService)
		h := newTestRouter(svc, nil, nil)

		svc.On("ListClients", mock.Anything).Return([]*model.ClientSummary{
			{ID: 1, Name: "Ana", DebtTotal: decimal.Zero},
			{ID: 2, Name: "Bob", DebtTotal: decimal.NewFromFloat(30.014999999999997), LastPaymentDate: model.NewNullDate(model.NewDate(2024, time.May, 1))},
		}, nil)

		ctx := serve(h, "GET", "/api/clients", "")
		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
		assert.JSONEq(t, `[
			{"id":1,"name":"Ana","debt_total":"0.00","last_payment_date":null},
			{"id":2,"name":"Bob","debt_total":"30.02","last_payment_date":"2024-05-01"}
		]`, string(ctx.Response.Body()))
	})

	t.Run("empty list is an array", func(t *testing.T) {
		svc := new(MockClientService)
		h := newTestRouter(svc, nil, nil)
		svc.On("ListClients", mock.Anything).Return([]*model.ClientSummary{}, nil)

		ctx := serve(h, "GET", "/api/clients", "")
		assert.JSONEq(t, `[]`, string(ctx.Response.Body()))
	})

	t.Run("store error", func(t *testing.T) {
		svc := new(MockClientService)
		h := newTestRouter(svc, nil, nil)
		svc.On("ListClients", mock.Anything).Return(nil, errors.New("no such table: clients"))

		ctx := serve(h, "GET", "/api/clients", "")
		assert.Equal(t, xhttp.StatusInternalServerError, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"error":"no such table: clients"}`, string(ctx.Response.Body()))
	})
}

func TestClientHandler_CreateClient(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockClientService)
		h := newTestRouter(svc, nil, nil)
		svc.On("CreateClient", mock.Anything, "Ana").Return(&model.Client{ID: 42, Name: "Ana"}, nil)

		ctx := serve(h, "POST", "/api/clients", `{"name":"Ana"}`)
		assert.Equal(t, xhttp.StatusCreated, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"id":42}`, string(ctx.Response.Body()))
	})

	t.Run("empty name", func(t *testing.T) {
		svc := new(MockClientService)
		h := newTestRouter(svc, nil, nil)
		svc.On("CreateClient", mock.Anything, "").Return(nil, model.NewValidationError("name", "name is required"))

		ctx := serve(h, "POST", "/api/clients", `{"name":""}`)
		assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"error":"name is required"}`, string(ctx.Response.Body()))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		svc := new(MockClientService)
		h := newTestRouter(svc, nil, nil)

		ctx := serve(h, "POST", "/api/clients", `{"name":`)
		assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything)
	})
}

func TestClientHandler_UpdateClient(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockClientService)
		h := newTestRouter(svc, nil, nil)
		svc.On("UpdateClient", mock.Anything, int64(3), "Bea").Return(nil)

		ctx := serve(h, "PUT", "/api/clients/3", `{"name":"Bea"}`)
		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"ok":true}`, string(ctx.Response.Body()))
		svc.AssertExpectations(t)
	})

	for _, id := range []string{"abc", "0", "-4", "1.5"} {
		t.Run("bad id "+id, func(t *testing.T) {
			svc := new(MockClientService)
			h := newTestRouter(svc, nil, nil)

			ctx := serve(h, "PUT", "/api/clients/"+id, `{"name":"Bea"}`)
			assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
			svc.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestClientHandler_DeleteClient(t *testing.T) {
	svc := new(MockClientService)
	h := newTestRouter(svc, nil, nil)
	svc.On("DeleteClient", mock.Anything, int64(8)).Return(nil)

	ctx := serve(h, "DELETE", "/api/clients/8", "")
	require.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"ok":true}`, string(ctx.Response.Body()))
	svc.AssertExpectations(t)
}
