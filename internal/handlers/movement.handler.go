package handlers

import (
	"context"
	"encoding/json"

	"github.com/fasthttp/router"
	"github.com/nimasrn/ledger/internal/model"
	xhttp "github.com/nimasrn/ledger/pkg/http"
)

type MovementService interface {
	ListMovements(ctx context.Context, clientID int64) ([]*model.Movement, error)
	RecordSale(ctx context.Context, req model.SaleRequest) (*model.Movement, error)
	RecordPayment(ctx context.Context, req model.PaymentRequest) (*model.Movement, error)
	UpdateMovement(ctx context.Context, id int64, u model.MovementUpdate) error
	UpdateMovementField(ctx context.Context, id int64, field string, value any) error
	DeleteMovement(ctx context.Context, id int64) error
}

type MovementHandler struct {
	svc MovementService
}

func RegisterMovementRoutes(e *router.Group, h *MovementHandler) {
	e.GET("/clients/{id}/movements", h.ListMovements)
	e.POST("/clients/{id}/sale", h.CreateSale)
	e.POST("/clients/{id}/payment", h.CreatePayment)
	e.PUT("/movements/{id}", h.UpdateMovement)
	e.PUT("/movements/{id}/field", h.UpdateMovementField)
	e.DELETE("/movements/{id}", h.DeleteMovement)
}

func NewMovementHandler(movementService MovementService) *MovementHandler {
	return &MovementHandler{
		svc: movementService,
	}
}

type saleRequest struct {
	Product   string          `json:"product"`
	Quantity  flexNumber      `json:"quantity"`
	UnitPrice flexNumber      `json:"unit_price"`
	Date      json.RawMessage `json:"date"`
}

type paymentRequest struct {
	Amount flexNumber      `json:"amount"`
	Date   json.RawMessage `json:"date"`
}

type movementUpdateRequest struct {
	Product    string          `json:"product"`
	Quantity   flexNumber      `json:"quantity"`
	UnitPrice  flexNumber      `json:"unit_price"`
	AmountPaid flexNumber      `json:"amount_paid"`
	Date       json.RawMessage `json:"date"`
}

type fieldUpdateRequest struct {
	FieldName string          `json:"field_name"`
	Value     json.RawMessage `json:"value"`
}

func (h *MovementHandler) ListMovements(ctx *xhttp.RequestCtx) {
	clientID, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.ListMovements(ctx, clientID)
	if err != nil {
		writeServiceError(ctx, "list_movements", err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toMovementResponses(list))
}

func (h *MovementHandler) CreateSale(ctx *xhttp.RequestCtx) {
	clientID, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req saleRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBodyError(ctx, err)
		return
	}
	date, err := dateOrZero(req.Date)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	m, err := h.svc.RecordSale(ctx, model.SaleRequest{
		ClientID:  clientID,
		Product:   req.Product,
		Quantity:  req.Quantity.Decimal,
		UnitPrice: req.UnitPrice.Decimal,
		Date:      date,
	})
	if err != nil {
		writeServiceError(ctx, "create_sale", err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, idResponse{ID: m.ID})
}

func (h *MovementHandler) CreatePayment(ctx *xhttp.RequestCtx) {
	clientID, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req paymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBodyError(ctx, err)
		return
	}
	date, err := dateOrZero(req.Date)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	m, err := h.svc.RecordPayment(ctx, model.PaymentRequest{
		ClientID: clientID,
		Amount:   req.Amount.Decimal,
		Date:     date,
	})
	if err != nil {
		writeServiceError(ctx, "create_payment", err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, idResponse{ID: m.ID})
}

func (h *MovementHandler) UpdateMovement(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req movementUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBodyError(ctx, err)
		return
	}
	date, err := dateOrZero(req.Date)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	err = h.svc.UpdateMovement(ctx, id, model.MovementUpdate{
		Product:    req.Product,
		Quantity:   req.Quantity.Decimal,
		UnitPrice:  req.UnitPrice.Decimal,
		AmountPaid: req.AmountPaid.Decimal,
		Date:       date,
	})
	if err != nil {
		writeServiceError(ctx, "update_movement", err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okBody)
}

// UpdateMovementField checks the field name against the allow-list before
// the value is even decoded.
func (h *MovementHandler) UpdateMovementField(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req fieldUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBodyError(ctx, err)
		return
	}
	field, err := model.ParseMovementField(req.FieldName)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	var value any
	switch {
	case field.IsNumeric():
		value = coerceDecimal(req.Value)
	case field == model.FieldDate:
		d, err := dateOrZero(req.Value)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
			return
		}
		value = d
	default:
		s, err := coerceText(req.Value)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
			return
		}
		value = s
	}

	if err := h.svc.UpdateMovementField(ctx, id, string(field), value); err != nil {
		writeServiceError(ctx, "update_movement_field", err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okBody)
}

func (h *MovementHandler) DeleteMovement(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteMovement(ctx, id); err != nil {
		writeServiceError(ctx, "delete_movement", err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okBody)
}
