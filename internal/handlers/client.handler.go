package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/ledger/internal/model"
	xhttp "github.com/nimasrn/ledger/pkg/http"
)

type ClientService interface {
	ListClients(ctx context.Context) ([]*model.ClientSummary, error)
	CreateClient(ctx context.Context, name string) (*model.Client, error)
	UpdateClient(ctx context.Context, id int64, name string) error
	DeleteClient(ctx context.Context, id int64) error
}

type ClientHandler struct {
	svc ClientService
}

func RegisterClientRoutes(e *router.Group, h *ClientHandler) {
	e.GET("/clients", h.ListClients)
	e.POST("/clients", h.CreateClient)
	e.PUT("/clients/{id}", h.UpdateClient)
	e.DELETE("/clients/{id}", h.DeleteClient)
}

func NewClientHandler(clientService ClientService) *ClientHandler {
	return &ClientHandler{
		svc: clientService,
	}
}

type clientRequest struct {
	Name string `json:"name"`
}

func (h *ClientHandler) ListClients(ctx *xhttp.RequestCtx) {
	list, err := h.svc.ListClients(ctx)
	if err != nil {
		writeServiceError(ctx, "list_clients", err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toClientResponses(list))
}

func (h *ClientHandler) CreateClient(ctx *xhttp.RequestCtx) {
	var req clientRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBodyError(ctx, err)
		return
	}

	c, err := h.svc.CreateClient(ctx, req.Name)
	if err != nil {
		writeServiceError(ctx, "create_client", err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, idResponse{ID: c.ID})
}

func (h *ClientHandler) UpdateClient(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req clientRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBodyError(ctx, err)
		return
	}

	if err := h.svc.UpdateClient(ctx, id, req.Name); err != nil {
		writeServiceError(ctx, "update_client", err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okBody)
}

func (h *ClientHandler) DeleteClient(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteClient(ctx, id); err != nil {
		writeServiceError(ctx, "delete_client", err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okBody)
}
