package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/ledger/internal/model"
	xhttp "github.com/nimasrn/ledger/pkg/http"
	"github.com/nimasrn/ledger/pkg/logger"
)

type HealthService interface {
	Get(ctx context.Context) model.Health
}

type HealthHandler struct {
	svc HealthService
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		svc: healthService,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	health := h.svc.Get(ctx)
	resp := healthResponse{Status: "ok", Database: health.Database, Redis: health.Redis}
	if !health.Healthy() {
		logger.Warn("health check failed", "database", health.Database, "redis", health.Redis)
		resp.Status = "degraded"
		writeJSON(ctx, xhttp.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, resp)
}
