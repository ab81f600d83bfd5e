package xhttp

import (
	"encoding/json"

	"github.com/nimasrn/ledger/pkg/logger"
)

const contentTypeJSON = "application/json"

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(ctx *RequestCtx, status int, v any) {
	ctx.SetContentType(contentTypeJSON)
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		logger.Error("[xhttp] failed to encode response", "error", err)
	}
}

func WriteError(ctx *RequestCtx, status int, message string) {
	WriteJSON(ctx, status, ErrorResponse{Error: message})
}
