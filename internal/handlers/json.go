package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nimasrn/ledger/internal/model"
	xhttp "github.com/nimasrn/ledger/pkg/http"
	"github.com/nimasrn/ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

type idResponse struct {
	ID int64 `json:"id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

var okBody = okResponse{OK: true}

// readJSON decodes the request body into dst. An empty body decodes as {}.
func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := bytes.TrimSpace(ctx.PostBody())
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	xhttp.WriteJSON(ctx, status, v)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	xhttp.WriteError(ctx, status, msg)
}

// writeBodyError answers a body that could not be decoded.
func writeBodyError(ctx *xhttp.RequestCtx, err error) {
	if model.IsValidationError(err) {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
}

// writeServiceError maps error kinds onto status codes: validation is the
// caller's fault, everything else is ours.
func writeServiceError(ctx *xhttp.RequestCtx, op string, err error) {
	if model.IsValidationError(err) {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	logger.Error("request failed", "op", op, "error", err, "request_id", xhttp.RequestID(ctx))
	writeError(ctx, xhttp.StatusInternalServerError, err.Error())
}

// pathID reads a positive integer route parameter.
func pathID(ctx *xhttp.RequestCtx, name string) (int64, error) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(name, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

// flexNumber accepts a JSON number, a numeric string or a boolean. Anything
// else, null included, reads as zero. It never fails to decode.
type flexNumber struct {
	decimal.Decimal
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	n.Decimal = coerceDecimal(b)
	return nil
}

// coerceDecimal reads numbers through float64, the widest form the sqlite
// backend can store. Values that are not finite floats read as zero.
func coerceDecimal(raw []byte) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero
	}
	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero
		}
		text = strings.TrimSpace(text)
	case 't':
		if string(raw) == "true" {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	case 'f', 'n', '{', '[':
		return decimal.Zero
	default:
		text = string(raw)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// coerceText renders a JSON scalar as text; null reads as "".
func coerceText(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{', '[':
		return "", model.NewValidationError("value", "value must be a scalar")
	default:
		return string(raw), nil
	}
}

// dateOrZero decodes an optional date; null or "" give the zero Date.
func dateOrZero(raw json.RawMessage) (model.Date, error) {
	var d model.Date
	if len(bytes.TrimSpace(raw)) == 0 {
		return d, nil
	}
	err := d.UnmarshalJSON(raw)
	return d, err
}
