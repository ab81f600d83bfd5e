package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	xhttp "github.com/nimasrn/ledger/pkg/http"
	"github.com/nimasrn/ledger/pkg/logger"
	"github.com/nimasrn/ledger/pkg/prom"
	"github.com/valyala/fasthttp"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "X-Idempotency-Hit"
	maxKeyLength   = 255
)

const (
	outcomeReplayed = "replayed"
	outcomeStored   = "stored"
	outcomeConflict = "conflict"
	outcomeMismatch = "mismatch"
	outcomeBypass   = "bypass"
)

// Middleware replays the response of a POST that carries an
// Idempotency-Key already seen for the same route. Redis failures fail open.
func Middleware(store *Store) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			if !ctx.IsPost() {
				next(ctx)
				return
			}
			key := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderKey)))
			if key == "" {
				next(ctx)
				return
			}
			if len(key) > maxKeyLength {
				xhttp.WriteError(ctx, xhttp.StatusBadRequest, "Idempotency-Key is too long")
				return
			}

			scoped := string(ctx.Path()) + ":" + key
			hash := requestHash(ctx.PostBody())

			cached, err := store.Get(scoped)
			if err != nil {
				logger.Error("idempotency lookup failed", "key", key, "error", err)
				prom.AddIdempotencyOutcome(outcomeBypass)
				next(ctx)
				return
			}
			if cached != nil {
				if cached.RequestHash != "" && cached.RequestHash != hash {
					prom.AddIdempotencyOutcome(outcomeMismatch)
					xhttp.WriteError(ctx, fasthttp.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request body")
					return
				}
				logger.Info("idempotency cache hit", "key", key, "path", string(ctx.Path()))
				prom.AddIdempotencyOutcome(outcomeReplayed)
				replay(ctx, cached)
				return
			}

			locked, err := store.Lock(scoped)
			if err != nil {
				logger.Error("idempotency lock failed", "key", key, "error", err)
				prom.AddIdempotencyOutcome(outcomeBypass)
				next(ctx)
				return
			}
			if !locked {
				prom.AddIdempotencyOutcome(outcomeConflict)
				xhttp.WriteError(ctx, xhttp.StatusConflict, "a request with this Idempotency-Key is already in progress")
				return
			}
			defer func() {
				if err := store.Unlock(scoped); err != nil {
					logger.Warn("idempotency unlock failed", "key", key, "error", err)
				}
			}()

			next(ctx)

			// 5xx responses are not kept so the client can retry.
			status := ctx.Response.StatusCode()
			if status >= 500 {
				return
			}
			err = store.Save(scoped, CachedResponse{
				StatusCode:  status,
				ContentType: string(ctx.Response.Header.ContentType()),
				Body:        append([]byte(nil), ctx.Response.Body()...),
				RequestHash: hash,
			})
			if err != nil {
				logger.Error("idempotency save failed", "key", key, "error", err)
				return
			}
			prom.AddIdempotencyOutcome(outcomeStored)
		}
	}
}

func replay(ctx *xhttp.RequestCtx, cached *CachedResponse) {
	if cached.ContentType != "" {
		ctx.SetContentType(cached.ContentType)
	}
	ctx.Response.Header.Set(HeaderReplayed, "true")
	ctx.SetStatusCode(cached.StatusCode)
	ctx.SetBody(cached.Body)
}

func requestHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
