package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/sellerbazaar-backend/pkg/redis"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 200

	statePending = "pending"
	stateDone    = "done"
)

// IdempotentRoutes maps "METHOD /path" to how long a completed response is
// replayed for the same key.
type IdempotentRoutes struct {
	ttls     map[string]time.Duration
	inFlight time.Duration
}

// StorefrontIdempotentRoutes covers address creation and order submission.
func StorefrontIdempotentRoutes(cfg config.IdempotencyConfig) IdempotentRoutes {
	return IdempotentRoutes{
		ttls: map[string]time.Duration{
			http.MethodPost + " /api/v1/addresses": cfg.AddressTTL,
			http.MethodPost + " /api/v1/checkout":  cfg.CheckoutTTL,
		},
		inFlight: cfg.InFlight,
	}
}

func (ir IdempotentRoutes) ttlFor(r *http.Request) (time.Duration, bool) {
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	ttl, ok := ir.ttls[r.Method+" "+path]
	return ttl, ok && ttl > 0
}

type idempotencyRecord struct {
	State       string `json:"state"`
	RequestHash string `json:"hash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency makes the configured routes safe to retry with the same
// Idempotency-Key. The key is claimed before the handler runs, so a
// concurrent duplicate gets a conflict instead of a second order. Completed
// 2xx-4xx responses are replayed verbatim; 5xx responses release the key.
// Matching uses the request path because chi has not resolved the final
// route pattern while group middleware runs.
func Idempotency(store pkgredis.IdempotencyStore, routes IdempotentRoutes, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routes.ttlFor(r)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			switch {
			case clientKey == "":
				responses.WriteError(ctx, logg, w, pkgerrors.Field(pkgerrors.CodeValidation, idempotencyHeader, "header is required"))
				return
			case len(clientKey) > maxIdempotencyKeyLen:
				responses.WriteError(ctx, logg, w, pkgerrors.Field(pkgerrors.CodeValidation, idempotencyHeader, "header is too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := fingerprint(body)
			key := store.IdempotencyKey(shopperScope(ctx)+"|"+r.Method+"|"+r.URL.Path, clientKey)

			pending, _ := json.Marshal(idempotencyRecord{State: statePending, RequestHash: hash})
			claimed, err := store.SetNX(ctx, key, string(pending), routes.inFlight)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key"))
				return
			}
			if !claimed {
				replayOrReject(w, r, store, key, hash, logg)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			status := capture.statusCode()
			if status >= http.StatusInternalServerError {
				if err := store.Del(ctx, key); err != nil && logg != nil {
					logg.Error(ctx, "release idempotency key", err)
				}
				return
			}
			done, _ := json.Marshal(idempotencyRecord{
				State:       stateDone,
				RequestHash: hash,
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			})
			if err := store.Set(ctx, key, string(done), ttl); err != nil && logg != nil {
				logg.Error(ctx, "persist idempotency record", err)
			}
		})
	}
}

func replayOrReject(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, key, hash string, logg *logger.Logger) {
	ctx := r.Context()
	stored, err := store.Get(ctx, key)
	if pkgredis.IsNil(err) {
		// The claim expired between SetNX and Get; the client can simply retry.
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this key is still being processed"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read idempotency record"))
		return
	}

	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case record.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request body"))
	case record.State != stateDone:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this key is still being processed"))
	default:
		if record.ContentType != "" {
			w.Header().Set("Content-Type", record.ContentType)
		}
		w.Header().Set(replayedHeader, "true")
		w.WriteHeader(record.Status)
		_, _ = w.Write(record.Body)
	}
}

func fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// responseCapture tees the handler's response so it can be stored.
type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
