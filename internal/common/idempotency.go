package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	redis "github.com/redis/go-redis/v9"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/tenant"
)

// IdempotencyHeader carries the client supplied replay key.
const IdempotencyHeader = "Idempotency-Key"

// Idem provides an Idempotency-Key middleware backed by Redis. Keys are scoped to
// the request tenant so two tenants may reuse the same client key.
type Idem struct {
	R   *redis.Client
	TTL time.Duration
}

// hashKey keeps client supplied keys out of Redis key names.
func hashKey(tenantID, key string) string {
	sum := sha256.Sum256([]byte(key))
	return tenant.PrefixKey(tenantID, "idem:"+hex.EncodeToString(sum[:]))
}

// Middleware enforces idempotency semantics for write endpoints. A key is held only
// by requests that succeed; a response of 400 or above releases it so the client
// can retry with the same key.
func (i Idem) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(IdempotencyHeader)
		if header == "" || i.R == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		tenantID, _ := tenant.From(ctx)
		key := hashKey(tenantID, header)
		ok, err := i.R.SetNX(ctx, key, "locked", i.ttl()).Result()
		if err != nil {
			JSONError(w, http.StatusInternalServerError, "INTERNAL", "idempotency store error", nil)
			return
		}
		if !ok {
			JSONError(w, http.StatusConflict, "IDEMPOTENT_REPLAY", "duplicate request", nil)
			return
		}
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if ww.Status() >= http.StatusBadRequest {
			i.R.Del(context.WithoutCancel(ctx), key)
		}
	})
}

func (i Idem) ttl() time.Duration {
	if i.TTL <= 0 {
		return 24 * time.Hour
	}
	return i.TTL
}
