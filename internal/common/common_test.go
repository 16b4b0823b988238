package common_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/common"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/tenant"
)

type fieldErr struct{}

func (fieldErr) Error() string                       { return "bad quantity" }
func (fieldErr) InvalidField() (field, reason string) { return "quantity", "must be at least 1" }

type envelope struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteErrorMapsKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	common.WriteError(rec, fieldErr{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "INVALID_ARGUMENT", env.Error.Code)
	require.JSONEq(t, `{"field":"quantity","reason":"must be at least 1"}`, string(env.Error.Details))

	rec = httptest.NewRecorder()
	common.WriteError(rec, common.NotFound("SNAPSHOT_NOT_FOUND", "snapshot not found"))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "SNAPSHOT_NOT_FOUND", decodeEnvelope(t, rec).Error.Code)

	rec = httptest.NewRecorder()
	common.WriteError(rec, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env = decodeEnvelope(t, rec)
	require.Equal(t, "INTERNAL", env.Error.Code)
	require.NotContains(t, env.Error.Message, "boom")
}

type decodeTarget struct {
	Country  string `json:"country" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"country":"Nederland","quantity":2}`))
	var dst decodeTarget
	require.NoError(t, common.DecodeJSON(req, &dst))
	require.Equal(t, "Nederland", dst.Country)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"country":"","quantity":0}`))
	err := common.DecodeJSON(req, &decodeTarget{})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_FAILED", appErr.Code)
	issues, ok := appErr.Details.([]common.ValidationIssue)
	require.True(t, ok)
	require.Len(t, issues, 2)
	require.Equal(t, "country", issues[0].Field)
	require.Equal(t, "quantity", issues[1].Field)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":true}`))
	err = common.DecodeJSON(req, &decodeTarget{})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "BAD_REQUEST", appErr.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err = common.DecodeJSON(req, &decodeTarget{})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	require.Equal(t, "10.0.0.1", common.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", common.ClientIP(req))
}

func TestIdempotencyScopedPerTenant(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	handler := common.Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(tenantID string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(common.IdempotencyHeader, "abc")
		req = req.WithContext(tenant.With(req.Context(), tenantID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusCreated, send("shop-a"))
	require.Equal(t, http.StatusConflict, send("shop-a"))
	require.Equal(t, http.StatusCreated, send("shop-b"))
	require.Equal(t, 2, calls)
}

func TestIdempotencyKeyReleasedOnFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	status := http.StatusBadRequest
	handler := common.Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(common.IdempotencyHeader, "retry-me")
		req = req.WithContext(tenant.With(req.Context(), "shop-a"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusBadRequest, send())
	require.Empty(t, mr.Keys())

	status = http.StatusCreated
	require.Equal(t, http.StatusCreated, send())
	require.Len(t, mr.Keys(), 1)
	require.Equal(t, http.StatusConflict, send())
}

func TestQueryLimit(t *testing.T) {
	tests := []struct {
		query  string
		expect int
	}{
		{"", 20},
		{"?limit=5", 5},
		{"?limit=0", 20},
		{"?limit=-3", 20},
		{"?limit=abc", 20},
		{"?limit=500", 100},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/snapshots"+tc.query, nil)
		require.Equal(t, tc.expect, common.QueryLimit(req, "limit", 20, 100), tc.query)
	}
}
