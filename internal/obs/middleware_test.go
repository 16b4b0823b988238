package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/obs"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/tenant"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("profit", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/health/ready"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}

	samples := testutil.CollectAndCount(metrics.ReqDur)
	if samples == 0 {
		t.Fatalf("expected histogram sample")
	}

	if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
		t.Fatalf("expected no in-flight requests, got %v", val)
	}
}

func TestRequestLoggerRecordsTenant(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.RequestLogger{Logger: zerolog.New(&buf)}
	handler := logger.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profit/order", nil)
	req = req.WithContext(tenant.With(req.Context(), "shop-a"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "shop-a", entry["tenant"])
	require.Equal(t, float64(http.StatusCreated), entry["status"])
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "http_request", entry["message"])
}

func TestDomainMetricsObserve(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("profit", registry)

	obs.ObserveCalculation("order", obs.ResultOK)
	obs.ObserveCalculation("order", obs.ResultInvalid)
	obs.ObserveSnapshot("create", obs.ResultOK)
	obs.ObserveOrderLines(3)

	require.Equal(t, float64(1), testutil.ToFloat64(obs.ProfitCalculationsTotal.WithLabelValues("order", obs.ResultOK)))
	require.Equal(t, float64(1), testutil.ToFloat64(obs.ProfitCalculationsTotal.WithLabelValues("order", obs.ResultInvalid)))
	require.Equal(t, float64(1), testutil.ToFloat64(obs.ProfitSnapshotsTotal.WithLabelValues("create", obs.ResultOK)))
}
