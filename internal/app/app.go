// Package app assembles the HTTP service from configuration and shared clients.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/analytics"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/common"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/config"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/health"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/http/middleware"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/obs"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/ratelimit"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/security"
	"github.com/RonnieMoneymaker/2.2-sub001/internal/tenant"
)

// Dependencies enumerates the services the router is built from. Redis may be nil,
// in which case snapshots answer 503 and rate limiting falls back to process memory.
type Dependencies struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Engine  *profit.Engine
	Redis   *redis.Client
	Metrics *obs.HTTPMetrics
	Tracing bool
	// Debug is mounted under /debug/pprof when set.
	Debug http.Handler
}

// NewRedis connects to url and instruments the client. An empty url yields a nil client.
func NewRedis(ctx context.Context, url string, metrics bool, logger zerolog.Logger) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewEngine builds the profit engine from the configured rate tables.
func NewEngine(cfg *config.Config) (*profit.Engine, error) {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	return profit.NewEngine(engineCfg), nil
}

func (d Dependencies) limiter() ratelimit.Allower {
	if d.Redis != nil {
		return ratelimit.Limiter{Client: d.Redis}
	}
	return ratelimit.NewMemoryLimiter()
}

// NewRouter wires middleware and routes.
func NewRouter(d Dependencies) http.Handler {
	cfg := d.Config
	logger := d.Logger

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(tenant.NewResolver(cfg.TenantHeader, cfg.TenantRootDomain, cfg.TenantDefault).Middleware)
	r.Use(obs.RoutePatternMiddleware)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.Metrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.Metrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", cfg.TenantHeader, common.IdempotencyHeader},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	if d.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	if d.Debug != nil {
		r.Mount("/debug/pprof", d.Debug)
	}

	probes := map[string]health.Probe{}
	if d.Redis != nil {
		probes["redis"] = health.RedisProbe(d.Redis)
	}
	healthHandler := health.Handler{Probes: probes, Timeout: 300 * time.Millisecond}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	limits := ratelimit.Handler{
		Limiter: d.limiter(),
		Config:  ratelimit.Config{Key: ratelimit.TenantClientKey, Window: cfg.RateLimitWindow, Max: cfg.RateLimitMax},
		OnError: func(err error) { logger.Warn().Err(err).Msg("rate limiter unavailable") },
	}
	if cfg.RateLimitMax == 0 {
		limits.Limiter = nil
	}

	profitHandler := &profit.Handler{Engine: d.Engine}
	snapshots := &analytics.Handler{Svc: &analytics.Service{Engine: d.Engine, R: d.Redis, TTL: cfg.SnapshotTTL}}
	idem := common.Idem{R: d.Redis, TTL: cfg.IdempotencyTTL}

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(middleware.RequireTenant)
		v.Use(limits.Middleware)
		v.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)
		v.Use(security.Headers{Enable: cfg.SecurityHeaders, NoStore: true, EnableHSTS: cfg.EnableHSTS}.Middleware)

		profitHandler.Routes(v)

		v.Route("/analytics/snapshots", func(s chi.Router) {
			s.Get("/", snapshots.List)
			s.Get("/{id}", snapshots.Get)
			s.With(idem.Middleware).Post("/", snapshots.Create)
		})
	})

	return r
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
