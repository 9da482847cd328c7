// Package app assembles the HTTP surface of the sales API.
package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/sales-api/internal/cart"
	"github.com/noah-isme/sales-api/internal/catalog"
	"github.com/noah-isme/sales-api/internal/config"
	"github.com/noah-isme/sales-api/internal/docs"
	"github.com/noah-isme/sales-api/internal/health"
	"github.com/noah-isme/sales-api/internal/obs"
	"github.com/noah-isme/sales-api/internal/ratelimit"
	"github.com/noah-isme/sales-api/internal/resilience"
	"github.com/noah-isme/sales-api/internal/security"
)

// Options carries the process-level dependencies of the HTTP surface.
type Options struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Redis    redis.UniversalClient
	Registry *prometheus.Registry
	NewID    func() string
}

// App is the assembled HTTP application.
type App struct {
	Handler  http.Handler
	Registry *prometheus.Registry
	Limiter  ratelimit.Allower
}

// New wires handlers, middleware and collectors. Redis is optional: without it rate limiting
// is process local and readiness skips the Redis probe.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	logger := opts.Logger
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	ns := cfg.Observability.MetricsNamespace
	obs.MustRegisterDomainMetrics(ns, reg)
	resilience.MustRegisterMetrics(ns, reg)
	var httpMetrics *obs.HTTPMetrics
	if cfg.Observability.EnablePrometheus {
		httpMetrics = obs.NewHTTPMetrics(ns, obs.ParseBucketsCSV(cfg.Observability.MetricsBuckets), reg)
	}

	limiter := newLimiter(cfg, opts.Redis, logger)

	cartHandler := &cart.Handler{
		Svc:    &cart.Service{Logger: logger, NewID: opts.NewID},
		Logger: logger,
	}
	catalogHandler := catalog.NewHandler()
	healthHandler := health.Handler{RedisTimeout: cfg.ReadyRedisTimeout}
	if opts.Redis != nil {
		healthHandler.Checker = health.RedisChecker{Client: opts.Redis}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(security.Headers{Enable: cfg.Security.HeadersEnabled, EnableHSTS: cfg.Security.HSTSEnabled}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.Security.BodyLimitBytes}.Middleware)
	if cfg.Observability.EnableTracing {
		r.Use(obs.SpanRouteMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{cart.QuoteIDHeader, "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Observability.EnablePrometheus {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	if cfg.Observability.EnablePprof {
		r.Mount("/debug", protectPprof(middleware.Profiler(), cfg.Security.PprofUser, cfg.Security.PprofPass))
	}

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/openapi.yaml", docs.Handler)
		v.Get("/products", catalogHandler.Products)
		v.Get("/pricing/strategies", catalogHandler.Strategies)
		v.Get("/pricing/strategies/{strategy}", catalogHandler.Strategy)

		calculate := http.Handler(http.HandlerFunc(cartHandler.Calculate))
		if cfg.RateLimit.Enabled {
			calculate = ratelimit.Handler{
				Limiter: limiter,
				Config: ratelimit.Config{
					Key:    ratelimit.KeyByClientAddr("calculate:"),
					Window: cfg.RateLimit.Window,
					Max:    cfg.RateLimit.Max,
				},
				OnError: func(r *http.Request, err error) {
					logger.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("rate_limit_unavailable")
				},
			}.Middleware(calculate)
		}
		v.Method(http.MethodPost, "/cart/calculate", calculate)
	})

	var handler http.Handler = r
	if cfg.Observability.EnableTracing {
		handler = otelhttp.NewHandler(r, "http.server",
			otelhttp.WithFilter(func(req *http.Request) bool {
				return req.URL.Path != "/metrics" && req.URL.Path != "/health/live"
			}),
		)
	}
	return &App{Handler: handler, Registry: reg, Limiter: limiter}, nil
}

func newLimiter(cfg *config.Config, client redis.UniversalClient, logger zerolog.Logger) ratelimit.Allower {
	memory := ratelimit.NewMemoryLimiter("ratelimit:")
	if client == nil {
		return memory
	}
	breaker := resilience.NewBreaker("redis_ratelimit", resilience.Settings{
		MinRequests:  cfg.RedisBreaker.MinRequests,
		FailureRatio: cfg.RedisBreaker.FailureRatio,
		OpenFor:      cfg.RedisBreaker.OpenFor,
	}).WithLogger(logger)
	return ratelimit.Limiter{
		Client:   client,
		Prefix:   "ratelimit:",
		Breaker:  breaker,
		Fallback: memory,
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
