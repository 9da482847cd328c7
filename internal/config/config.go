package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	Observability ObservabilityConfig
	Security      SecurityConfig
	RateLimit     RateLimitConfig
	RedisBreaker  BreakerConfig
	HTTP          HTTPConfig

	ReadyRedisTimeout time.Duration
}

// ObservabilityConfig controls logging, metrics, tracing and profiling.
type ObservabilityConfig struct {
	LogFormat        string
	LogLevel         string
	EnablePrometheus bool
	MetricsNamespace string
	MetricsBuckets   string
	EnableTracing    bool
	TracingExporter  string
	OTLPEndpoint     string
	SamplingRatio    float64
	EnablePprof      bool
}

// SecurityConfig controls response headers, payload limits and pprof protection.
type SecurityConfig struct {
	HeadersEnabled bool
	HSTSEnabled    bool
	BodyLimitBytes int64
	PprofUser      string
	PprofPass      string
}

// RateLimitConfig bounds calculation requests per client address.
type RateLimitConfig struct {
	Enabled bool
	Window  time.Duration
	Max     int
}

// BreakerConfig tunes the circuit breaker guarding Redis.
type BreakerConfig struct {
	MinRequests  int
	FailureRatio float64
	OpenFor      time.Duration
}

// HTTPConfig holds server timeouts.
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k)
}

// LoadForTests builds a configuration from values only, ignoring the process environment.
func LoadForTests(values map[string]string) (*Config, error) {
	k := koanf.New(".")
	for key, value := range values {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	return fromKoanf(k)
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(valueOrDefault(k.String("CORS_ALLOWED_ORIGINS"), "*")),
		Observability: ObservabilityConfig{
			LogFormat:        strings.ToLower(valueOrDefault(k.String("OBS_LOG_FORMAT"), "json")),
			LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
			EnablePrometheus: parseBool(k.String("OBS_ENABLE_PROMETHEUS"), true),
			MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "sales"),
			MetricsBuckets:   k.String("OBS_METRICS_BUCKETS_MS"),
			EnableTracing:    parseBool(k.String("OBS_ENABLE_TRACING"), false),
			TracingExporter:  strings.ToLower(valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp")),
			OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
			SamplingRatio:    parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1),
			EnablePprof:      parseBool(k.String("OBS_ENABLE_PPROF"), false),
		},
		Security: SecurityConfig{
			HeadersEnabled: parseBool(k.String("SECURE_HEADERS_ENABLED"), true),
			HSTSEnabled:    parseBool(k.String("SECURE_HSTS_ENABLED"), false),
			BodyLimitBytes: int64(parseInt(k.String("HTTP_BODY_LIMIT_BYTES"), 1<<20)),
			PprofUser:      k.String("SECURE_PPROF_BASIC_AUTH_USER"),
			PprofPass:      k.String("SECURE_PPROF_BASIC_AUTH_PASS"),
		},
		RateLimit: RateLimitConfig{
			Enabled: parseBool(k.String("RATE_LIMIT_ENABLED"), true),
			Window:  parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
			Max:     parseInt(k.String("RATE_LIMIT_MAX"), 120),
		},
		RedisBreaker: BreakerConfig{
			MinRequests:  parseInt(k.String("CIRCUIT_REDIS_MIN_REQUESTS"), 5),
			FailureRatio: parseFloat(k.String("CIRCUIT_REDIS_FAILURE_RATIO"), 0.5),
			OpenFor:      parseDuration(k.String("CIRCUIT_REDIS_OPEN_FOR"), "30s"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     parseDuration(k.String("HTTP_READ_TIMEOUT"), "10s"),
			WriteTimeout:    parseDuration(k.String("HTTP_WRITE_TIMEOUT"), "15s"),
			ShutdownTimeout: parseDuration(k.String("HTTP_SHUTDOWN_TIMEOUT"), "20s"),
		},
		ReadyRedisTimeout: time.Duration(parseInt(k.String("HEALTH_READY_REDIS_TIMEOUT_MS"), 300)) * time.Millisecond,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if _, err := strconv.Atoi(strings.TrimPrefix(c.Port, ":")); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric, got %q", c.Port))
	}
	switch c.Observability.LogFormat {
	case "json", "console", "text":
	default:
		errs = append(errs, fmt.Errorf("OBS_LOG_FORMAT must be json or console, got %q", c.Observability.LogFormat))
	}
	switch c.Observability.TracingExporter {
	case "otlp", "none":
	default:
		errs = append(errs, fmt.Errorf("OBS_TRACING_EXPORTER must be otlp or none, got %q", c.Observability.TracingExporter))
	}
	if r := c.Observability.SamplingRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("OBS_TRACING_SAMPLING_RATIO must be within [0,1], got %v", r))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled"))
	}
	if (c.Security.PprofUser == "") != (c.Security.PprofPass == "") {
		errs = append(errs, errors.New("SECURE_PPROF_BASIC_AUTH_USER and SECURE_PPROF_BASIC_AUTH_PASS must be set together"))
	}
	return errors.Join(errs...)
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}
