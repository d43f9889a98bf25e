package reactor

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/scheduler"
)

// =============================================================================
// Configuration
// =============================================================================

// Config is the application configuration.
type Config struct {
	// Host is the node tree the app renders into.
	// If nil, an in-memory document (memdom) is used.
	Host renderer.HostOps

	// DevMode enables development warnings: readonly writes, invalid watch
	// sources, duplicate keys and the like. It is process wide.
	DevMode bool

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// RecursionLimit caps how many times one job may run in a flush.
	// Default: 100.
	RecursionLimit int

	// ErrorHandler receives panics from setup, render, lifecycle hooks and
	// watchers. If nil, errors are logged.
	ErrorHandler func(err error, code ErrorCode)

	// Metrics configures Prometheus collection.
	Metrics MetricsConfig

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig
}

// MetricsConfig configures Prometheus collection.
type MetricsConfig struct {
	// Enabled registers scheduler and renderer metrics.
	Enabled bool

	// Namespace is the metrics namespace. Default: "reactor".
	Namespace string

	// Registry is the registry metrics are registered with.
	// Default: a new registry per App, available from App.Gatherer.
	Registry prometheus.Registerer
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	// Enabled opens a span per flush and per root render. Only takes effect
	// when metrics are enabled.
	Enabled bool

	// TracerName is the tracer name. Default: "reactor".
	TracerName string
}

// ErrorCode identifies where a user callback failed.
type ErrorCode = scheduler.ErrorCode

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RecursionLimit: scheduler.DefaultRecursionLimit,
		Metrics: MetricsConfig{
			Namespace: config.DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: config.DefaultTracerName,
		},
	}
}

// ConfigFromFile converts a loaded reactor.toml into a Config. The logger
// writes text to stderr at the configured level.
func ConfigFromFile(fc *config.Config) Config {
	cfg := DefaultConfig()
	cfg.DevMode = fc.DevMode
	cfg.RecursionLimit = fc.RecursionLimit
	cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: fc.SlogLevel()}))
	cfg.Metrics.Enabled = fc.Metrics.Enabled
	cfg.Metrics.Namespace = fc.Metrics.Namespace
	cfg.Tracing.Enabled = fc.Tracing.Enabled
	cfg.Tracing.TracerName = fc.Tracing.TracerName
	return cfg
}
