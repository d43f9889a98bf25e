// Package telemetry exports scheduler and renderer activity as Prometheus
// metrics and OpenTelemetry spans.
//
// A Collector implements both scheduler.Observer and renderer.Observer:
//
//	c := telemetry.New(telemetry.WithNamespace("myapp"))
//	s := scheduler.New(scheduler.WithObserver(c))
//	r := renderer.New(host, renderer.WithScheduler(s), renderer.WithObserver(c))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Default tracer name for reactor spans.
const defaultTracerName = "reactor"

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush and render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// TracerName is the name of the tracer (default: "reactor").
	TracerName string

	// Tracing disables spans when false. Enabled by default.
	Tracing bool
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracing enables or disables spans.
func WithTracing(enabled bool) Option {
	return func(c *Config) {
		c.Tracing = enabled
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:  "reactor",
		Buckets:    prometheus.DefBuckets,
		Registry:   prometheus.DefaultRegisterer,
		TracerName: defaultTracerName,
		Tracing:    true,
	}
}

// Collector records flush and patch activity.
type Collector struct {
	flushesTotal   prometheus.Counter
	flushDuration  prometheus.Histogram
	jobsTotal      prometheus.Counter
	recursionTotal *prometheus.CounterVec
	mountedTotal   *prometheus.CounterVec
	unmountedTotal *prometheus.CounterVec
	movedTotal     *prometheus.CounterVec
	rendersTotal   prometheus.Counter
	renderDuration prometheus.Histogram

	tracer trace.Tracer

	mu          sync.Mutex
	flushSpans  []trace.Span
	renderSpans []trace.Span
}

var (
	_ scheduler.Observer = (*Collector)(nil)
	_ renderer.Observer  = (*Collector)(nil)
)

// New creates a Collector and registers its metrics.
// Registering twice on the same registry panics, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}

	factory := promauto.With(config.Registry)
	c := &Collector{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		jobsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "jobs_run_total",
			Help:        "Total number of jobs run by the scheduler",
			ConstLabels: config.ConstLabels,
		}),

		recursionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recursion_limit_total",
			Help:        "Jobs stopped for exceeding the recursion limit",
			ConstLabels: config.ConstLabels,
		}, []string{"job"}),

		mountedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_mounted_total",
			Help:        "VNodes mounted by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		unmountedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_unmounted_total",
			Help:        "VNodes unmounted by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		movedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_moved_total",
			Help:        "VNodes moved by the keyed diff, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of root renders",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Root render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
	if config.Tracing {
		c.tracer = otel.Tracer(config.TracerName)
	}
	return c
}

// FlushStarted opens a flush span.
func (c *Collector) FlushStarted() {
	if c.tracer == nil {
		return
	}
	_, span := c.tracer.Start(context.Background(), "reactor.flush",
		trace.WithSpanKind(trace.SpanKindInternal))
	c.mu.Lock()
	c.flushSpans = append(c.flushSpans, span)
	c.mu.Unlock()
}

// FlushFinished records the flush and closes its span.
func (c *Collector) FlushFinished(jobs int, d time.Duration) {
	c.flushesTotal.Inc()
	c.flushDuration.Observe(d.Seconds())
	c.jobsTotal.Add(float64(jobs))

	if span := c.pop(&c.flushSpans); span != nil {
		span.SetAttributes(attribute.Int("reactor.jobs", jobs))
		span.End()
	}
}

// RecursionLimit counts a job that hit the recursion limit and marks the
// current flush span as failed.
func (c *Collector) RecursionLimit(job *scheduler.Job) {
	name := job.Name
	if name == "" {
		name = "anonymous"
	}
	c.recursionTotal.WithLabelValues(name).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.flushSpans); n > 0 {
		span := c.flushSpans[n-1]
		span.RecordError(scheduler.ErrRecursionLimit, trace.WithAttributes(attribute.String("reactor.job", name)))
		span.SetStatus(codes.Error, scheduler.ErrRecursionLimit.Error())
	}
}

// Mounted counts a mounted vnode.
func (c *Collector) Mounted(kind vdom.Kind) {
	c.mountedTotal.WithLabelValues(kind.String()).Inc()
}

// Unmounted counts an unmounted vnode.
func (c *Collector) Unmounted(kind vdom.Kind) {
	c.unmountedTotal.WithLabelValues(kind.String()).Inc()
}

// Moved counts a vnode moved by the keyed diff.
func (c *Collector) Moved(kind vdom.Kind) {
	c.movedTotal.WithLabelValues(kind.String()).Inc()
}

// RenderStarted opens a render span.
func (c *Collector) RenderStarted() {
	if c.tracer == nil {
		return
	}
	_, span := c.tracer.Start(context.Background(), "reactor.render",
		trace.WithSpanKind(trace.SpanKindInternal))
	c.mu.Lock()
	c.renderSpans = append(c.renderSpans, span)
	c.mu.Unlock()
}

// RenderFinished records the render and closes its span.
func (c *Collector) RenderFinished(d time.Duration) {
	c.rendersTotal.Inc()
	c.renderDuration.Observe(d.Seconds())
	if span := c.pop(&c.renderSpans); span != nil {
		span.SetStatus(codes.Ok, "")
		span.End()
	}
}

func (c *Collector) pop(spans *[]trace.Span) trace.Span {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(*spans)
	if n == 0 {
		return nil
	}
	span := (*spans)[n-1]
	*spans = (*spans)[:n-1]
	return span
}
