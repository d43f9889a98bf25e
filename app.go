package reactor

import (
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reactor/internal/devlog"
	"github.com/vango-dev/reactor/pkg/host/memdom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/telemetry"
	"github.com/vango-dev/reactor/pkg/vdom"
)

var stderr io.Writer = os.Stderr

// =============================================================================
// App Type
// =============================================================================

// App wires a scheduler, a renderer and optional telemetry around one host
// and mounts a root component into it.
//
//	app := reactor.New(reactor.Config{DevMode: true})
//	app.Mount(counter, nil, nil)
//	// ... mutate reactive state ...
//	app.Flush()
//
// An App and everything rendered by it belong to one goroutine. DevMode and
// the default scheduler are process wide; the last App created wins.
type App struct {
	config    Config
	logger    *slog.Logger
	host      renderer.HostOps
	sched     *scheduler.Scheduler
	renderer  *renderer.Renderer
	collector *telemetry.Collector
	gatherer  prometheus.Gatherer

	container any
	root      *vdom.VNode
}

// New creates an application with the given configuration.
func New(cfg Config) *App {
	// Apply defaults
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = scheduler.DefaultRecursionLimit
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultConfig().Metrics.Namespace
	}
	if cfg.Tracing.TracerName == "" {
		cfg.Tracing.TracerName = DefaultConfig().Tracing.TracerName
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	host := cfg.Host
	if host == nil {
		host = memdom.New()
	}

	reactive.SetDevMode(cfg.DevMode)
	devlog.SetLogger(logger)

	a := &App{
		config: cfg,
		logger: logger,
		host:   host,
	}

	schedOpts := []scheduler.Option{
		scheduler.WithRecursionLimit(cfg.RecursionLimit),
		scheduler.WithLogger(logger),
	}
	if cfg.ErrorHandler != nil {
		schedOpts = append(schedOpts, scheduler.WithErrorHandler(scheduler.ErrorHandler(cfg.ErrorHandler)))
	}
	renderOpts := []renderer.Option{
		renderer.WithLogger(logger),
		renderer.DevMode(cfg.DevMode),
	}

	if cfg.Metrics.Enabled {
		// Each App gets its own registry unless one is given, so two Apps
		// in one process do not collide on metric names.
		registry := cfg.Metrics.Registry
		if registry == nil {
			reg := prometheus.NewRegistry()
			registry = reg
			cfg.Metrics.Registry = reg
			a.config.Metrics.Registry = reg
		}
		if g, ok := registry.(prometheus.Gatherer); ok {
			a.gatherer = g
		}
		a.collector = telemetry.New(
			telemetry.WithRegistry(registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithTracing(cfg.Tracing.Enabled),
			telemetry.WithTracerName(cfg.Tracing.TracerName),
		)
		schedOpts = append(schedOpts, scheduler.WithObserver(a.collector))
		renderOpts = append(renderOpts, renderer.WithObserver(a.collector))
	}

	a.sched = scheduler.New(schedOpts...)
	// Watchers created without WithScheduler queue on the default.
	scheduler.SetDefault(a.sched)
	a.renderer = renderer.New(host, append(renderOpts, renderer.WithScheduler(a.sched))...)
	return a
}

// Mount renders component into container and flushes the queue so mounted
// hooks have run on return. A nil container means the document root when
// the host is a memdom document.
func (a *App) Mount(component vdom.Component, props vdom.Props, container any) *vdom.VNode {
	if a.root != nil {
		a.logger.Warn("app has already been mounted; call Unmount first")
		return a.root
	}
	if container == nil {
		doc, ok := a.host.(*memdom.Document)
		if !ok {
			a.logger.Error("Mount needs a container for a non-memdom host")
			return nil
		}
		container = doc.Root()
	}

	a.root = vdom.Comp(component, props)
	a.container = container
	a.renderer.Render(a.root, container)
	a.sched.Drain()
	a.logger.Debug("app mounted", "component", componentName(component))
	return a.root
}

// Unmount removes the root component and flushes unmount hooks.
func (a *App) Unmount() {
	if a.root == nil {
		a.logger.Warn("cannot unmount an app that is not mounted")
		return
	}
	a.renderer.Unmount(a.container)
	a.sched.Drain()
	a.root = nil
	a.container = nil
}

// Flush runs every queued job, post-flush callback and task.
func (a *App) Flush() { a.sched.Drain() }

// Mounted reports whether a root component is mounted.
func (a *App) Mounted() bool { return a.root != nil }

// Host returns the host the app renders into.
func (a *App) Host() renderer.HostOps { return a.host }

// Scheduler returns the app scheduler. New installs it as
// scheduler.Default.
func (a *App) Scheduler() *scheduler.Scheduler { return a.sched }

// Renderer returns the app renderer.
func (a *App) Renderer() *renderer.Renderer { return a.renderer }

// Collector returns the metrics collector, or nil when metrics are off.
func (a *App) Collector() *telemetry.Collector { return a.collector }

// Gatherer returns the registry the app's metrics are registered with, or
// nil when metrics are off or the configured Registerer cannot gather.
func (a *App) Gatherer() prometheus.Gatherer { return a.gatherer }

// Config returns the app configuration with defaults applied.
func (a *App) Config() Config { return a.config }

func componentName(c vdom.Component) string {
	if f, ok := c.(*vdom.FuncComponent); ok && f.Name != "" {
		return f.Name
	}
	return "anonymous"
}
