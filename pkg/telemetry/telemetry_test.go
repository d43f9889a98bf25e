package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/reactor/pkg/host/memdom"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func list(keys ...string) *vdom.VNode {
	children := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		children[i] = vdom.Li(vdom.Key(k), k)
	}
	return vdom.Ul(children)
}

func TestCollectorRecordsPatches(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))
	doc := memdom.New()
	r := renderer.New(doc, renderer.WithObserver(c), renderer.WithScheduler(scheduler.New()))

	r.Render(list("a", "b", "c"), doc.Root())
	r.Render(list("c", "a"), doc.Root())

	if got := counterValue(t, c.mountedTotal.WithLabelValues("Element")); got != 4 {
		t.Errorf("nodes_mounted_total{Element} = %v, want 4", got)
	}
	if got := counterValue(t, c.unmountedTotal.WithLabelValues("Element")); got != 1 {
		t.Errorf("nodes_unmounted_total{Element} = %v, want 1", got)
	}
	if got := counterValue(t, c.movedTotal.WithLabelValues("Element")); got != 1 {
		t.Errorf("nodes_moved_total{Element} = %v, want 1", got)
	}
	if got := counterValue(t, c.rendersTotal); got != 2 {
		t.Errorf("renders_total = %v, want 2", got)
	}
	if got := histogramCount(t, c.renderDuration); got != 2 {
		t.Errorf("render_duration_seconds count = %d, want 2", got)
	}
}

func TestCollectorRecordsFlushes(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	s := scheduler.New(scheduler.WithObserver(c))

	s.QueueJob(scheduler.NewJob(func() {}, scheduler.WithID(1)))
	s.QueueJob(scheduler.NewJob(func() {}, scheduler.WithID(2)))
	s.Drain()

	if got := counterValue(t, c.flushesTotal); got != 1 {
		t.Errorf("flushes_total = %v, want 1", got)
	}
	if got := counterValue(t, c.jobsTotal); got != 2 {
		t.Errorf("jobs_run_total = %v, want 2", got)
	}
	if got := histogramCount(t, c.flushDuration); got != 1 {
		t.Errorf("flush_duration_seconds count = %d, want 1", got)
	}
	if len(c.flushSpans) != 0 {
		t.Errorf("%d flush spans left open", len(c.flushSpans))
	}
}

func TestCollectorRecursionLimit(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))
	var reported int
	s := scheduler.New(
		scheduler.WithObserver(c),
		scheduler.WithRecursionLimit(3),
		scheduler.WithErrorHandler(func(error, scheduler.ErrorCode) { reported++ }),
	)

	var job *scheduler.Job
	job = scheduler.NewJob(func() { s.QueueJob(job) }, scheduler.AllowRecurse(), scheduler.Named("loop"))
	s.QueueJob(job)
	s.Drain()

	if got := counterValue(t, c.recursionTotal.WithLabelValues("loop")); got != 1 {
		t.Errorf("recursion_limit_total{loop} = %v, want 1", got)
	}
	if reported != 1 {
		t.Errorf("reported %d errors, want 1", reported)
	}
}

func TestTracingDisabled(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()), WithTracing(false))
	c.FlushStarted()
	c.RenderStarted()
	c.RenderFinished(time.Millisecond)
	c.FlushFinished(0, time.Millisecond)

	if c.tracer != nil || len(c.flushSpans) != 0 || len(c.renderSpans) != 0 {
		t.Error("spans recorded with tracing disabled")
	}
	if got := counterValue(t, c.flushesTotal); got != 1 {
		t.Errorf("flushes_total = %v, want 1", got)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("expected a panic registering the same metrics twice")
		}
	}()
	New(WithRegistry(reg))
}
