package reactor

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/pkg/host/memdom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/watch"
)

func counter(log *[]string) vdom.Component {
	return vdom.Func("counter", func(props *reactive.ObjectProxy, ctx vdom.Context) vdom.RenderFunc {
		count := reactive.NewRef(0)
		ctx.OnMounted(func() { *log = append(*log, "mounted") })
		ctx.OnUnmounted(func() { *log = append(*log, "unmounted") })
		watch.Watch(func() any { return count.Value() }, func(n, _ any, _ watch.OnCleanup) {
			*log = append(*log, fmt.Sprint("watch ", n))
		})
		return func() *vdom.VNode {
			return vdom.Button(
				vdom.OnClick(func() { count.SetValue(count.Value() + 1) }),
				fmt.Sprintf("%v %d", props.Get("label"), count.Value()),
			)
		}
	})
}

func TestAppMountFlushUnmount(t *testing.T) {
	var log []string
	app := New(DefaultConfig())
	doc := app.Host().(*memdom.Document)

	app.Mount(counter(&log), vdom.Props{"label": "n"}, nil)
	if got := doc.HTML(); got != "<button>n 0</button>" {
		t.Fatalf("HTML = %s", got)
	}
	if !app.Mounted() {
		t.Error("Mounted() = false after Mount")
	}

	doc.Dispatch(doc.QuerySelector("button").(*memdom.Node), "click", nil)
	app.Flush()
	if got := doc.HTML(); got != "<button>n 1</button>" {
		t.Errorf("HTML = %s", got)
	}

	app.Unmount()
	if got := doc.HTML(); got != "" {
		t.Errorf("HTML after Unmount = %q", got)
	}
	if got, want := strings.Join(log, ","), "mounted,watch 1,unmounted"; got != want {
		t.Errorf("log = %s, want %s", got, want)
	}
}

func TestAppMountTwiceKeepsFirst(t *testing.T) {
	var log []string
	app := New(DefaultConfig())
	first := app.Mount(counter(&log), nil, nil)
	if second := app.Mount(counter(&log), nil, nil); second != first {
		t.Error("second Mount replaced the root")
	}
}

func TestAppErrorHandler(t *testing.T) {
	var codes []ErrorCode
	var errs []error
	cfg := DefaultConfig()
	cfg.ErrorHandler = func(err error, code ErrorCode) {
		errs = append(errs, err)
		codes = append(codes, code)
	}
	app := New(cfg)

	broken := vdom.Func("broken", func(*reactive.ObjectProxy, vdom.Context) vdom.RenderFunc {
		panic("setup failed")
	})
	app.Mount(broken, nil, nil)

	if len(codes) != 1 || codes[0] != scheduler.CodeSetup {
		t.Fatalf("codes = %v, want [%s]", codes, scheduler.CodeSetup)
	}
	var re *rerrors.Error
	if !errors.As(errs[0], &re) {
		t.Errorf("error %T is not *errors.Error", errs[0])
	}
}

func TestAppMetrics(t *testing.T) {
	var log []string
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Registry = prometheus.NewRegistry()
	app := New(cfg)

	if app.Collector() == nil {
		t.Fatal("Collector() = nil with metrics enabled")
	}
	app.Mount(counter(&log), nil, nil)

	if New(DefaultConfig()).Collector() != nil {
		t.Error("Collector() should be nil with metrics disabled")
	}
}

func TestAppMetricsRegistryPerApp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true

	first := New(cfg)
	second := New(cfg)

	if first.Gatherer() == nil || second.Gatherer() == nil {
		t.Fatal("Gatherer() = nil with metrics enabled")
	}
	if first.Gatherer() == second.Gatherer() {
		t.Error("apps share a registry")
	}

	var log []string
	second.Mount(counter(&log), nil, nil)
	families, err := second.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "reactor_renders_total" {
			found = true
		}
	}
	if !found {
		t.Error("reactor_renders_total not gathered")
	}
}

func TestAppDefaults(t *testing.T) {
	app := New(Config{})
	got := app.Config()
	if got.RecursionLimit != scheduler.DefaultRecursionLimit {
		t.Errorf("RecursionLimit = %d", got.RecursionLimit)
	}
	if got.Metrics.Namespace != "reactor" || got.Tracing.TracerName != "reactor" {
		t.Errorf("config = %+v", got)
	}
	if scheduler.Default() != app.Scheduler() {
		t.Error("app scheduler not installed as the default")
	}
}

func TestConfigFromFile(t *testing.T) {
	fc := config.New()
	fc.DevMode = true
	fc.RecursionLimit = 7
	fc.Metrics.Enabled = false
	fc.Tracing.TracerName = "demo"

	cfg := ConfigFromFile(fc)
	if !cfg.DevMode || cfg.RecursionLimit != 7 || cfg.Metrics.Enabled || cfg.Tracing.TracerName != "demo" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Logger == nil {
		t.Error("Logger not set")
	}
	reactive.SetDevMode(false)
}
