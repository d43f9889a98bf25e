package watch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
)

type change struct {
	newValue, oldValue any
}

func record(log *[]change) Callback {
	return func(n, old any, _ OnCleanup) {
		*log = append(*log, change{n, old})
	}
}

func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	reactive.SetDevMode(true)
	reactive.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() {
		reactive.SetDevMode(false)
		reactive.SetLogger(nil)
	})
	return &buf
}

func TestWatchRef(t *testing.T) {
	t.Run("calls back after the flush", func(t *testing.T) {
		s := scheduler.New()
		count := reactive.NewRef(1)
		var log []change
		Watch(count, record(&log), WithScheduler(s))

		count.SetValue(2)
		count.SetValue(3)
		assert.Empty(t, log)

		s.Drain()
		assert.Equal(t, []change{{3, 1}}, log)
	})

	t.Run("immediate passes a nil old value", func(t *testing.T) {
		s := scheduler.New()
		count := reactive.NewRef(1)
		var log []change
		Watch(count, record(&log), WithScheduler(s), Immediate())
		assert.Equal(t, []change{{1, nil}}, log)
	})

	t.Run("unchanged values do not call back", func(t *testing.T) {
		s := scheduler.New()
		n := reactive.NewRef(1)
		var log []change
		Watch(func() any { return n.Value() % 2 }, record(&log), WithScheduler(s))

		n.SetValue(3)
		s.Drain()
		assert.Empty(t, log)

		n.SetValue(4)
		s.Drain()
		assert.Equal(t, []change{{0, 1}}, log)
	})

	t.Run("shallow refs fire on TriggerRef", func(t *testing.T) {
		s := scheduler.New()
		obj := reactive.NewObject("x", 1)
		r := reactive.ShallowRef[any](obj)
		calls := 0
		Watch(r, func(any, any, OnCleanup) { calls++ }, WithScheduler(s))

		obj.Set("x", 2)
		reactive.TriggerRef(r)
		s.Drain()
		assert.Equal(t, 1, calls)
	})
}

func TestWatchReactive(t *testing.T) {
	t.Run("reactive sources are deep", func(t *testing.T) {
		s := scheduler.New()
		state := reactive.Reactive(reactive.NewObject("nested", reactive.NewObject("x", 1))).(*reactive.ObjectProxy)
		calls := 0
		Watch(state, func(n, old any, _ OnCleanup) {
			calls++
			assert.Same(t, state, n)
			assert.Same(t, state, old)
		}, WithScheduler(s))

		state.Get("nested").(*reactive.ObjectProxy).Set("x", 2)
		s.Drain()
		assert.Equal(t, 1, calls)
	})

	t.Run("getter sources need Deep for nested changes", func(t *testing.T) {
		s := scheduler.New()
		state := reactive.Reactive(reactive.NewObject("list", reactive.NewArray(1))).(*reactive.ObjectProxy)
		shallow, deep := 0, 0
		getList := func() any { return state.Get("list") }
		Watch(getList, func(any, any, OnCleanup) { shallow++ }, WithScheduler(s))
		Watch(getList, func(any, any, OnCleanup) { deep++ }, WithScheduler(s), Deep())

		state.Get("list").(*reactive.ArrayProxy).Push(2)
		s.Drain()
		assert.Equal(t, 0, shallow)
		assert.Equal(t, 1, deep)
	})

	t.Run("deep depth limits traversal", func(t *testing.T) {
		s := scheduler.New()
		state := reactive.Reactive(reactive.NewObject(
			"a", reactive.NewObject("b", reactive.NewObject("c", 1)),
		)).(*reactive.ObjectProxy)
		calls := 0
		Watch(func() any { return state }, func(any, any, OnCleanup) { calls++ },
			WithScheduler(s), DeepDepth(2))

		b := state.Get("a").(*reactive.ObjectProxy).Get("b").(*reactive.ObjectProxy)
		b.Set("c", 2)
		s.Drain()
		assert.Equal(t, 0, calls)

		state.Get("a").(*reactive.ObjectProxy).Set("b", 0)
		s.Drain()
		assert.Equal(t, 1, calls)
	})

	t.Run("cycles terminate", func(t *testing.T) {
		raw := reactive.NewObject()
		raw.Set("self", raw)
		state := reactive.Reactive(raw)
		assert.Same(t, state, Traverse(state, 0))
	})
}

func TestWatchMultiSource(t *testing.T) {
	s := scheduler.New()
	a := reactive.NewRef(1)
	b := reactive.NewRef("x")
	var log []change
	Watch([]any{a, func() any { return b.Value() + "!" }}, record(&log), WithScheduler(s), Immediate())
	require.Len(t, log, 1)
	assert.Equal(t, []any{1, "x!"}, log[0].newValue)
	assert.Equal(t, []any{}, log[0].oldValue)

	b.SetValue("y")
	s.Drain()
	require.Len(t, log, 2)
	assert.Equal(t, []any{1, "y!"}, log[1].newValue)
	assert.Equal(t, []any{1, "x!"}, log[1].oldValue)
}

func TestWatchLifecycle(t *testing.T) {
	t.Run("once stops after the first callback", func(t *testing.T) {
		s := scheduler.New()
		n := reactive.NewRef(0)
		calls := 0
		h := Watch(n, func(any, any, OnCleanup) { calls++ }, WithScheduler(s), Once())

		n.SetValue(1)
		s.Drain()
		n.SetValue(2)
		s.Drain()
		assert.Equal(t, 1, calls)
		assert.False(t, h.Active())
	})

	t.Run("cleanup runs before the next callback and on stop", func(t *testing.T) {
		s := scheduler.New()
		n := reactive.NewRef(0)
		log := []string{}
		h := Watch(n, func(v, _ any, onCleanup OnCleanup) {
			log = append(log, "cb")
			onCleanup(func() { log = append(log, "cleanup") })
		}, WithScheduler(s))

		n.SetValue(1)
		s.Drain()
		n.SetValue(2)
		s.Drain()
		h.Stop()
		assert.Equal(t, []string{"cb", "cleanup", "cb", "cleanup"}, log)
	})

	t.Run("stop removes the watcher from its scope", func(t *testing.T) {
		s := scheduler.New()
		scope := reactive.NewEffectScope(true)
		n := reactive.NewRef(0)
		calls := 0
		var h *Handle
		scope.Run(func() {
			h = Watch(n, func(any, any, OnCleanup) { calls++ }, WithScheduler(s))
		})
		require.Len(t, scope.Effects(), 1)

		h.Stop()
		h.Stop()
		assert.Empty(t, scope.Effects())
		n.SetValue(1)
		s.Drain()
		assert.Equal(t, 0, calls)
	})

	t.Run("stopping the scope stops the watcher", func(t *testing.T) {
		s := scheduler.New()
		scope := reactive.NewEffectScope(true)
		n := reactive.NewRef(0)
		calls := 0
		scope.Run(func() {
			Watch(n, func(any, any, OnCleanup) { calls++ }, WithScheduler(s))
		})
		scope.Stop()
		n.SetValue(1)
		s.Drain()
		assert.Equal(t, 0, calls)
	})
}

func TestFlushTiming(t *testing.T) {
	t.Run("sync runs inside the write", func(t *testing.T) {
		s := scheduler.New()
		n := reactive.NewRef(0)
		var log []change
		Watch(n, record(&log), WithScheduler(s), Flush(FlushSync))
		n.SetValue(1)
		assert.Equal(t, []change{{1, 0}}, log)
		assert.False(t, s.Pending())
	})

	t.Run("pre runs before component jobs and post after", func(t *testing.T) {
		s := scheduler.New()
		n := reactive.NewRef(0)
		log := []string{}
		Watch(n, func(any, any, OnCleanup) { log = append(log, "post") }, WithScheduler(s), Flush(FlushPost))
		Watch(n, func(any, any, OnCleanup) { log = append(log, "pre") }, WithScheduler(s), WithInstanceID(1))
		update := scheduler.NewJob(func() { log = append(log, "update") }, scheduler.WithID(1))

		s.QueueJob(update)
		n.SetValue(1)
		s.Drain()
		assert.Equal(t, []string{"pre", "update", "post"}, log)
	})
}

func TestWatchEffect(t *testing.T) {
	t.Run("runs now and after changes", func(t *testing.T) {
		s := scheduler.New()
		n := reactive.NewRef(0)
		log := []string{}
		h := WatchEffect(func(onCleanup OnCleanup) {
			v := n.Value()
			log = append(log, "run")
			onCleanup(func() { log = append(log, "cleanup") })
			_ = v
		}, WithScheduler(s))
		assert.Equal(t, []string{"run"}, log)

		n.SetValue(1)
		s.Drain()
		assert.Equal(t, []string{"run", "cleanup", "run"}, log)

		h.Stop()
		assert.Equal(t, []string{"run", "cleanup", "run", "cleanup"}, log)
	})

	t.Run("post effects wait for the flush", func(t *testing.T) {
		s := scheduler.New()
		runs := 0
		WatchPostEffect(func(OnCleanup) { runs++ }, WithScheduler(s))
		assert.Equal(t, 0, runs)
		s.Drain()
		assert.Equal(t, 1, runs)
	})

	t.Run("sync effects run inside the write", func(t *testing.T) {
		n := reactive.NewRef(0)
		var seen []int
		WatchSyncEffect(func(OnCleanup) { seen = append(seen, n.Value()) }, WithScheduler(scheduler.New()))
		n.SetValue(1)
		assert.Equal(t, []int{0, 1}, seen)
	})

	t.Run("callback-only options warn", func(t *testing.T) {
		buf := captureWarnings(t)
		WatchEffect(func(OnCleanup) {}, WithScheduler(scheduler.New()), Immediate())
		assert.Contains(t, buf.String(), "Immediate option is only respected by Watch")
	})
}

func TestWatchErrors(t *testing.T) {
	t.Run("invalid sources warn and watch nothing", func(t *testing.T) {
		buf := captureWarnings(t)
		calls := 0
		Watch(42, func(any, any, OnCleanup) { calls++ }, WithScheduler(scheduler.New()))
		assert.Contains(t, buf.String(), "watch source can only be")
		assert.Equal(t, 0, calls)
	})

	t.Run("panics are routed with their code", func(t *testing.T) {
		var codes []scheduler.ErrorCode
		s := scheduler.New(scheduler.WithErrorHandler(func(_ error, code scheduler.ErrorCode) {
			codes = append(codes, code)
		}))
		n := reactive.NewRef(0)
		Watch(func() any {
			if n.Value() == 1 {
				panic("getter")
			}
			return n.Value()
		}, func(v, _ any, _ OnCleanup) {
			if v == 2 {
				panic("callback")
			}
		}, WithScheduler(s))

		n.SetValue(1)
		s.Drain()
		n.SetValue(2)
		s.Drain()
		assert.Equal(t, []scheduler.ErrorCode{scheduler.CodeWatchGetter, scheduler.CodeWatchCallback}, codes)
	})

	t.Run("callback writing its own source stops at the recursion limit", func(t *testing.T) {
		var codes []scheduler.ErrorCode
		s := scheduler.New(scheduler.WithErrorHandler(func(_ error, code scheduler.ErrorCode) {
			codes = append(codes, code)
		}))
		r := reactive.NewRef(0)
		calls := 0
		Watch(r, func(any, any, OnCleanup) {
			calls++
			r.SetValue(r.Peek() + 1)
		}, WithScheduler(s))

		r.SetValue(1)
		s.Drain()

		assert.Equal(t, scheduler.DefaultRecursionLimit+1, calls)
		assert.Equal(t, []scheduler.ErrorCode{scheduler.CodeRecursionLimit}, codes)
		assert.False(t, s.Pending())
		assert.False(t, s.Flushing())
	})
}
