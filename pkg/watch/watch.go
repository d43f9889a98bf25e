package watch

import (
	"github.com/vango-dev/reactor/internal/devlog"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
)

// OnCleanup registers a function that runs before the next callback and
// when the watcher stops.
type OnCleanup func(fn func())

// Callback receives the new value, the previous value (nil on the first
// call) and the cleanup registrar.
type Callback func(newValue, oldValue any, onCleanup OnCleanup)

// Handle stops a watcher.
type Handle struct {
	effect *reactive.Effect
	stop   func()
}

// Stop stops the watcher and removes it from its scope. Idempotent.
func (h *Handle) Stop() {
	h.stop()
}

// Active reports whether the watcher is still running.
func (h *Handle) Active() bool {
	return h.effect.Active()
}

// initialMarker stands for "never produced a value".
type initialMarker struct{ _ byte }

var initial any = &initialMarker{}

// effectSource marks the WatchEffect form.
type effectSource func(onCleanup OnCleanup)

// Watch calls cb whenever source changes. source is a reactive.RefLike, a
// reactive proxy, a func() any getter or a []any of these.
func Watch(source any, cb Callback, opts ...Option) *Handle {
	if cb == nil {
		devlog.Warn("Watch requires a callback; use WatchEffect to run a function on change")
	}
	return doWatch(source, cb, newOptions(opts))
}

// WatchEffect runs fn now and again whenever its dependencies change.
func WatchEffect(fn func(onCleanup OnCleanup), opts ...Option) *Handle {
	return doWatch(effectSource(fn), nil, newOptions(opts))
}

// WatchPostEffect is WatchEffect flushed after component updates.
func WatchPostEffect(fn func(onCleanup OnCleanup), opts ...Option) *Handle {
	return WatchEffect(fn, append(opts, Flush(FlushPost))...)
}

// WatchSyncEffect is WatchEffect run synchronously on every change.
func WatchSyncEffect(fn func(onCleanup OnCleanup), opts ...Option) *Handle {
	return WatchEffect(fn, append(opts, Flush(FlushSync))...)
}

func warnInvalidSource(s any) {
	devlog.Warn("invalid watch source: a watch source can only be a getter function, a ref, a reactive object, or a slice of these",
		"source", s)
}

func doWatch(source any, cb Callback, o *options) *Handle {
	s := o.sched

	if cb == nil {
		for _, name := range []string{"Immediate", "Deep", "Once"} {
			if o.set[name] {
				devlog.Warn(name + " option is only respected by Watch with a callback")
			}
		}
	}

	var (
		effect    *reactive.Effect
		unwatch   func()
		cleanup   func()
		onCleanup OnCleanup
	)

	if cb != nil && o.once {
		inner := cb
		cb = func(n, old any, c OnCleanup) {
			inner(n, old, c)
			unwatch()
		}
	}

	reactiveGetter := func(src any) any {
		if o.deep {
			// traversed by the deep getter below
			return src
		}
		return Traverse(src, 0)
	}

	var getter func() any
	forceTrigger := false
	multi := false

	switch src := source.(type) {
	case reactive.RefLike:
		getter = func() any { return src.AnyValue() }
		forceTrigger = reactive.IsShallow(src)
	case effectSource:
		getter = func() any {
			if cleanup != nil {
				cleanup()
			}
			s.CallWithErrorHandling(func() { src(onCleanup) }, scheduler.CodeWatchCallback, "watch effect")
			return nil
		}
	case func() any:
		if cb != nil {
			getter = func() any {
				v, _ := scheduler.CallValue(s, src, scheduler.CodeWatchGetter, "watch getter")
				return v
			}
		} else {
			getter = func() any {
				if cleanup != nil {
					cleanup()
				}
				v, _ := scheduler.CallValue(s, src, scheduler.CodeWatchCallback, "watch effect")
				return v
			}
		}
	case []any:
		multi = true
		for _, item := range src {
			if reactive.IsReactive(item) || reactive.IsShallow(item) {
				forceTrigger = true
				break
			}
		}
		getter = func() any {
			out := make([]any, len(src))
			for i, item := range src {
				switch it := item.(type) {
				case reactive.RefLike:
					out[i] = it.AnyValue()
				case func() any:
					out[i], _ = scheduler.CallValue(s, it, scheduler.CodeWatchGetter, "watch getter")
				default:
					if reactive.IsReactive(it) {
						out[i] = reactiveGetter(it)
					} else {
						warnInvalidSource(it)
					}
				}
			}
			return out
		}
	default:
		if reactive.IsReactive(src) {
			getter = func() any { return reactiveGetter(src) }
			forceTrigger = true
		} else {
			getter = func() any { return nil }
			warnInvalidSource(src)
		}
	}

	if cb != nil && o.deep {
		base := getter
		getter = func() any { return Traverse(base(), o.depth) }
	}

	onCleanup = func(fn func()) {
		cleanup = func() {
			s.CallWithErrorHandling(fn, scheduler.CodeWatchCleanup, "watch cleanup")
			cleanup = nil
			effect.OnStop = nil
		}
		effect.OnStop = cleanup
	}

	var oldValue any = initial
	if multi {
		olds := make([]any, len(source.([]any)))
		for i := range olds {
			olds[i] = initial
		}
		oldValue = olds
	}

	changed := func(newValue any) bool {
		if !multi {
			return reactive.HasChanged(newValue, oldValue)
		}
		news, olds := newValue.([]any), oldValue.([]any)
		for i, v := range news {
			if reactive.HasChanged(v, olds[i]) {
				return true
			}
		}
		return false
	}

	previous := func() any {
		if oldValue == initial {
			return nil
		}
		if multi {
			olds := oldValue.([]any)
			if len(olds) > 0 && olds[0] == initial {
				return []any{}
			}
		}
		return oldValue
	}

	run := func() {
		if !effect.Active() || !effect.Dirty() {
			return
		}
		if cb == nil {
			effect.Run()
			return
		}
		newValue := effect.Run()
		if o.deep || forceTrigger || changed(newValue) {
			if cleanup != nil {
				cleanup()
			}
			old := previous()
			s.CallWithErrorHandling(func() { cb(newValue, old, onCleanup) }, scheduler.CodeWatchCallback, "watch callback")
			oldValue = newValue
		}
	}

	job := scheduler.NewJob(run, scheduler.Named("watcher"))
	// A watcher may write to its own source.
	job.AllowRecurse = cb != nil

	var schedule func()
	switch o.flush {
	case FlushSync:
		schedule = run
	case FlushPost:
		schedule = func() { s.QueuePostFlushCb(job) }
	default:
		job.Pre = true
		if o.hasInstance {
			job.ID = o.instanceID
		}
		schedule = func() { s.QueueJob(job) }
	}

	scope := o.scope
	if scope == nil {
		scope = reactive.GetCurrentScope()
	}
	effect = reactive.NewEffect(getter, nil, schedule, scope)
	effect.OnTrack = o.onTrack
	effect.OnTrigger = o.onTrigger

	unwatch = func() {
		effect.Stop()
		if scope != nil {
			scope.RemoveEffect(effect)
		}
	}

	switch {
	case cb != nil && o.immediate:
		run()
	case cb != nil:
		oldValue = effect.Run()
	case o.flush == FlushPost:
		s.QueuePostFlushCb(scheduler.NewJob(func() { effect.Run() }, scheduler.Named("post watcher")))
	default:
		effect.Run()
	}

	return &Handle{effect: effect, stop: unwatch}
}
