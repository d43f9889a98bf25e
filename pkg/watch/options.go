package watch

import (
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
)

// FlushMode selects when a triggered watcher runs.
type FlushMode int

const (
	// FlushPre queues the watcher before component updates.
	FlushPre FlushMode = iota
	// FlushPost queues the watcher after component updates.
	FlushPost
	// FlushSync runs the watcher inside the triggering write.
	FlushSync
)

func (m FlushMode) String() string {
	switch m {
	case FlushPre:
		return "pre"
	case FlushPost:
		return "post"
	case FlushSync:
		return "sync"
	default:
		return "unknown"
	}
}

// Option configures Watch and WatchEffect.
type Option func(*options)

type options struct {
	immediate bool
	deep      bool
	depth     int
	once      bool
	flush     FlushMode
	onTrack   func(reactive.DebuggerEvent)
	onTrigger func(reactive.DebuggerEvent)
	sched     *scheduler.Scheduler
	scope     *reactive.EffectScope

	instanceID  int
	hasInstance bool

	// set records options that only Watch honours.
	set map[string]bool
}

func newOptions(opts []Option) *options {
	o := &options{set: map[string]bool{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.sched == nil {
		o.sched = scheduler.Default()
	}
	return o
}

// Immediate calls the callback once on creation.
func Immediate() Option {
	return func(o *options) {
		o.immediate = true
		o.set["Immediate"] = true
	}
}

// Deep traverses the source so nested mutations fire the callback.
func Deep() Option {
	return func(o *options) {
		o.deep = true
		o.depth = 0
		o.set["Deep"] = true
	}
}

// DeepDepth is Deep limited to n levels.
func DeepDepth(n int) Option {
	return func(o *options) {
		o.deep = true
		o.depth = n
		o.set["Deep"] = true
	}
}

// Once stops the watcher after the first callback.
func Once() Option {
	return func(o *options) {
		o.once = true
		o.set["Once"] = true
	}
}

// Flush sets the flush timing.
func Flush(m FlushMode) Option {
	return func(o *options) { o.flush = m }
}

// OnTrack registers a dev-mode dependency hook.
func OnTrack(fn func(reactive.DebuggerEvent)) Option {
	return func(o *options) { o.onTrack = fn }
}

// OnTrigger registers a dev-mode trigger hook.
func OnTrigger(fn func(reactive.DebuggerEvent)) Option {
	return func(o *options) { o.onTrigger = fn }
}

// WithScheduler queues the watcher on s instead of scheduler.Default().
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithScope records the watcher in scope instead of the active scope.
func WithScope(scope *reactive.EffectScope) Option {
	return func(o *options) { o.scope = scope }
}

// WithInstanceID gives a pre-flush watcher the id of its owning component,
// so it runs right before that component updates.
func WithInstanceID(id int) Option {
	return func(o *options) {
		o.instanceID = id
		o.hasInstance = true
	}
}
