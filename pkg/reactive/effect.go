package reactive

// DirtyLevel is the staleness state of an effect.
//
// The numeric order matters: comparisons such as "at least MaybeDirty..."
// are done with < and >=. MaybeDirtyComputedSideEffect and MaybeDirty are
// siblings; both mean "an upstream computed may have changed".
type DirtyLevel uint8

const (
	NotDirty DirtyLevel = iota
	QueryingDirty
	MaybeDirtyComputedSideEffect
	MaybeDirty
	Dirty
)

// String returns a human-readable name for the dirty level.
func (l DirtyLevel) String() string {
	switch l {
	case NotDirty:
		return "NotDirty"
	case QueryingDirty:
		return "QueryingDirty"
	case MaybeDirtyComputedSideEffect:
		return "MaybeDirtyComputedSideEffect"
	case MaybeDirty:
		return "MaybeDirty"
	case Dirty:
		return "Dirty"
	default:
		return "Unknown"
	}
}

// Effect is a re-runnable computation that subscribes to every dep it
// reads while running.
//
// An Effect is created once and may run any number of times. Stop is
// terminal: a stopped effect is never scheduled again.
type Effect struct {
	fn func() any

	// trigger is invoked synchronously whenever the effect is notified.
	// Computeds use it to propagate MaybeDirty to their own subscribers.
	trigger func()

	// scheduler, when set, receives the deferred re-run request.
	scheduler func()

	active     bool
	dirtyLevel DirtyLevel

	// trackID is the run generation. A dep entry tagged with a different
	// generation is stale.
	trackID int

	// runnings counts nested Run calls currently on the stack.
	runnings int

	// shouldSchedule dedupes scheduler enqueues between runs.
	shouldSchedule bool

	// deps is the ordered subscription list; only the first depsLength
	// entries are current during a run.
	deps       []*Dep
	depsLength int

	// AllowRecurse lets the effect schedule itself while it is running.
	AllowRecurse bool

	// OnStop runs once when the effect is stopped.
	OnStop func()

	// OnTrack and OnTrigger are debug hooks invoked in dev mode.
	OnTrack   func(DebuggerEvent)
	OnTrigger func(DebuggerEvent)

	computed computedRefresher
}

// NewEffect creates an effect and records it in scope, or in the active
// scope when scope is nil. The effect starts Dirty and does not run.
func NewEffect(fn func() any, trigger func(), scheduler func(), scope *EffectScope) *Effect {
	if trigger == nil {
		trigger = func() {}
	}
	e := &Effect{
		fn:         fn,
		trigger:    trigger,
		scheduler:  scheduler,
		active:     true,
		dirtyLevel: Dirty,
	}
	recordEffectScope(e, scope)
	return e
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active
}

// DirtyLevel returns the raw dirty level without resolving MaybeDirty.
func (e *Effect) DirtyLevel() DirtyLevel {
	return e.dirtyLevel
}

// Deps returns the deps the effect currently subscribes to.
func (e *Effect) Deps() []*Dep {
	out := make([]*Dep, e.depsLength)
	copy(out, e.deps[:e.depsLength])
	return out
}

// SetScheduler replaces the deferred re-run callback.
func (e *Effect) SetScheduler(fn func()) {
	e.scheduler = fn
}

// Dirty reports whether the effect needs to re-run.
//
// When the level is one of the MaybeDirty variants, upstream computeds are
// refreshed in subscription order until one of them turns out to have
// changed. If none did, the effect is clean again.
func (e *Effect) Dirty() bool {
	if e.dirtyLevel == MaybeDirtyComputedSideEffect || e.dirtyLevel == MaybeDirty {
		e.dirtyLevel = QueryingDirty
		PauseTracking()
		func() {
			defer ResetTracking()
			for i := 0; i < e.depsLength; i++ {
				dep := e.deps[i]
				if dep.computed != nil {
					dep.computed.refresh()
					if e.dirtyLevel >= Dirty {
						break
					}
				}
			}
		}()
		if e.dirtyLevel == QueryingDirty {
			e.dirtyLevel = NotDirty
		}
	}
	return e.dirtyLevel >= Dirty
}

// SetDirty forces the level to Dirty (true) or NotDirty (false).
func (e *Effect) SetDirty(v bool) {
	if v {
		e.dirtyLevel = Dirty
	} else {
		e.dirtyLevel = NotDirty
	}
}

// Run executes the effect function, re-collecting its dependencies.
// An inactive effect runs its function without tracking.
func (e *Effect) Run() any {
	e.dirtyLevel = NotDirty
	if !e.active {
		return e.fn()
	}

	st := current()
	lastShouldTrack := st.shouldTrack
	lastEffect := st.activeEffect
	defer func() {
		postCleanupEffect(e)
		e.runnings--
		st.activeEffect = lastEffect
		st.shouldTrack = lastShouldTrack
		release(st)
	}()

	st.shouldTrack = true
	st.activeEffect = e
	e.runnings++
	preCleanupEffect(e)
	return e.fn()
}

// Stop unsubscribes the effect from all deps and runs OnStop. Idempotent.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	preCleanupEffect(e)
	postCleanupEffect(e)
	if e.OnStop != nil {
		e.OnStop()
	}
	e.active = false
}

func preCleanupEffect(e *Effect) {
	e.trackID++
	e.depsLength = 0
}

func postCleanupEffect(e *Effect) {
	if len(e.deps) > e.depsLength {
		for i := e.depsLength; i < len(e.deps); i++ {
			cleanupDepEffect(e.deps[i], e)
		}
		clear(e.deps[e.depsLength:])
		e.deps = e.deps[:e.depsLength]
	}
}

func cleanupDepEffect(dep *Dep, e *Effect) {
	trackID, ok := dep.get(e)
	if ok && trackID != e.trackID {
		dep.remove(e)
		if dep.Len() == 0 && dep.cleanup != nil {
			dep.cleanup()
		}
	}
}

// trackEffect subscribes e to dep for the current generation, reusing the
// subscription slot when the same dep was read at the same position last
// run.
func trackEffect(e *Effect, dep *Dep, info *DebuggerEvent) {
	if id, ok := dep.get(e); ok && id == e.trackID {
		return
	}
	dep.set(e, e.trackID)
	if e.depsLength < len(e.deps) {
		oldDep := e.deps[e.depsLength]
		if oldDep != dep {
			cleanupDepEffect(oldDep, e)
			e.deps[e.depsLength] = dep
		}
	} else {
		e.deps = append(e.deps, dep)
	}
	e.depsLength++

	if e.OnTrack != nil && devMode() && info != nil {
		ev := *info
		ev.Effect = e
		e.OnTrack(ev)
	}
}

// triggerEffects raises every effect subscribed to dep to at least level
// and queues their schedulers.
func triggerEffects(dep *Dep, level DirtyLevel, info *DebuggerEvent) {
	PauseScheduling()
	defer ResetScheduling()

	st := current()
	for _, e := range dep.effects() {
		isTracking := func() bool {
			id, ok := dep.get(e)
			return ok && id == e.trackID
		}

		if e.dirtyLevel < level && isTracking() {
			if e.dirtyLevel == NotDirty {
				e.shouldSchedule = true
			}
			e.dirtyLevel = level
		}
		if e.shouldSchedule && isTracking() {
			if e.OnTrigger != nil && devMode() && info != nil {
				ev := *info
				ev.Effect = e
				e.OnTrigger(ev)
			}
			e.trigger()
			if (e.runnings == 0 || e.AllowRecurse) && e.dirtyLevel != MaybeDirtyComputedSideEffect {
				e.shouldSchedule = false
				if e.scheduler != nil {
					st.queuedSchedulers = append(st.queuedSchedulers, e.scheduler)
				}
			}
		}
	}
}

// Runner is the handle returned by Run. Calling Run on it executes the
// effect immediately.
type Runner struct {
	effect *Effect
}

// Run executes the effect and returns the function's result.
func (r *Runner) Run() any {
	return r.effect.Run()
}

// Effect returns the underlying effect.
func (r *Runner) Effect() *Effect {
	return r.effect
}

// EffectOption configures Run.
type EffectOption func(*effectOptions)

type effectOptions struct {
	lazy         bool
	scheduler    func()
	scope        *EffectScope
	allowRecurse bool
	onStop       func()
	onTrack      func(DebuggerEvent)
	onTrigger    func(DebuggerEvent)
}

// Lazy skips the initial run.
func Lazy() EffectOption {
	return func(o *effectOptions) { o.lazy = true }
}

// WithScheduler replaces the default synchronous re-run with fn.
func WithScheduler(fn func()) EffectOption {
	return func(o *effectOptions) { o.scheduler = fn }
}

// InScope records the effect in scope instead of the active scope.
func InScope(scope *EffectScope) EffectOption {
	return func(o *effectOptions) { o.scope = scope }
}

// AllowRecurse permits the effect to re-trigger itself while running.
func AllowRecurse() EffectOption {
	return func(o *effectOptions) { o.allowRecurse = true }
}

// OnStop registers a hook run when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return func(o *effectOptions) { o.onStop = fn }
}

// OnTrack registers a dev-mode hook invoked for each new dependency.
func OnTrack(fn func(DebuggerEvent)) EffectOption {
	return func(o *effectOptions) { o.onTrack = fn }
}

// OnTrigger registers a dev-mode hook invoked when a dependency triggers
// the effect.
func OnTrigger(fn func(DebuggerEvent)) EffectOption {
	return func(o *effectOptions) { o.onTrigger = fn }
}

// Run registers fn as a tracked computation. Unless Lazy is given, fn runs
// immediately. Without a scheduler, a triggered effect re-runs
// synchronously if it is still dirty.
//
// Example:
//
//	state := reactive.Reactive(reactive.NewObject("count", 0)).(*reactive.ObjectProxy)
//	r := reactive.Run(func() {
//	    fmt.Println("count:", state.Get("count"))
//	})
//	defer reactive.Stop(r)
func Run(fn func(), opts ...EffectOption) *Runner {
	var o effectOptions
	for _, opt := range opts {
		opt(&o)
	}

	var e *Effect
	e = NewEffect(func() any { fn(); return nil }, nil, func() {
		if e.Dirty() {
			e.Run()
		}
	}, o.scope)
	if o.scheduler != nil {
		e.scheduler = o.scheduler
	}
	e.AllowRecurse = o.allowRecurse
	e.OnStop = o.onStop
	e.OnTrack = o.onTrack
	e.OnTrigger = o.onTrigger

	if !o.lazy {
		e.Run()
	}
	return &Runner{effect: e}
}

// Stop stops the runner's effect.
func Stop(r *Runner) {
	r.effect.Stop()
}
