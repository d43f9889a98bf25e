package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// runtimeState holds the ambient reactive state for a goroutine.
//
// A reactive graph is single-threaded: every goroutine that reads or writes
// reactive values gets its own tracking state, and a graph must not be
// mutated from two goroutines at once.
type runtimeState struct {
	// activeEffect is the effect whose Run is on top of the stack.
	// Reads are attributed to it while shouldTrack is true.
	activeEffect *Effect

	// shouldTrack gates dependency collection.
	shouldTrack bool

	// trackStack saves shouldTrack across PauseTracking/ResetTracking pairs.
	trackStack []bool

	// pauseScheduleDepth counts nested PauseScheduling calls.
	pauseScheduleDepth int

	// queuedSchedulers holds scheduler callbacks deferred while scheduling
	// is paused. Drained FIFO by ResetScheduling.
	queuedSchedulers []func()

	// activeScope receives effects and child scopes created while it runs.
	activeScope *EffectScope

	gid int64
}

// idle reports whether st carries nothing beyond the defaults.
func (st *runtimeState) idle() bool {
	return st.activeEffect == nil &&
		st.shouldTrack &&
		len(st.trackStack) == 0 &&
		st.pauseScheduleDepth == 0 &&
		len(st.queuedSchedulers) == 0 &&
		st.activeScope == nil
}

// states stores per-goroutine runtime state keyed by goroutine id.
var states sync.Map

// idleState is what lookup reports for a goroutine without state. It is
// never written.
var idleState = &runtimeState{shouldTrack: true}

// current returns the runtime state of the calling goroutine, creating it
// on first use. Callers that change the state must pair it with release.
func current() *runtimeState {
	gid := goid.Get()
	if st, ok := states.Load(gid); ok {
		return st.(*runtimeState)
	}
	st := &runtimeState{shouldTrack: true, gid: gid}
	states.Store(gid, st)
	return st
}

// lookup returns the runtime state of the calling goroutine for reading.
// It never allocates.
func lookup() *runtimeState {
	if st, ok := states.Load(goid.Get()); ok {
		return st.(*runtimeState)
	}
	return idleState
}

// release drops st once it is back to its defaults, so goroutines that
// only touched reactive values in passing leave nothing behind.
func release(st *runtimeState) {
	if st != idleState && st.idle() {
		states.CompareAndDelete(st.gid, st)
	}
}

// ReleaseGoroutine drops the reactive state of the calling goroutine. State
// is dropped on its own once the goroutine leaves every effect, scope and
// pause section; this is only needed for a goroutine that exits inside one.
// Calling it while an effect is running is a bug.
func ReleaseGoroutine() {
	states.Delete(goid.Get())
}

// ActiveEffect returns the effect currently collecting dependencies, or nil.
func ActiveEffect() *Effect {
	return lookup().activeEffect
}

// IsTracking reports whether a read right now would record a dependency.
func IsTracking() bool {
	st := lookup()
	return st.shouldTrack && st.activeEffect != nil
}

// PauseTracking suspends dependency collection until the matching
// ResetTracking.
func PauseTracking() {
	st := current()
	st.trackStack = append(st.trackStack, st.shouldTrack)
	st.shouldTrack = false
}

// EnableTracking re-enables dependency collection until the matching
// ResetTracking.
func EnableTracking() {
	st := current()
	st.trackStack = append(st.trackStack, st.shouldTrack)
	st.shouldTrack = true
}

// ResetTracking restores the tracking state saved by the last
// PauseTracking or EnableTracking.
func ResetTracking() {
	st := current()
	n := len(st.trackStack)
	if n == 0 {
		st.shouldTrack = true
	} else {
		st.shouldTrack = st.trackStack[n-1]
		st.trackStack = st.trackStack[:n-1]
	}
	release(st)
}

// PauseScheduling defers effect scheduler callbacks until the matching
// ResetScheduling.
func PauseScheduling() {
	current().pauseScheduleDepth++
}

// ResetScheduling closes a PauseScheduling section. When the outermost
// section closes, deferred scheduler callbacks run in the order they were
// queued.
func ResetScheduling() {
	st := current()
	st.pauseScheduleDepth--
	for st.pauseScheduleDepth == 0 && len(st.queuedSchedulers) > 0 {
		fn := st.queuedSchedulers[0]
		st.queuedSchedulers = st.queuedSchedulers[1:]
		fn()
	}
	release(st)
}

// Untracked runs fn without recording any dependency for the active effect.
//
// Example:
//
//	reactive.Untracked(func() {
//	    log.Println("count is", count.Value())
//	})
func Untracked(fn func()) {
	PauseTracking()
	defer ResetTracking()
	fn()
}
