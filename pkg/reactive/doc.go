// Package reactive provides the dependency-tracking core for reactor.
//
// Reads of reactive state inside a running effect subscribe that effect;
// writes mark subscribed effects dirty and hand them to their scheduler.
//
// # Containers and proxies
//
// State lives in raw containers (Object, Array, Map, Set). Wrapping one
// returns a proxy whose accessors track and trigger:
//
//	state := reactive.Reactive(reactive.NewObject("count", 0)).(*reactive.ObjectProxy)
//	reactive.Run(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//	state.Set("count", 1) // re-runs the effect
//
// There is at most one proxy per (container, variant). Nested containers
// are wrapped on access, not up front.
//
// # Refs and computeds
//
// Ref[T] is a single reactive cell. Computed[T] caches a derived value and
// recomputes only after a dependency changed:
//
//	count := reactive.NewRef(1)
//	double := reactive.NewComputed(func(int) int { return count.Value() * 2 })
//
// A computed's subscribers are only re-run when the computed's output
// actually changes (see DirtyLevel).
//
// # Goroutines
//
// The tracking state (active effect, tracking flag, active scope) is kept
// per goroutine. A reactive graph is single-threaded: create and mutate it
// from one goroutine.
package reactive
