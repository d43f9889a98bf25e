package reactive

// Computed is a lazily evaluated, cached value derived from other reactive
// state. It recomputes on read only when a dependency changed, and it is
// itself observable: effects that read it re-run when its value changes.
type Computed[T any] struct {
	refCell
	value     T
	effect    *Effect
	setter    func(T)
	cacheable bool
}

// ComputedOption configures a computed.
type ComputedOption func(*computedOptions)

type computedOptions struct {
	onTrack   func(DebuggerEvent)
	onTrigger func(DebuggerEvent)
	ssr       bool
}

// WithDebug installs dev-mode hooks on the computed's effect.
func WithDebug(onTrack, onTrigger func(DebuggerEvent)) ComputedOption {
	return func(o *computedOptions) {
		o.onTrack = onTrack
		o.onTrigger = onTrigger
	}
}

// SSR makes the computed non-cacheable: every read recomputes.
func SSR() ComputedOption {
	return func(o *computedOptions) { o.ssr = true }
}

// WritableComputedOptions holds the accessors of a writable computed.
// Get receives the previously computed value.
type WritableComputedOptions[T any] struct {
	Get func(prev T) T
	Set func(T)
}

// NewComputed creates a read-only computed. Writing to it warns.
//
// Example:
//
//	count := reactive.NewRef(1)
//	double := reactive.NewComputed(func(int) int { return count.Value() * 2 })
//	double.Value() // 2
func NewComputed[T any](getter func(prev T) T, opts ...ComputedOption) *Computed[T] {
	c := newComputed(getter, nil, opts)
	c.readonly = true
	return c
}

// NewWritableComputed creates a computed whose writes go to o.Set.
func NewWritableComputed[T any](o WritableComputedOptions[T], opts ...ComputedOption) *Computed[T] {
	c := newComputed(o.Get, o.Set, opts)
	c.readonly = o.Set == nil
	return c
}

func newComputed[T any](getter func(prev T) T, setter func(T), opts []ComputedOption) *Computed[T] {
	var o computedOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &Computed[T]{setter: setter}
	c.effect = NewEffect(
		func() any { return getter(c.value) },
		func() {
			level := MaybeDirty
			if c.effect.dirtyLevel == MaybeDirtyComputedSideEffect {
				level = MaybeDirtyComputedSideEffect
			}
			c.trigger(c, level, nil)
		},
		nil, nil,
	)
	c.effect.computed = c
	c.cacheable = !o.ssr
	c.effect.active = c.cacheable
	if !o.ssr {
		c.effect.OnTrack = o.onTrack
		c.effect.OnTrigger = o.onTrigger
	}
	return c
}

// Value returns the cached value, recomputing it first if a dependency
// changed, and tracks the read.
func (c *Computed[T]) Value() T {
	if !c.cacheable || c.effect.Dirty() {
		old := c.value
		c.value, _ = c.effect.Run().(T)
		if HasChanged(old, c.value) {
			c.trigger(c, Dirty, c.value)
		}
	}
	c.track(c, c)
	if c.effect.dirtyLevel >= MaybeDirtyComputedSideEffect {
		c.trigger(c, MaybeDirtyComputedSideEffect, nil)
	}
	return c.value
}

// SetValue calls the setter. On a read-only computed it warns.
func (c *Computed[T]) SetValue(v T) {
	if c.setter == nil {
		warn("write operation failed: computed value is readonly")
		return
	}
	c.setter(v)
}

// Effect returns the backing effect.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

// Dirty reports whether the next read will recompute.
func (c *Computed[T]) Dirty() bool {
	return c.effect.Dirty()
}

func (c *Computed[T]) AnyValue() any { return c.Value() }

func (c *Computed[T]) SetAnyValue(v any) {
	if t, ok := assign[T](v); ok {
		c.SetValue(t)
	}
}

func (c *Computed[T]) refresh() { c.Value() }
