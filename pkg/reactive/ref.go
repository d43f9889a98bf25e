package reactive

// RefLike is implemented by every boxed reactive cell: *Ref, *Computed,
// *CustomRef and *PropertyRef. Object proxies unwrap refs on read and
// write through them on assignment.
type RefLike interface {
	AnyValue() any
	SetAnyValue(v any)
	refCore() *refCell
}

// refCell is the dependency bookkeeping shared by all refs.
type refCell struct {
	dep      *Dep
	shallow  bool
	readonly bool
}

func (c *refCell) refCore() *refCell { return c }

func (c *refCell) currentDep() *Dep { return c.dep }

// track subscribes the active effect to the ref. The dep is created on
// demand and dropped again when its last subscriber leaves.
func (c *refCell) track(self any, computed computedRefresher) {
	st := lookup()
	if !st.shouldTrack || st.activeEffect == nil {
		return
	}
	if c.dep == nil {
		c.dep = newDep(func() { c.dep = nil }, computed)
	}
	trackEffect(st.activeEffect, c.dep, &DebuggerEvent{Target: self, Track: TrackGet, Key: "value"})
}

func (c *refCell) trigger(self any, level DirtyLevel, newValue any) {
	if c.dep == nil {
		return
	}
	triggerEffects(c.dep, level, &DebuggerEvent{Target: self, Trigger: TriggerSet, Key: "value", NewValue: newValue})
}

// Ref is a reactive cell holding a T. A deep ref stores targets as their
// reactive proxy when T can hold one (for example T = any or T = Record).
type Ref[T any] struct {
	refCell
	value T
	raw   T
}

// NewRef creates a deep ref.
func NewRef[T any](value T) *Ref[T] {
	r := &Ref[T]{}
	r.raw = castOr(ToRaw(value), value)
	r.value = castOr(ToReactive(value), value)
	return r
}

// ShallowRef creates a ref whose value is stored as given. Only replacing
// the value triggers.
func ShallowRef[T any](value T) *Ref[T] {
	r := &Ref[T]{value: value, raw: value}
	r.shallow = true
	return r
}

// Value returns the value and tracks the read.
func (r *Ref[T]) Value() T {
	r.track(r, nil)
	return r.value
}

// Peek returns the value without tracking.
func (r *Ref[T]) Peek() T {
	return r.value
}

// SetValue replaces the value and triggers if it changed.
func (r *Ref[T]) SetValue(v T) {
	useDirect := r.shallow || IsShallow(v) || IsReadonly(v)
	var cmp any = v
	if !useDirect {
		cmp = ToRaw(v)
	}
	if !HasChanged(cmp, any(r.raw)) {
		return
	}
	r.raw = castOr(cmp, v)
	if useDirect {
		r.value = v
	} else {
		r.value = castOr(ToReactive(v), v)
	}
	r.trigger(r, Dirty, v)
}

func (r *Ref[T]) AnyValue() any { return r.Value() }

func (r *Ref[T]) SetAnyValue(v any) {
	if t, ok := assign[T](v); ok {
		r.SetValue(t)
	}
}

// TriggerRef forces subscribers of r to run, for example after mutating
// the inside of a shallow ref's value.
func TriggerRef(r RefLike) {
	c := r.refCore()
	dep := c.currentDep()
	if pr, ok := r.(*PropertyRef); ok {
		dep = pr.currentDep()
	}
	if dep != nil {
		triggerEffects(dep, Dirty, &DebuggerEvent{Target: r, Trigger: TriggerSet, Key: "value"})
	}
}

// IsRef reports whether v is a ref.
func IsRef(v any) bool {
	_, ok := v.(RefLike)
	return ok
}

// Unref returns the value of a ref, or v itself.
func Unref(v any) any {
	if r, ok := v.(RefLike); ok {
		return r.AnyValue()
	}
	return v
}

// ToValue calls getters, unwraps refs and returns other values as is.
func ToValue(v any) any {
	if fn, ok := v.(func() any); ok {
		return fn()
	}
	return Unref(v)
}

// CustomRef is a ref whose tracking and triggering are controlled by the
// caller, for example to debounce writes.
type CustomRef[T any] struct {
	refCell
	get func() T
	set func(T)
}

// NewCustomRef builds a ref from factory. The factory receives the track
// and trigger callbacks and returns the accessors.
func NewCustomRef[T any](factory func(track, trigger func()) (get func() T, set func(T))) *CustomRef[T] {
	r := &CustomRef[T]{}
	r.get, r.set = factory(
		func() { r.track(r, nil) },
		func() { r.trigger(r, Dirty, nil) },
	)
	return r
}

func (r *CustomRef[T]) Value() T      { return r.get() }
func (r *CustomRef[T]) SetValue(v T)  { r.set(v) }
func (r *CustomRef[T]) AnyValue() any { return r.get() }
func (r *CustomRef[T]) SetAnyValue(v any) {
	if t, ok := assign[T](v); ok {
		r.set(t)
	}
}

// PropertyRef is a ref bound to one key of a record. Reads and writes go
// through the record, so a reactive record keeps tracking as usual.
type PropertyRef struct {
	refCell
	source       Record
	key          string
	defaultValue any
}

// Value returns the property, or the default when it is nil.
func (r *PropertyRef) Value() any {
	v := r.source.Get(r.key)
	if v == nil {
		return r.defaultValue
	}
	return v
}

func (r *PropertyRef) SetValue(v any)    { r.source.Set(r.key, v) }
func (r *PropertyRef) AnyValue() any     { return r.Value() }
func (r *PropertyRef) SetAnyValue(v any) { r.SetValue(v) }

func (r *PropertyRef) currentDep() *Dep {
	if t, ok := ToRaw(r.source).(Target); ok {
		return DepFor(t, r.key)
	}
	return nil
}

// ToRef returns a ref for source[key]. If the field already holds a ref,
// that ref is returned.
func ToRef(source Record, key string, defaultValue ...any) RefLike {
	if raw, ok := ToRaw(source).(*Object); ok {
		if r, ok := raw.Get(key).(RefLike); ok {
			return r
		}
	}
	r := &PropertyRef{source: source, key: key}
	if len(defaultValue) > 0 {
		r.defaultValue = defaultValue[0]
	}
	return r
}

// ToRefs returns a property ref for every key of source.
func ToRefs(source Record) map[string]RefLike {
	if !IsProxy(source) {
		warn("ToRefs() expects a reactive object but received a plain one")
	}
	out := make(map[string]RefLike)
	for _, k := range source.Keys() {
		out[k] = ToRef(source, k)
	}
	return out
}

// castOr returns v as a T, or fallback when v does not fit.
func castOr[T any](v any, fallback T) T {
	if t, ok := v.(T); ok {
		return t
	}
	return fallback
}

// assign converts an untyped write to T. nil assigns the zero value.
func assign[T any](v any) (T, bool) {
	var zero T
	if v == nil {
		return zero, true
	}
	t, ok := v.(T)
	if !ok {
		warn("ref write ignored: value has the wrong type", "value", v)
		return zero, false
	}
	return t, true
}
