package reactive

import "sort"

// Track records a dependency of the active effect on (target, key).
// It is a no-op unless an effect is running with tracking enabled.
func Track(target Target, op TrackOp, key any) {
	st := lookup()
	if !st.shouldTrack || st.activeEffect == nil {
		return
	}
	m := target.targetMeta()
	if m.deps == nil {
		m.deps = make(depsMap)
	}
	dep := m.deps[key]
	if dep == nil {
		deps := m.deps
		dep = newDep(func() { delete(deps, key) }, nil)
		deps[key] = dep
	}
	trackEffect(st.activeEffect, dep, &DebuggerEvent{Target: target, Track: op, Key: key})
}

// Trigger notifies every effect that depends on the part of target touched
// by the mutation.
func Trigger(target Target, op TriggerOp, key any, newValue, oldValue any) {
	m := target.targetMeta()
	if m.deps == nil {
		return
	}

	var deps []*Dep
	add := func(k any) {
		if dep := m.deps[k]; dep != nil {
			deps = append(deps, dep)
		}
	}

	kind := target.targetKind()
	switch {
	case op == TriggerClear:
		deps = allDeps(m.deps)
	case kind == kindArray && key == LengthKey:
		newLength, _ := newValue.(int)
		add(LengthKey)
		idx := make([]int, 0, len(m.deps))
		for k := range m.deps {
			if i, ok := k.(int); ok && i >= newLength {
				idx = append(idx, i)
			}
		}
		sort.Ints(idx)
		for _, i := range idx {
			add(i)
		}
	default:
		if key != nil {
			add(key)
		}
		switch op {
		case TriggerAdd:
			if kind != kindArray {
				add(IterateKey)
				if kind == kindMap {
					add(MapKeyIterateKey)
				}
			} else if _, ok := key.(int); ok {
				add(LengthKey)
			}
		case TriggerDelete:
			if kind != kindArray {
				add(IterateKey)
				if kind == kindMap {
					add(MapKeyIterateKey)
				}
			}
		case TriggerSet:
			if kind == kindMap {
				add(IterateKey)
			}
		}
	}

	PauseScheduling()
	defer ResetScheduling()
	for _, dep := range deps {
		triggerEffects(dep, Dirty, &DebuggerEvent{
			Target:   target,
			Trigger:  op,
			Key:      key,
			NewValue: newValue,
			OldValue: oldValue,
		})
	}
}

// allDeps returns every dep of a target in a stable order: reserved keys
// first, then integer keys ascending, then everything else by insertion
// into the slice.
func allDeps(m depsMap) []*Dep {
	out := make([]*Dep, 0, len(m))
	var ints []int
	var others []any
	for k := range m {
		switch kk := k.(type) {
		case iterateKey:
		case int:
			ints = append(ints, kk)
		default:
			others = append(others, k)
		}
	}
	if d := m[IterateKey]; d != nil {
		out = append(out, d)
	}
	if d := m[MapKeyIterateKey]; d != nil {
		out = append(out, d)
	}
	sort.Ints(ints)
	for _, i := range ints {
		out = append(out, m[i])
	}
	for _, k := range others {
		out = append(out, m[k])
	}
	return out
}

// DepFor returns the dep currently registered for (target, key), or nil.
// A dep is removed as soon as its last subscriber leaves.
func DepFor(target Target, key any) *Dep {
	m := target.targetMeta()
	if m.deps == nil {
		return nil
	}
	return m.deps[key]
}
