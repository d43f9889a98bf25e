package reactive

import "slices"

// ArrayProxy is the reactive view of an *Array.
//
// Refs stored at an index are returned as refs, not unwrapped.
type ArrayProxy struct {
	proxyBase
	target *Array

	// inner is the mutable proxy behind a readonly view.
	inner *ArrayProxy
}

var _ List = (*ArrayProxy)(nil)

func (p *ArrayProxy) rawTarget() Target { return p.target }

// Raw returns the underlying array.
func (p *ArrayProxy) Raw() *Array { return p.target }

func (p *ArrayProxy) Get(i int) any {
	if p.inner != nil {
		return p.resolve(p.inner.Get(i), true)
	}
	if !p.readonly {
		Track(p.target, TrackGet, i)
	}
	return p.resolve(p.target.Get(i), true)
}

// Len returns the length and tracks LengthKey.
func (p *ArrayProxy) Len() int {
	if p.inner != nil {
		return p.inner.Len()
	}
	if !p.readonly {
		Track(p.target, TrackGet, LengthKey)
	}
	return p.target.Len()
}

// Set writes index i. Writing past the end is an ADD and grows the array.
func (p *ArrayProxy) Set(i int, value any) bool {
	if p.readonly {
		p.warnReadonly("set", i, p.target)
		return true
	}
	if i < 0 {
		return false
	}
	n := p.target.Len()
	hadKey := i < n
	oldValue := p.target.Get(i)
	if !p.shallow && !IsShallow(value) && !IsReadonly(value) {
		oldValue = ToRaw(oldValue)
		value = ToRaw(value)
	}

	p.target.Set(i, value)
	if !hadKey {
		Trigger(p.target, TriggerAdd, i, value, nil)
	} else if HasChanged(value, oldValue) {
		Trigger(p.target, TriggerSet, i, value, oldValue)
	}
	return true
}

// SetLength truncates or extends the array. Truncation triggers every
// index at or past the new length.
func (p *ArrayProxy) SetLength(n int) {
	if p.readonly {
		p.warnReadonly("set", LengthKey, p.target)
		return
	}
	n = max(n, 0)
	old := p.target.Len()
	if n == old {
		return
	}
	p.target.SetLength(n)
	Trigger(p.target, TriggerSet, LengthKey, n, old)
}

// mutate runs fn with tracking and scheduling paused. The length-changing
// methods read the length internally; tracking those reads would make an
// effect depend on the very length it changes.
func (p *ArrayProxy) mutate(fn func()) {
	PauseTracking()
	PauseScheduling()
	defer func() {
		ResetScheduling()
		ResetTracking()
	}()
	fn()
}

func (p *ArrayProxy) Push(items ...any) int {
	if p.readonly {
		p.warnReadonly("push", nil, p.target)
		return p.target.Len()
	}
	p.mutate(func() {
		n := p.target.Len()
		for k, it := range items {
			p.Set(n+k, it)
		}
	})
	return p.target.Len()
}

func (p *ArrayProxy) Pop() any {
	if p.readonly {
		p.warnReadonly("pop", nil, p.target)
		return nil
	}
	var v any
	p.mutate(func() {
		n := p.target.Len()
		if n == 0 {
			return
		}
		v = p.Get(n - 1)
		p.SetLength(n - 1)
	})
	return v
}

func (p *ArrayProxy) Shift() any {
	if p.readonly {
		p.warnReadonly("shift", nil, p.target)
		return nil
	}
	var first any
	p.mutate(func() {
		n := p.target.Len()
		if n == 0 {
			return
		}
		first = p.Get(0)
		for k := 1; k < n; k++ {
			p.Set(k-1, p.target.Get(k))
		}
		p.SetLength(n - 1)
	})
	return first
}

func (p *ArrayProxy) Unshift(items ...any) int {
	if p.readonly {
		p.warnReadonly("unshift", nil, p.target)
		return p.target.Len()
	}
	p.mutate(func() {
		n, argc := p.target.Len(), len(items)
		for k := n - 1; k >= 0; k-- {
			p.Set(k+argc, p.target.Get(k))
		}
		for j, it := range items {
			p.Set(j, it)
		}
	})
	return p.target.Len()
}

// Splice removes deleteCount items at start, inserts items there and
// returns the removed values.
func (p *ArrayProxy) Splice(start, deleteCount int, items ...any) []any {
	if p.readonly {
		p.warnReadonly("splice", nil, p.target)
		return nil
	}
	var removed []any
	p.mutate(func() {
		n := p.target.Len()
		start, deleteCount = spliceBounds(n, start, deleteCount)
		removed = make([]any, deleteCount)
		for i := range deleteCount {
			removed[i] = p.Get(start + i)
		}
		next := slices.Concat(p.target.items[:start:start], items, p.target.items[start+deleteCount:])
		for i := start; i < len(next); i++ {
			p.Set(i, next[i])
		}
		if len(next) < n {
			p.SetLength(len(next))
		}
	})
	return removed
}

func (p *ArrayProxy) Includes(v any) bool {
	return p.search(v, false) >= 0
}

func (p *ArrayProxy) IndexOf(v any) int {
	return p.search(v, false)
}

func (p *ArrayProxy) LastIndexOf(v any) int {
	return p.search(v, true)
}

// search tracks every index and the length, looks v up among the stored
// values and, when that misses, retries with v and every element reduced
// to raw form. A plain readonly proxy compares against its wrapped values.
func (p *ArrayProxy) search(v any, fromEnd bool) int {
	if p.readonly && p.inner == nil {
		n := p.target.Len()
		return indexIn(n, fromEnd, func(i int) bool { return SameValueZero(p.Get(i), v) })
	}

	arr := p.target
	n := arr.Len()
	Track(arr, TrackGet, LengthKey)
	for i := range n {
		Track(arr, TrackGet, i)
	}
	if i := indexIn(n, fromEnd, func(i int) bool { return SameValueZero(arr.items[i], v) }); i >= 0 {
		return i
	}
	raw := ToRaw(v)
	return indexIn(n, fromEnd, func(i int) bool { return SameValueZero(ToRaw(arr.items[i]), raw) })
}

func indexIn(n int, fromEnd bool, match func(int) bool) int {
	if fromEnd {
		for i := n - 1; i >= 0; i-- {
			if match(i) {
				return i
			}
		}
		return -1
	}
	for i := range n {
		if match(i) {
			return i
		}
	}
	return -1
}

// Values returns every element resolved through the proxy.
func (p *ArrayProxy) Values() []any {
	n := p.Len()
	out := make([]any, n)
	for i := range n {
		out[i] = p.Get(i)
	}
	return out
}

func (p *ArrayProxy) ForEach(fn func(i int, v any)) {
	for i, v := range p.Values() {
		fn(i, v)
	}
}

// Slice returns the resolved elements in [start, end).
func (p *ArrayProxy) Slice(start, end int) []any {
	vals := p.Values()
	start = max(min(start, len(vals)), 0)
	end = max(min(end, len(vals)), start)
	return vals[start:end]
}
