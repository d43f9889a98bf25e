package reactive

// ObjectProxy is the reactive view of an *Object. Reads track, writes
// trigger, nested targets are wrapped on access.
type ObjectProxy struct {
	proxyBase
	target *Object

	// inner is the mutable proxy behind a readonly view.
	inner *ObjectProxy
}

var _ Record = (*ObjectProxy)(nil)

func (p *ObjectProxy) rawTarget() Target { return p.target }

// Raw returns the underlying object.
func (p *ObjectProxy) Raw() *Object { return p.target }

func (p *ObjectProxy) Get(key string) any {
	if v, ok := metaFlag(p, key); ok {
		return v
	}
	if p.inner != nil {
		return p.resolve(p.inner.Get(key), false)
	}
	res, _ := p.target.Lookup(key)
	if nonTrackableKeys[key] {
		return res
	}
	if !p.readonly {
		Track(p.target, TrackGet, key)
	}
	return p.resolve(res, false)
}

// Set writes key. Writing a non-ref over a ref field updates the ref
// instead; the write is rejected when that ref is readonly. On a readonly
// proxy Set warns and reports success without writing.
func (p *ObjectProxy) Set(key string, value any) bool {
	if p.readonly {
		p.warnReadonly("set", key, p.target)
		return true
	}
	oldValue, hadKey := p.target.Lookup(key)
	if !p.shallow {
		isOldReadonly := IsReadonly(oldValue)
		if !IsShallow(value) && !IsReadonly(value) {
			oldValue = ToRaw(oldValue)
			value = ToRaw(value)
		}
		if oldRef, ok := oldValue.(RefLike); ok {
			if _, isRef := value.(RefLike); !isRef {
				if isOldReadonly {
					return false
				}
				oldRef.SetAnyValue(value)
				return true
			}
		}
	}

	p.target.Set(key, value)
	if !hadKey {
		Trigger(p.target, TriggerAdd, key, value, nil)
	} else if HasChanged(value, oldValue) {
		Trigger(p.target, TriggerSet, key, value, oldValue)
	}
	return true
}

func (p *ObjectProxy) Has(key string) bool {
	if p.inner != nil {
		return p.inner.Has(key)
	}
	if !p.readonly {
		Track(p.target, TrackHas, key)
	}
	return p.target.Has(key)
}

// Delete removes key and triggers only when it existed.
func (p *ObjectProxy) Delete(key string) bool {
	if p.readonly {
		p.warnReadonly("delete", key, p.target)
		return true
	}
	oldValue, hadKey := p.target.Lookup(key)
	p.target.Delete(key)
	if hadKey {
		Trigger(p.target, TriggerDelete, key, nil, oldValue)
	}
	return true
}

// Keys returns the keys in insertion order and tracks enumeration.
func (p *ObjectProxy) Keys() []string {
	if p.inner != nil {
		return p.inner.Keys()
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	return p.target.Keys()
}

func (p *ObjectProxy) Len() int {
	return len(p.Keys())
}

// ForEach calls fn for every key in order with the resolved value.
func (p *ObjectProxy) ForEach(fn func(key string, value any)) {
	for _, k := range p.Keys() {
		fn(k, p.Get(k))
	}
}
