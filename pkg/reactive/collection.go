package reactive

// MapProxy is the reactive view of a *Map.
//
// Lookups track both the key as given and its raw form, so callers may
// hold either a raw object or its proxy as the key.
type MapProxy struct {
	proxyBase
	target *Map

	// inner is the mutable proxy behind a readonly view.
	inner *MapProxy
}

var _ Dict = (*MapProxy)(nil)

func (p *MapProxy) rawTarget() Target { return p.target }

// Raw returns the underlying map.
func (p *MapProxy) Raw() *Map { return p.target }

func (p *MapProxy) Get(key any) any {
	if p.inner != nil {
		return p.wrap(p.inner.Get(key))
	}
	raw := p.target
	rawKey := ToRaw(key)
	if !p.readonly {
		if HasChanged(key, rawKey) {
			Track(raw, TrackGet, key)
		}
		Track(raw, TrackGet, rawKey)
	}
	switch {
	case raw.Has(key):
		return p.wrap(raw.Get(key))
	case raw.Has(rawKey):
		return p.wrap(raw.Get(rawKey))
	}
	return nil
}

func (p *MapProxy) Has(key any) bool {
	if p.inner != nil {
		return p.inner.Has(key)
	}
	return collectionHas(p.target, p.readonly, key, p.target.Has)
}

// Size tracks enumeration.
func (p *MapProxy) Size() int {
	if p.inner != nil {
		return p.inner.Size()
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	return p.target.Size()
}

// Set stores value under key. It triggers ADD for a new key and SET when
// the value changed.
func (p *MapProxy) Set(key, value any) Dict {
	if p.readonly {
		p.warnReadonly("set", key, p.target)
		return p
	}
	value = ToRaw(value)
	raw := p.target
	hadKey := raw.Has(key)
	if !hadKey {
		key = ToRaw(key)
		hadKey = raw.Has(key)
	} else if devMode() {
		checkIdentityKeys(raw, raw.Has, key)
	}
	oldValue := raw.Get(key)
	raw.Set(key, value)
	if !hadKey {
		Trigger(raw, TriggerAdd, key, value, nil)
	} else if HasChanged(value, oldValue) {
		Trigger(raw, TriggerSet, key, value, oldValue)
	}
	return p
}

func (p *MapProxy) Delete(key any) bool {
	if p.readonly {
		p.warnReadonly("delete", key, p.target)
		return false
	}
	raw := p.target
	hadKey := raw.Has(key)
	if !hadKey {
		key = ToRaw(key)
		hadKey = raw.Has(key)
	} else if devMode() {
		checkIdentityKeys(raw, raw.Has, key)
	}
	oldValue := raw.Get(key)
	result := raw.Delete(key)
	if hadKey {
		Trigger(raw, TriggerDelete, key, nil, oldValue)
	}
	return result
}

func (p *MapProxy) Clear() {
	if p.readonly {
		p.warnReadonly("clear", nil, p.target)
		return
	}
	hadItems := p.target.Size() != 0
	p.target.Clear()
	if hadItems {
		Trigger(p.target, TriggerClear, nil, nil, nil)
	}
}

// ForEach calls fn with wrapped values and keys.
func (p *MapProxy) ForEach(fn func(value, key any)) {
	if p.inner != nil {
		p.inner.ForEach(func(v, k any) { fn(p.wrap(v), p.wrap(k)) })
		return
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	p.target.ForEach(func(v, k any) { fn(p.wrap(v), p.wrap(k)) })
}

// Keys tracks key enumeration only, so value updates of existing keys do
// not re-run the reader.
func (p *MapProxy) Keys() *Iterator {
	if p.inner != nil {
		return wrapIterator(p.inner.Keys(), p.wrap, false)
	}
	if !p.readonly {
		Track(p.target, TrackIterate, MapKeyIterateKey)
	}
	return wrapIterator(p.target.Keys(), p.wrap, false)
}

func (p *MapProxy) Values() *Iterator {
	if p.inner != nil {
		return wrapIterator(p.inner.Values(), p.wrap, false)
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	return wrapIterator(p.target.Values(), p.wrap, false)
}

func (p *MapProxy) Entries() *Iterator {
	if p.inner != nil {
		return wrapIterator(p.inner.Entries(), p.wrap, true)
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	return wrapIterator(p.target.Entries(), p.wrap, true)
}

// SetProxy is the reactive view of a *Set.
type SetProxy struct {
	proxyBase
	target *Set

	// inner is the mutable proxy behind a readonly view.
	inner *SetProxy
}

var _ Bag = (*SetProxy)(nil)

func (p *SetProxy) rawTarget() Target { return p.target }

// Raw returns the underlying set.
func (p *SetProxy) Raw() *Set { return p.target }

func (p *SetProxy) Has(value any) bool {
	if p.inner != nil {
		return p.inner.Has(value)
	}
	return collectionHas(p.target, p.readonly, value, p.target.Has)
}

func (p *SetProxy) Size() int {
	if p.inner != nil {
		return p.inner.Size()
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	return p.target.Size()
}

// Add inserts the raw form of value and triggers ADD if it was absent.
func (p *SetProxy) Add(value any) Bag {
	if p.readonly {
		p.warnReadonly("add", value, p.target)
		return p
	}
	value = ToRaw(value)
	if !p.target.Has(value) {
		p.target.Add(value)
		Trigger(p.target, TriggerAdd, value, value, nil)
	}
	return p
}

func (p *SetProxy) Delete(value any) bool {
	if p.readonly {
		p.warnReadonly("delete", value, p.target)
		return false
	}
	raw := p.target
	hadKey := raw.Has(value)
	if !hadKey {
		value = ToRaw(value)
		hadKey = raw.Has(value)
	} else if devMode() {
		checkIdentityKeys(raw, raw.Has, value)
	}
	result := raw.Delete(value)
	if hadKey {
		Trigger(raw, TriggerDelete, value, nil, nil)
	}
	return result
}

func (p *SetProxy) Clear() {
	if p.readonly {
		p.warnReadonly("clear", nil, p.target)
		return
	}
	hadItems := p.target.Size() != 0
	p.target.Clear()
	if hadItems {
		Trigger(p.target, TriggerClear, nil, nil, nil)
	}
}

func (p *SetProxy) ForEach(fn func(value any)) {
	if p.inner != nil {
		p.inner.ForEach(func(v any) { fn(p.wrap(v)) })
		return
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	p.target.ForEach(func(v any) { fn(p.wrap(v)) })
}

func (p *SetProxy) Keys() *Iterator { return p.Values() }

func (p *SetProxy) Values() *Iterator {
	if p.inner != nil {
		return wrapIterator(p.inner.Values(), p.wrap, false)
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	return wrapIterator(p.target.Values(), p.wrap, false)
}

func (p *SetProxy) Entries() *Iterator {
	if p.inner != nil {
		return wrapIterator(p.inner.Entries(), p.wrap, true)
	}
	if !p.readonly {
		Track(p.target, TrackIterate, IterateKey)
	}
	return wrapIterator(p.target.Entries(), p.wrap, true)
}

func collectionHas(raw Target, readonly bool, key any, has func(any) bool) bool {
	rawKey := ToRaw(key)
	if !readonly {
		if HasChanged(key, rawKey) {
			Track(raw, TrackHas, key)
		}
		Track(raw, TrackHas, rawKey)
	}
	if SameValueZero(key, rawKey) {
		return has(key)
	}
	return has(key) || has(rawKey)
}

// checkIdentityKeys warns when a collection holds both an object and its
// proxy as distinct keys.
func checkIdentityKeys(target Target, has func(any) bool, key any) {
	rawKey := ToRaw(key)
	if HasChanged(rawKey, key) && has(rawKey) {
		warn("reactive collection contains both the raw and reactive versions of the same object; this can lead to inconsistencies, use only the reactive version if possible",
			"target", target.targetKind().String())
	}
}

// wrapIterator maps the remaining items of it through wrap. Entries have
// both key and value wrapped.
func wrapIterator(it *Iterator, wrap func(any) any, pairs bool) *Iterator {
	items := it.Collect()
	for i, v := range items {
		if pairs {
			e := v.(Entry)
			items[i] = Entry{Key: wrap(e.Key), Value: wrap(e.Value)}
			continue
		}
		items[i] = wrap(v)
	}
	return newIterator(items)
}
