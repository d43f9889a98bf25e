package reactive

import "fmt"

// Meta keys answered by object proxies instead of the target.
const (
	FlagSkip       = "__v_skip"
	FlagIsReactive = "__v_isReactive"
	FlagIsReadonly = "__v_isReadonly"
	FlagIsShallow  = "__v_isShallow"
	FlagRaw        = "__v_raw"
)

// nonTrackableKeys are read through without tracking or wrapping.
var nonTrackableKeys = map[string]bool{
	"__proto__": true,
	"__v_isRef": true,
	"__isVue":   true,
}

// proxy is implemented by every reactive view.
type proxy interface {
	rawTarget() Target
	base() *proxyBase
}

// proxyBase carries the flags shared by every proxy kind.
type proxyBase struct {
	readonly bool
	shallow  bool

	// overReactive marks a readonly view of a mutable proxy. Reads go
	// through the mutable proxy and therefore still track.
	overReactive bool

	// views caches readonly and shallow-readonly views of this proxy.
	views [2]any
}

func (b *proxyBase) base() *proxyBase { return b }

// wrap converts a nested value according to the proxy mode.
func (b *proxyBase) wrap(v any) any {
	switch {
	case b.shallow:
		return v
	case b.readonly:
		return ToReadonly(v)
	default:
		return ToReactive(v)
	}
}

// resolve applies the read rules that follow tracking: shallow proxies
// return the value as stored, refs are unwrapped unless they sit at an
// array index, and objects are wrapped lazily.
func (b *proxyBase) resolve(res any, arrayIndex bool) any {
	if b.shallow {
		return res
	}
	if r, ok := res.(RefLike); ok {
		if arrayIndex {
			return res
		}
		return r.AnyValue()
	}
	return b.wrap(res)
}

func (b *proxyBase) warnReadonly(op string, key any, target Target) {
	if key != nil {
		warn(fmt.Sprintf("%s operation on key %q failed: target is readonly", op, fmt.Sprint(key)), "target", target.targetKind().String())
		return
	}
	warn(fmt.Sprintf("%s operation failed: target is readonly", op), "target", target.targetKind().String())
}

func isObject(v any) bool {
	switch v.(type) {
	case Target, proxy:
		return true
	}
	return false
}

// Reactive returns the deep mutable proxy of a target. A proxy is returned
// unchanged. Values that cannot be made reactive are returned unchanged
// with a dev warning.
func Reactive(v any) any {
	return createReactive(v, false, false)
}

// ShallowReactive returns a proxy that only tracks root-level access.
func ShallowReactive(v any) any {
	return createReactive(v, false, true)
}

// Readonly returns a deep readonly proxy. Applied to a mutable proxy it
// returns a readonly view that still tracks through it.
func Readonly(v any) any {
	return createReactive(v, true, false)
}

// ShallowReadonly returns a readonly proxy whose nested values are not
// wrapped.
func ShallowReadonly(v any) any {
	return createReactive(v, true, true)
}

func createReactive(v any, readonly, shallow bool) any {
	switch t := v.(type) {
	case proxy:
		b := t.base()
		if readonly && !b.readonly {
			return viewOf(t, shallow)
		}
		return v
	case Target:
		m := t.targetMeta()
		if m.skip {
			return v
		}
		if m.frozen {
			warn("value cannot be made reactive: target is frozen", "target", t.targetKind().String())
			return v
		}
		idx := variantOf(readonly, shallow)
		if p := m.proxies[idx]; p != nil {
			return p
		}
		p := newProxy(t, proxyBase{readonly: readonly, shallow: shallow})
		m.proxies[idx] = p
		return p
	default:
		mode := "reactive"
		if readonly {
			mode = "readonly"
		}
		warn(fmt.Sprintf("value cannot be made %s: %v", mode, v))
		return v
	}
}

func newProxy(t Target, b proxyBase) any {
	switch t := t.(type) {
	case *Object:
		return &ObjectProxy{proxyBase: b, target: t}
	case *Array:
		return &ArrayProxy{proxyBase: b, target: t}
	case *Map:
		return &MapProxy{proxyBase: b, target: t}
	case *Set:
		return &SetProxy{proxyBase: b, target: t}
	}
	panic(fmt.Sprintf("reactive: unknown target %T", t))
}

// viewOf returns the cached readonly view of a mutable proxy.
func viewOf(p proxy, shallow bool) any {
	b := p.base()
	idx := 0
	if shallow {
		idx = 1
	}
	if v := b.views[idx]; v != nil {
		return v
	}
	vb := proxyBase{readonly: true, shallow: shallow, overReactive: true}
	var v any
	switch p := p.(type) {
	case *ObjectProxy:
		v = &ObjectProxy{proxyBase: vb, target: p.target, inner: p}
	case *ArrayProxy:
		v = &ArrayProxy{proxyBase: vb, target: p.target, inner: p}
	case *MapProxy:
		v = &MapProxy{proxyBase: vb, target: p.target, inner: p}
	case *SetProxy:
		v = &SetProxy{proxyBase: vb, target: p.target, inner: p}
	}
	b.views[idx] = v
	return v
}

// ToReactive returns Reactive(v) for targets and proxies and v otherwise.
func ToReactive(v any) any {
	if isObject(v) {
		return Reactive(v)
	}
	return v
}

// ToReadonly returns Readonly(v) for targets and proxies and v otherwise.
func ToReadonly(v any) any {
	if isObject(v) {
		return Readonly(v)
	}
	return v
}

// ToRaw returns the raw target behind a proxy, or v itself.
func ToRaw(v any) any {
	if p, ok := v.(proxy); ok {
		return p.rawTarget()
	}
	return v
}

// IsReactive reports whether v is a mutable proxy or a readonly view of
// one.
func IsReactive(v any) bool {
	p, ok := v.(proxy)
	if !ok {
		return false
	}
	b := p.base()
	return !b.readonly || b.overReactive
}

// IsReadonly reports whether v is a readonly proxy or a readonly ref.
func IsReadonly(v any) bool {
	switch t := v.(type) {
	case proxy:
		return t.base().readonly
	case RefLike:
		return t.refCore().readonly
	}
	return false
}

// IsShallow reports whether v is a shallow proxy or a shallow ref.
func IsShallow(v any) bool {
	switch t := v.(type) {
	case proxy:
		return t.base().shallow
	case RefLike:
		return t.refCore().shallow
	}
	return false
}

// IsProxy reports whether v is any kind of proxy.
func IsProxy(v any) bool {
	_, ok := v.(proxy)
	return ok
}

// metaFlag answers the object meta keys. ok is false for other keys.
func metaFlag(p proxy, key string) (any, bool) {
	switch key {
	case FlagIsReactive:
		return IsReactive(p), true
	case FlagIsReadonly:
		return IsReadonly(p), true
	case FlagIsShallow:
		return IsShallow(p), true
	case FlagRaw:
		return p.rawTarget(), true
	case FlagSkip:
		return p.rawTarget().targetMeta().skip, true
	}
	return nil, false
}
