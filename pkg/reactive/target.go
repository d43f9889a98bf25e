package reactive

import (
	"fmt"
	"slices"
)

type targetKind uint8

const (
	kindObject targetKind = iota + 1
	kindArray
	kindMap
	kindSet
)

// String returns the string representation of the targetKind.
func (k targetKind) String() string {
	switch k {
	case kindObject:
		return "object"
	case kindArray:
		return "array"
	case kindMap:
		return "map"
	case kindSet:
		return "set"
	default:
		return "unknown"
	}
}

// proxy variants, used as indexes into meta.proxies.
const (
	variantReactive = iota
	variantShallowReactive
	variantReadonly
	variantShallowReadonly
	numVariants
)

func variantOf(readonly, shallow bool) int {
	switch {
	case readonly && shallow:
		return variantShallowReadonly
	case readonly:
		return variantReadonly
	case shallow:
		return variantShallowReactive
	default:
		return variantReactive
	}
}

// meta is embedded in every raw container. It carries the key to Dep
// table and the proxy cache, so both share the container's lifetime.
type meta struct {
	deps    depsMap
	proxies [numVariants]any

	// skip is set by MarkRaw.
	skip bool

	// frozen is set by Freeze.
	frozen bool
}

func (m *meta) targetMeta() *meta { return m }

// Target is a raw container that can be made reactive: *Object, *Array,
// *Map or *Set. Methods on a raw target never track or trigger.
type Target interface {
	targetMeta() *meta
	targetKind() targetKind
}

// MarkRaw flags t so it is never wrapped in a proxy. It is permanent.
func MarkRaw[T Target](t T) T {
	t.targetMeta().skip = true
	return t
}

// Freeze marks t as non-extensible. A frozen target cannot be made
// reactive; wrapping returns it unchanged with a dev warning.
func Freeze[T Target](t T) T {
	t.targetMeta().frozen = true
	return t
}

// IsMarkedRaw reports whether v is a target flagged by MarkRaw.
func IsMarkedRaw(v any) bool {
	t, ok := v.(Target)
	return ok && t.targetMeta().skip
}

// Record is the accessor set shared by *Object and *ObjectProxy.
type Record interface {
	Get(key string) any
	Set(key string, value any) bool
	Has(key string) bool
	Delete(key string) bool
	Keys() []string
	Len() int
}

// List is the accessor set shared by *Array and *ArrayProxy.
type List interface {
	Get(i int) any
	Set(i int, value any) bool
	Len() int
	SetLength(n int)
	Push(items ...any) int
	Pop() any
	Shift() any
	Unshift(items ...any) int
	Splice(start, deleteCount int, items ...any) []any
	Includes(v any) bool
	IndexOf(v any) int
	LastIndexOf(v any) int
	Values() []any
	ForEach(fn func(i int, v any))
}

// Dict is the accessor set shared by *Map and *MapProxy.
type Dict interface {
	Get(key any) any
	Set(key, value any) Dict
	Has(key any) bool
	Delete(key any) bool
	Clear()
	Size() int
	ForEach(fn func(value, key any))
	Keys() *Iterator
	Values() *Iterator
	Entries() *Iterator
}

// Bag is the accessor set shared by *Set and *SetProxy.
type Bag interface {
	Add(value any) Bag
	Has(value any) bool
	Delete(value any) bool
	Clear()
	Size() int
	ForEach(fn func(value any))
	Keys() *Iterator
	Values() *Iterator
	Entries() *Iterator
}

// Entry is a key/value pair yielded by Entries iterators.
type Entry struct {
	Key   any
	Value any
}

// Iterator yields a snapshot of a collection taken when it was created.
type Iterator struct {
	items []any
	pos   int
}

func newIterator(items []any) *Iterator {
	return &Iterator{items: items}
}

// Next returns the next item, or false when exhausted.
func (it *Iterator) Next() (any, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

// Collect drains the remaining items into a slice.
func (it *Iterator) Collect() []any {
	out := it.items[it.pos:]
	it.pos = len(it.items)
	return slices.Clone(out)
}

// --- Object ---

// Object is a raw string-keyed record with insertion-ordered keys.
type Object struct {
	meta
	keys   []string
	values map[string]any
}

var _ Record = (*Object)(nil)

// NewObject creates an object from alternating key/value arguments.
// It panics if a key is not a string.
func NewObject(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("reactive: NewObject requires key/value pairs")
	}
	o := &Object{values: make(map[string]any, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("reactive: NewObject key %v is not a string", kv[i]))
		}
		o.Set(k, kv[i+1])
	}
	return o
}

// ObjectOf creates an object from m. Keys are ordered lexically.
func ObjectOf(m map[string]any) *Object {
	o := &Object{values: make(map[string]any, len(m))}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return o
}

func (o *Object) targetKind() targetKind { return kindObject }

// Lookup returns the value at key and whether it exists.
func (o *Object) Lookup(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Get(key string) any {
	return o.values[key]
}

func (o *Object) Set(key string, value any) bool {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return true
}

func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return true
	}
	delete(o.values, key)
	if i := slices.Index(o.keys, key); i >= 0 {
		o.keys = slices.Delete(o.keys, i, i+1)
	}
	return true
}

func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	return len(o.keys)
}

// --- Array ---

// Array is a raw list. Indexes are tracked as int keys and the length
// as LengthKey.
type Array struct {
	meta
	items []any
}

var _ List = (*Array)(nil)

// NewArray creates an array holding items.
func NewArray(items ...any) *Array {
	return &Array{items: slices.Clone(items)}
}

func (a *Array) targetKind() targetKind { return kindArray }

func (a *Array) Get(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Set writes index i, growing the array with nil holes if needed.
func (a *Array) Set(i int, value any) bool {
	if i < 0 {
		return false
	}
	if i >= len(a.items) {
		a.SetLength(i + 1)
	}
	a.items[i] = value
	return true
}

func (a *Array) Len() int { return len(a.items) }

func (a *Array) SetLength(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(a.items) {
		clear(a.items[n:])
		a.items = a.items[:n]
		return
	}
	a.items = append(a.items, make([]any, n-len(a.items))...)
}

func (a *Array) Push(items ...any) int {
	a.items = append(a.items, items...)
	return len(a.items)
}

func (a *Array) Pop() any {
	if len(a.items) == 0 {
		return nil
	}
	v := a.items[len(a.items)-1]
	a.SetLength(len(a.items) - 1)
	return v
}

func (a *Array) Shift() any {
	if len(a.items) == 0 {
		return nil
	}
	v := a.items[0]
	a.items = slices.Delete(a.items, 0, 1)
	return v
}

func (a *Array) Unshift(items ...any) int {
	a.items = slices.Insert(a.items, 0, items...)
	return len(a.items)
}

func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	start, deleteCount = spliceBounds(len(a.items), start, deleteCount)
	removed := slices.Clone(a.items[start : start+deleteCount])
	a.items = slices.Replace(a.items, start, start+deleteCount, items...)
	return removed
}

func (a *Array) Includes(v any) bool { return a.IndexOf(v) >= 0 }

func (a *Array) IndexOf(v any) int {
	return slices.IndexFunc(a.items, func(x any) bool { return SameValueZero(x, v) })
}

func (a *Array) LastIndexOf(v any) int {
	for i := len(a.items) - 1; i >= 0; i-- {
		if SameValueZero(a.items[i], v) {
			return i
		}
	}
	return -1
}

func (a *Array) Values() []any { return slices.Clone(a.items) }

func (a *Array) ForEach(fn func(i int, v any)) {
	for i, v := range a.items {
		fn(i, v)
	}
}

// spliceBounds clamps start and deleteCount like Array.prototype.splice:
// a negative start counts from the end.
func spliceBounds(length, start, deleteCount int) (int, int) {
	if start < 0 {
		start = max(length+start, 0)
	}
	start = min(start, length)
	deleteCount = max(min(deleteCount, length-start), 0)
	return start, deleteCount
}

// --- Map ---

// Map is a raw insertion-ordered map. Keys must be comparable; NaN keys
// are all the same key.
type Map struct {
	meta
	keys   []any
	values map[any]any
}

var _ Dict = (*Map)(nil)

// NewMap creates a map from alternating key/value arguments.
func NewMap(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("reactive: NewMap requires key/value pairs")
	}
	m := &Map{values: make(map[any]any)}
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

func (m *Map) targetKind() targetKind { return kindMap }

func (m *Map) Get(key any) any {
	return m.values[normKey(key)]
}

func (m *Map) Set(key, value any) Dict {
	if m.values == nil {
		m.values = make(map[any]any)
	}
	k := normKey(key)
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[k] = value
	return m
}

func (m *Map) Has(key any) bool {
	_, ok := m.values[normKey(key)]
	return ok
}

func (m *Map) Delete(key any) bool {
	k := normKey(key)
	if _, ok := m.values[k]; !ok {
		return false
	}
	delete(m.values, k)
	m.keys = slices.DeleteFunc(m.keys, func(x any) bool { return normKey(x) == k })
	return true
}

func (m *Map) Clear() {
	clear(m.values)
	m.keys = nil
}

func (m *Map) Size() int { return len(m.keys) }

func (m *Map) ForEach(fn func(value, key any)) {
	for _, k := range slices.Clone(m.keys) {
		fn(m.values[normKey(k)], k)
	}
}

func (m *Map) Keys() *Iterator {
	return newIterator(slices.Clone(m.keys))
}

func (m *Map) Values() *Iterator {
	out := make([]any, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.values[normKey(k)]
	}
	return newIterator(out)
}

func (m *Map) Entries() *Iterator {
	out := make([]any, len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry{Key: k, Value: m.values[normKey(k)]}
	}
	return newIterator(out)
}

// --- Set ---

// Set is a raw insertion-ordered set of comparable values.
type Set struct {
	meta
	items []any
	index map[any]struct{}
}

var _ Bag = (*Set)(nil)

// NewSet creates a set holding items.
func NewSet(items ...any) *Set {
	s := &Set{index: make(map[any]struct{})}
	for _, v := range items {
		s.Add(v)
	}
	return s
}

func (s *Set) targetKind() targetKind { return kindSet }

func (s *Set) Add(value any) Bag {
	if s.index == nil {
		s.index = make(map[any]struct{})
	}
	k := normKey(value)
	if _, ok := s.index[k]; !ok {
		s.index[k] = struct{}{}
		s.items = append(s.items, value)
	}
	return s
}

func (s *Set) Has(value any) bool {
	_, ok := s.index[normKey(value)]
	return ok
}

func (s *Set) Delete(value any) bool {
	k := normKey(value)
	if _, ok := s.index[k]; !ok {
		return false
	}
	delete(s.index, k)
	s.items = slices.DeleteFunc(s.items, func(x any) bool { return normKey(x) == k })
	return true
}

func (s *Set) Clear() {
	clear(s.index)
	s.items = nil
}

func (s *Set) Size() int { return len(s.items) }

func (s *Set) ForEach(fn func(value any)) {
	for _, v := range slices.Clone(s.items) {
		fn(v)
	}
}

func (s *Set) Keys() *Iterator { return s.Values() }

func (s *Set) Values() *Iterator {
	return newIterator(slices.Clone(s.items))
}

func (s *Set) Entries() *Iterator {
	out := make([]any, len(s.items))
	for i, v := range s.items {
		out[i] = Entry{Key: v, Value: v}
	}
	return newIterator(out)
}
