package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProxy(t *testing.T) {
	t.Run("size tracks additions and removals", func(t *testing.T) {
		m := Reactive(NewMap()).(*MapProxy)
		var sizes []int
		Run(func() { sizes = append(sizes, m.Size()) })

		m.Set("a", 1)
		m.Set("a", 2)
		m.Delete("a")
		m.Delete("a")

		assert.Equal(t, []int{0, 1, 1, 0}, sizes)
	})

	t.Run("key iteration ignores value updates", func(t *testing.T) {
		m := Reactive(NewMap("a", 1)).(*MapProxy)
		keyRuns, valueRuns := 0, 0
		Run(func() {
			m.Keys().Collect()
			keyRuns++
		})
		Run(func() {
			m.Values().Collect()
			valueRuns++
		})

		m.Set("a", 2)
		assert.Equal(t, 1, keyRuns)
		assert.Equal(t, 2, valueRuns)

		m.Set("b", 1)
		assert.Equal(t, 2, keyRuns)
		assert.Equal(t, 3, valueRuns)
	})

	t.Run("raw and wrapped keys find the same entry", func(t *testing.T) {
		key := NewObject("id", 1)
		m := Reactive(NewMap()).(*MapProxy)
		m.Set(Reactive(key), "v")

		assert.Equal(t, "v", m.Get(key))
		assert.Equal(t, "v", m.Get(Reactive(key)))
		assert.True(t, m.Has(Reactive(key)))
		assert.True(t, m.Raw().Has(key))
	})

	t.Run("values and entries are wrapped", func(t *testing.T) {
		item := NewObject("x", 1)
		m := Reactive(NewMap("k", item)).(*MapProxy)

		assert.Same(t, Reactive(item), m.Get("k"))

		e, ok := m.Entries().Next()
		require.True(t, ok)
		assert.Equal(t, "k", e.(Entry).Key)
		assert.Same(t, Reactive(item), e.(Entry).Value)

		m.ForEach(func(v, k any) {
			assert.Same(t, Reactive(item), v)
		})
	})

	t.Run("warns about raw and wrapped duplicates", func(t *testing.T) {
		buf := captureWarnings(t)
		key := NewObject()
		raw := NewMap(key, 1)
		raw.Set(Reactive(key), 2)
		m := Reactive(raw).(*MapProxy)

		m.Set(Reactive(key), 3)
		assert.Contains(t, buf.String(), "both the raw and reactive versions")
	})

	t.Run("readonly stubs", func(t *testing.T) {
		captureWarnings(t)
		raw := NewMap("a", 1)
		ro := Readonly(raw).(*MapProxy)

		assert.Same(t, ro, ro.Set("a", 2))
		assert.False(t, ro.Delete("a"))
		ro.Clear()
		assert.Equal(t, 1, raw.Get("a"))
		assert.Equal(t, 1, ro.Size())
	})

	t.Run("readonly view of a reactive map tracks", func(t *testing.T) {
		m := Reactive(NewMap("a", 1)).(*MapProxy)
		ro := Readonly(m).(*MapProxy)
		var seen []any
		Run(func() { seen = append(seen, ro.Get("a")) })

		m.Set("a", 2)
		assert.Equal(t, []any{1, 2}, seen)
	})

	t.Run("NaN keys are one key", func(t *testing.T) {
		m := NewMap()
		nan := 0.0
		nan = nan / nan
		m.Set(nan, 1)
		m.Set(nan, 2)
		assert.Equal(t, 1, m.Size())
		assert.Equal(t, 2, m.Get(nan))
	})
}

func TestSetProxy(t *testing.T) {
	t.Run("add triggers only for new values", func(t *testing.T) {
		s := Reactive(NewSet()).(*SetProxy)
		runs := 0
		Run(func() {
			s.Has("a")
			runs++
		})

		s.Add("a")
		s.Add("a")
		assert.Equal(t, 2, runs)

		s.Delete("a")
		assert.Equal(t, 3, runs)
	})

	t.Run("stores raw values", func(t *testing.T) {
		item := NewObject()
		s := Reactive(NewSet()).(*SetProxy)
		s.Add(Reactive(item))

		assert.True(t, s.Raw().Has(item))
		assert.True(t, s.Has(item))
		assert.True(t, s.Has(Reactive(item)))
		assert.Equal(t, []any{Reactive(item)}, s.Values().Collect())
	})

	t.Run("clear on an empty set does not trigger", func(t *testing.T) {
		s := Reactive(NewSet()).(*SetProxy)
		runs := 0
		Run(func() {
			s.Size()
			runs++
		})
		s.Clear()
		assert.Equal(t, 1, runs)

		s.Add(1)
		s.Clear()
		assert.Equal(t, 3, runs)
	})
}
