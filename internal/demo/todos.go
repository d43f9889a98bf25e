// Package demo holds the sample component driven by the demo and serve
// commands.
package demo

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Todos is a keyed list with a counter. The state lives outside the
// component so a terminal or HTTP client can drive it.
type Todos struct {
	items  *reactive.ArrayProxy
	next   *reactive.Ref[int]
	clicks *reactive.Ref[int]
	count  *reactive.Computed[int]

	// Renders counts list renders.
	Renders int
}

// NewTodos creates a list with n items.
func NewTodos(n int) *Todos {
	t := &Todos{
		items:  reactive.Reactive(reactive.NewArray()).(*reactive.ArrayProxy),
		next:   reactive.NewRef(0),
		clicks: reactive.NewRef(0),
	}
	t.count = reactive.NewComputed(func(int) int { return t.items.Len() })
	for range n {
		t.Add()
	}
	return t
}

// Add appends a fresh item.
func (t *Todos) Add() {
	id := t.next.Peek() + 1
	t.next.SetValue(id)
	t.items.Push(fmt.Sprintf("item-%d", id))
}

// Remove deletes the item with the given key.
func (t *Todos) Remove(key string) {
	if i := t.items.IndexOf(key); i >= 0 {
		t.items.Splice(i, 1)
	}
}

// RemoveLast deletes the last item.
func (t *Todos) RemoveLast() {
	if t.items.Len() > 0 {
		t.items.Pop()
	}
}

// Reverse reverses the list.
func (t *Todos) Reverse() {
	vals := t.items.Values()
	slices.Reverse(vals)
	t.items.Splice(0, len(vals), vals...)
}

// Rotate moves the last item to the front.
func (t *Todos) Rotate() {
	if t.items.Len() > 1 {
		t.items.Unshift(t.items.Pop())
	}
}

// Shuffle permutes the list.
func (t *Todos) Shuffle(rng *rand.Rand) {
	vals := t.items.Values()
	rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	t.items.Splice(0, len(vals), vals...)
}

// Click increments the counter.
func (t *Todos) Click() { t.clicks.SetValue(t.clicks.Peek() + 1) }

// Keys returns the current item keys without tracking.
func (t *Todos) Keys() []string {
	var keys []string
	reactive.Untracked(func() {
		for _, v := range t.items.Values() {
			keys = append(keys, v.(string))
		}
	})
	return keys
}

// Component returns the component rendering the list.
func (t *Todos) Component() vdom.Component {
	return vdom.Func("todos", func(_ *reactive.ObjectProxy, _ vdom.Context) vdom.RenderFunc {
		return func() *vdom.VNode {
			t.Renders++
			var rows []*vdom.VNode
			t.items.ForEach(func(_ int, v any) {
				key := v.(string)
				rows = append(rows, vdom.Li(
					vdom.Key(key),
					vdom.Span(key),
					vdom.Button(vdom.OnClick(func() { t.Remove(key) }), "x"),
				))
			})
			return vdom.Section(
				vdom.P(fmt.Sprintf("%d items", t.count.Value())),
				vdom.Button(vdom.ID("click"), vdom.OnClick(t.Click), fmt.Sprintf("clicked %d", t.clicks.Value())),
				vdom.Ul(rows),
			)
		}
	})
}
