package vdom

import (
	"testing"

	"github.com/vango-dev/reactor/pkg/reactive"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComment, "Comment"},
		{KindStatic, "Static"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{Kind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatchFlagHas(t *testing.T) {
	f := PatchText | PatchProps
	if !f.Has(PatchText) || !f.Has(PatchProps) {
		t.Errorf("%b should have text and props", f)
	}
	if f.Has(PatchClass) {
		t.Errorf("%b should not have class", f)
	}
	if PatchHoisted.Has(PatchText) || PatchBail.Has(PatchClass) {
		t.Error("negative flags should carry no bits")
	}
}

type setupFunc func(props *reactive.ObjectProxy, ctx Context) RenderFunc

func (f setupFunc) Setup(props *reactive.ObjectProxy, ctx Context) RenderFunc { return f(props, ctx) }

type sliceComponent struct{ tags []string }

func (sliceComponent) Setup(*reactive.ObjectProxy, Context) RenderFunc { return nil }

func TestSameType(t *testing.T) {
	c1 := Stateless("one", func(*reactive.ObjectProxy) *VNode { return nil })
	c2 := Stateless("two", func(*reactive.ObjectProxy) *VNode { return nil })
	f1 := setupFunc(func(*reactive.ObjectProxy, Context) RenderFunc { return nil })
	f2 := setupFunc(func(*reactive.ObjectProxy, Context) RenderFunc { return nil })

	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same tag", Div(), Div(), true},
		{"different tag", Div(), Span(), false},
		{"same key", Li(Key(1)), Li(Key("1")), true},
		{"different key", Li(Key("a")), Li(Key("b")), false},
		{"keyed and unkeyed", Li(Key("a")), Li(), false},
		{"empty key and unkeyed", Li(Key("")), Li(), false},
		{"empty keys", Li(Key("")), Li(Key("")), true},
		{"text", Text("a"), Text("b"), true},
		{"text and comment", Text("a"), Comment("a"), false},
		{"same component", Comp(c1, nil), Comp(c1, nil), true},
		{"different component", Comp(c1, nil), Comp(c2, nil), false},
		{"empty key component and unkeyed", Comp(c1, Props{"key": ""}), Comp(c1, nil), false},
		{"same func component", Comp(f1, nil), Comp(f1, nil), true},
		{"different func component", Comp(f1, nil), Comp(f2, nil), false},
		{"non-comparable component", Comp(sliceComponent{}, nil), Comp(sliceComponent{}, nil), false},
		{"nil", Div(), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameType(tt.a, tt.b); got != tt.want {
				t.Errorf("SameType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasKey(t *testing.T) {
	if Div().HasKey() {
		t.Error("unkeyed div reports a key")
	}
	if !Div(Key("x")).HasKey() {
		t.Error("keyed div reports no key")
	}
	if !Div(Key("")).HasKey() {
		t.Error("empty key is not a key")
	}
	if !Clone(Div(), Props{"key": ""}).HasKey() {
		t.Error("clone with empty key reports no key")
	}
}

func TestFuncComponent(t *testing.T) {
	var seen any
	c := Func("counter", func(props *reactive.ObjectProxy, ctx Context) RenderFunc {
		seen = props.Get("start")
		return func() *VNode { return Text("x") }
	})

	props := reactive.ShallowReactive(reactive.NewObject("start", 3)).(*reactive.ObjectProxy)
	render := c.Setup(props, nil)
	if seen != 3 {
		t.Errorf("setup saw start = %v, want 3", seen)
	}
	if got := render(); got.Text != "x" {
		t.Errorf("render() text = %q, want x", got.Text)
	}
	if c.Name != "counter" {
		t.Errorf("Name = %q", c.Name)
	}
}
