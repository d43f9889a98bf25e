package vdom

import (
	"reflect"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindComment               // Comment / placeholder node
	KindStatic                // Pre-serialized markup, never diffed
	KindFragment              // Children between two anchor nodes
	KindComponent             // Nested component
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindStatic:
		return "Static"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// PatchFlag hints which parts of a node can change between renders.
type PatchFlag int

const (
	PatchText            PatchFlag = 1 << iota // dynamic text children
	PatchClass                                 // dynamic class
	PatchStyle                                 // dynamic style
	PatchProps                                 // props listed in DynamicProps
	PatchFullProps                             // keys may change, diff all props
	PatchNeedHydration                         // event listeners only
	PatchStableFragment                        // children order never changes
	PatchKeyedFragment                         // children are all keyed
	PatchUnkeyedFragment                       // children are all unkeyed
	PatchNeedPatch                             // non-prop update needed (refs, hooks)
	PatchDynamicSlots                          // component slots change
	PatchDevRootFragment                       // root fragment created for comments

	// PatchHoisted marks a static node reused across renders. It is never
	// diffed.
	PatchHoisted PatchFlag = -1
	// PatchBail makes the renderer leave optimized mode for the subtree.
	PatchBail PatchFlag = -2
)

// Has reports whether all bits of f are set. Negative flags have no bits.
func (p PatchFlag) Has(f PatchFlag) bool {
	return p > 0 && p&f == f
}

// ShapeFlag describes what a node is and what its children are.
type ShapeFlag int

const (
	ShapeElement ShapeFlag = 1 << iota
	ShapeComponent
	ShapeTextChildren
	ShapeArrayChildren
)

// Has reports whether all bits of f are set.
func (s ShapeFlag) Has(f ShapeFlag) bool {
	return s&f == f
}

// Props holds attributes and event handlers.
type Props map[string]any

// VNode is the virtual DOM node.
type VNode struct {
	Kind     Kind     // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes (also the default slot of a component)
	Text     string   // Text/comment content, static markup, or element text children
	Key      string   // Reconciliation key
	Keyed    bool     // Key was given, possibly as ""

	PatchFlag       PatchFlag
	ShapeFlag       ShapeFlag
	DynamicProps    []string // props to diff under PatchProps
	DynamicChildren []*VNode // set by Block; nil when the node is not a block

	Component  Component   // For KindComponent
	Transition *Transition // Optional enter/leave hooks for elements

	// StaticCount is the number of host nodes a KindStatic chunk spans.
	StaticCount int

	// Host state, set by the renderer.
	El       any               // host node; fragment start anchor; first static node
	Anchor   any               // fragment end anchor; last static node
	Instance ComponentInstance // mounted component instance
}

// HasKey reports whether the node carries a reconciliation key.
func (v *VNode) HasKey() bool {
	return v.Keyed || v.Key != ""
}

// IsMounted reports whether the renderer has bound a host node.
func (v *VNode) IsMounted() bool {
	return v.El != nil
}

// IsBlock reports whether Block collected dynamic descendants for v.
func (v *VNode) IsBlock() bool {
	return v.DynamicChildren != nil
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}

// Transition carries element enter/leave hooks. Leave receives a callback
// that performs the actual removal.
type Transition struct {
	Persisted   bool
	BeforeEnter func(el any)
	Enter       func(el any)
	Leave       func(el any, done func())
	AfterLeave  func()
	DelayLeave  func(el any, remove, performLeave func())
}

// RenderFunc produces a component's subtree. It runs inside the
// component's render effect, so reactive reads subscribe the component.
type RenderFunc func() *VNode

// Context is what a component sees during setup.
type Context interface {
	// UID is the instance id; parents have smaller ids than children.
	UID() int
	// Slot returns the children passed to the component.
	Slot() []*VNode
	OnBeforeMount(fn func())
	OnMounted(fn func())
	OnBeforeUpdate(fn func())
	OnUpdated(fn func())
	OnBeforeUnmount(fn func())
	OnUnmounted(fn func())
	// Scope is the effect scope stopped when the component unmounts.
	Scope() *reactive.EffectScope
}

// Component is anything that can set up an instance and render it.
// Implementations are compared by identity, so use pointer types. Values
// of a non-comparable type only ever match a func of the same code.
type Component interface {
	Setup(props *reactive.ObjectProxy, ctx Context) RenderFunc
}

// ComponentInstance is the renderer's view of a mounted component.
type ComponentInstance interface {
	UID() int
	SubTree() *VNode
}

// FuncComponent wraps a setup function.
type FuncComponent struct {
	Name  string
	setup func(props *reactive.ObjectProxy, ctx Context) RenderFunc
}

// Setup implements Component.
func (f *FuncComponent) Setup(props *reactive.ObjectProxy, ctx Context) RenderFunc {
	return f.setup(props, ctx)
}

// Func creates a component from a setup function.
func Func(name string, setup func(props *reactive.ObjectProxy, ctx Context) RenderFunc) *FuncComponent {
	return &FuncComponent{Name: name, setup: setup}
}

// Stateless creates a component that only renders from its props.
func Stateless(name string, render func(props *reactive.ObjectProxy) *VNode) *FuncComponent {
	return Func(name, func(props *reactive.ObjectProxy, _ Context) RenderFunc {
		return func() *VNode { return render(props) }
	})
}

// SameType reports whether n2 can be patched onto n1: same kind, tag,
// component and key.
func SameType(n1, n2 *VNode) bool {
	if n1 == nil || n2 == nil {
		return false
	}
	if n1.Kind != n2.Kind || n1.HasKey() != n2.HasKey() || n1.Key != n2.Key {
		return false
	}
	switch n1.Kind {
	case KindElement:
		return n1.Tag == n2.Tag
	case KindComponent:
		return sameComponent(n1.Component, n2.Component)
	}
	return true
}

// sameComponent compares components by identity. Values of a type that is
// not comparable never match, except funcs, which match by code pointer.
func sameComponent(a, b Component) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	if ta.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}
