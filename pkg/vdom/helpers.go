package vdom

import (
	"fmt"
	"maps"
)

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node, used as a placeholder for absent content.
func Comment(content string) *VNode {
	return &VNode{
		Kind: KindComment,
		Text: content,
	}
}

// Static creates a pre-serialized chunk of markup spanning count host
// nodes. The renderer inserts and removes it as a unit.
func Static(html string, count int) *VNode {
	return &VNode{
		Kind:        KindStatic,
		Text:        html,
		StaticCount: count,
	}
}

// Fragment groups children without a wrapper element. Attr and Hint
// arguments apply to the fragment itself.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}
	applyArgs(node, children)
	// A fragment has no element to hold text.
	if node.ShapeFlag.Has(ShapeTextChildren) {
		node.Children = []*VNode{Text(node.Text)}
		node.Text = ""
		node.ShapeFlag = ShapeArrayChildren
	}
	node.ShapeFlag |= ShapeArrayChildren
	return node
}

// Comp creates a component node. Props are passed to Setup as a shallow
// reactive record; children become the component's slot.
func Comp(c Component, props Props, children ...any) *VNode {
	node := &VNode{
		Kind:      KindComponent,
		Component: c,
		Props:     Props{},
		ShapeFlag: ShapeComponent,
	}
	for k, v := range props {
		if k == "key" {
			node.Key = fmt.Sprintf("%v", v)
			node.Keyed = true
			continue
		}
		node.Props[k] = v
	}
	for _, child := range children {
		switch v := child.(type) {
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Hint:
			node.PatchFlag |= v.Flag
			node.DynamicProps = append(node.DynamicProps, v.DynamicProps...)
		}
	}
	return node
}

// Hint attaches a patch flag (and the names of dynamic props) to a node.
type Hint struct {
	Flag         PatchFlag
	DynamicProps []string
}

// Flags creates a Hint argument.
func Flags(flag PatchFlag, dynamicProps ...string) Hint {
	return Hint{Flag: flag, DynamicProps: dynamicProps}
}

// Hoisted marks a node as static and shared between renders.
func Hoisted(node *VNode) *VNode {
	node.PatchFlag = PatchHoisted
	return node
}

// Block collects node's dynamic descendants into DynamicChildren. Nested
// blocks are collected as single entries.
func Block(node *VNode) *VNode {
	dyn := make([]*VNode, 0)
	for _, c := range node.Children {
		dyn = collectDynamic(c, dyn)
	}
	node.DynamicChildren = dyn
	return node
}

func collectDynamic(v *VNode, out []*VNode) []*VNode {
	if v == nil {
		return out
	}
	if v.IsBlock() {
		return append(out, v)
	}
	// Slot content belongs to the component's own render.
	if v.Kind != KindComponent {
		for _, c := range v.Children {
			out = collectDynamic(c, out)
		}
	}
	if (v.PatchFlag > 0 && v.PatchFlag != PatchNeedHydration) || v.Kind == KindComponent {
		out = append(out, v)
	}
	return out
}

// Clone copies node with extra props merged in. The props map is copied
// but its values are shared, so reactive values keep their identity.
// Children, the bound host node and the instance are shared too.
func Clone(node *VNode, extra Props) *VNode {
	c := *node
	c.Props = maps.Clone(node.Props)
	for k, v := range extra {
		if k == "key" {
			c.Key = fmt.Sprintf("%v", v)
			c.Keyed = true
			continue
		}
		if c.Props == nil {
			c.Props = Props{}
		}
		c.Props[k] = v
	}
	if extra != nil && node.Kind != KindFragment {
		if node.PatchFlag == PatchHoisted {
			c.PatchFlag = PatchFullProps
		} else {
			c.PatchFlag = node.PatchFlag | PatchFullProps
		}
	}
	return &c
}

// CloneIfMounted returns node, or a copy when node is already bound to a
// host node (a hoisted node reused by a new render).
func CloneIfMounted(node *VNode) *VNode {
	if node.El == nil {
		return node
	}
	return Clone(node, nil)
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}
