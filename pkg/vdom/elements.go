package vdom

import "fmt"

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with an arbitrary tag.
func El(tag string, args ...any) *VNode { return createElement(tag, args) }

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, EventHandler, Hint, *Transition,
// *VNode, []*VNode, string.
//
// A lone string argument becomes the element's text content; strings
// mixed with other children become text nodes.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:      KindElement,
		Tag:       tag,
		Props:     make(Props),
		ShapeFlag: ShapeElement,
	}

	var children []*VNode
	var texts int
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case Attr:
			setAttr(node, v)

		case []Attr:
			for _, a := range v {
				setAttr(node, a)
			}

		case EventHandler:
			if v.Event != "" {
				node.Props[v.Event] = v.Handler
			}

		case Hint:
			node.PatchFlag |= v.Flag
			node.DynamicProps = append(node.DynamicProps, v.DynamicProps...)

		case *Transition:
			node.Transition = v

		case *VNode:
			if v != nil {
				children = append(children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					children = append(children, child)
				}
			}

		case string:
			texts++
			children = append(children, Text(v))

		default:
			panic(fmt.Sprintf("vdom: unsupported argument %T for <%s>", arg, tag))
		}
	}

	switch {
	case texts == 1 && len(children) == 1:
		node.Text = children[0].Text
		node.ShapeFlag |= ShapeTextChildren
	case len(children) > 0:
		node.Children = children
		node.ShapeFlag |= ShapeArrayChildren
	}
	return node
}

// applyArgs applies element-style arguments to a non-element node.
func applyArgs(node *VNode, args []any) {
	el := createElement("", args)
	node.Key = el.Key
	node.Keyed = el.Keyed
	node.PatchFlag |= el.PatchFlag
	node.DynamicProps = append(node.DynamicProps, el.DynamicProps...)
	node.Children = append(node.Children, el.Children...)
	node.Text = el.Text
	node.ShapeFlag |= el.ShapeFlag &^ ShapeElement
	if len(el.Props) > 0 {
		node.Props = el.Props
	}
}

func setAttr(node *VNode, a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		node.Key = fmt.Sprintf("%v", a.Value)
		node.Keyed = true
		return
	}
	node.Props[a.Key] = a.Value
}

// Containers

func Section(args ...any) *VNode { return createElement("section", args) }
func Div(args ...any) *VNode     { return createElement("div", args) }
func P(args ...any) *VNode       { return createElement("p", args) }
func Ul(args ...any) *VNode      { return createElement("ul", args) }
func Li(args ...any) *VNode      { return createElement("li", args) }

// Text-level

func Span(args ...any) *VNode   { return createElement("span", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }

// Controls

func Input(args ...any) *VNode  { return createElement("input", args) }
func Button(args ...any) *VNode { return createElement("button", args) }
