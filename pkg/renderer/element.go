package renderer

import "github.com/vango-dev/reactor/pkg/vdom"

// reservedProps never reach the host.
var reservedProps = map[string]bool{
	"":    true,
	"key": true,
	"ref": true,
}

func (r *Renderer) mountElement(v *vdom.VNode, container, anchor any, parent *instance, optimized bool) {
	el := r.host.CreateElement(v.Tag)
	v.El = el

	if v.ShapeFlag.Has(vdom.ShapeTextChildren) {
		r.host.SetElementText(el, v.Text)
	} else if v.ShapeFlag.Has(vdom.ShapeArrayChildren) {
		r.mountChildren(v.Children, el, nil, parent, optimized, 0)
	}

	r.setScopeID(el, v, parent)
	for _, key := range sortedKeys(v.Props) {
		if key != "value" && !reservedProps[key] {
			r.host.PatchProp(el, key, nil, v.Props[key])
		}
	}
	// value goes last so min, max and step are already applied.
	if value, ok := v.Props["value"]; ok {
		r.host.PatchProp(el, "value", nil, value)
	}

	t := v.Transition
	needTransition := t != nil && !t.Persisted
	if needTransition && t.BeforeEnter != nil {
		t.BeforeEnter(el)
	}
	r.host.Insert(el, container, anchor)
	if needTransition && t.Enter != nil {
		r.queuePost("transition enter", func() { t.Enter(el) })
	}
	r.observer.Mounted(v.Kind)
}

// setScopeID applies the scope id of the rendering component, and of its
// ancestors while v is their root node.
func (r *Renderer) setScopeID(el any, v *vdom.VNode, parent *instance) {
	setter, ok := r.host.(ScopeIDSetter)
	if !ok {
		return
	}
	for parent != nil {
		if parent.scopeID != "" {
			setter.SetScopeID(el, parent.scopeID)
		}
		if v != parent.subTree {
			return
		}
		v, parent = parent.vnode, parent.parent
	}
}

// normalizeChild prepares children[i] for patching: nil becomes an empty
// comment and nodes already bound to a host node are copied.
func normalizeChild(children []*vdom.VNode, i int) *vdom.VNode {
	c := children[i]
	if c == nil {
		c = vdom.Comment("")
	} else {
		c = vdom.CloneIfMounted(c)
	}
	children[i] = c
	return c
}

func (r *Renderer) mountChildren(children []*vdom.VNode, container, anchor any, parent *instance, optimized bool, start int) {
	for i := start; i < len(children); i++ {
		child := normalizeChild(children, i)
		r.patch(nil, child, container, anchor, parent, optimized)
	}
}

func (r *Renderer) patchElement(n1, n2 *vdom.VNode, parent *instance, optimized bool) {
	el := n1.El
	n2.El = el

	// A node that once needed full props keeps needing them.
	flag := n2.PatchFlag | n1.PatchFlag&vdom.PatchFullProps
	dynamic := n2.DynamicChildren
	if dynamic != nil && !r.blockCompatible(n1, n2) {
		dynamic, optimized = nil, false
	}

	oldProps, newProps := n1.Props, n2.Props

	if dynamic != nil {
		r.patchBlockChildren(n1.DynamicChildren, dynamic, el, parent)
		r.traverseStaticChildren(n1, n2, false)
	} else if !optimized {
		r.patchChildren(n1, n2, el, nil, parent, false)
	}

	switch {
	case flag > 0:
		if flag.Has(vdom.PatchFullProps) {
			r.patchProps(el, oldProps, newProps)
		} else {
			if flag.Has(vdom.PatchClass) && !sameProp(oldProps["class"], newProps["class"]) {
				r.host.PatchProp(el, "class", nil, newProps["class"])
			}
			if flag.Has(vdom.PatchStyle) {
				r.host.PatchProp(el, "style", oldProps["style"], newProps["style"])
			}
			if flag.Has(vdom.PatchProps) {
				for _, key := range n2.DynamicProps {
					prev, next := oldProps[key], newProps[key]
					if !sameProp(prev, next) || key == "value" {
						r.host.PatchProp(el, key, prev, next)
					}
				}
			}
		}
		if flag.Has(vdom.PatchText) && n1.Text != n2.Text {
			r.host.SetElementText(el, n2.Text)
		}
	case !optimized && dynamic == nil:
		r.patchProps(el, oldProps, newProps)
	}
}

// patchProps diffs every prop. Removed keys are patched to nil.
func (r *Renderer) patchProps(el any, oldProps, newProps vdom.Props) {
	if sameMap(oldProps, newProps) {
		return
	}
	for _, key := range sortedKeys(oldProps) {
		if _, ok := newProps[key]; !ok && !reservedProps[key] {
			r.host.PatchProp(el, key, oldProps[key], nil)
		}
	}
	for _, key := range sortedKeys(newProps) {
		if reservedProps[key] || key == "value" {
			continue
		}
		prev, next := oldProps[key], newProps[key]
		if !sameProp(prev, next) {
			r.host.PatchProp(el, key, prev, next)
		}
	}
	if value, ok := newProps["value"]; ok {
		r.host.PatchProp(el, "value", oldProps["value"], value)
	}
}

// patchBlockChildren patches dynamic children pairwise. The container is
// only needed when the old node must be replaced or is a fragment or
// component, in which case it is the old node's actual parent.
func (r *Renderer) patchBlockChildren(oldChildren, newChildren []*vdom.VNode, fallback any, parent *instance) {
	for i, nv := range newChildren {
		ov := oldChildren[i]
		container := fallback
		if ov.El != nil && (ov.Kind == vdom.KindFragment || ov.Kind == vdom.KindComponent || !vdom.SameType(ov, nv)) {
			container = r.host.ParentNode(ov.El)
		}
		r.patch(ov, nv, container, nil, parent, true)
	}
}

// traverseStaticChildren carries host nodes over to the static parts of a
// block that the fast path skipped.
func (r *Renderer) traverseStaticChildren(n1, n2 *vdom.VNode, shallow bool) {
	ch1, ch2 := n1.Children, n2.Children
	if ch1 == nil || ch2 == nil {
		return
	}
	for i := 0; i < len(ch1) && i < len(ch2); i++ {
		c1, c2 := ch1[i], ch2[i]
		if c1 == nil || c2 == nil {
			continue
		}
		if c2.Kind == vdom.KindElement && c2.DynamicChildren == nil {
			if c2.PatchFlag <= 0 || c2.PatchFlag == vdom.PatchNeedHydration {
				c2 = vdom.CloneIfMounted(c2)
				ch2[i] = c2
				c2.El = c1.El
			}
			if !shallow {
				r.traverseStaticChildren(c1, c2, false)
			}
		}
		switch c2.Kind {
		case vdom.KindText:
			c2.El = c1.El
		case vdom.KindComment, vdom.KindStatic:
			if c2.El == nil {
				c2.El, c2.Anchor = c1.El, c1.Anchor
			}
		}
	}
}

// sameMap reports whether a and b are the same map (not equal contents).
func sameMap(a, b vdom.Props) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return len(a) == len(b) && mapPointer(a) == mapPointer(b)
}
