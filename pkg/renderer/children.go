package renderer

import "github.com/vango-dev/reactor/pkg/vdom"

// patchChildren reconciles the children of n1 and n2 inside container.
// Fragment hints pick a diff directly; otherwise the text, array and empty
// cases are handled and two arrays get a full keyed diff.
func (r *Renderer) patchChildren(n1, n2 *vdom.VNode, container, anchor any, parent *instance, optimized bool) {
	c1, c2 := n1.Children, n2.Children
	prevShape := n1.ShapeFlag

	if n2.PatchFlag > 0 {
		if n2.PatchFlag.Has(vdom.PatchKeyedFragment) {
			r.patchKeyedChildren(c1, c2, container, anchor, parent, optimized)
			return
		}
		if n2.PatchFlag.Has(vdom.PatchUnkeyedFragment) {
			r.patchUnkeyedChildren(c1, c2, container, anchor, parent, optimized)
			return
		}
	}

	if n2.ShapeFlag.Has(vdom.ShapeTextChildren) {
		if prevShape.Has(vdom.ShapeArrayChildren) {
			// The text write below clears the host children.
			r.unmountChildren(c1, parent, false, false, 0)
		}
		if !prevShape.Has(vdom.ShapeTextChildren) || n1.Text != n2.Text {
			r.host.SetElementText(container, n2.Text)
		}
		return
	}

	if prevShape.Has(vdom.ShapeArrayChildren) {
		if n2.ShapeFlag.Has(vdom.ShapeArrayChildren) {
			r.patchKeyedChildren(c1, c2, container, anchor, parent, optimized)
		} else {
			r.unmountChildren(c1, parent, true, false, 0)
		}
		return
	}
	if prevShape.Has(vdom.ShapeTextChildren) {
		r.host.SetElementText(container, "")
	}
	if n2.ShapeFlag.Has(vdom.ShapeArrayChildren) {
		r.mountChildren(c2, container, anchor, parent, optimized, 0)
	}
}

// patchUnkeyedChildren patches children pairwise by position, then mounts
// or unmounts the tail.
func (r *Renderer) patchUnkeyedChildren(c1, c2 []*vdom.VNode, container, anchor any, parent *instance, optimized bool) {
	common := min(len(c1), len(c2))
	for i := 0; i < common; i++ {
		next := normalizeChild(c2, i)
		r.patch(c1[i], next, container, nil, parent, optimized)
	}
	if len(c1) > len(c2) {
		r.unmountChildren(c1, parent, true, false, common)
	} else {
		r.mountChildren(c2, container, anchor, parent, optimized, common)
	}
}

// patchKeyedChildren reconciles two child lists that may contain keys.
//
//  1. sync the common prefix
//  2. sync the common suffix
//  3. old exhausted: mount the rest of the new list
//  4. new exhausted: unmount the rest of the old list
//  5. unknown middle: patch matches, unmount leftovers, then walk the new
//     middle back to front, mounting new nodes and moving every node that
//     is not on the longest increasing subsequence of old positions
func (r *Renderer) patchKeyedChildren(c1, c2 []*vdom.VNode, container, parentAnchor any, parent *instance, optimized bool) {
	i := 0
	l2 := len(c2)
	e1 := len(c1) - 1
	e2 := l2 - 1

	// 1. prefix
	for i <= e1 && i <= e2 {
		n1, n2 := c1[i], normalizeChild(c2, i)
		if !vdom.SameType(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent, optimized)
		i++
	}

	// 2. suffix
	for i <= e1 && i <= e2 {
		n1, n2 := c1[e1], normalizeChild(c2, e2)
		if !vdom.SameType(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent, optimized)
		e1--
		e2--
	}

	switch {
	// 3. common sequence + mount
	case i > e1:
		if i <= e2 {
			nextPos := e2 + 1
			anchor := parentAnchor
			if nextPos < l2 {
				anchor = c2[nextPos].El
			}
			for ; i <= e2; i++ {
				r.patch(nil, normalizeChild(c2, i), container, anchor, parent, optimized)
			}
		}

	// 4. common sequence + unmount
	case i > e2:
		for ; i <= e1; i++ {
			r.unmount(c1[i], parent, true, false)
		}

	// 5. unknown sequence
	default:
		s1, s2 := i, i

		// 5.1 key map for the new middle
		keyToNewIndex := make(map[string]int)
		for i = s2; i <= e2; i++ {
			next := normalizeChild(c2, i)
			if next.HasKey() {
				if _, dup := keyToNewIndex[next.Key]; dup {
					r.warn("duplicate keys found during update, make sure keys are unique", "key", next.Key)
				}
				keyToNewIndex[next.Key] = i
			}
		}

		// 5.2 patch old nodes that still exist, unmount the rest
		patched := 0
		toBePatched := e2 - s2 + 1
		moved := false
		maxNewIndexSoFar := 0
		// new index (relative to s2) -> old index + 1; 0 means new node
		newIndexToOldIndex := make([]int, toBePatched)

		for i = s1; i <= e1; i++ {
			prev := c1[i]
			if patched >= toBePatched {
				// Every new node is matched; the rest can only go.
				r.unmount(prev, parent, true, false)
				continue
			}
			newIndex := -1
			if prev.HasKey() {
				if ni, ok := keyToNewIndex[prev.Key]; ok {
					newIndex = ni
				}
			} else {
				for j := s2; j <= e2; j++ {
					if newIndexToOldIndex[j-s2] == 0 && vdom.SameType(prev, c2[j]) {
						newIndex = j
						break
					}
				}
			}
			if newIndex < 0 {
				r.unmount(prev, parent, true, false)
				continue
			}
			newIndexToOldIndex[newIndex-s2] = i + 1
			if newIndex >= maxNewIndexSoFar {
				maxNewIndexSoFar = newIndex
			} else {
				moved = true
			}
			r.patch(prev, c2[newIndex], container, nil, parent, optimized)
			patched++
		}

		// 5.3 move and mount, back to front so anchors are already placed
		var seq []int
		if moved {
			seq = GetSequence(newIndexToOldIndex)
		}
		j := len(seq) - 1
		for i = toBePatched - 1; i >= 0; i-- {
			nextIndex := s2 + i
			next := c2[nextIndex]
			anchor := parentAnchor
			if nextIndex+1 < l2 {
				anchor = c2[nextIndex+1].El
			}
			switch {
			case newIndexToOldIndex[i] == 0:
				r.patch(nil, next, container, anchor, parent, optimized)
			case moved:
				if j < 0 || i != seq[j] {
					r.move(next, container, anchor, MoveReorder)
					r.observer.Moved(next.Kind)
				} else {
					j--
				}
			}
		}
	}
}
