package memdom

import (
	"fmt"
	"slices"
	"strings"

	clone "github.com/huandu/go-clone"
)

// Document owns a host tree rooted at a DocumentNode and records every
// operation applied to it.
type Document struct {
	root     *Node
	nextID   int
	ops      []Op
	record   bool
	listener func(Op)
}

// New creates an empty document.
func New() *Document {
	d := &Document{record: true}
	d.root = d.newNode(DocumentNode)
	return d
}

// Root returns the document node, the usual render container.
func (d *Document) Root() *Node { return d.root }

// OnOp registers fn to receive every operation as it happens.
func (d *Document) OnOp(fn func(Op)) { d.listener = fn }

// SetRecording turns the operation log on or off. Listeners still fire.
func (d *Document) SetRecording(on bool) { d.record = on }

// Ops returns the recorded operations.
func (d *Document) Ops() []Op { return slices.Clone(d.ops) }

// ResetOps clears the operation log.
func (d *Document) ResetOps() { d.ops = d.ops[:0] }

// Count returns the number of recorded operations of the given kind.
func (d *Document) Count(kind OpKind) int {
	n := 0
	for _, op := range d.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns recorded operation counts by kind.
func (d *Document) Counts() map[OpKind]int {
	m := make(map[OpKind]int)
	for _, op := range d.ops {
		m[op.Kind]++
	}
	return m
}

func (d *Document) emit(op Op) {
	if d.record {
		d.ops = append(d.ops, op)
	}
	if d.listener != nil {
		d.listener(op)
	}
}

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{ID: d.nextID, Type: t}
}

// asNode unwraps a renderer handle. A nil interface or nil *Node is nil.
func asNode(v any) *Node {
	if v == nil {
		return nil
	}
	n, ok := v.(*Node)
	if !ok {
		panic(fmt.Sprintf("memdom: foreign node %T", v))
	}
	return n
}

// handle wraps n so a nil node is a nil interface.
func handle(n *Node) any {
	if n == nil {
		return nil
	}
	return n
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) any {
	n := d.newNode(ElementNode)
	n.Tag = tag
	n.Attrs = make(map[string]any)
	d.emit(Op{Kind: OpCreate, Node: n})
	return n
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) any {
	n := d.newNode(TextNode)
	n.Text = text
	d.emit(Op{Kind: OpCreate, Node: n})
	return n
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(text string) any {
	n := d.newNode(CommentNode)
	n.Text = text
	d.emit(Op{Kind: OpCreate, Node: n})
	return n
}

// Insert places child into parent before anchor, or at the end when anchor
// is nil. Inserting an attached node moves it.
func (d *Document) Insert(child, parent, anchor any) {
	c, p, a := asNode(child), asNode(parent), asNode(anchor)
	kind := OpInsert
	if c.Parent != nil {
		kind = OpMove
		c.detach()
	}
	d.insert(c, p, a)
	d.emit(Op{Kind: kind, Node: c, Parent: p, Anchor: a})
}

func (d *Document) insert(c, p, a *Node) {
	c.Parent = p
	i := len(p.Children)
	if a != nil {
		if j := slices.Index(p.Children, a); j >= 0 {
			i = j
		}
	}
	p.Children = slices.Insert(p.Children, i, c)
}

// Remove detaches child from its parent.
func (d *Document) Remove(child any) {
	c := asNode(child)
	if c.Parent == nil {
		return
	}
	c.detach()
	d.emit(Op{Kind: OpRemove, Node: c})
}

// SetText sets the content of a text or comment node.
func (d *Document) SetText(node any, text string) {
	n := asNode(node)
	n.Text = text
	d.emit(Op{Kind: OpSetText, Node: n, Value: text})
}

// SetElementText replaces an element's children with a single text node,
// or with nothing when text is empty.
func (d *Document) SetElementText(el any, text string) {
	n := asNode(el)
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	if text != "" {
		t := d.newNode(TextNode)
		t.Text = text
		t.Parent = n
		n.Children = []*Node{t}
	}
	d.emit(Op{Kind: OpSetElementText, Node: n, Value: text})
}

// ParentNode returns node's parent or nil.
func (d *Document) ParentNode(node any) any {
	return handle(asNode(node).Parent)
}

// NextSibling returns node's next sibling or nil.
func (d *Document) NextSibling(node any) any {
	return handle(asNode(node).NextSibling())
}

// PatchProp sets or removes an attribute. Keys starting with "on" are
// stored as event handlers.
func (d *Document) PatchProp(el any, key string, prev, next any) {
	n := asNode(el)
	if isEvent(key) {
		if n.Handlers == nil {
			n.Handlers = make(map[string]any)
		}
		if next == nil {
			delete(n.Handlers, key)
			d.emit(Op{Kind: OpRemoveProp, Node: n, Key: key})
			return
		}
		n.Handlers[key] = next
		d.emit(Op{Kind: OpSetProp, Node: n, Key: key, Value: next})
		return
	}
	if next == nil || next == false {
		delete(n.Attrs, key)
		d.emit(Op{Kind: OpRemoveProp, Node: n, Key: key})
		return
	}
	n.Attrs[key] = next
	d.emit(Op{Kind: OpSetProp, Node: n, Key: key, Value: next})
}

func isEvent(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

// SetScopeID marks el with a scoped-style attribute.
func (d *Document) SetScopeID(el any, id string) {
	n := asNode(el)
	n.Attrs[id] = true
	d.emit(Op{Kind: OpSetScopeID, Node: n, Key: id})
}

// CloneNode deep-copies node. The copy is detached and gets fresh ids.
func (d *Document) CloneNode(node any) any {
	src := asNode(node)
	parent := src.Parent
	src.Parent = nil
	cp := clone.Slowly(src).(*Node)
	src.Parent = parent

	cp.Walk(func(n *Node) bool {
		d.nextID++
		n.ID = d.nextID
		return true
	})
	d.emit(Op{Kind: OpClone, Node: cp})
	return cp
}

// InsertStaticContent inserts markup as a single raw node and returns it
// as both the first and last node of the range.
func (d *Document) InsertStaticContent(content string, parent, anchor any) (first, last any) {
	p, a := asNode(parent), asNode(anchor)
	n := d.newNode(RawNode)
	n.Text = content
	d.insert(n, p, a)
	d.emit(Op{Kind: OpInsertStatic, Node: n, Parent: p, Anchor: a, Value: content})
	return n, n
}

// QuerySelector finds the first element matching a "#id", ".class" or tag
// selector.
func (d *Document) QuerySelector(selector string) any {
	var found *Node
	match := selectorMatcher(selector)
	d.root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Type == ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return handle(found)
}

func selectorMatcher(sel string) func(*Node) bool {
	switch {
	case strings.HasPrefix(sel, "#"):
		id := sel[1:]
		return func(n *Node) bool { return fmt.Sprint(n.Attrs["id"]) == id }
	case strings.HasPrefix(sel, "."):
		class := sel[1:]
		return func(n *Node) bool {
			s, _ := n.Attrs["class"].(string)
			return slices.Contains(strings.Fields(s), class)
		}
	default:
		return func(n *Node) bool { return n.Tag == sel }
	}
}

// Dispatch invokes the handler registered for event on node. Handlers may
// be func() or func(any). It reports whether a handler ran.
func (d *Document) Dispatch(node *Node, event string, arg any) bool {
	switch h := node.Handlers["on"+event].(type) {
	case func():
		h()
	case func(any):
		h(arg)
	default:
		return false
	}
	return true
}
