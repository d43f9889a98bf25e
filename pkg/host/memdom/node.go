package memdom

import (
	"fmt"
	"slices"
)

// NodeType identifies the kind of host node.
type NodeType uint8

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	RawNode // unparsed static markup
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case RawNode:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Node is a host node. Fields are exported for inspection; mutate the tree
// through the Document so operations are recorded.
type Node struct {
	ID       int
	Type     NodeType
	Tag      string
	Text     string
	Attrs    map[string]any
	Handlers map[string]any
	Parent   *Node
	Children []*Node
}

func (n *Node) String() string {
	switch n.Type {
	case ElementNode:
		return fmt.Sprintf("<%s#%d>", n.Tag, n.ID)
	case TextNode:
		return fmt.Sprintf("%q#%d", n.Text, n.ID)
	default:
		return fmt.Sprintf("%s#%d", n.Type, n.ID)
	}
}

func (n *Node) index() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

func (n *Node) detach() {
	if i := n.index(); i >= 0 {
		n.Parent.Children = slices.Delete(n.Parent.Children, i, i+1)
	}
	n.Parent = nil
}

// NextSibling returns the following sibling or nil.
func (n *Node) NextSibling() *Node {
	i := n.index()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, RawNode:
		return n.Text
	case CommentNode:
		return ""
	}
	var s string
	for _, c := range n.Children {
		s += c.TextContent()
	}
	return s
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
