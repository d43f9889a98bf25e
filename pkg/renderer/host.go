package renderer

// HostOps is the set of operations the renderer needs from a host tree.
// Nodes are opaque handles; a nil anchor means "append".
type HostOps interface {
	Insert(child, parent, anchor any)
	Remove(child any)
	CreateElement(tag string) any
	CreateText(text string) any
	CreateComment(text string) any
	SetText(node any, text string)
	SetElementText(el any, text string)
	ParentNode(node any) any
	NextSibling(node any) any
	PatchProp(el any, key string, prev, next any)
}

// StaticInserter is implemented by hosts that can insert pre-serialized
// markup. It returns the first and last inserted nodes.
type StaticInserter interface {
	InsertStaticContent(content string, parent, anchor any) (first, last any)
}

// QuerySelector is implemented by hosts that can resolve a container from
// a selector string.
type QuerySelector interface {
	QuerySelector(selector string) any
}

// ScopeIDSetter is implemented by hosts that support scoped styling.
type ScopeIDSetter interface {
	SetScopeID(el any, id string)
}

// NodeCloner is implemented by hosts that can deep-copy a node.
type NodeCloner interface {
	CloneNode(node any) any
}
