package memdom

import "fmt"

// OpKind is the type of a recorded host operation.
type OpKind uint8

const (
	OpCreate         OpKind = iota + 1 // node created
	OpInsert                           // detached node inserted
	OpMove                             // attached node re-inserted
	OpRemove                           // node removed
	OpSetText                          // text or comment content set
	OpSetElementText                   // element children replaced by text
	OpSetProp                          // attribute or handler set
	OpRemoveProp                       // attribute or handler removed
	OpInsertStatic                     // static markup inserted
	OpClone                            // node cloned
	OpSetScopeID                       // scope attribute set
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "Create"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpRemove:
		return "Remove"
	case OpSetText:
		return "SetText"
	case OpSetElementText:
		return "SetElementText"
	case OpSetProp:
		return "SetProp"
	case OpRemoveProp:
		return "RemoveProp"
	case OpInsertStatic:
		return "InsertStatic"
	case OpClone:
		return "Clone"
	case OpSetScopeID:
		return "SetScopeID"
	default:
		return "Unknown"
	}
}

// Op is a single recorded host operation.
type Op struct {
	Kind   OpKind
	Node   *Node
	Parent *Node  // Insert, Move, InsertStatic
	Anchor *Node  // Insert, Move, InsertStatic; nil means append
	Key    string // SetProp, RemoveProp, SetScopeID
	Value  any    // new text or prop value
}

func (o Op) String() string {
	switch o.Kind {
	case OpInsert, OpMove, OpInsertStatic:
		return fmt.Sprintf("%s %s into %s before %v", o.Kind, o.Node, o.Parent, o.Anchor)
	case OpSetProp, OpRemoveProp, OpSetScopeID:
		return fmt.Sprintf("%s %s %s=%v", o.Kind, o.Node, o.Key, o.Value)
	case OpSetText, OpSetElementText:
		return fmt.Sprintf("%s %s %q", o.Kind, o.Node, o.Value)
	default:
		return fmt.Sprintf("%s %s", o.Kind, o.Node)
	}
}
