// Package decltree implements the declaration tree that semistructured
// merge operates on: containers (compilation unit, class, interface,
// enum) holding ordered children, terminated by leaves (method,
// constructor, field, initializer block, import, or an opaque "other"
// region) whose body text is merged as opaque text rather than parsed
// further.
package decltree

import "fmt"

// Kind classifies a node in the declaration tree.
type Kind int

const (
	KindCompilationUnit Kind = iota
	KindClass
	KindInterface
	KindEnum
	KindMethod
	KindConstructor
	KindField
	KindInitializerBlock
	KindImport
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindCompilationUnit:
		return "CompilationUnit"
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindEnum:
		return "Enum"
	case KindMethod:
		return "Method"
	case KindConstructor:
		return "Constructor"
	case KindField:
		return "Field"
	case KindInitializerBlock:
		return "InitializerBlock"
	case KindImport:
		return "Import"
	case KindOther:
		return "Other"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsContainer reports whether k holds children rather than a body.
func (k Kind) IsContainer() bool {
	switch k {
	case KindCompilationUnit, KindClass, KindInterface, KindEnum:
		return true
	}
	return false
}

// NodeID indexes a Node within a Tree's arena.
type NodeID int

// NoNode is the sentinel for "no node"/"no parent". It is not the zero
// value of NodeID: NodeID(0) is a tree's root.
const NoNode NodeID = -1

// Node is a single declaration-tree element: either a container (with
// Children populated, Body empty) or a terminal (with Body populated,
// Children empty).
//
// Identifier is a pure function of the node's signature or name (I2):
// it must never be recomputed from Body, so renaming a method's body
// without touching its signature never changes Identifier.
type Node struct {
	Kind       Kind
	Identifier string
	Signature  string
	Body       string
	Parent     NodeID
	Children   []NodeID
}

// IsContainer reports whether n holds children.
func (n *Node) IsContainer() bool { return n.Kind.IsContainer() }

// Tree is an arena of Nodes, addressed by stable NodeID. Ownership
// flows strictly parent to child (I3): Parent indices are assigned at
// construction and changed only by InsertChild, when a node is
// reparented.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

// New returns an empty tree whose root is a CompilationUnit container.
func New() *Tree {
	t := &Tree{}
	t.Root = t.addNode(Node{Kind: KindCompilationUnit, Parent: NoNode})
	return t
}

// Node returns a pointer to the node addressed by id, or nil if id is
// out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

// addNode appends a node to the arena and returns its ID.
func (t *Tree) addNode(n Node) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, n)
	return id
}

// AddContainer appends a new container child under parent and returns
// its ID.
func (t *Tree) AddContainer(parent NodeID, kind Kind, identifier string) NodeID {
	id := t.addNode(Node{Kind: kind, Identifier: identifier, Parent: parent})
	if p := t.Node(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// AddTerminal appends a new terminal child under parent and returns its
// ID.
func (t *Tree) AddTerminal(parent NodeID, kind Kind, identifier, signature, body string) NodeID {
	id := t.addNode(Node{
		Kind:       kind,
		Identifier: identifier,
		Signature:  signature,
		Body:       body,
		Parent:     parent,
	})
	if p := t.Node(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// InsertChild inserts an existing node as a child of parent at the
// given position (clamped to [0, len(children)]), updating both the
// child list and the node's back-reference (§5: edits that reparent a
// node must update both before the next handler runs).
func (t *Tree) InsertChild(parent, child NodeID, pos int) {
	p := t.Node(parent)
	if p == nil {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(p.Children) {
		pos = len(p.Children)
	}
	p.Children = append(p.Children, NoNode)
	copy(p.Children[pos+1:], p.Children[pos:])
	p.Children[pos] = child
	if c := t.Node(child); c != nil {
		c.Parent = parent
	}
}

// RemoveChild removes child from parent's child list, if present. The
// node itself remains in the arena (addressable, but unreachable from
// Root) — arenas never compact, so NodeIDs taken before removal stay
// valid for diagnostic purposes.
func (t *Tree) RemoveChild(parent, child NodeID) {
	p := t.Node(parent)
	if p == nil {
		return
	}
	out := p.Children[:0]
	for _, c := range p.Children {
		if c != child {
			out = append(out, c)
		}
	}
	p.Children = out
}
