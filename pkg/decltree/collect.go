package decltree

// CollectTerminals returns the ordered sequence of terminal (non-container)
// NodeIDs reachable from root, depth-first, children in declared order.
// The traversal order is stable and is relied upon by handlers for
// deterministic tie-breaks (spec §9).
func CollectTerminals(t *Tree, root NodeID) []NodeID {
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := t.Node(id)
		if n == nil {
			return
		}
		if !n.IsContainer() {
			out = append(out, id)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// IsInTree reports whether any terminal reachable from root has the
// given identifier.
func IsInTree(t *Tree, root NodeID, identifier string) bool {
	return RetrieveCorrespondent(t, root, identifier) != NoNode
}

// RetrieveCorrespondent returns the NodeID of the terminal reachable
// from root whose Identifier matches, or NoNode if none does. When
// multiple terminals share an identifier (a violation of I1, which can
// occur transiently in a superimposed tree) the first in traversal
// order wins, consistent with CollectTerminals' stability guarantee.
func RetrieveCorrespondent(t *Tree, root NodeID, identifier string) NodeID {
	for _, id := range CollectTerminals(t, root) {
		if n := t.Node(id); n != nil && n.Identifier == identifier {
			return id
		}
	}
	return NoNode
}

// CollectContainers returns the ordered sequence of container NodeIDs
// reachable from root, depth-first including root itself.
func CollectContainers(t *Tree, root NodeID) []NodeID {
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := t.Node(id)
		if n == nil || !n.IsContainer() {
			return
		}
		out = append(out, id)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}
