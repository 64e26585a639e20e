package decltree

// Serialize concatenates every terminal body in t, in depth-first
// declared order, reproducing the file text the tree composes (the
// Serializer collaborator contract: round-trips parser output for
// unmodified trees).
func Serialize(t *Tree) []byte {
	var out []byte
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := t.Node(id)
		if n == nil {
			return
		}
		if !n.IsContainer() {
			out = append(out, n.Body...)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return out
}
