// Package superimpose composes three declaration trees (left/mine,
// base, right/yours) into one superimposed tree (spec §4.3): children
// of each container are matched three-way by identifier; matched
// terminals get their bodies textually merged; everything present in a
// contribution but absent from base is recorded as added, for the
// renaming/deletion handler to later recover what pure identifier
// matching cannot.
package superimpose

import (
	"fmt"

	"github.com/odvcencio/synmerge/pkg/decltree"
	"github.com/odvcencio/synmerge/pkg/linemerge"
)

// AddedNode records a terminal present in one contribution but absent
// from base, at the position it should occupy in the superimposed
// tree.
type AddedNode struct {
	NodeID NodeID // id within the superimposed tree, once inserted
	Parent NodeID // the superimposed parent container it was inserted under
}

// NodeID re-exports decltree.NodeID for callers that only import this
// package.
type NodeID = decltree.NodeID

// Result is the output of Superimpose: the composed tree plus the
// added-node sets the renaming/deletion handler consults.
type Result struct {
	Tree       *decltree.Tree
	AddedLeft  []NodeID
	AddedRight []NodeID
}

// Superimpose composes left, base, and right into one tree per spec
// §4.3's algorithm, recursing into matched container children.
func Superimpose(left, base, right *decltree.Tree, ignoreWhitespace bool) (*Result, error) {
	out := decltree.New()
	res := &Result{Tree: out}

	err := superimposeContainer(res, out.Root, left, leftRoot(left), base, leftRoot(base), right, leftRoot(right), ignoreWhitespace)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func leftRoot(t *decltree.Tree) decltree.NodeID {
	if t == nil {
		return decltree.NoNode
	}
	return t.Root
}

// childByIdentifier indexes a container's direct children by
// Identifier for three-way matching at this level.
func childByIdentifier(t *decltree.Tree, container decltree.NodeID) map[string]decltree.NodeID {
	m := map[string]decltree.NodeID{}
	if t == nil {
		return m
	}
	n := t.Node(container)
	if n == nil {
		return m
	}
	for _, c := range n.Children {
		if cn := t.Node(c); cn != nil {
			m[cn.Identifier] = c
		}
	}
	return m
}

// superimposeContainer matches the children of one container across
// the three trees and populates outParent (already created in out)
// with the composed children, recursing into matched sub-containers.
func superimposeContainer(
	res *Result,
	outParent decltree.NodeID,
	leftTree *decltree.Tree, leftContainer decltree.NodeID,
	baseTree *decltree.Tree, baseContainer decltree.NodeID,
	rightTree *decltree.Tree, rightContainer decltree.NodeID,
	ignoreWhitespace bool,
) error {
	leftChildren := childByIdentifier(leftTree, leftContainer)
	baseChildren := childByIdentifier(baseTree, baseContainer)
	rightChildren := childByIdentifier(rightTree, rightContainer)

	// Stable order: base children first (in base order), then new
	// identifiers first seen in left, then new identifiers first seen
	// in right. Added nodes always go after every base-originating
	// child; they are not placed after their nearest surviving
	// predecessor in the contribution they came from.
	var order []string
	seen := map[string]bool{}
	appendOrdered := func(t *decltree.Tree, container decltree.NodeID) {
		if t == nil {
			return
		}
		n := t.Node(container)
		if n == nil {
			return
		}
		for _, c := range n.Children {
			cn := t.Node(c)
			if cn == nil || seen[cn.Identifier] {
				continue
			}
			seen[cn.Identifier] = true
			order = append(order, cn.Identifier)
		}
	}
	appendOrdered(baseTree, baseContainer)
	appendOrdered(leftTree, leftContainer)
	appendOrdered(rightTree, rightContainer)

	for _, id := range order {
		l, inLeft := leftChildren[id]
		b, inBase := baseChildren[id]
		r, inRight := rightChildren[id]

		switch {
		case inBase && inLeft && inRight:
			if err := mergeMatchedTriple(res, outParent, leftTree, l, baseTree, b, rightTree, r, ignoreWhitespace); err != nil {
				return err
			}
		case inBase && inLeft && !inRight:
			// base-deleted by right: keep left's version.
			copyChild(res, outParent, leftTree, l)
		case inBase && !inLeft && inRight:
			// base-deleted by left: keep right's version.
			copyChild(res, outParent, rightTree, r)
		case inBase && !inLeft && !inRight:
			// deleted by both: omit.
		case !inBase && inLeft && inRight:
			// Added concurrently with the same identifier. This is also
			// the shape a double rename to the same new name takes (the
			// base declaration vanishes from leftChildren/rightChildren
			// under its old identifier and reappears here under the new
			// one): leave left's and right's contributions as two
			// distinguishable sibling nodes rather than pre-merging them,
			// so the renaming/deletion handler can recover each side's
			// real text when it later correlates this pair against a
			// vanished base declaration.
			if sameBody(leftTree, l, rightTree, r) || leftTree.Node(l).IsContainer() {
				copyChild(res, outParent, leftTree, l)
			} else {
				ln := copyChild(res, outParent, leftTree, l)
				rn := copyChild(res, outParent, rightTree, r)
				res.AddedLeft = append(res.AddedLeft, ln)
				res.AddedRight = append(res.AddedRight, rn)
			}
		case !inBase && inLeft && !inRight:
			n := copyChild(res, outParent, leftTree, l)
			res.AddedLeft = append(res.AddedLeft, n)
		case !inBase && !inLeft && inRight:
			n := copyChild(res, outParent, rightTree, r)
			res.AddedRight = append(res.AddedRight, n)
		}
	}

	return nil
}

func sameBody(lt *decltree.Tree, l decltree.NodeID, rt *decltree.Tree, r decltree.NodeID) bool {
	ln, rn := lt.Node(l), rt.Node(r)
	if ln == nil || rn == nil {
		return false
	}
	return ln.Body == rn.Body
}

// mergeMatchedTriple composes one identifier present on all three
// sides: recurse for containers, textual-merge bodies for terminals.
func mergeMatchedTriple(
	res *Result,
	outParent decltree.NodeID,
	leftTree *decltree.Tree, l decltree.NodeID,
	baseTree *decltree.Tree, b decltree.NodeID,
	rightTree *decltree.Tree, r decltree.NodeID,
	ignoreWhitespace bool,
) error {
	baseNode := baseTree.Node(b)
	leftNode := leftTree.Node(l)
	rightNode := rightTree.Node(r)

	if leftNode.IsContainer() {
		newID := res.Tree.AddContainer(outParent, leftNode.Kind, leftNode.Identifier)
		return superimposeContainer(res, newID, leftTree, l, baseTree, b, rightTree, r, ignoreWhitespace)
	}

	if leftNode.Body == baseNode.Body && rightNode.Body == baseNode.Body {
		res.Tree.AddTerminal(outParent, leftNode.Kind, leftNode.Identifier, leftNode.Signature, baseNode.Body)
		return nil
	}
	merged, _, err := linemerge.Merge(leftNode.Body, baseNode.Body, rightNode.Body, ignoreWhitespace)
	if err != nil {
		return fmt.Errorf("superimpose %q: %w", leftNode.Identifier, err)
	}
	res.Tree.AddTerminal(outParent, leftNode.Kind, leftNode.Identifier, leftNode.Signature, merged)
	return nil
}

// copyChild deep-copies a subtree rooted at src (from tree t) as a new
// child of outParent in res.Tree, returning the new root's ID.
func copyChild(res *Result, outParent decltree.NodeID, t *decltree.Tree, src decltree.NodeID) decltree.NodeID {
	n := t.Node(src)
	if n == nil {
		return decltree.NoNode
	}
	if n.IsContainer() {
		newID := res.Tree.AddContainer(outParent, n.Kind, n.Identifier)
		for _, c := range n.Children {
			copyChild(res, newID, t, c)
		}
		return newID
	}
	return res.Tree.AddTerminal(outParent, n.Kind, n.Identifier, n.Signature, n.Body)
}
