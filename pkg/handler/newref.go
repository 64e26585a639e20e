package handler

import (
	"strings"

	"github.com/odvcencio/synmerge/pkg/decltree"
	"github.com/odvcencio/synmerge/pkg/semimerge"
)

// NewElementReferencingEditedOneHandler implements §4.9: if a
// terminal added on side s textually references (by simple identifier
// occurrence) a terminal the opposite side edited, the referring
// terminal's body gets a structural-semantic conflict annotation —
// the two edits compose cleanly at the tree level but the new code may
// not agree with the edited code it calls.
type NewElementReferencingEditedOneHandler struct{}

func (NewElementReferencingEditedOneHandler) Name() string {
	return "NewElementReferencingEditedOne"
}

func (h NewElementReferencingEditedOneHandler) Handle(ctx *semimerge.Context) error {
	if !ctx.Config.HandleNewElementReferencingEditedOne {
		return nil
	}

	editedByRight := editedIdentifiers(ctx.BaseTree, ctx.RightTree)
	editedByLeft := editedIdentifiers(ctx.BaseTree, ctx.LeftTree)

	annotate := func(added []decltree.NodeID, editedByOpposite map[string]bool) {
		for _, id := range added {
			n := ctx.SuperTree.Node(id)
			if n == nil || n.IsContainer() {
				continue
			}
			for identifier := range editedByOpposite {
				name := simpleName(identifier)
				if name == "" || !referencesIdentifier(n.Body, name) {
					continue
				}
				if strings.Contains(n.Body, newRefAnnotationMarker(name)) {
					continue
				}
				n.Body += "\n" + newRefAnnotationMarker(name)
				ctx.Incr("new_element_references_edited")
			}
		}
	}

	annotate(ctx.AddedLeftNodes, editedByRight)
	annotate(ctx.AddedRightNodes, editedByLeft)
	return nil
}

func newRefAnnotationMarker(name string) string {
	return "// NOTE: references " + name + ", edited concurrently on the other side"
}

// editedIdentifiers returns the identifiers of base terminals whose
// body changed in contribTree without the identifier itself changing
// (a plain edit, as opposed to a rename or deletion).
func editedIdentifiers(baseTree, contribTree *decltree.Tree) map[string]bool {
	out := map[string]bool{}
	if baseTree == nil || contribTree == nil {
		return out
	}
	for _, bid := range decltree.CollectTerminals(baseTree, baseTree.Root) {
		bn := baseTree.Node(bid)
		cid := decltree.RetrieveCorrespondent(contribTree, contribTree.Root, bn.Identifier)
		if cid == decltree.NoNode {
			continue
		}
		cn := contribTree.Node(cid)
		if cn.Body != bn.Body {
			out[bn.Identifier] = true
		}
	}
	return out
}

// referencesIdentifier reports whether body contains name as a whole
// token (not as a substring of a longer identifier).
func referencesIdentifier(body, name string) bool {
	idx := 0
	for {
		at := strings.Index(body[idx:], name)
		if at < 0 {
			return false
		}
		pos := idx + at
		before := byte(' ')
		if pos > 0 {
			before = body[pos-1]
		}
		after := byte(' ')
		if pos+len(name) < len(body) {
			after = body[pos+len(name)]
		}
		if !isIdentifierByte(before) && !isIdentifierByte(after) {
			return true
		}
		idx = pos + len(name)
		if idx >= len(body) {
			return false
		}
	}
}

func isIdentifierByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
