package handler

import (
	"github.com/odvcencio/synmerge/pkg/decltree"
	"github.com/odvcencio/synmerge/pkg/linemerge"
	"github.com/odvcencio/synmerge/pkg/semimerge"
	"github.com/odvcencio/synmerge/pkg/similarity"
)

// InitializationBlocksHandler implements §4.8: identifier-less
// terminals (static/instance initializer blocks) get ordinal-based
// identifiers from pkg/oracle, which only coincidentally match across
// trees when both sides add the same number of blocks in the same
// order. This handler re-matches added initializer blocks within each
// container by body similarity instead, so an added block on the left
// and a similar one on the right collapse into a single merged block
// rather than surviving as two unrelated additions.
type InitializationBlocksHandler struct{}

func (InitializationBlocksHandler) Name() string { return "InitializationBlocks" }

func (h InitializationBlocksHandler) Handle(ctx *semimerge.Context) error {
	if !ctx.Config.HandleInitializationBlocks {
		return nil
	}

	leftByParent := groupInitBlocks(ctx.SuperTree, ctx.AddedLeftNodes)
	rightByParent := groupInitBlocks(ctx.SuperTree, ctx.AddedRightNodes)

	for parent, lefts := range leftByParent {
		rights := rightByParent[parent]
		matchedRight := map[decltree.NodeID]bool{}

		for _, l := range lefts {
			ln := ctx.SuperTree.Node(l)
			var best decltree.NodeID = decltree.NoNode
			for _, r := range rights {
				if matchedRight[r] {
					continue
				}
				rn := ctx.SuperTree.Node(r)
				if similarity.HaveSimilarBody(declOf(ln), declOf(rn)) {
					best = r
					break
				}
			}
			if best == decltree.NoNode {
				continue // independent addition, left as-is
			}
			matchedRight[best] = true
			rn := ctx.SuperTree.Node(best)
			merged, _, err := linemerge.Merge(ln.Body, "", rn.Body, ctx.Config.IgnoreWhitespaceChange)
			if err != nil {
				return &semimerge.TextualMergeError{Err: err}
			}
			ln.Body = merged
			ctx.SuperTree.RemoveChild(rn.Parent, best)
			ctx.Incr("init_block_matched")
		}
	}
	return nil
}

func groupInitBlocks(t *decltree.Tree, ids []decltree.NodeID) map[decltree.NodeID][]decltree.NodeID {
	out := map[decltree.NodeID][]decltree.NodeID{}
	for _, id := range ids {
		n := t.Node(id)
		if n == nil || n.Kind != decltree.KindInitializerBlock {
			continue
		}
		out[n.Parent] = append(out[n.Parent], id)
	}
	return out
}
