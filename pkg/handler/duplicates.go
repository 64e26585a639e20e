package handler

import (
	"github.com/odvcencio/synmerge/pkg/linemerge"
	"github.com/odvcencio/synmerge/pkg/semimerge"
	"github.com/odvcencio/synmerge/pkg/similarity"
)

// DuplicateDeclarationsHandler implements §4.7: detects terminals
// added by both sides with the same signature but at different
// structural positions (pkg/superimpose only collapses same-identifier,
// equal-body adds within one container, so a duplicate landing in a
// different container survives superimposition as two separate added
// nodes). Collapses into one when bodies are equal; otherwise reports
// the conflict in place. Pairs that share a container are skipped.
type DuplicateDeclarationsHandler struct{}

func (DuplicateDeclarationsHandler) Name() string { return "DuplicateDeclarations" }

func (h DuplicateDeclarationsHandler) Handle(ctx *semimerge.Context) error {
	if !ctx.Config.HandleDuplicateDeclarations {
		return nil
	}

	for _, l := range ctx.AddedLeftNodes {
		ln := ctx.SuperTree.Node(l)
		if ln == nil || ln.IsContainer() {
			continue
		}
		for _, r := range ctx.AddedRightNodes {
			rn := ctx.SuperTree.Node(r)
			if rn == nil || rn.IsContainer() {
				continue
			}
			if ln.Parent == rn.Parent {
				// Same container: pkg/superimpose already collapsed
				// same-identifier adds with equal bodies, and leaves
				// differing-body pairs to the renaming/deletion handler.
				continue
			}
			if !similarity.HaveEqualSignature(declOf(ln), declOf(rn)) {
				continue
			}

			if similarity.HaveEqualBody(declOf(ln), declOf(rn), ctx.Config.IgnoreWhitespaceChange) {
				ctx.SuperTree.RemoveChild(rn.Parent, r)
				ctx.Incr("duplicate_collapsed")
				continue
			}

			merged, hasConflict, err := linemerge.Merge(ln.Body, "", rn.Body, ctx.Config.IgnoreWhitespaceChange)
			if err != nil {
				return &semimerge.TextualMergeError{Err: err}
			}
			ln.Body = merged
			ctx.SuperTree.RemoveChild(rn.Parent, r)
			if hasConflict {
				ctx.Incr("duplicate_conflict")
			} else {
				ctx.Incr("duplicate_merged")
			}
		}
	}
	return nil
}
