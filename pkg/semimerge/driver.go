package semimerge

import (
	"bytes"

	"github.com/odvcencio/synmerge/pkg/decltree"
	"github.com/odvcencio/synmerge/pkg/linemerge"
	"github.com/odvcencio/synmerge/pkg/oracle"
	"github.com/odvcencio/synmerge/pkg/superimpose"
)

// conflictMarker is the opening marker linemerge.Merge and the
// handlers both use; its presence in serialized output is how the
// driver decides HasConflicts without re-walking the tree.
const conflictMarker = "<<<<<<< MINE"

// RunFile executes the full pipeline for one file (§4.10): fast-forward
// check → unstructured merge up front → parse×3 (falling back to the
// unstructured result on a parse error) → superimpose → run handlers
// in order → serialize. handlers may be nil, in
// which case the set registered via RegisterDefaultHandlers is used.
func RunFile(path string, left, base, right []byte, cfg Config, handlers []Handler) (*Context, error) {
	ctx := &Context{Path: path, Config: cfg}

	if ff, ok := fastForward(left, base, right); ok {
		ctx.Output = ff
		ctx.FastForward = true
		return ctx, nil
	}

	unstructured, hasConflict, err := linemerge.Merge(string(left), string(base), string(right), cfg.IgnoreWhitespaceChange)
	if err != nil {
		return nil, &TextualMergeError{Err: err}
	}
	ctx.UnstructuredOutput = unstructured
	ctx.UnstructuredHasConflicts = hasConflict

	leftTree, lerr := oracle.Parse(path, left)
	baseTree, berr := oracle.Parse(path, base)
	rightTree, rerr := oracle.Parse(path, right)
	if lerr != nil || berr != nil || rerr != nil {
		perr := lerr
		if perr == nil {
			perr = berr
		}
		if perr == nil {
			perr = rerr
		}
		ctx.ParseFallback = true
		ctx.ParseErr = &ParseError{Path: path, Err: perr}
		ctx.Output = []byte(ctx.UnstructuredOutput)
		ctx.HasConflicts = ctx.UnstructuredHasConflicts
		return ctx, nil
	}
	ctx.LeftTree, ctx.BaseTree, ctx.RightTree = leftTree, baseTree, rightTree

	sres, err := superimpose.Superimpose(leftTree, baseTree, rightTree, cfg.IgnoreWhitespaceChange)
	if err != nil {
		return nil, &TextualMergeError{Err: err}
	}
	ctx.SuperTree = sres.Tree
	ctx.AddedLeftNodes = sres.AddedLeft
	ctx.AddedRightNodes = sres.AddedRight

	if handlers == nil {
		handlers = buildDefaultHandlers(cfg)
	}
	for _, h := range handlers {
		if err := h.Handle(ctx); err != nil {
			return nil, err
		}
	}

	ctx.Output = decltree.Serialize(ctx.SuperTree)
	ctx.HasConflicts = bytes.Contains(ctx.Output, []byte(conflictMarker))
	return ctx, nil
}

// fastForward reports whether base matches one of left/right, in
// which case the other side (or, if all three differ, nothing) is the
// merge result verbatim (§8 properties 2-3). A third, stricter case is
// handled the same way: when left and right are byte-identical but
// base differs from both, the two sides converged independently on
// the same text, so that text is the only sane merge result — this
// isn't one of §8's two testable fast-forward properties, but skipping
// the structural pipeline for it is still correct, not just expedient,
// since there is no textual difference left for diff3 to resolve.
func fastForward(left, base, right []byte) ([]byte, bool) {
	switch {
	case bytes.Equal(base, right):
		return left, true
	case bytes.Equal(base, left):
		return right, true
	case bytes.Equal(left, right):
		return left, true
	default:
		return nil, false
	}
}
