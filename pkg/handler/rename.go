package handler

import (
	"fmt"
	"strings"

	"github.com/odvcencio/synmerge/pkg/decltree"
	"github.com/odvcencio/synmerge/pkg/linemerge"
	"github.com/odvcencio/synmerge/pkg/semimerge"
	"github.com/odvcencio/synmerge/pkg/similarity"
)

// RenamingDeletionHandler is the method/constructor renaming &
// deletion handler (§4.6) — the hardest subsystem. Tree superimposition
// sees a rename as a deletion on one side paired with an unrelated
// addition on the other; this handler recovers the connection via
// cross-tree similarity matching and applies the configured strategy.
type RenamingDeletionHandler struct{}

func (RenamingDeletionHandler) Name() string {
	return "MethodAndConstructorRenamingAndDeletion"
}

// renameState is one of the handler's terminal classification states
// (§4.6's state machine), excluding IGNORED — IGNORED base nodes never
// enter the scenario-tuple pipeline at all.
type renameState int

const (
	benignRename renameState = iota
	conflictState
	doubleConflictState
)

func (s renameState) String() string {
	switch s {
	case benignRename:
		return "benign_rename"
	case conflictState:
		return "conflict"
	case doubleConflictState:
		return "double_conflict"
	default:
		return "unknown"
	}
}

func (h RenamingDeletionHandler) Handle(ctx *semimerge.Context) error {
	if !ctx.Config.HandleMethodAndConstructorRenamingDeletion {
		return nil
	}
	if ctx.BaseTree == nil || ctx.LeftTree == nil || ctx.RightTree == nil || ctx.SuperTree == nil {
		return nil
	}

	leftAdded := filterMethodsAndConstructors(ctx.AddedLeftNodes, ctx.SuperTree)
	rightAdded := filterMethodsAndConstructors(ctx.AddedRightNodes, ctx.SuperTree)
	seen := map[string]bool{}

	for _, bid := range filterMethodsAndConstructors(decltree.CollectTerminals(ctx.BaseTree, ctx.BaseTree.Root), ctx.BaseTree) {
		bn := ctx.BaseTree.Node(bid)

		leftPresent := decltree.IsInTree(ctx.LeftTree, ctx.LeftTree.Root, bn.Identifier)
		rightPresent := decltree.IsInTree(ctx.RightTree, ctx.RightTree.Root, bn.Identifier)
		if leftPresent && rightPresent {
			continue // IGNORED: superimposition already handled this node
		}

		leftMatch := decltree.NoNode
		rightMatch := decltree.NoNode

		if !leftPresent {
			leftMatch = mostAccurate(ctx.Config, bn, leftAdded, ctx.SuperTree)
			h.classify(ctx, semimerge.Left, bid, bn, leftMatch)
		}
		if !rightPresent {
			rightMatch = mostAccurate(ctx.Config, bn, rightAdded, ctx.SuperTree)
			h.classify(ctx, semimerge.Right, bid, bn, rightMatch)
		}

		if leftMatch == decltree.NoNode && rightMatch == decltree.NoNode {
			continue // discarded: no recoverable match on either side
		}

		dedupKey := fmt.Sprintf("%d|%d|%d", leftMatch, bid, rightMatch)
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true

		mergeMatch := leftMatch
		if mergeMatch == decltree.NoNode {
			mergeMatch = rightMatch
		}

		state := classifyState(leftPresent, rightPresent,
			leftPresent && bodyChanged(bn, ctx.LeftTree),
			rightPresent && bodyChanged(bn, ctx.RightTree))

		ctx.Incr(state.String())
		if state == benignRename {
			if err := h.removeStaleBaseNode(ctx, bn.Identifier, mergeMatch); err != nil {
				return err
			}
			continue
		}
		if err := h.applyStrategy(ctx, bn, leftMatch, rightMatch, mergeMatch, leftPresent, rightPresent); err != nil {
			return err
		}
	}
	return nil
}

// resolvedBody returns the text a side contributed to a scenario
// tuple: the matched added node's body if a rename was recovered, or
// (when the side never lost the base identifier) the identifier's own
// surviving body in the superimposed tree — which already holds that
// side's in-place edit, per §4.3's base+one-side-only matching rule.
func resolvedBody(ctx *semimerge.Context, match decltree.NodeID, present bool, identifier string) (string, bool) {
	if n := ctx.SuperTree.Node(match); n != nil {
		return n.Body, true
	}
	if present {
		if id := decltree.RetrieveCorrespondent(ctx.SuperTree, ctx.SuperTree.Root, identifier); id != decltree.NoNode {
			return ctx.SuperTree.Node(id).Body, true
		}
	}
	return "", false
}

// classify runs the identification phase (§4.6a) for one side and
// records the result in the context's classification buckets.
func (h RenamingDeletionHandler) classify(ctx *semimerge.Context, side semimerge.Side, baseID decltree.NodeID, bn *decltree.Node, match decltree.NodeID) {
	record := semimerge.RenameRecord{Side: side, BaseNode: baseID}
	if node := ctx.SuperTree.Node(match); node != nil && similarity.HaveEqualBody(declOf(bn), declOf(node), ctx.Config.IgnoreWhitespaceChange) {
		ctx.RenamedWithoutBodyChanges = append(ctx.RenamedWithoutBodyChanges, record)
	} else {
		ctx.DeletedOrRenamedWithBodyChanges = append(ctx.DeletedOrRenamedWithBodyChanges, record)
	}
}

// classifyState applies the state machine's second stage: given which
// sides still hold the base identifier and whether an in-place edit
// happened on a present side, pick BENIGN_RENAME / CONFLICT /
// DOUBLE_CONFLICT.
func classifyState(leftPresent, rightPresent, leftEdited, rightEdited bool) renameState {
	switch {
	case !leftPresent && !rightPresent:
		return doubleConflictState
	case !leftPresent && rightPresent:
		if rightEdited {
			return conflictState
		}
		return benignRename
	case leftPresent && !rightPresent:
		if leftEdited {
			return conflictState
		}
		return benignRename
	default:
		return benignRename // unreachable: leftPresent && rightPresent is filtered out earlier
	}
}

// removeStaleBaseNode deletes the surviving base-identifier copy from
// the superimposed tree once its rename has been recovered elsewhere,
// unless that copy is itself the resolution target.
func (h RenamingDeletionHandler) removeStaleBaseNode(ctx *semimerge.Context, identifier string, mergeMatch decltree.NodeID) error {
	stale := decltree.RetrieveCorrespondent(ctx.SuperTree, ctx.SuperTree.Root, identifier)
	if stale == decltree.NoNode || stale == mergeMatch {
		return nil
	}
	if n := ctx.SuperTree.Node(stale); n != nil {
		ctx.SuperTree.RemoveChild(n.Parent, stale)
	}
	return nil
}

// removeOtherMatch deletes leftMatch or rightMatch from the
// superimposed tree when it isn't mergeMatch — when both sides renamed
// the base declaration to two different new names (or to the same new
// name via two distinct sibling copies), only mergeMatch ends up
// holding the resolved conflict/merge; the match that lost the
// selection would otherwise survive as an unresolved duplicate sibling.
func (h RenamingDeletionHandler) removeOtherMatch(ctx *semimerge.Context, mergeMatch, leftMatch, rightMatch decltree.NodeID) {
	other := rightMatch
	if mergeMatch == rightMatch {
		other = leftMatch
	}
	if other == decltree.NoNode || other == mergeMatch {
		return
	}
	if n := ctx.SuperTree.Node(other); n != nil {
		ctx.SuperTree.RemoveChild(n.Parent, other)
	}
}

func (h RenamingDeletionHandler) applyStrategy(ctx *semimerge.Context, baseNode *decltree.Node, leftMatch, rightMatch, mergeMatch decltree.NodeID, leftPresent, rightPresent bool) error {
	switch ctx.Config.RenamingStrategy {
	case semimerge.KeepBoth:
		return nil // both sides' versions already coexist in the superimposed tree
	case semimerge.Merge:
		return h.applyMerge(ctx, baseNode, leftMatch, rightMatch, mergeMatch, leftPresent, rightPresent)
	case semimerge.UnstructuredMerge:
		return h.applyUnstructured(ctx, baseNode, leftMatch, rightMatch, mergeMatch)
	default:
		return h.applySafe(ctx, baseNode, leftMatch, rightMatch, mergeMatch, leftPresent, rightPresent)
	}
}

func (h RenamingDeletionHandler) applySafe(ctx *semimerge.Context, baseNode *decltree.Node, leftMatch, rightMatch, mergeMatch decltree.NodeID, leftPresent, rightPresent bool) error {
	leftBody, _ := resolvedBody(ctx, leftMatch, leftPresent, baseNode.Identifier)
	rightBody, _ := resolvedBody(ctx, rightMatch, rightPresent, baseNode.Identifier)

	var b strings.Builder
	b.WriteString("<<<<<<< MINE\n")
	b.WriteString(leftBody)
	b.WriteString("||||||| BASE\n")
	b.WriteString(baseNode.Body)
	if !strings.HasSuffix(baseNode.Body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("=======\n")
	b.WriteString(rightBody)
	b.WriteString(">>>>>>> YOURS\n")

	if n := ctx.SuperTree.Node(mergeMatch); n != nil {
		n.Body = b.String()
	}
	h.removeOtherMatch(ctx, mergeMatch, leftMatch, rightMatch)
	return h.removeStaleBaseNode(ctx, baseNode.Identifier, mergeMatch)
}

func (h RenamingDeletionHandler) applyMerge(ctx *semimerge.Context, baseNode *decltree.Node, leftMatch, rightMatch, mergeMatch decltree.NodeID, leftPresent, rightPresent bool) error {
	ln := ctx.SuperTree.Node(leftMatch)
	rn := ctx.SuperTree.Node(rightMatch)

	if ln != nil && rn != nil && ln.Identifier != rn.Identifier {
		return h.applySafe(ctx, baseNode, leftMatch, rightMatch, mergeMatch, leftPresent, rightPresent) // both renamed to different names
	}

	// A side with neither a recovered rename match nor a surviving
	// in-place edit contributes an empty body: that side deleted the
	// declaration outright, and a three-way merge treats a deletion as
	// an edit to "".
	leftBody, _ := resolvedBody(ctx, leftMatch, leftPresent, baseNode.Identifier)
	rightBody, _ := resolvedBody(ctx, rightMatch, rightPresent, baseNode.Identifier)

	merged, _, err := linemerge.Merge(leftBody, baseNode.Body, rightBody, ctx.Config.IgnoreWhitespaceChange)
	if err != nil {
		return &semimerge.TextualMergeError{Err: err}
	}
	if target := ctx.SuperTree.Node(mergeMatch); target != nil {
		target.Body = merged
	}
	h.removeOtherMatch(ctx, mergeMatch, leftMatch, rightMatch)
	return h.removeStaleBaseNode(ctx, baseNode.Identifier, mergeMatch)
}

func (h RenamingDeletionHandler) applyUnstructured(ctx *semimerge.Context, baseNode *decltree.Node, leftMatch, rightMatch, mergeMatch decltree.NodeID) error {
	hunk := extractHunk(ctx.UnstructuredOutput, baseNode.Signature)
	if hunk == "" {
		return nil
	}
	if n := ctx.SuperTree.Node(mergeMatch); n != nil {
		n.Body = hunk
	}
	h.removeOtherMatch(ctx, mergeMatch, leftMatch, rightMatch)
	return h.removeStaleBaseNode(ctx, baseNode.Identifier, mergeMatch)
}

// extractHunk locates signature in text and returns the brace-balanced
// region starting there, bracketing the base declaration the way
// §4.10's UNSTRUCTURED_MERGE strategy requires.
func extractHunk(text, signature string) string {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ""
	}
	idx := strings.Index(text, signature)
	if idx < 0 {
		return ""
	}
	depth := 0
	started := false
	end := len(text)
	for i := idx; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
			started = true
		case '}':
			depth--
			if started && depth == 0 {
				end = i + 1
				return text[idx:end]
			}
		}
	}
	return text[idx:end]
}

// mostAccurate returns the rename candidate for baseNode among
// candidates (a contribution's added method/constructor nodes).
// Default behavior returns the first in traversal order that is "very
// similar" (§4.6b); Config.StrictMostSimilar switches to the
// highest-similarity candidate instead (§9's Open Question).
func mostAccurate(cfg semimerge.Config, baseNode *decltree.Node, candidates []decltree.NodeID, tree *decltree.Tree) decltree.NodeID {
	if !cfg.StrictMostSimilar {
		for _, c := range candidates {
			cn := tree.Node(c)
			if cn != nil && similarity.VerySimilar(declOf(baseNode), declOf(cn)) {
				return c
			}
		}
		return decltree.NoNode
	}

	best := decltree.NoNode
	bestRatio := -1.0
	for _, c := range candidates {
		cn := tree.Node(c)
		if cn == nil || !similarity.VerySimilar(declOf(baseNode), declOf(cn)) {
			continue
		}
		if r := similarity.Ratio(baseNode.Body, cn.Body); r > bestRatio {
			bestRatio = r
			best = c
		}
	}
	return best
}

func filterMethodsAndConstructors(ids []decltree.NodeID, t *decltree.Tree) []decltree.NodeID {
	var out []decltree.NodeID
	for _, id := range ids {
		n := t.Node(id)
		if n == nil {
			continue
		}
		if n.Kind == decltree.KindMethod || n.Kind == decltree.KindConstructor {
			out = append(out, id)
		}
	}
	return out
}

// bodyChanged reports whether the node baseNode's identifier
// correspondent in contribTree has a different body — a plain
// in-place edit, as opposed to a rename or deletion.
func bodyChanged(baseNode *decltree.Node, contribTree *decltree.Tree) bool {
	cid := decltree.RetrieveCorrespondent(contribTree, contribTree.Root, baseNode.Identifier)
	if cid == decltree.NoNode {
		return false
	}
	cn := contribTree.Node(cid)
	return cn.Body != baseNode.Body
}
