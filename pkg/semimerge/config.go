package semimerge

// RenamingStrategy selects the policy the renaming/deletion handler
// applies to a scenario tuple (§4.6c). The set is closed; dispatch on
// it is a pattern match, never virtual dispatch.
type RenamingStrategy int

const (
	// Safe emits a conflict block listing every non-null contribution
	// instead of guessing.
	Safe RenamingStrategy = iota
	// KeepBoth preserves both the renamed and the edited versions as
	// siblings.
	KeepBoth
	// Merge textually merges a rename against an edit, installing the
	// result under the renamed identifier.
	Merge
	// UnstructuredMerge replaces the affected region with the matching
	// hunk from the up-front line-based merge.
	UnstructuredMerge
)

func (s RenamingStrategy) String() string {
	switch s {
	case Safe:
		return "SAFE"
	case KeepBoth:
		return "KEEP_BOTH"
	case Merge:
		return "MERGE"
	case UnstructuredMerge:
		return "UNSTRUCTURED_MERGE"
	default:
		return "UNKNOWN"
	}
}

// Tau is the fixed similarity threshold; re-exported here so callers
// that only import semimerge can reference it without pulling in
// pkg/similarity directly.
const Tau = 0.7

// Config is the process-wide, immutable-after-construction
// configuration threaded through one merge pipeline run.
type Config struct {
	RenamingStrategy                           RenamingStrategy
	HandleDuplicateDeclarations                bool
	HandleInitializationBlocks                 bool
	HandleNewElementReferencingEditedOne       bool
	HandleMethodAndConstructorRenamingDeletion bool
	HandleTypeAmbiguityError                   bool
	IgnoreWhitespaceChange                     bool

	// StrictMostSimilar switches mostAccurate (§4.6b) from "first
	// similar node in traversal order" to "most similar node" (argmax
	// over Ratio). Off by default to preserve the documented
	// first-match behavior; an explicit opt-in for callers who want the
	// stricter (but traversal-order-dependent-free) semantics.
	StrictMostSimilar bool
}

// DefaultConfig returns every handler enabled, SAFE renaming strategy,
// and whitespace-sensitive comparison.
func DefaultConfig() Config {
	return Config{
		RenamingStrategy:                           Safe,
		HandleDuplicateDeclarations:                 true,
		HandleInitializationBlocks:                  true,
		HandleNewElementReferencingEditedOne:        true,
		HandleMethodAndConstructorRenamingDeletion:  true,
		HandleTypeAmbiguityError:                    true,
	}
}
