package semimerge

import "github.com/odvcencio/synmerge/pkg/decltree"

// Side identifies which contribution a record belongs to.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// RenameRecord names a base node classified as renamed-or-deleted on
// one side by the identification phase (§4.6a).
type RenameRecord struct {
	Side     Side
	BaseNode decltree.NodeID
}

// Context is the per-merge working state threaded through the
// pipeline and mutated, in order, by each enabled handler. All node
// references here are non-owning views into LeftTree/BaseTree/
// RightTree/SuperTree, which remain the sole owners of their arenas.
type Context struct {
	Path   string
	Config Config

	LeftTree, BaseTree, RightTree *decltree.Tree
	SuperTree                     *decltree.Tree

	AddedLeftNodes  []decltree.NodeID
	AddedRightNodes []decltree.NodeID

	// Filled by the renaming/deletion handler's identification phase.
	RenamedWithoutBodyChanges       []RenameRecord
	DeletedOrRenamedWithBodyChanges []RenameRecord

	// Line-based merge of the raw file, computed up front (§4.10) so
	// UNSTRUCTURED_MERGE and diagnostics can consult it without
	// re-running diff3.
	UnstructuredOutput       string
	UnstructuredHasConflicts bool

	// Set when a collaborator ParseError forced a fallback to
	// UnstructuredOutput instead of the semistructured path.
	ParseFallback bool
	ParseErr      error

	// Final result, populated once the pipeline completes.
	Output       []byte
	HasConflicts bool
	FastForward  bool

	// Diagnostic counters per conflict kind (e.g. "benign_rename",
	// "conflict", "duplicate_collapsed").
	Counters map[string]int
}

// Incr bumps a named diagnostic counter by one.
func (c *Context) Incr(kind string) {
	if c.Counters == nil {
		c.Counters = map[string]int{}
	}
	c.Counters[kind]++
}
