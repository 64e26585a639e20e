// Package linemerge implements the body textual-merge contract leaves
// of the declaration tree use (spec §4.2): three-way merge over opaque
// strings, emitting the MINE/BASE/YOURS conflict marker format and
// honoring ignoreWhitespaceChange.
package linemerge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/synmerge/pkg/diff3"
)

// ErrTextualMerge wraps an internal I/O-level failure of the line-merge
// engine. Per spec §7 this is fatal to the enclosing file-merge; the
// textual merge itself never fails on well-formed in-memory input, so
// in practice this wraps unexpected panics recovered at the boundary.
var ErrTextualMerge = errors.New("textual merge error")

// Merge performs a three-way merge of left, base, and right, treating
// each as opaque text. It is idempotent (Merge(x, x, x) == (x, false,
// nil)) and commutative up to marker labels: Merge(a, b, c) and
// Merge(c, b, a) differ only in which block appears under MINE and
// which under YOURS.
//
// When ignoreWhitespace is true, a body that differs from base only in
// whitespace is treated as unchanged on that side before diffing, so a
// reformat-only edit on one side never manufactures a conflict with a
// genuine edit on the other.
func Merge(left, base, right string, ignoreWhitespace bool) (merged string, hasConflicts bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTextualMerge, r)
		}
	}()

	effLeft, effRight := left, right
	if ignoreWhitespace {
		if normalize(left) == normalize(base) {
			effLeft = base
		}
		if normalize(right) == normalize(base) {
			effRight = base
		}
	}

	// A side that matches base (or two sides that agree) leaves nothing
	// to reconcile: return the other side verbatim, so the result keeps
	// its exact text, including a missing trailing newline.
	switch {
	case effLeft == base:
		return effRight, false, nil
	case effRight == base || effLeft == effRight:
		return effLeft, false, nil
	}

	result := diff3.Merge([]byte(base), []byte(effLeft), []byte(effRight))
	if !result.HasConflicts {
		return string(result.Merged), false, nil
	}

	var b strings.Builder
	for _, h := range result.Hunks {
		if h.Type != diff3.HunkConflict {
			b.Write(h.Merged)
			continue
		}
		b.WriteString("<<<<<<< MINE\n")
		b.Write(h.Left)
		b.WriteString("||||||| BASE\n")
		b.Write(h.Base)
		b.WriteString("=======\n")
		b.Write(h.Right)
		b.WriteString(">>>>>>> YOURS\n")
	}
	return b.String(), true, nil
}

// normalize removes all whitespace, for whitespace-insensitive
// comparison.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), "")
}
