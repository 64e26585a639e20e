// Package diff3 implements the line-level three-way merge engine that
// backs synmerge's textual merge contract (pkg/linemerge): a Myers diff
// between base and each side, reconciled hunk-by-hunk. It has no notion
// of declarations or bodies — callers decide whether a Result's hunks
// describe an entire file (the driver's up-front unstructured pass) or
// a single terminal's opaque body (a matched leaf's body merge).
package diff3

import (
	"bytes"
	"strings"
)

// HunkType classifies a hunk in a three-way merge result.
type HunkType int

const (
	HunkClean    HunkType = iota // Hunk was merged cleanly.
	HunkConflict                 // Hunk has a conflict that requires manual resolution.
)

// Hunk represents a contiguous section of the merge output, in terms of
// the base region it replaces and what each side contributed.
type Hunk struct {
	Type                      HunkType
	Base, Left, Right, Merged []byte
}

// Result holds the outcome of a three-way merge. Merged carries this
// package's own default conflict rendering; callers that need a
// different marker vocabulary (pkg/linemerge does, to match spec §6's
// MINE/BASE/YOURS format) should walk Hunks and render their own
// conflict blocks instead of using Merged directly.
type Result struct {
	Merged       []byte
	HasConflicts bool
	Hunks        []Hunk
}

// DiffLine is a single line in the output of LineDiff.
type DiffLine struct {
	Type    DiffType
	Content string
}

// LineDiff computes a line-level diff between byte slices a and b, for
// display purposes (e.g. a `diff` subcommand or a conflict summary).
func LineDiff(a, b []byte) []DiffLine {
	aLines := splitLines(string(a))
	bLines := splitLines(string(b))

	ops := MyersDiff(aLines, bLines)

	result := make([]DiffLine, len(ops))
	for i, op := range ops {
		result[i] = DiffLine{Type: op.Type, Content: op.Line}
	}
	return result
}

// Merge performs a three-way merge of base, left, and right.
//
// Algorithm:
//  1. Split base, left, right into lines.
//  2. Compute diff(base, left) and diff(base, right).
//  3. Convert each diff into a sequence of "chunks" — contiguous runs of
//     unchanged or changed regions relative to the base.
//  4. Walk through base lines, consulting both chunk sequences to decide
//     how each base region is handled.
//  5. When both sides change the same base region differently, emit a conflict.
func Merge(base, left, right []byte) Result {
	baseLines := splitLines(string(base))
	leftLines := splitLines(string(left))
	rightLines := splitLines(string(right))

	leftChunks := buildChunks(baseLines, leftLines)
	rightChunks := buildChunks(baseLines, rightLines)

	return mergeChunks(baseLines, leftChunks, rightChunks)
}

// splitLines splits s into lines. A trailing newline does not produce
// an extra empty element (matching standard text file conventions).
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// chunk represents a contiguous region relative to the base.
type chunk struct {
	baseStart, baseEnd int      // range [baseStart, baseEnd) in base
	lines              []string // replacement lines for this region
	changed            bool     // true if this region differs from base
}

// buildChunks converts a two-way diff (base → side) into a list of chunks.
// Each chunk covers a contiguous range of base lines and carries the
// corresponding replacement lines from the side.
func buildChunks(base, side []string) []chunk {
	ops := MyersDiff(base, side)

	var chunks []chunk
	baseIdx := 0

	i := 0
	for i < len(ops) {
		op := ops[i]

		if op.Type == Equal {
			chunks = append(chunks, chunk{
				baseStart: baseIdx,
				baseEnd:   baseIdx + 1,
				lines:     []string{op.Line},
				changed:   false,
			})
			baseIdx++
			i++
			continue
		}

		chunkStart := baseIdx
		var sideLines []string

		for i < len(ops) && ops[i].Type != Equal {
			if ops[i].Type == Delete {
				baseIdx++
			} else { // Insert
				sideLines = append(sideLines, ops[i].Line)
			}
			i++
		}

		chunks = append(chunks, chunk{
			baseStart: chunkStart,
			baseEnd:   baseIdx,
			lines:     sideLines,
			changed:   true,
		})
	}

	return chunks
}

// mergeChunks walks two chunk sequences (left and right) in parallel,
// aligned by base-line positions, to produce the merge result.
func mergeChunks(baseLines []string, leftChunks, rightChunks []chunk) Result {
	var merged bytes.Buffer
	var hunks []Hunk
	hasConflicts := false

	li := 0 // index into leftChunks
	ri := 0 // index into rightChunks

	for li < len(leftChunks) || ri < len(rightChunks) {
		var lc, rc *chunk
		if li < len(leftChunks) {
			lc = &leftChunks[li]
		}
		if ri < len(rightChunks) {
			rc = &rightChunks[ri]
		}

		if lc == nil {
			writeChunk(&merged, rc)
			hunks = append(hunks, makeCleanHunk(baseLines, rc, false))
			ri++
			continue
		}
		if rc == nil {
			writeChunk(&merged, lc)
			hunks = append(hunks, makeCleanHunk(baseLines, lc, true))
			li++
			continue
		}

		if lc.baseStart == rc.baseStart && lc.baseEnd == rc.baseEnd {
			switch {
			case !lc.changed && !rc.changed:
				writeChunk(&merged, lc)
				hunks = append(hunks, makeCleanHunk(baseLines, lc, true))
			case lc.changed && !rc.changed:
				writeChunk(&merged, lc)
				hunks = append(hunks, makeCleanHunk(baseLines, lc, true))
			case !lc.changed && rc.changed:
				writeChunk(&merged, rc)
				hunks = append(hunks, makeCleanHunk(baseLines, rc, false))
			default:
				if linesEqual(lc.lines, rc.lines) {
					writeChunk(&merged, lc)
					hunks = append(hunks, makeCleanHunk(baseLines, lc, true))
				} else {
					hasConflicts = true
					writeConflict(&merged, lc.lines, rc.lines)
					hunks = append(hunks, makeConflictHunk(baseLines, lc, rc))
				}
			}
			li++
			ri++
			continue
		}

		// Chunks are misaligned: one side's change spans multiple
		// base-aligned chunks on the other side. Gather every chunk
		// overlapping the combined region from both sides before deciding.
		regionStart := min(lc.baseStart, rc.baseStart)
		regionEnd := max(lc.baseEnd, rc.baseEnd)

		var leftRegion []chunk
		for li < len(leftChunks) && leftChunks[li].baseStart < regionEnd {
			leftRegion = append(leftRegion, leftChunks[li])
			if leftChunks[li].baseEnd > regionEnd {
				regionEnd = leftChunks[li].baseEnd
			}
			li++
		}

		var rightRegion []chunk
		for ri < len(rightChunks) && rightChunks[ri].baseStart < regionEnd {
			rightRegion = append(rightRegion, rightChunks[ri])
			if rightChunks[ri].baseEnd > regionEnd {
				regionEnd = rightChunks[ri].baseEnd
			}
			ri++
		}

		leftOut := assembleRegion(leftRegion)
		rightOut := assembleRegion(rightRegion)
		anyLeftChanged := anyChanged(leftRegion)
		anyRightChanged := anyChanged(rightRegion)

		baseRegion := baseLines[regionStart:regionEnd]

		switch {
		case !anyLeftChanged && !anyRightChanged:
			writeLines(&merged, baseRegion)
			hunks = append(hunks, Hunk{
				Type:   HunkClean,
				Base:   joinLines(baseRegion),
				Merged: joinLines(baseRegion),
			})
		case anyLeftChanged && !anyRightChanged:
			writeLines(&merged, leftOut)
			hunks = append(hunks, Hunk{
				Type:   HunkClean,
				Base:   joinLines(baseRegion),
				Left:   joinLines(leftOut),
				Merged: joinLines(leftOut),
			})
		case !anyLeftChanged && anyRightChanged:
			writeLines(&merged, rightOut)
			hunks = append(hunks, Hunk{
				Type:   HunkClean,
				Base:   joinLines(baseRegion),
				Right:  joinLines(rightOut),
				Merged: joinLines(rightOut),
			})
		default:
			if linesEqual(leftOut, rightOut) {
				writeLines(&merged, leftOut)
				hunks = append(hunks, Hunk{
					Type:   HunkClean,
					Base:   joinLines(baseRegion),
					Left:   joinLines(leftOut),
					Merged: joinLines(leftOut),
				})
			} else {
				hasConflicts = true
				writeConflict(&merged, leftOut, rightOut)
				hunks = append(hunks, Hunk{
					Type:  HunkConflict,
					Base:  joinLines(baseRegion),
					Left:  joinLines(leftOut),
					Right: joinLines(rightOut),
				})
			}
		}
	}

	return Result{
		Merged:       merged.Bytes(),
		HasConflicts: hasConflicts,
		Hunks:        hunks,
	}
}

func writeChunk(buf *bytes.Buffer, c *chunk) {
	writeLines(buf, c.lines)
}

func writeLines(buf *bytes.Buffer, lines []string) {
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
}

func writeConflict(buf *bytes.Buffer, leftLines, rightLines []string) {
	buf.WriteString("<<<<<<< LEFT\n")
	writeLines(buf, leftLines)
	buf.WriteString("=======\n")
	writeLines(buf, rightLines)
	buf.WriteString(">>>>>>> RIGHT\n")
}

func makeCleanHunk(baseLines []string, c *chunk, isLeft bool) Hunk {
	h := Hunk{
		Type:   HunkClean,
		Merged: joinLines(c.lines),
	}
	if c.baseStart < c.baseEnd {
		h.Base = joinLines(baseLines[c.baseStart:c.baseEnd])
	}
	if c.changed {
		if isLeft {
			h.Left = joinLines(c.lines)
		} else {
			h.Right = joinLines(c.lines)
		}
	}
	return h
}

func makeConflictHunk(baseLines []string, lc, rc *chunk) Hunk {
	h := Hunk{
		Type:  HunkConflict,
		Left:  joinLines(lc.lines),
		Right: joinLines(rc.lines),
	}
	if lc.baseStart < lc.baseEnd {
		h.Base = joinLines(baseLines[lc.baseStart:lc.baseEnd])
	}
	return h
}

func joinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	var buf bytes.Buffer
	writeLines(&buf, lines)
	return buf.Bytes()
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func assembleRegion(chunks []chunk) []string {
	var lines []string
	for _, c := range chunks {
		lines = append(lines, c.lines...)
	}
	return lines
}

func anyChanged(chunks []chunk) bool {
	for _, c := range chunks {
		if c.changed {
			return true
		}
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
