package diff3

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// 11. MyersDiff basic test
// ---------------------------------------------------------------------------

func TestMyersDiff_Basic(t *testing.T) {
	a := []string{"a", "b", "c"}
	b := []string{"a", "x", "c"}

	ops := MyersDiff(a, b)

	// We expect: Equal "a", Delete "b", Insert "x", Equal "c"
	wantTypes := []DiffType{Equal, Delete, Insert, Equal}
	wantLines := []string{"a", "b", "x", "c"}

	if len(ops) != len(wantTypes) {
		t.Fatalf("got %d ops, want %d: %v", len(ops), len(wantTypes), ops)
	}
	for i, op := range ops {
		if op.Type != wantTypes[i] || op.Line != wantLines[i] {
			t.Errorf("op[%d] = {%v, %q}, want {%v, %q}",
				i, op.Type, op.Line, wantTypes[i], wantLines[i])
		}
	}
}

func TestMyersDiff_EmptyToNonEmpty(t *testing.T) {
	ops := MyersDiff(nil, []string{"a", "b"})
	for _, op := range ops {
		if op.Type != Insert {
			t.Errorf("expected all Insert ops, got %v", op)
		}
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(ops))
	}
}

func TestMyersDiff_NonEmptyToEmpty(t *testing.T) {
	ops := MyersDiff([]string{"a", "b"}, nil)
	for _, op := range ops {
		if op.Type != Delete {
			t.Errorf("expected all Delete ops, got %v", op)
		}
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(ops))
	}
}

func TestMyersDiff_Identical(t *testing.T) {
	a := []string{"a", "b", "c"}
	ops := MyersDiff(a, a)
	for _, op := range ops {
		if op.Type != Equal {
			t.Errorf("expected all Equal ops, got %v", op)
		}
	}
}

// ---------------------------------------------------------------------------
// 10. LineDiff basic test
// ---------------------------------------------------------------------------

func TestLineDiff_Basic(t *testing.T) {
	a := []byte("hello\nworld\n")
	b := []byte("hello\ngo\n")

	diffs := LineDiff(a, b)

	// Expect: Equal "hello", Delete "world", Insert "go"
	found := map[DiffType]bool{}
	for _, d := range diffs {
		found[d.Type] = true
	}
	if !found[Equal] {
		t.Error("expected at least one Equal line")
	}
	if !found[Delete] {
		t.Error("expected at least one Delete line")
	}
	if !found[Insert] {
		t.Error("expected at least one Insert line")
	}
}

func TestLineDiff_Identical(t *testing.T) {
	a := []byte("same\ncontent\n")
	diffs := LineDiff(a, a)
	for _, d := range diffs {
		if d.Type != Equal {
			t.Errorf("expected all Equal, got type=%v line=%q", d.Type, d.Content)
		}
	}
}

// ---------------------------------------------------------------------------
// 1. Clean merge — left adds lines at top, right adds lines at bottom
// ---------------------------------------------------------------------------

func TestMerge_CleanTopBottom(t *testing.T) {
	base := []byte("line1\nline2\nline3\n")
	left := []byte("new-top\nline1\nline2\nline3\n")
	right := []byte("line1\nline2\nline3\nnew-bottom\n")

	r := Merge(base, left, right)

	if r.HasConflicts {
		t.Fatal("expected clean merge, got conflicts")
	}

	want := "new-top\nline1\nline2\nline3\nnew-bottom\n"
	if string(r.Merged) != want {
		t.Errorf("merged =\n%s\nwant =\n%s", r.Merged, want)
	}
}

// ---------------------------------------------------------------------------
// 2. Left-only change — right unchanged
// ---------------------------------------------------------------------------

func TestMerge_LeftOnly(t *testing.T) {
	base := []byte("aaa\nbbb\nccc\n")
	left := []byte("aaa\nBBB\nccc\n")
	right := []byte("aaa\nbbb\nccc\n") // same as base

	r := Merge(base, left, right)

	if r.HasConflicts {
		t.Fatal("expected clean merge, got conflicts")
	}
	want := "aaa\nBBB\nccc\n"
	if string(r.Merged) != want {
		t.Errorf("merged =\n%s\nwant =\n%s", r.Merged, want)
	}
}

// ---------------------------------------------------------------------------
// 3. Right-only change — left unchanged
// ---------------------------------------------------------------------------

func TestMerge_RightOnly(t *testing.T) {
	base := []byte("aaa\nbbb\nccc\n")
	left := []byte("aaa\nbbb\nccc\n") // same as base
	right := []byte("aaa\nBBB\nccc\n")

	r := Merge(base, left, right)

	if r.HasConflicts {
		t.Fatal("expected clean merge, got conflicts")
	}
	want := "aaa\nBBB\nccc\n"
	if string(r.Merged) != want {
		t.Errorf("merged =\n%s\nwant =\n%s", r.Merged, want)
	}
}

// ---------------------------------------------------------------------------
// 4. Conflict — both change same line differently
// ---------------------------------------------------------------------------

func TestMerge_Conflict(t *testing.T) {
	base := []byte("aaa\nbbb\nccc\n")
	left := []byte("aaa\nLEFT\nccc\n")
	right := []byte("aaa\nRIGHT\nccc\n")

	r := Merge(base, left, right)

	if !r.HasConflicts {
		t.Fatal("expected conflicts, got clean merge")
	}

	// The merged output should contain conflict markers.
	if !bytes.Contains(r.Merged, []byte("<<<<<<<")) {
		t.Error("merged output missing <<<<<<< marker")
	}
	if !bytes.Contains(r.Merged, []byte("=======")) {
		t.Error("merged output missing ======= marker")
	}
	if !bytes.Contains(r.Merged, []byte(">>>>>>>")) {
		t.Error("merged output missing >>>>>>> marker")
	}

	// There should be at least one conflict hunk.
	hasConflictHunk := false
	for _, h := range r.Hunks {
		if h.Type == HunkConflict {
			hasConflictHunk = true
		}
	}
	if !hasConflictHunk {
		t.Error("expected at least one HunkConflict in Hunks")
	}
}

// ---------------------------------------------------------------------------
// 5. Both make identical change — no conflict
// ---------------------------------------------------------------------------

func TestMerge_IdenticalChange(t *testing.T) {
	base := []byte("aaa\nbbb\nccc\n")
	left := []byte("aaa\nSAME\nccc\n")
	right := []byte("aaa\nSAME\nccc\n")

	r := Merge(base, left, right)

	if r.HasConflicts {
		t.Fatal("expected clean merge when both sides make the same change")
	}
	want := "aaa\nSAME\nccc\n"
	if string(r.Merged) != want {
		t.Errorf("merged =\n%s\nwant =\n%s", r.Merged, want)
	}
}

// ---------------------------------------------------------------------------
// 6. Non-overlapping inserts in different parts of file — clean merge
// ---------------------------------------------------------------------------

func TestMerge_NonOverlappingInserts(t *testing.T) {
	base := []byte("aaa\nbbb\nccc\nddd\neee\n")
	left := []byte("aaa\nLEFT-INSERT\nbbb\nccc\nddd\neee\n")
	right := []byte("aaa\nbbb\nccc\nddd\nRIGHT-INSERT\neee\n")

	r := Merge(base, left, right)

	if r.HasConflicts {
		t.Fatalf("expected clean merge, got conflicts:\n%s", r.Merged)
	}

	want := "aaa\nLEFT-INSERT\nbbb\nccc\nddd\nRIGHT-INSERT\neee\n"
	if string(r.Merged) != want {
		t.Errorf("merged =\n%s\nwant =\n%s", r.Merged, want)
	}
}

// ---------------------------------------------------------------------------
// 7. Delete vs modify — conflict
// ---------------------------------------------------------------------------

func TestMerge_DeleteVsModify(t *testing.T) {
	base := []byte("aaa\nbbb\nccc\n")
	left := []byte("aaa\nccc\n")            // deleted "bbb"
	right := []byte("aaa\nBBB-MOD\nccc\n") // modified "bbb"

	r := Merge(base, left, right)

	if !r.HasConflicts {
		t.Fatal("expected conflict when one side deletes and the other modifies")
	}
}

// ---------------------------------------------------------------------------
// 8. Empty inputs
// ---------------------------------------------------------------------------

func TestMerge_EmptyBase(t *testing.T) {
	base := []byte("")
	left := []byte("hello\n")
	right := []byte("world\n")

	r := Merge(base, left, right)

	// Both sides added content to an empty base — this is a conflict
	// since both inserted at the same position.
	if !r.HasConflicts {
		t.Fatal("expected conflict when both sides add to empty base")
	}
}

func TestMerge_EmptyLeft(t *testing.T) {
	base := []byte("aaa\nbbb\n")
	left := []byte("")
	right := []byte("aaa\nbbb\n") // same as base

	r := Merge(base, left, right)

	if r.HasConflicts {
		t.Fatal("expected clean merge")
	}
	// Left deleted everything, right unchanged → take left.
	if string(r.Merged) != "" {
		t.Errorf("merged = %q, want empty", r.Merged)
	}
}

func TestMerge_EmptyRight(t *testing.T) {
	base := []byte("aaa\nbbb\n")
	left := []byte("aaa\nbbb\n") // same as base
	right := []byte("")

	r := Merge(base, left, right)

	if r.HasConflicts {
		t.Fatal("expected clean merge")
	}
	if string(r.Merged) != "" {
		t.Errorf("merged = %q, want empty", r.Merged)
	}
}

func TestMerge_AllEmpty(t *testing.T) {
	r := Merge([]byte{}, []byte{}, []byte{})
	if r.HasConflicts {
		t.Fatal("expected clean merge for all-empty inputs")
	}
	if len(r.Merged) != 0 {
		t.Errorf("expected empty merged, got %q", r.Merged)
	}
}

// ---------------------------------------------------------------------------
// 9. Large file performance sanity check
// ---------------------------------------------------------------------------

func TestMerge_LargeFile(t *testing.T) {
	var baseBuf, leftBuf, rightBuf strings.Builder
	const n = 2000

	for i := 0; i < n; i++ {
		line := fmt.Sprintf("line-%04d\n", i)
		baseBuf.WriteString(line)
		leftBuf.WriteString(line)
		rightBuf.WriteString(line)
	}

	// Left changes line 100.
	leftLines := strings.Split(leftBuf.String(), "\n")
	leftLines[100] = "LEFT-CHANGED"
	leftContent := []byte(strings.Join(leftLines, "\n"))

	// Right changes line 1900.
	rightLines := strings.Split(rightBuf.String(), "\n")
	rightLines[1900] = "RIGHT-CHANGED"
	rightContent := []byte(strings.Join(rightLines, "\n"))

	base := []byte(baseBuf.String())

	start := time.Now()
	r := Merge(base, leftContent, rightContent)
	elapsed := time.Since(start)

	if r.HasConflicts {
		t.Fatal("expected clean merge for non-overlapping changes")
	}

	if elapsed > 5*time.Second {
		t.Fatalf("merge took %v, expected < 5s for %d lines", elapsed, n)
	}

	if !bytes.Contains(r.Merged, []byte("LEFT-CHANGED")) {
		t.Error("merged output missing LEFT-CHANGED")
	}
	if !bytes.Contains(r.Merged, []byte("RIGHT-CHANGED")) {
		t.Error("merged output missing RIGHT-CHANGED")
	}
}
