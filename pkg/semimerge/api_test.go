package semimerge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMergeFilesFastForwardWritesOutput(t *testing.T) {
	dir := t.TempDir()
	leftPath := filepath.Join(dir, "left.txt")
	basePath := filepath.Join(dir, "base.txt")
	rightPath := filepath.Join(dir, "right.txt")
	outPath := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(leftPath, []byte("left change\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(basePath, []byte("base\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rightPath, []byte("base\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, err := MergeFiles(leftPath, basePath, rightPath, outPath, DefaultConfig())
	if err != nil {
		t.Fatalf("MergeFiles: %v", err)
	}
	if !ctx.FastForward {
		t.Error("expected fast-forward")
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "left change\n" {
		t.Errorf("got %q", got)
	}
}

func TestMergeFilesMissingSideTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	leftPath := filepath.Join(dir, "left.txt")
	if err := os.WriteFile(leftPath, []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, err := MergeFiles(leftPath, "", "", "", DefaultConfig())
	if err != nil {
		t.Fatalf("MergeFiles: %v", err)
	}
	// base == right == "" (absent), so left fast-forwards.
	if !ctx.FastForward {
		t.Error("expected fast-forward when base and right are both absent")
	}
	if string(ctx.Output) != "hello\n" {
		t.Errorf("got %q", ctx.Output)
	}
}

func TestMergeDirectoriesUnionsRelativePaths(t *testing.T) {
	dir := t.TempDir()
	leftDir := filepath.Join(dir, "left")
	baseDir := filepath.Join(dir, "base")
	rightDir := filepath.Join(dir, "right")
	for _, d := range []string{leftDir, baseDir, rightDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	write := func(dir, name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(leftDir, "a.txt", "same\n")
	write(baseDir, "a.txt", "same\n")
	write(rightDir, "a.txt", "same\n")
	write(leftDir, "only-left.txt", "new file\n")

	results, err := MergeDirectories(leftDir, baseDir, rightDir, "", DefaultConfig(), 2)
	if err != nil {
		t.Fatalf("MergeDirectories: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 relative paths, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: unexpected error: %v", r.RelPath, r.Err)
		}
	}
}
