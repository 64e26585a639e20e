// Public Core API (§6): MergeFiles, MergeDirectories, MergeRevisions.
package semimerge

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// readOrEmpty reads path, treating a missing file as an empty input
// (§6: "any of left/base/right may be absent").
func readOrEmpty(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &InputError{Msg: err.Error()}
	}
	return data, nil
}

// MergeFiles merges three file paths (any may be empty, meaning
// absent) with cfg and returns the resulting Context. output is
// advisory: when non-empty it is also written to disk.
func MergeFiles(leftPath, basePath, rightPath, output string, cfg Config) (*Context, error) {
	left, err := readOrEmpty(leftPath)
	if err != nil {
		return nil, err
	}
	base, err := readOrEmpty(basePath)
	if err != nil {
		return nil, err
	}
	right, err := readOrEmpty(rightPath)
	if err != nil {
		return nil, err
	}

	name := firstNonEmpty(leftPath, basePath, rightPath)
	ctx, err := RunFile(name, left, base, right, cfg, nil)
	if err != nil {
		return nil, err
	}

	if output != "" {
		if err := os.WriteFile(output, ctx.Output, 0o644); err != nil {
			return nil, &InputError{Msg: err.Error()}
		}
	}
	return ctx, nil
}

func firstNonEmpty(paths ...string) string {
	for _, p := range paths {
		if p != "" {
			return p
		}
	}
	return ""
}

// DirectoryResult pairs a relative path with its merge outcome;
// Err is set when that single file's merge failed fatally (the
// directory-level merge continues with the rest, per §7).
type DirectoryResult struct {
	RelPath string
	Context *Context
	Err     error
}

// MergeDirectories merges every file found (by relative path union)
// across leftDir/baseDir/rightDir, fanning out across a bounded
// worker pool (§5: "may be parallelized by the caller across files").
// Missing paths on a side are treated as empty, per MergeFiles.
func MergeDirectories(leftDir, baseDir, rightDir, outputDir string, cfg Config, concurrency int) ([]DirectoryResult, error) {
	relPaths, err := unionRelativePaths(leftDir, baseDir, rightDir)
	if err != nil {
		return nil, err
	}

	results := make([]DirectoryResult, len(relPaths))
	if concurrency <= 0 {
		concurrency = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, rel := range relPaths {
		i, rel := i, rel
		g.Go(func() error {
			leftPath := joinIfExists(leftDir, rel)
			basePath := joinIfExists(baseDir, rel)
			rightPath := joinIfExists(rightDir, rel)

			var out string
			if outputDir != "" {
				out = filepath.Join(outputDir, rel)
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					results[i] = DirectoryResult{RelPath: rel, Err: &InputError{Msg: err.Error()}}
					return nil
				}
			}

			ctx, err := MergeFiles(leftPath, basePath, rightPath, out, cfg)
			results[i] = DirectoryResult{RelPath: rel, Context: ctx, Err: err}
			return nil // per-file errors are collected, not propagated — directory merges continue (§7)
		})
	}
	// g.Wait() only returns non-nil if a Go func itself returns an
	// error, which none of ours do; per-file failures live in results.
	_ = g.Wait()

	return results, nil
}

func joinIfExists(dir, rel string) string {
	if dir == "" {
		return ""
	}
	p := filepath.Join(dir, rel)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func unionRelativePaths(dirs ...string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			if !seen[rel] {
				seen[rel] = true
				out = append(out, rel)
			}
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, &InputError{Msg: err.Error()}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Scenario is the result of MergeRevisions: the three resolved
// directory paths plus the per-file merge results.
type Scenario struct {
	LeftDir, BaseDir, RightDir string
	Results                    []DirectoryResult
}

// MergeRevisions reads a 3-line revisions file (left, base, right
// directory paths, in that order) and merges them.
func MergeRevisions(revisionsFilePath string, outputDir string, cfg Config, concurrency int) (*Scenario, error) {
	f, err := os.Open(revisionsFilePath)
	if err != nil {
		return nil, &InputError{Msg: err.Error()}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &InputError{Msg: err.Error()}
	}
	if len(lines) != 3 {
		return nil, &InputError{Msg: fmt.Sprintf("revisions file must list exactly 3 paths, got %d", len(lines))}
	}

	leftDir, baseDir, rightDir := lines[0], lines[1], lines[2]
	results, err := MergeDirectories(leftDir, baseDir, rightDir, outputDir, cfg, concurrency)
	if err != nil {
		return nil, err
	}
	return &Scenario{LeftDir: leftDir, BaseDir: baseDir, RightDir: rightDir, Results: results}, nil
}
