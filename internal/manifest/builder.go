package manifest

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// ignoreDirs lists directory basenames skipped during directory scans:
// version-control metadata, build caches, and dependency directories.
var ignoreDirs = map[string]bool{
	".git":          true,
	".svn":          true,
	".hg":           true,
	"__pycache__":   true,
	"node_modules":  true,
	"venv":          true,
	".venv":         true,
	"env":           true,
	"dist":          true,
	"build":         true,
	".idea":         true,
	".vscode":       true,
	".pytest_cache": true,
	".mypy_cache":   true,
	"__snapshots__": true,
	"vendor":        true,
	"target":        true,
}

// IgnoredDir reports whether a directory basename is skipped during scans.
func IgnoredDir(name string) bool {
	return ignoreDirs[name] || strings.HasSuffix(name, ".egg-info")
}

// DirOptions configures a directory-mode manifest build.
type DirOptions struct {
	// Include restricts the manifest to files matching at least one glob
	// pattern. Empty means include everything recognized.
	Include []string
	// Exclude removes files matching any glob pattern.
	Exclude []string
	// Workers bounds the parallelism of line counting. Zero uses GOMAXPROCS.
	Workers int
	// Warn receives a message per unreadable file. Nil discards warnings.
	Warn func(msg string)
}

// FromDir builds a manifest by recursively scanning root. Ignore directories
// are skipped, include/exclude globs are applied, and each file's size metric
// is a best-effort line count (binary or unreadable files count as 0). The
// returned records are sorted by path, so parallel I/O ordering never leaks
// into downstream output.
func FromDir(root string, opts DirOptions) ([]FileRecord, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, root)
	}

	var paths []string
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil // skip unreadable entries, keep scanning
		}
		name := d.Name()
		if d.IsDir() {
			if p != root && IgnoredDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		ext := strings.ToLower(path.Ext(rel))
		if !Recognized(ext, name) {
			return nil
		}
		if !matchesGlobs(rel, name, opts.Include, true) {
			return nil
		}
		if matchesGlobs(rel, name, opts.Exclude, false) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, walkErr)
	}

	records := make([]FileRecord, len(paths))
	countLinesParallel(root, paths, records, opts)

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// countLinesParallel fills records[i] for each paths[i], reading files with a
// bounded worker pool. Results land at fixed indices so concurrency cannot
// reorder anything.
func countLinesParallel(root string, paths []string, records []FileRecord, opts DirOptions) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		return
	}

	var (
		wg   sync.WaitGroup
		jobs = make(chan int)
		mu   sync.Mutex
	)
	warn := func(msg string) {
		if opts.Warn == nil {
			return
		}
		mu.Lock()
		opts.Warn(msg)
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rel := paths[i]
				lines, err := countLines(filepath.Join(root, filepath.FromSlash(rel)))
				if err != nil {
					warn(fmt.Sprintf("unreadable file %s: %v", rel, err))
					lines = 0
				}
				records[i] = FileRecord{
					Path:       rel,
					Extension:  strings.ToLower(path.Ext(rel)),
					SizeMetric: lines,
				}
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// countLines returns the number of lines in the file at p. Files containing
// NUL bytes are treated as binary and count as 0 lines. A trailing newline
// does not start an extra line.
func countLines(p string) (int, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return 0, nil // binary
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}

// matchesGlobs reports whether rel or its basename matches any pattern.
// Patterns containing a slash match against the full relative path, others
// against the basename. An empty pattern list returns emptyResult.
func matchesGlobs(rel, base string, patterns []string, emptyResult bool) bool {
	if len(patterns) == 0 {
		return emptyResult
	}
	for _, pat := range patterns {
		target := base
		if strings.Contains(pat, "/") {
			target = rel
		}
		if ok, err := path.Match(pat, target); err == nil && ok {
			return true
		}
	}
	return false
}

// ChangeEntry is one externally supplied file change, typically sourced from
// a pull-request diff. SizeMetric becomes additions+deletions.
type ChangeEntry struct {
	Path       string `json:"path" toml:"path"`
	ChangeType string `json:"change_type" toml:"change_type"`
	Additions  int    `json:"additions" toml:"additions"`
	Deletions  int    `json:"deletions" toml:"deletions"`
}

// FromChanges builds a manifest from a change list. An empty list is an
// ErrInvalidSource. Duplicate paths keep the last entry. The returned records
// are sorted by path.
func FromChanges(entries []ChangeEntry) ([]FileRecord, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty change list", ErrInvalidSource)
	}

	byPath := make(map[string]FileRecord, len(entries))
	for _, e := range entries {
		p := strings.TrimPrefix(filepath.ToSlash(e.Path), "./")
		if p == "" {
			continue
		}
		size := e.Additions + e.Deletions
		if size < 0 {
			size = 0
		}
		byPath[p] = FileRecord{
			Path:       p,
			Extension:  strings.ToLower(path.Ext(p)),
			SizeMetric: size,
		}
	}
	if len(byPath) == 0 {
		return nil, fmt.Errorf("%w: change list has no usable paths", ErrInvalidSource)
	}

	records := make([]FileRecord, 0, len(byPath))
	for _, r := range byPath {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}
