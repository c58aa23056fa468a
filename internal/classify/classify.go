// Package classify derives the category and module name of each manifest
// record. Classification is first-match-wins over a fixed rule order, so a
// setup file never gets siloed inside a code module's group: root allowlist,
// then config, then doc, then module by path, then the core fallback.
package classify

import (
	"path"
	"strings"

	"github.com/papapumpkin/supernova/internal/manifest"
)

// CoreModule is the module assigned to root-level code files that have no
// directory to name them.
const CoreModule = "core"

// docMarkers are substrings of a basename that mark a documentation file.
var docMarkers = []string{".md", ".rst", ".txt", "README", "LICENSE", "CHANGELOG"}

// Apply returns a copy of records with Category and Module populated. The
// longest common leading path-segment prefix across all records is stripped
// before module-name derivation, so a change set rooted at "src/pkg/" still
// groups by the segments below it. Input order is preserved.
func Apply(records []manifest.FileRecord) []manifest.FileRecord {
	prefix := commonPrefix(records)

	out := make([]manifest.FileRecord, len(records))
	for i, r := range records {
		r.Category, r.Module = categorize(r, prefix)
		out[i] = r
	}
	return out
}

// categorize applies the ordered classification rules to a single record.
func categorize(r manifest.FileRecord, prefix string) (manifest.Category, string) {
	base := path.Base(r.Path)

	switch {
	case manifest.RootFiles[base]:
		return manifest.CategoryOther, ""
	case manifest.ConfigExtensions[r.Extension] || strings.Contains(strings.ToLower(r.Path), "config"):
		return manifest.CategoryConfig, ""
	case hasDocMarker(base):
		return manifest.CategoryDoc, ""
	}

	rel := r.Path
	if prefix != "" && strings.HasPrefix(rel, prefix) {
		rel = rel[len(prefix):]
	}
	if idx := strings.IndexByte(rel, '/'); idx > 0 {
		return manifest.CategoryModule, rel[:idx]
	}
	if _, ok := manifest.CodeExtensions[r.Extension]; ok {
		return manifest.CategoryModule, CoreModule
	}
	return manifest.CategoryOther, ""
}

// hasDocMarker reports whether the basename contains any doc marker substring.
func hasDocMarker(base string) bool {
	for _, m := range docMarkers {
		if strings.Contains(base, m) {
			return true
		}
	}
	return false
}

// commonPrefix computes the longest common leading path-segment prefix of all
// record paths, including a trailing slash, or "" when the paths diverge at
// the first segment.
func commonPrefix(records []manifest.FileRecord) string {
	if len(records) == 0 {
		return ""
	}
	common := strings.Split(records[0].Path, "/")
	for _, r := range records[1:] {
		parts := strings.Split(r.Path, "/")
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
		if len(common) == 0 {
			return ""
		}
	}
	return strings.Join(common, "/") + "/"
}
