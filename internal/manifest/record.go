// Package manifest turns a directory tree or an externally supplied change
// list into a normalized, path-sorted sequence of file records. The sorted
// output is the contract that makes everything downstream deterministic:
// categorization and partitioning never observe filesystem enumeration order.
package manifest

import "errors"

// ErrInvalidSource is returned when the input source is unusable: a missing
// or non-directory scan root, or an empty change list.
var ErrInvalidSource = errors.New("invalid manifest source")

// Category classifies a file record for partitioning purposes.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryDoc    Category = "doc"
	CategoryModule Category = "module"
	CategoryOther  Category = "other"
)

// FileRecord holds the planning metadata for a single file. Path is unique
// within a manifest and always slash-separated and relative to the source
// root. Category and Module are derived once by the classifier and immutable
// afterwards.
type FileRecord struct {
	Path       string   `json:"path"`
	Extension  string   `json:"extension"`
	SizeMetric int      `json:"size_metric"`
	Category   Category `json:"category,omitempty"`
	Module     string   `json:"module,omitempty"`
}

// CodeExtensions maps recognized source-code file extensions to a language
// label. Files matching one of these enter the manifest in directory mode.
var CodeExtensions = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "javascript",
	".tsx":   "typescript",
	".java":  "java",
	".cs":    "csharp",
	".go":    "go",
	".rs":    "rust",
	".cpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".hpp":   "cpp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
}

// ConfigExtensions is the set of configuration file extensions.
var ConfigExtensions = map[string]bool{
	".yaml":       true,
	".yml":        true,
	".json":       true,
	".toml":       true,
	".ini":        true,
	".cfg":        true,
	".conf":       true,
	".xml":        true,
	".properties": true,
	".env":        true,
}

// DocExtensions is the set of documentation file extensions.
var DocExtensions = map[string]bool{
	".md":   true,
	".rst":  true,
	".txt":  true,
	".adoc": true,
}

// RootFiles is the allowlist of basenames treated as project-level setup
// files. They are admitted to the manifest even without a recognized
// extension and always classify as "other".
var RootFiles = map[string]bool{
	".gitignore":       true,
	".gitattributes":   true,
	"requirements.txt": true,
	"setup.py":         true,
	"pyproject.toml":   true,
	"Makefile":         true,
	"Dockerfile":       true,
}

// Recognized reports whether a file with the given lowercase extension and
// basename belongs in a directory-mode manifest.
func Recognized(ext, basename string) bool {
	if RootFiles[basename] {
		return true
	}
	if _, ok := CodeExtensions[ext]; ok {
		return true
	}
	return ConfigExtensions[ext] || DocExtensions[ext]
}
