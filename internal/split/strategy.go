// Package split partitions categorized manifest records into ordered groups
// using one of four interchangeable strategies. Every strategy is
// deterministic: identical input records and target count always produce
// identical groups, including tie-breaks.
package split

import "strings"

// Strategy is a closed tag over the four known partitioning algorithms.
type Strategy int

const (
	// ByModule groups files by top-level module, with setup files first.
	ByModule Strategy = iota
	// ByType layers configs, then code batches, then docs.
	ByType
	// ByFile slices path-sorted files into contiguous batches.
	ByFile
	// Balanced packs files into size-balanced bins (LPT).
	Balanced
)

// Default is the strategy unknown names normalize to.
const Default = ByModule

// strategyNames maps each strategy to its canonical wire name.
var strategyNames = map[Strategy]string{
	ByModule: "by_module",
	ByType:   "by_type",
	ByFile:   "by_file",
	Balanced: "balanced",
}

// String returns the canonical wire name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return strategyNames[Default]
}

// ParseStrategy resolves a strategy name. Unknown names are not an error:
// they normalize to Default, and the second return reports whether the name
// was recognized.
func ParseStrategy(name string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "by_module":
		return ByModule, true
	case "by_type":
		return ByType, true
	case "by_file":
		return ByFile, true
	case "balanced":
		return Balanced, true
	default:
		return Default, false
	}
}

// CatalogEntry describes one strategy for discovery surfaces (CLI listing,
// MCP get_split_strategies). Metadata only; it never influences planning.
type CatalogEntry struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	UseCase     string `json:"use_case"`
	Example     string `json:"example"`
}

// Catalog returns the static strategy catalog in canonical order.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{
			Name:        "by_module",
			DisplayName: "By Module",
			Description: "Split by top-level modules/directories",
			UseCase:     "Best for well-organized codebases with clear module boundaries",
			Example:     "models/, utils/, configs/ each become separate PRs",
		},
		{
			Name:        "by_type",
			DisplayName: "By Type",
			Description: "Split by file type (configs first, then code, then docs)",
			UseCase:     "When dependency order matters (configs before code)",
			Example:     "PR1: configs, PR2-7: code batches, PR8: docs",
		},
		{
			Name:        "by_file",
			DisplayName: "By File",
			Description: "Distribute files evenly across PRs",
			UseCase:     "When you need exactly N PRs regardless of structure",
			Example:     "10 files / 5 PRs = 2 files per PR",
		},
		{
			Name:        "balanced",
			DisplayName: "Balanced",
			Description: "Balance estimated size across PRs",
			UseCase:     "When you want roughly equal review effort per PR",
			Example:     "1000 lines / 5 PRs = ~200 lines per PR",
		},
	}
}
