package split

import (
	"fmt"

	"github.com/papapumpkin/supernova/internal/manifest"
)

// Group is one prospective pull request before assembly: an ordered set of
// records plus naming seeds and dependencies on earlier groups. DependsOn
// holds 1-based indices into the group slice a strategy returns; every index
// is strictly smaller than the group's own position.
type Group struct {
	Name        string
	Title       string
	Description string
	Records     []manifest.FileRecord
	Size        int
	DependsOn   []int
}

// partitioners is the explicit dispatch table over the closed strategy set.
var partitioners = map[Strategy]func([]manifest.FileRecord, int) []Group{
	ByModule: partitionByModule,
	ByType:   partitionByType,
	ByFile:   partitionByFile,
	Balanced: partitionBalanced,
}

// Partition splits categorized records into at most target groups using the
// given strategy. Empty groups are never returned, so the result may hold
// fewer groups than requested. A target of 1 collapses every strategy to a
// single group holding all files. Zero records yield zero groups.
func Partition(records []manifest.FileRecord, target int, strategy Strategy) []Group {
	if len(records) == 0 {
		return nil
	}
	if target < 1 {
		target = 1
	}
	if target == 1 {
		return []Group{allGroup(records)}
	}
	return partitioners[strategy](records, target)
}

// allGroup is the degenerate single-group partition.
func allGroup(records []manifest.FileRecord) Group {
	return Group{
		Name:        "all",
		Title:       "Complete change set",
		Description: fmt.Sprintf("All %d files in a single pull request", len(records)),
		Records:     records,
		Size:        totalSize(records),
		DependsOn:   []int{},
	}
}

// totalSize sums the size metric of records.
func totalSize(records []manifest.FileRecord) int {
	total := 0
	for _, r := range records {
		total += r.SizeMetric
	}
	return total
}

// dependsOnAll returns the conservative total-order dependency set for a
// group at 1-based position idx: every strictly earlier index.
func dependsOnAll(idx int) []int {
	deps := make([]int, 0, idx-1)
	for i := 1; i < idx; i++ {
		deps = append(deps, i)
	}
	return deps
}

// splitByCategory partitions records into the four category buckets,
// preserving input order within each. Module records stay in one slice;
// byModule callers regroup them by module name.
func splitByCategory(records []manifest.FileRecord) (configs, docs, modules, others []manifest.FileRecord) {
	for _, r := range records {
		switch r.Category {
		case manifest.CategoryConfig:
			configs = append(configs, r)
		case manifest.CategoryDoc:
			docs = append(docs, r)
		case manifest.CategoryModule:
			modules = append(modules, r)
		default:
			others = append(others, r)
		}
	}
	return configs, docs, modules, others
}

// groupModules collects module-category records into per-module slices,
// with module names ordered by first appearance in the input.
func groupModules(moduleRecords []manifest.FileRecord) (names []string, byName map[string][]manifest.FileRecord) {
	byName = make(map[string][]manifest.FileRecord)
	for _, r := range moduleRecords {
		if _, seen := byName[r.Module]; !seen {
			names = append(names, r.Module)
		}
		byName[r.Module] = append(byName[r.Module], r)
	}
	return names, byName
}
