package split

import (
	"fmt"
	"sort"

	"github.com/papapumpkin/supernova/internal/manifest"
)

// partitionByFile sorts records by path and slices them into contiguous
// batches of size max(1, count/target), with the last batch absorbing the
// remainder. Each group depends on all strictly earlier groups.
func partitionByFile(records []manifest.FileRecord, target int) []Group {
	sorted := make([]manifest.FileRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	batchSize := len(sorted) / target
	if batchSize < 1 {
		batchSize = 1
	}

	var groups []Group
	for i := 0; i < target; i++ {
		start := i * batchSize
		if start >= len(sorted) {
			break
		}
		end := start + batchSize
		if i == target-1 || end > len(sorted) {
			end = len(sorted) // last batch absorbs the remainder
		}
		batch := sorted[start:end]
		idx := len(groups) + 1
		groups = append(groups, Group{
			Name:        fmt.Sprintf("part-%d", idx),
			Title:       fmt.Sprintf("Part %d/%d", idx, target),
			Description: fmt.Sprintf("Part %d of %d", idx, target),
			Records:     batch,
			Size:        totalSize(batch),
			DependsOn:   dependsOnAll(idx),
		})
	}
	return groups
}

// partitionBalanced packs records into target bins using the
// Longest-Processing-Time heuristic: records sorted by size descending are
// placed one by one into the bin with the lowest accumulated size, lowest bin
// index on ties. Bins keep append order, never sorted order. Empty bins are
// dropped.
func partitionBalanced(records []manifest.FileRecord, target int) []Group {
	sorted := make([]manifest.FileRecord, len(records))
	copy(sorted, records)
	// Stable keeps the path-sorted input order for equal sizes.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SizeMetric > sorted[j].SizeMetric })

	bins := make([][]manifest.FileRecord, target)
	sizes := make([]int, target)
	for _, r := range sorted {
		min := 0
		for b := 1; b < target; b++ {
			if sizes[b] < sizes[min] {
				min = b
			}
		}
		bins[min] = append(bins[min], r)
		sizes[min] += r.SizeMetric
	}

	var groups []Group
	for b := 0; b < target; b++ {
		if len(bins[b]) == 0 {
			continue
		}
		idx := len(groups) + 1
		groups = append(groups, Group{
			Name:        fmt.Sprintf("batch-%d", idx),
			Title:       fmt.Sprintf("Batch %d (~%d lines)", idx, sizes[b]),
			Description: fmt.Sprintf("Balanced batch %d with approximately %d lines", idx, sizes[b]),
			Records:     bins[b],
			Size:        sizes[b],
			DependsOn:   dependsOnAll(idx),
		})
	}
	return groups
}
