package split

import (
	"fmt"

	"github.com/papapumpkin/supernova/internal/manifest"
)

// partitionByType layers groups by file type: configs first, then code (and
// uncategorized files) sliced into contiguous batches, then docs last. Code
// batches depend on the config group; the docs group depends on everything
// before it.
func partitionByType(records []manifest.FileRecord, target int) []Group {
	configs, docs, moduleRecs, others := splitByCategory(records)

	var groups []Group

	if len(configs) > 0 {
		groups = append(groups, Group{
			Name:        "configs",
			Title:       "Configuration files",
			Description: "Configuration and setup files",
			Records:     configs,
			Size:        totalSize(configs),
			DependsOn:   []int{},
		})
	}

	// Code files keep module first-appearance order, with other files last.
	code := make([]manifest.FileRecord, 0, len(moduleRecs)+len(others))
	names, byName := groupModules(moduleRecs)
	for _, name := range names {
		code = append(code, byName[name]...)
	}
	code = append(code, others...)

	if len(code) > 0 {
		// Two slots are always reserved for the config and doc groups, even
		// when one or both turn out empty.
		slots := target - 2
		if slots < 1 {
			slots = 1
		}
		batchSize := len(code) / slots
		if batchSize < 1 {
			batchSize = 1
		}

		for i := 0; i < slots; i++ {
			start := i * batchSize
			if start >= len(code) {
				break
			}
			end := start + batchSize
			if i == slots-1 || end > len(code) {
				end = len(code) // last batch absorbs the remainder
			}
			batch := code[start:end]

			deps := []int{}
			if len(configs) > 0 {
				deps = []int{1}
			}
			groups = append(groups, Group{
				Name:        fmt.Sprintf("code-batch-%d", i+1),
				Title:       fmt.Sprintf("Code batch %d", i+1),
				Description: fmt.Sprintf("Code implementation batch %d", i+1),
				Records:     batch,
				Size:        totalSize(batch),
				DependsOn:   deps,
			})
		}
	}

	if len(docs) > 0 {
		groups = append(groups, Group{
			Name:        "docs",
			Title:       "Documentation",
			Description: "Documentation files",
			Records:     docs,
			Size:        totalSize(docs),
			DependsOn:   dependsOnAll(len(groups) + 1),
		})
	}

	return groups
}
