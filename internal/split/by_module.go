package split

import (
	"container/heap"
	"fmt"

	"github.com/papapumpkin/supernova/internal/manifest"
)

// partitionByModule builds one setup group (configs, docs, root files) and
// one group per top-level module. When there are more modules than remaining
// slots, the two smallest modules (by file count, ties by name) are merged
// repeatedly until the count fits.
func partitionByModule(records []manifest.FileRecord, target int) []Group {
	configs, docs, moduleRecs, others := splitByCategory(records)

	var groups []Group

	setup := make([]manifest.FileRecord, 0, len(configs)+len(docs)+len(others))
	setup = append(setup, configs...)
	setup = append(setup, docs...)
	setup = append(setup, others...)
	if len(setup) > 0 {
		groups = append(groups, Group{
			Name:        "configs",
			Title:       "Configuration and documentation",
			Description: "Project setup: configs, docs, and root files",
			Records:     setup,
			Size:        totalSize(setup),
			DependsOn:   []int{},
		})
	}

	names, byName := groupModules(moduleRecs)
	mods := make([]moduleBucket, 0, len(names))
	for _, name := range names {
		mods = append(mods, moduleBucket{name: name, records: byName[name]})
	}

	slots := target - len(groups)
	if len(mods) > slots {
		mods = mergeSmallest(mods, slots)
	}

	for _, m := range mods {
		deps := []int{}
		if len(setup) > 0 {
			deps = []int{1}
		}
		groups = append(groups, Group{
			Name:        m.name,
			Title:       fmt.Sprintf("%s module", m.name),
			Description: fmt.Sprintf("Implementation of %s module", m.name),
			Records:     m.records,
			Size:        totalSize(m.records),
			DependsOn:   deps,
		})
	}

	return groups
}

// moduleBucket is a named set of records belonging to one (possibly merged)
// module.
type moduleBucket struct {
	name    string
	records []manifest.FileRecord
}

// mergeSmallest reduces mods to at most slots buckets by repeatedly merging
// the two smallest buckets. The heap orders by file count with the module
// name as tie-break, so merge order is fully deterministic. The result comes
// back sorted ascending by (file count, name).
func mergeSmallest(mods []moduleBucket, slots int) []moduleBucket {
	if slots < 1 {
		slots = 1
	}

	h := make(bucketHeap, len(mods))
	copy(h, mods)
	heap.Init(&h)

	for h.Len() > slots {
		a := heap.Pop(&h).(moduleBucket)
		b := heap.Pop(&h).(moduleBucket)
		merged := moduleBucket{
			name:    a.name + "_" + b.name,
			records: append(append([]manifest.FileRecord{}, a.records...), b.records...),
		}
		heap.Push(&h, merged)
	}

	out := make([]moduleBucket, 0, h.Len())
	for h.Len() > 0 {
		out = append(out, heap.Pop(&h).(moduleBucket))
	}
	return out
}

// bucketHeap is a min-heap of module buckets keyed by file count, with the
// module name breaking ties.
type bucketHeap []moduleBucket

func (h bucketHeap) Len() int { return len(h) }

func (h bucketHeap) Less(i, j int) bool {
	if len(h[i].records) != len(h[j].records) {
		return len(h[i].records) < len(h[j].records)
	}
	return h[i].name < h[j].name
}

func (h bucketHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *bucketHeap) Push(x any) { *h = append(*h, x.(moduleBucket)) }

func (h *bucketHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
