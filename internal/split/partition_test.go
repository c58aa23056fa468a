package split

import (
	"strings"
	"testing"

	"github.com/papapumpkin/supernova/internal/classify"
	"github.com/papapumpkin/supernova/internal/manifest"
)

// categorized builds classified records from (path, size) pairs, mirroring
// what the planner feeds the partitioner.
func categorized(t *testing.T, files map[string]int, order []string) []manifest.FileRecord {
	t.Helper()
	records := make([]manifest.FileRecord, 0, len(order))
	for _, path := range order {
		size, ok := files[path]
		if !ok {
			t.Fatalf("no size for %s", path)
		}
		ext := ""
		if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
			ext = strings.ToLower(path[idx:])
		}
		records = append(records, manifest.FileRecord{Path: path, Extension: ext, SizeMetric: size})
	}
	return classify.Apply(records)
}

// mixedChangeSet is a five-file change set with two modules, a root setup
// file, and a doc, in path-sorted order.
func mixedChangeSet(t *testing.T) []manifest.FileRecord {
	t.Helper()
	return categorized(t, map[string]int{
		"README.md":        20,
		"api/handlers.py":  100,
		"api/routes.py":    50,
		"setup.py":         10,
		"utils/helpers.py": 30,
	}, []string{"README.md", "api/handlers.py", "api/routes.py", "setup.py", "utils/helpers.py"})
}

func groupPaths(g Group) []string {
	out := make([]string, len(g.Records))
	for i, r := range g.Records {
		out[i] = r.Path
	}
	return out
}

// assertPartitionComplete checks every input file lands in exactly one group.
func assertPartitionComplete(t *testing.T, records []manifest.FileRecord, groups []Group) {
	t.Helper()
	seen := map[string]int{}
	for _, g := range groups {
		for _, r := range g.Records {
			seen[r.Path]++
		}
	}
	for _, r := range records {
		if seen[r.Path] != 1 {
			t.Errorf("%s appears %d times across groups, want exactly 1", r.Path, seen[r.Path])
		}
	}
	total := 0
	for _, g := range groups {
		total += len(g.Records)
	}
	if total != len(records) {
		t.Errorf("groups hold %d records, input has %d", total, len(records))
	}
}

// assertValidDeps checks all dependencies point strictly backward.
func assertValidDeps(t *testing.T, groups []Group) {
	t.Helper()
	for i, g := range groups {
		idx := i + 1
		for _, d := range g.DependsOn {
			if d < 1 || d >= idx {
				t.Errorf("group %d (%s) depends on %d, want 1 <= dep < %d", idx, g.Name, d, idx)
			}
		}
	}
}

func TestPartition_EmptyRecords(t *testing.T) {
	t.Parallel()
	for _, s := range []Strategy{ByModule, ByType, ByFile, Balanced} {
		if got := Partition(nil, 5, s); got != nil {
			t.Errorf("%s: expected nil groups for empty input, got %v", s, got)
		}
	}
}

func TestPartition_TargetOneCollapsesAllStrategies(t *testing.T) {
	t.Parallel()
	records := mixedChangeSet(t)
	for _, s := range []Strategy{ByModule, ByType, ByFile, Balanced} {
		groups := Partition(records, 1, s)
		if len(groups) != 1 {
			t.Fatalf("%s: got %d groups, want 1", s, len(groups))
		}
		g := groups[0]
		if g.Name != "all" {
			t.Errorf("%s: name=%q, want all", s, g.Name)
		}
		if len(g.Records) != len(records) {
			t.Errorf("%s: group holds %d records, want %d", s, len(g.Records), len(records))
		}
		if len(g.DependsOn) != 0 {
			t.Errorf("%s: deps=%v, want none", s, g.DependsOn)
		}
	}
}

func TestPartition_TargetBelowOneClamps(t *testing.T) {
	t.Parallel()
	records := mixedChangeSet(t)
	groups := Partition(records, 0, ByFile)
	if len(groups) != 1 || groups[0].Name != "all" {
		t.Errorf("target 0: groups=%v", groups)
	}
}

func TestByModule_SetupPlusModuleGroups(t *testing.T) {
	t.Parallel()
	records := mixedChangeSet(t)
	groups := Partition(records, 3, ByModule)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	setup := groups[0]
	if setup.Name != "configs" {
		t.Errorf("groups[0].Name=%q, want configs", setup.Name)
	}
	// Setup collects docs and root files; docs come before others.
	if got := groupPaths(setup); len(got) != 2 || got[0] != "README.md" || got[1] != "setup.py" {
		t.Errorf("setup files=%v, want [README.md setup.py]", got)
	}
	if len(setup.DependsOn) != 0 {
		t.Errorf("setup deps=%v, want none", setup.DependsOn)
	}

	// Module groups in first-appearance order, depending on setup.
	if groups[1].Name != "api" || groups[2].Name != "utils" {
		t.Errorf("module order: %s, %s, want api, utils", groups[1].Name, groups[2].Name)
	}
	if groups[1].Size != 150 {
		t.Errorf("api size=%d, want 150", groups[1].Size)
	}
	for _, g := range groups[1:] {
		if len(g.DependsOn) != 1 || g.DependsOn[0] != 1 {
			t.Errorf("%s deps=%v, want [1]", g.Name, g.DependsOn)
		}
	}

	assertPartitionComplete(t, records, groups)
	assertValidDeps(t, groups)
}

func TestByModule_NoSetupFiles(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"api/a.py":   10,
		"utils/b.py": 20,
	}, []string{"api/a.py", "utils/b.py"})

	groups := Partition(records, 4, ByModule)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	for _, g := range groups {
		if len(g.DependsOn) != 0 {
			t.Errorf("%s deps=%v, want none without a setup group", g.Name, g.DependsOn)
		}
	}
}

func TestByModule_MergesSmallestModules(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"alpha/1.py": 10,
		"beta/1.py":  10,
		"gamma/1.py": 10,
		"gamma/2.py": 10,
		"delta/1.py": 10,
		"delta/2.py": 10,
		"delta/3.py": 10,
	}, []string{"alpha/1.py", "beta/1.py", "gamma/1.py", "gamma/2.py", "delta/1.py", "delta/2.py", "delta/3.py"})

	groups := Partition(records, 2, ByModule)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// alpha(1) and beta(1) merge first, then alpha_beta(2) merges with
	// gamma(2) on the name tie-break. Result comes back ascending by count.
	if groups[0].Name != "delta" {
		t.Errorf("groups[0].Name=%q, want delta", groups[0].Name)
	}
	if groups[1].Name != "alpha_beta_gamma" {
		t.Errorf("groups[1].Name=%q, want alpha_beta_gamma", groups[1].Name)
	}

	assertPartitionComplete(t, records, groups)
}

func TestByModule_Deterministic(t *testing.T) {
	t.Parallel()
	records := mixedChangeSet(t)

	first := Partition(records, 3, ByModule)
	for range 10 {
		again := Partition(records, 3, ByModule)
		if len(again) != len(first) {
			t.Fatal("group count changed between runs")
		}
		for i := range first {
			if first[i].Name != again[i].Name || first[i].Size != again[i].Size {
				t.Fatalf("group %d differs: %+v vs %+v", i, first[i], again[i])
			}
		}
	}
}

func TestByType_LayersConfigsCodeDocs(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"settings.yaml":    5,
		"README.md":        20,
		"api/handlers.py":  100,
		"api/routes.py":    50,
		"utils/helpers.py": 30,
	}, []string{"README.md", "api/handlers.py", "api/routes.py", "settings.yaml", "utils/helpers.py"})

	groups := Partition(records, 4, ByType)
	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}

	if groups[0].Name != "configs" {
		t.Errorf("groups[0]=%q, want configs", groups[0].Name)
	}
	if groups[1].Name != "code-batch-1" || groups[2].Name != "code-batch-2" {
		t.Errorf("code batches: %q, %q", groups[1].Name, groups[2].Name)
	}
	// Two code slots for three code files: floor batch gets 1, the last
	// absorbs the remainder.
	if got := groupPaths(groups[1]); len(got) != 1 || got[0] != "api/handlers.py" {
		t.Errorf("batch 1 files=%v", got)
	}
	if got := groupPaths(groups[2]); len(got) != 2 {
		t.Errorf("batch 2 files=%v, want 2 files", got)
	}
	for _, g := range groups[1:3] {
		if len(g.DependsOn) != 1 || g.DependsOn[0] != 1 {
			t.Errorf("%s deps=%v, want [1]", g.Name, g.DependsOn)
		}
	}

	docs := groups[3]
	if docs.Name != "docs" {
		t.Errorf("groups[3]=%q, want docs", docs.Name)
	}
	if len(docs.DependsOn) != 3 {
		t.Errorf("docs deps=%v, want [1 2 3]", docs.DependsOn)
	}

	assertPartitionComplete(t, records, groups)
	assertValidDeps(t, groups)
}

func TestByType_NoConfigsNoDocs(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"api/a.py":   10,
		"api/b.py":   10,
		"utils/c.py": 10,
	}, []string{"api/a.py", "api/b.py", "utils/c.py"})

	// The config and doc slots stay reserved even when both categories are
	// empty, so three code files at target 3 land in a single batch.
	groups := Partition(records, 3, ByType)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Name != "code-batch-1" {
		t.Errorf("name=%q, want code-batch-1", g.Name)
	}
	if len(g.Records) != 3 {
		t.Errorf("batch holds %d records, want 3", len(g.Records))
	}
	if len(g.DependsOn) != 0 {
		t.Errorf("deps=%v, want none without a configs group", g.DependsOn)
	}
	assertPartitionComplete(t, records, groups)
}

func TestByType_ReservesDocSlotWhenDocsAbsent(t *testing.T) {
	t.Parallel()
	files := map[string]int{"settings.yaml": 5}
	order := []string{"settings.yaml"}
	for _, p := range []string{
		"api/a.py", "api/b.py", "api/c.py", "api/d.py", "api/e.py",
		"utils/f.py", "utils/g.py", "utils/h.py", "utils/i.py",
	} {
		files[p] = 10
		order = append(order, p)
	}
	records := categorized(t, files, order)

	// One config, nine code files, no docs, target 5. The doc slot is
	// reserved regardless, leaving three code slots: batches of 9/3 = 3.
	groups := Partition(records, 5, ByType)
	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}
	if groups[0].Name != "configs" {
		t.Errorf("groups[0]=%q, want configs", groups[0].Name)
	}
	for i, g := range groups[1:] {
		if len(g.Records) != 3 {
			t.Errorf("code batch %d holds %d records, want 3", i+1, len(g.Records))
		}
		if len(g.DependsOn) != 1 || g.DependsOn[0] != 1 {
			t.Errorf("%s deps=%v, want [1]", g.Name, g.DependsOn)
		}
	}
	assertPartitionComplete(t, records, groups)
	assertValidDeps(t, groups)
}

func TestByFile_EvenBatches(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"a.py": 1, "b.py": 2, "c.py": 3, "d.py": 4, "e.py": 5,
	}, []string{"a.py", "b.py", "c.py", "d.py", "e.py"})

	groups := Partition(records, 2, ByFile)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if got := groupPaths(groups[0]); len(got) != 2 || got[0] != "a.py" {
		t.Errorf("part-1 files=%v", got)
	}
	// Last batch absorbs the remainder.
	if got := groupPaths(groups[1]); len(got) != 3 {
		t.Errorf("part-2 files=%v, want 3", got)
	}
	if groups[0].Name != "part-1" || groups[1].Name != "part-2" {
		t.Errorf("names: %q, %q", groups[0].Name, groups[1].Name)
	}
	if len(groups[1].DependsOn) != 1 || groups[1].DependsOn[0] != 1 {
		t.Errorf("part-2 deps=%v, want [1]", groups[1].DependsOn)
	}
	assertPartitionComplete(t, records, groups)
	assertValidDeps(t, groups)
}

func TestByFile_TargetExceedsFiles(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"a.py": 1, "b.py": 2, "c.py": 3,
	}, []string{"a.py", "b.py", "c.py"})

	groups := Partition(records, 10, ByFile)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want one per file", len(groups))
	}
	for _, g := range groups {
		if len(g.Records) != 1 {
			t.Errorf("%s holds %d records, want 1", g.Name, len(g.Records))
		}
	}
}

func TestBalanced_LPTPacking(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"a.py": 100, "b.py": 90, "c.py": 40, "d.py": 30, "e.py": 20,
	}, []string{"a.py", "b.py", "c.py", "d.py", "e.py"})

	groups := Partition(records, 2, Balanced)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// LPT: 100->bin0, 90->bin1, 40->bin1(130), 30->bin0(130), 20->bin0 on
	// the lowest-index tie-break.
	if got := groupPaths(groups[0]); len(got) != 3 || got[0] != "a.py" || got[1] != "d.py" || got[2] != "e.py" {
		t.Errorf("batch-1 files=%v, want [a.py d.py e.py] in placement order", got)
	}
	if groups[0].Size != 150 || groups[1].Size != 130 {
		t.Errorf("sizes=%d/%d, want 150/130", groups[0].Size, groups[1].Size)
	}
	assertPartitionComplete(t, records, groups)
	assertValidDeps(t, groups)
}

func TestBalanced_EqualSizesKeepPathOrder(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{
		"a.py": 10, "b.py": 10, "c.py": 10, "d.py": 10,
	}, []string{"a.py", "b.py", "c.py", "d.py"})

	groups := Partition(records, 2, Balanced)
	// Stable sort keeps path order on ties; round-robin placement gives
	// a,c to bin0 and b,d to bin1.
	if got := groupPaths(groups[0]); got[0] != "a.py" || got[1] != "c.py" {
		t.Errorf("batch-1 files=%v", got)
	}
	if got := groupPaths(groups[1]); got[0] != "b.py" || got[1] != "d.py" {
		t.Errorf("batch-2 files=%v", got)
	}
}

func TestBalanced_TenEqualFilesFiveBins(t *testing.T) {
	t.Parallel()
	files := map[string]int{}
	var order []string
	for _, p := range []string{
		"f01.py", "f02.py", "f03.py", "f04.py", "f05.py",
		"f06.py", "f07.py", "f08.py", "f09.py", "f10.py",
	} {
		files[p] = 10
		order = append(order, p)
	}
	records := categorized(t, files, order)

	groups := Partition(records, 5, Balanced)
	if len(groups) != 5 {
		t.Fatalf("got %d groups, want 5", len(groups))
	}
	for _, g := range groups {
		if len(g.Records) != 2 {
			t.Errorf("%s holds %d records, want 2", g.Name, len(g.Records))
		}
		if g.Size != 20 {
			t.Errorf("%s size=%d, want 20", g.Name, g.Size)
		}
	}
	assertPartitionComplete(t, records, groups)
}

func TestBalanced_LPTBound(t *testing.T) {
	t.Parallel()
	// Adversarial distribution for 3 bins: the greedy packs 5/3, 5/3 and
	// 4/4/3 for a max of 11, while the optimal layout 5/4, 5/4, 3/3/3 has
	// a max of 9. The LPT guarantee caps greedy at 4/3 of optimal.
	records := categorized(t, map[string]int{
		"a.py": 50, "b.py": 50, "c.py": 40, "d.py": 40,
		"e.py": 30, "f.py": 30, "g.py": 30,
	}, []string{"a.py", "b.py", "c.py", "d.py", "e.py", "f.py", "g.py"})

	groups := Partition(records, 3, Balanced)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	const optimal = 90
	maxSize := 0
	for _, g := range groups {
		if g.Size > maxSize {
			maxSize = g.Size
		}
	}
	if maxSize != 110 {
		t.Errorf("max bin size=%d, want 110 from greedy placement", maxSize)
	}
	if 3*maxSize > 4*optimal {
		t.Errorf("max bin size %d exceeds 4/3 of optimal %d", maxSize, optimal)
	}
	assertPartitionComplete(t, records, groups)
}

func TestBalanced_DropsEmptyBins(t *testing.T) {
	t.Parallel()
	records := categorized(t, map[string]int{"a.py": 10}, []string{"a.py"})
	groups := Partition(records, 5, Balanced)
	if len(groups) != 1 {
		t.Errorf("got %d groups, want 1 (empty bins dropped)", len(groups))
	}
	if groups[0].Name != "batch-1" {
		t.Errorf("name=%q, want batch-1", groups[0].Name)
	}
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Strategy
		ok   bool
	}{
		{"by_module", ByModule, true},
		{"BY_MODULE", ByModule, true},
		{" balanced ", Balanced, true},
		{"by_type", ByType, true},
		{"by_file", ByFile, true},
		{"alphabetical", Default, false},
		{"", Default, false},
	}
	for _, tt := range tests {
		got, ok := ParseStrategy(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStrategy(%q)=(%v,%v), want (%v,%v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCatalog_CoversAllStrategies(t *testing.T) {
	t.Parallel()
	entries := Catalog()
	if len(entries) != 4 {
		t.Fatalf("catalog has %d entries, want 4", len(entries))
	}
	for _, e := range entries {
		if _, ok := ParseStrategy(e.Name); !ok {
			t.Errorf("catalog name %q is not a parseable strategy", e.Name)
		}
		if e.Description == "" || e.UseCase == "" || e.Example == "" {
			t.Errorf("catalog entry %q has empty metadata", e.Name)
		}
	}
}
