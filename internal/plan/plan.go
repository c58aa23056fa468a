// Package plan assembles partition groups into a complete split plan: indexed
// PR descriptors with branch names, dependency edges, and summary statistics.
// Generate is a pure function of its inputs — no I/O, no clock, no randomness
// — so identical manifests always serialize to byte-identical plans.
package plan

import (
	"github.com/papapumpkin/supernova/internal/classify"
	"github.com/papapumpkin/supernova/internal/manifest"
	"github.com/papapumpkin/supernova/internal/split"
)

// Default planning parameters, applied when Options fields are zero.
const (
	DefaultTargetPRCount = 8
	DefaultBranchPrefix  = "user/feature"
	DefaultTitlePrefix   = "Split PR"
	DefaultBaseBranch    = "main"
)

// PRDescriptor is one prospective pull request in a plan. Index is 1-based
// and contiguous; DependsOn holds only strictly smaller indices, so ascending
// index order is always a valid merge order.
type PRDescriptor struct {
	Index         int      `json:"index"`
	Name          string   `json:"name"`
	BranchName    string   `json:"branch_name"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Files         []string `json:"files"`
	FileCount     int      `json:"file_count"`
	EstimatedSize int      `json:"estimated_size"`
	DependsOn     []int    `json:"depends_on"`
}

// Summary holds aggregate statistics for a plan. Averages are 0 for an
// empty plan, never a division by zero.
type Summary struct {
	ActualPRCount int     `json:"actual_pr_count"`
	TotalFiles    int     `json:"total_files"`
	TotalSize     int     `json:"total_size"`
	AvgFilesPerPR float64 `json:"avg_files_per_pr"`
	AvgSizePerPR  float64 `json:"avg_size_per_pr"`
}

// Plan is the full result of one planning invocation. The PR list is a true
// partition of the input manifest: every file appears in exactly one PR.
type Plan struct {
	SourcePath    string         `json:"source_path,omitempty"`
	Strategy      string         `json:"strategy"`
	TargetPRCount int            `json:"target_pr_count"`
	BaseBranch    string         `json:"base_branch"`
	BranchPrefix  string         `json:"branch_prefix"`
	PRs           []PRDescriptor `json:"prs"`
	Summary       Summary        `json:"summary"`
}

// Options parameterizes plan generation. Zero-valued fields fall back to the
// package defaults.
type Options struct {
	Strategy      split.Strategy
	TargetPRCount int
	BranchPrefix  string
	TitlePrefix   string
	BaseBranch    string
	SourcePath    string
}

// withDefaults returns opts with zero fields replaced by defaults.
func (o Options) withDefaults() Options {
	if o.TargetPRCount < 1 {
		o.TargetPRCount = DefaultTargetPRCount
	}
	if o.BranchPrefix == "" {
		o.BranchPrefix = DefaultBranchPrefix
	}
	if o.TitlePrefix == "" {
		o.TitlePrefix = DefaultTitlePrefix
	}
	if o.BaseBranch == "" {
		o.BaseBranch = DefaultBaseBranch
	}
	return o
}

// Generate categorizes the manifest, partitions it with the selected
// strategy, and assembles the resulting groups into a plan. An empty
// manifest yields an empty plan, not an error.
func Generate(records []manifest.FileRecord, opts Options) *Plan {
	opts = opts.withDefaults()

	categorized := classify.Apply(records)
	groups := split.Partition(categorized, opts.TargetPRCount, opts.Strategy)

	p := &Plan{
		SourcePath:    opts.SourcePath,
		Strategy:      opts.Strategy.String(),
		TargetPRCount: opts.TargetPRCount,
		BaseBranch:    opts.BaseBranch,
		BranchPrefix:  opts.BranchPrefix,
		PRs:           make([]PRDescriptor, 0, len(groups)),
	}

	totalSize := 0
	for i, g := range groups {
		files := make([]string, len(g.Records))
		for j, r := range g.Records {
			files[j] = r.Path
		}
		deps := g.DependsOn
		if deps == nil {
			deps = []int{}
		}
		p.PRs = append(p.PRs, PRDescriptor{
			Index:         i + 1,
			Name:          g.Name,
			BranchName:    BranchName(opts.BranchPrefix, g.Name),
			Title:         opts.TitlePrefix + ": " + g.Title,
			Description:   g.Description,
			Files:         files,
			FileCount:     len(files),
			EstimatedSize: g.Size,
			DependsOn:     deps,
		})
		totalSize += g.Size
	}

	p.Summary = Summary{
		ActualPRCount: len(p.PRs),
		TotalFiles:    len(records),
		TotalSize:     totalSize,
	}
	if len(p.PRs) > 0 {
		p.Summary.AvgFilesPerPR = float64(len(records)) / float64(len(p.PRs))
		p.Summary.AvgSizePerPR = float64(totalSize) / float64(len(p.PRs))
	}
	return p
}
