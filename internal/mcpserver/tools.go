package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/supernova/internal/classify"
	"github.com/papapumpkin/supernova/internal/forge"
	"github.com/papapumpkin/supernova/internal/manifest"
	"github.com/papapumpkin/supernova/internal/plan"
	"github.com/papapumpkin/supernova/internal/split"
	"github.com/papapumpkin/supernova/internal/telemetry"
	"github.com/papapumpkin/supernova/internal/vcs"
)

// analyzeInput is the input schema for the analyze_source tool.
type analyzeInput struct {
	SourcePath string   `json:"source_path" jsonschema:"Directory to analyze"`
	Include    []string `json:"include,omitempty" jsonschema:"Glob patterns to include"`
	Exclude    []string `json:"exclude,omitempty" jsonschema:"Glob patterns to exclude"`
}

// moduleStat is one module's share of an analysis.
type moduleStat struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
	Size  int    `json:"size"`
}

// analyzeOutput is the output schema for the analyze_source tool.
type analyzeOutput struct {
	SourcePath string         `json:"source_path"`
	TotalFiles int            `json:"total_files"`
	TotalSize  int            `json:"total_size"`
	Categories map[string]int `json:"categories"`
	Modules    []moduleStat   `json:"modules"`
}

// registerAnalysisTools registers the analyze_source tool.
func (s *Server) registerAnalysisTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_source",
		Description: "Analyze a source directory: file counts, sizes, categories, and modules",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input analyzeInput) (*mcp.CallToolResult, analyzeOutput, error) {
		if input.SourcePath == "" {
			return nil, analyzeOutput{}, fmt.Errorf("source_path is required")
		}

		records, err := manifest.FromDir(input.SourcePath, manifest.DirOptions{
			Include: input.Include,
			Exclude: input.Exclude,
		})
		if err != nil {
			return nil, analyzeOutput{}, fmt.Errorf("analyzing %s: %w", input.SourcePath, err)
		}
		records = classify.Apply(records)

		out := analyzeOutput{
			SourcePath: input.SourcePath,
			TotalFiles: len(records),
			Categories: map[string]int{},
		}
		moduleFiles := map[string]int{}
		moduleSizes := map[string]int{}
		var moduleOrder []string
		for _, r := range records {
			out.TotalSize += r.SizeMetric
			out.Categories[string(r.Category)]++
			if r.Module != "" {
				if _, seen := moduleFiles[r.Module]; !seen {
					moduleOrder = append(moduleOrder, r.Module)
				}
				moduleFiles[r.Module]++
				moduleSizes[r.Module] += r.SizeMetric
			}
		}
		for _, name := range moduleOrder {
			out.Modules = append(out.Modules, moduleStat{Name: name, Files: moduleFiles[name], Size: moduleSizes[name]})
		}

		s.collector.Inc(telemetry.CounterAnalyses, telemetry.KindAnalyze, map[string]any{"source": input.SourcePath, "files": len(records)})
		return nil, out, nil
	})
}

// generateInput is the input schema for the generate_split_plan tool. Either
// source_path or changes must be given.
type generateInput struct {
	SourcePath    string                 `json:"source_path,omitempty" jsonschema:"Directory to plan a split for"`
	Changes       []manifest.ChangeEntry `json:"changes,omitempty" jsonschema:"Explicit change list instead of a directory scan"`
	Strategy      string                 `json:"strategy,omitempty" jsonschema:"Split strategy: by_module | by_type | by_file | balanced"`
	TargetPRCount int                    `json:"target_pr_count,omitempty" jsonschema:"Desired number of PRs (default 8)"`
	BranchPrefix  string                 `json:"branch_prefix,omitempty" jsonschema:"Branch name prefix (default user/feature)"`
	TitlePrefix   string                 `json:"title_prefix,omitempty" jsonschema:"PR title prefix (default Split PR)"`
	BaseBranch    string                 `json:"base_branch,omitempty" jsonschema:"Base branch PRs target (default main)"`
	Include       []string               `json:"include,omitempty" jsonschema:"Glob patterns to include"`
	Exclude       []string               `json:"exclude,omitempty" jsonschema:"Glob patterns to exclude"`
}

// generateOutput is the output schema for the generate_split_plan tool.
type generateOutput struct {
	Plan      *plan.Plan `json:"plan"`
	HistoryID int64      `json:"history_id,omitempty"`
}

// strategiesOutput is the output schema for the get_split_strategies tool.
type strategiesOutput struct {
	Default    string               `json:"default"`
	Strategies []split.CatalogEntry `json:"strategies"`
}

// registerPlanTools registers the generate_split_plan and get_split_strategies
// tools.
func (s *Server) registerPlanTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_split_plan",
		Description: "Generate a deterministic plan for splitting a change set into reviewable PRs",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
		var records []manifest.FileRecord
		var err error
		switch {
		case len(input.Changes) > 0:
			records, err = manifest.FromChanges(input.Changes)
		case input.SourcePath != "":
			records, err = manifest.FromDir(input.SourcePath, manifest.DirOptions{
				Include: input.Include,
				Exclude: input.Exclude,
			})
		default:
			return nil, generateOutput{}, fmt.Errorf("source_path or changes is required")
		}
		if err != nil {
			return nil, generateOutput{}, fmt.Errorf("building manifest: %w", err)
		}

		// Unknown strategy names fall back to the default rather than failing.
		strategy, _ := split.ParseStrategy(input.Strategy)

		p := plan.Generate(records, plan.Options{
			Strategy:      strategy,
			TargetPRCount: input.TargetPRCount,
			BranchPrefix:  input.BranchPrefix,
			TitlePrefix:   input.TitlePrefix,
			BaseBranch:    input.BaseBranch,
			SourcePath:    input.SourcePath,
		})

		out := generateOutput{Plan: p}
		if s.history != nil {
			if id, err := s.history.RecordPlan(ctx, p); err == nil {
				out.HistoryID = id
			}
		}

		s.collector.Inc(telemetry.CounterPlans, telemetry.KindPlanGenerated, map[string]any{
			"strategy": p.Strategy,
			"prs":      p.Summary.ActualPRCount,
			"files":    p.Summary.TotalFiles,
		})
		return nil, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_split_strategies",
		Description: "List the available split strategies with use cases and examples",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, strategiesOutput, error) {
		return nil, strategiesOutput{
			Default:    split.Default.String(),
			Strategies: split.Catalog(),
		}, nil
	})
}

// executeInput is the input schema for the execute_split tool.
type executeInput struct {
	Plan      *plan.Plan `json:"plan" jsonschema:"A plan produced by generate_split_plan"`
	RepoDir   string     `json:"repo_dir" jsonschema:"Git repository to create branches in"`
	SourceDir string     `json:"source_dir,omitempty" jsonschema:"Directory plan file paths resolve against (default repo_dir)"`
	DryRun    bool       `json:"dry_run,omitempty" jsonschema:"Report planned branches without touching the repository"`
	Push      bool       `json:"push,omitempty" jsonschema:"Push each branch to origin after committing"`
}

// createPRsInput is the input schema for the create_prs_from_plan tool.
type createPRsInput struct {
	Plan  *plan.Plan `json:"plan" jsonschema:"A plan whose branches were already pushed"`
	Repo  string     `json:"repo" jsonschema:"GitHub repository as owner/name"`
	Draft bool       `json:"draft,omitempty" jsonschema:"Open PRs as drafts"`
}

// registerExecutionTools registers the execute_split and create_prs_from_plan
// tools.
func (s *Server) registerExecutionTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "execute_split",
		Description: "Execute a split plan: one git branch per planned PR, populated and committed",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input executeInput) (*mcp.CallToolResult, *vcs.Result, error) {
		if input.Plan == nil {
			return nil, nil, fmt.Errorf("plan is required")
		}
		if input.RepoDir == "" {
			return nil, nil, fmt.Errorf("repo_dir is required")
		}

		client, err := vcs.NewGitClient(ctx, input.RepoDir)
		if err != nil {
			return nil, nil, err
		}
		res, err := vcs.ExecuteSplit(ctx, client, input.Plan, vcs.ExecuteOptions{
			RepoDir:   input.RepoDir,
			SourceDir: input.SourceDir,
			DryRun:    input.DryRun,
			Push:      input.Push,
		})
		if err != nil {
			return nil, nil, err
		}

		if !input.DryRun {
			s.collector.Inc(telemetry.CounterSplits, telemetry.KindSplitExecuted, map[string]any{
				"repo":     input.RepoDir,
				"branches": res.BranchesMade,
				"errors":   res.BranchesError,
			})
		}
		return nil, res, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_prs_from_plan",
		Description: "Open one GitHub pull request per planned PR, in dependency order",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input createPRsInput) (*mcp.CallToolResult, *forge.BatchResult, error) {
		if input.Plan == nil {
			return nil, nil, fmt.Errorf("plan is required")
		}

		token, err := forge.ResolveGitHubToken(ctx)
		if err != nil {
			return nil, nil, err
		}
		res, err := forge.CreateFromPlan(ctx, forge.NewGitHubClient(token), input.Plan, forge.BatchOptions{
			Repo:  input.Repo,
			Draft: input.Draft,
		})
		if err != nil {
			return nil, nil, err
		}

		s.collector.Add(telemetry.CounterPRs, telemetry.KindPRCreated, int64(res.Created), map[string]any{
			"repo":    input.Repo,
			"created": res.Created,
			"failed":  res.Failed,
		})
		return nil, res, nil
	})
}

// statsOutput is the output schema for the get_server_stats tool.
type statsOutput struct {
	Version string          `json:"version"`
	Stats   telemetry.Stats `json:"stats"`
}

// registerStatsTools registers the get_server_stats tool.
func (s *Server) registerStatsTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_server_stats",
		Description: "Report server uptime and operation counters",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, statsOutput, error) {
		return nil, statsOutput{
			Version: Version,
			Stats:   s.collector.Snapshot(),
		}, nil
	})
}
