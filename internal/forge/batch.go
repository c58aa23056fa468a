package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/papapumpkin/supernova/internal/plan"
)

// PRResult is the outcome of opening one planned pull request.
type PRResult struct {
	Index  int    `json:"index"`
	Branch string `json:"branch"`
	URL    string `json:"url,omitempty"`
	Number int    `json:"number,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult summarizes a CreateFromPlan run.
type BatchResult struct {
	Repo    string     `json:"repo"`
	Created int        `json:"created"`
	Failed  int        `json:"failed"`
	PRs     []PRResult `json:"prs"`
}

// BatchOptions parameterizes CreateFromPlan.
type BatchOptions struct {
	Repo  string // "owner/name"
	Draft bool
}

// CreateFromPlan opens one pull request per plan PR, in plan order so earlier
// PRs exist before the ones that depend on them. Failures are recorded per PR
// and do not stop the batch. The PR body is the plan description plus the
// file list and dependency note.
func CreateFromPlan(ctx context.Context, client Client, p *plan.Plan, opts BatchOptions) (*BatchResult, error) {
	if len(p.PRs) == 0 {
		return nil, fmt.Errorf("plan has no PRs to create")
	}
	if opts.Repo == "" {
		return nil, fmt.Errorf("repository not specified")
	}

	res := &BatchResult{Repo: opts.Repo}
	for _, pr := range p.PRs {
		out := PRResult{Index: pr.Index, Branch: pr.BranchName}
		created, err := client.CreatePR(ctx, CreateRequest{
			Repo:  opts.Repo,
			Title: pr.Title,
			Body:  prBody(p, pr),
			Head:  pr.BranchName,
			Base:  p.BaseBranch,
			Draft: opts.Draft,
		})
		if err != nil {
			out.Error = err.Error()
			res.Failed++
		} else {
			out.URL = created.HTMLURL
			out.Number = created.Number
			res.Created++
		}
		res.PRs = append(res.PRs, out)
	}
	return res, nil
}

// prBody renders the markdown body for one planned PR.
func prBody(p *plan.Plan, pr plan.PRDescriptor) string {
	var b strings.Builder
	b.WriteString(pr.Description)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Part %d of %d in a split of %d files (%s strategy).\n",
		pr.Index, p.Summary.ActualPRCount, p.Summary.TotalFiles, p.Strategy)

	if len(pr.DependsOn) > 0 {
		deps := make([]string, len(pr.DependsOn))
		for i, d := range pr.DependsOn {
			deps[i] = fmt.Sprintf("#%d", d)
		}
		fmt.Fprintf(&b, "\nDepends on split PR(s): %s\n", strings.Join(deps, ", "))
	}

	b.WriteString("\n## Files\n\n")
	for _, f := range pr.Files {
		fmt.Fprintf(&b, "- `%s`\n", f)
	}
	return b.String()
}
