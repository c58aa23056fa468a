package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/papapumpkin/supernova/internal/plan"
)

// Branch statuses reported by ExecuteSplit.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusWarning = "warning"
	StatusError   = "error"
	StatusDryRun  = "dry_run"
)

// BranchResult is the outcome of executing one planned PR.
type BranchResult struct {
	Index       int      `json:"index"`
	Branch      string   `json:"branch"`
	Status      string   `json:"status"`
	FilesCopied int      `json:"files_copied"`
	Missing     []string `json:"missing,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Result is the outcome of executing a whole plan.
type Result struct {
	RepoDir       string         `json:"repo_dir"`
	SourceDir     string         `json:"source_dir"`
	DryRun        bool           `json:"dry_run"`
	Branches      []BranchResult `json:"branches"`
	BranchesMade  int            `json:"branches_made"`
	BranchesError int            `json:"branches_error"`
}

// ExecuteOptions parameterizes ExecuteSplit.
type ExecuteOptions struct {
	// RepoDir is the git repository branches are created in.
	RepoDir string
	// SourceDir is where plan file paths are resolved; files are copied from
	// here into RepoDir. Empty means RepoDir (files already in place).
	SourceDir string
	// DryRun reports what would happen without touching the repository.
	DryRun bool
	// Push pushes each branch to origin after committing.
	Push bool
}

// ExecuteSplit materializes a plan as git branches: for each PR descriptor it
// creates the branch off the plan's base branch, copies that PR's files from
// the source directory into the repository, commits, and optionally pushes.
// Per-branch failures are recorded in the result rather than aborting the
// whole run; the original branch is checked out again at the end.
func ExecuteSplit(ctx context.Context, client Client, p *plan.Plan, opts ExecuteOptions) (*Result, error) {
	if len(p.PRs) == 0 {
		return nil, fmt.Errorf("plan has no PRs to execute")
	}
	sourceDir := opts.SourceDir
	if sourceDir == "" {
		sourceDir = opts.RepoDir
	}
	res := &Result{RepoDir: opts.RepoDir, SourceDir: sourceDir, DryRun: opts.DryRun}

	if opts.DryRun {
		for _, pr := range p.PRs {
			res.Branches = append(res.Branches, BranchResult{
				Index:       pr.Index,
				Branch:      pr.BranchName,
				Status:      StatusDryRun,
				FilesCopied: pr.FileCount,
			})
		}
		return res, nil
	}

	original, err := client.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving current branch: %w", err)
	}
	defer func() {
		// Restore whatever branch the user was on.
		_ = client.Checkout(ctx, original)
	}()

	for _, pr := range p.PRs {
		br := executeBranch(ctx, client, sourceDir, opts, p.BaseBranch, pr)
		if br.Status == StatusError {
			res.BranchesError++
		} else {
			res.BranchesMade++
		}
		res.Branches = append(res.Branches, br)
	}
	return res, nil
}

// executeBranch creates and populates a single branch for one PR descriptor.
func executeBranch(ctx context.Context, client Client, sourceDir string, opts ExecuteOptions, base string, pr plan.PRDescriptor) BranchResult {
	br := BranchResult{Index: pr.Index, Branch: pr.BranchName}

	if err := client.CreateBranch(ctx, pr.BranchName, base); err != nil {
		br.Status = StatusError
		br.Error = err.Error()
		return br
	}

	var staged []string
	for _, rel := range pr.Files {
		src := filepath.Join(sourceDir, rel)
		dst := filepath.Join(opts.RepoDir, rel)
		if err := copyFile(src, dst); err != nil {
			br.Missing = append(br.Missing, rel)
			continue
		}
		staged = append(staged, rel)
	}
	br.FilesCopied = len(staged)

	if err := client.StageFiles(ctx, staged); err != nil {
		br.Status = StatusError
		br.Error = err.Error()
		return br
	}

	msg := fmt.Sprintf("%s\n\n%s", pr.Title, pr.Description)
	switch err := client.Commit(ctx, msg); {
	case errors.Is(err, ErrNothingToCommit):
		br.Status = StatusWarning
		br.Error = "no changes to commit"
		return br
	case err != nil:
		br.Status = StatusError
		br.Error = err.Error()
		return br
	}

	if opts.Push {
		if err := client.Push(ctx, pr.BranchName); err != nil {
			br.Status = StatusPartial
			br.Error = err.Error()
			return br
		}
	}

	if len(br.Missing) > 0 {
		br.Status = StatusPartial
		return br
	}
	br.Status = StatusSuccess
	return br
}

// copyFile copies src to dst, creating parent directories and preserving the
// source file mode.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
