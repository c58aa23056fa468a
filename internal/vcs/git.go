// Package vcs executes split plans against a git repository: one branch per
// planned pull request, populated with copies of that PR's files, committed
// and optionally pushed. All git access goes through the Client interface so
// the execution logic is testable without a repository.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client is the set of git operations split execution needs.
type Client interface {
	// CurrentBranch returns the name of the checked-out branch.
	CurrentBranch(ctx context.Context) (string, error)
	// CreateBranch creates branch from base and checks it out. If the branch
	// already exists it is checked out as-is.
	CreateBranch(ctx context.Context, branch, base string) error
	// Checkout switches to an existing branch.
	Checkout(ctx context.Context, branch string) error
	// StageFiles stages the given paths, relative to the repository root.
	StageFiles(ctx context.Context, paths []string) error
	// Commit records staged changes with the given message. A clean index is
	// reported via ErrNothingToCommit.
	Commit(ctx context.Context, message string) error
	// Push pushes branch to origin with --set-upstream.
	Push(ctx context.Context, branch string) error
}

// ErrNothingToCommit is returned by Commit when the index is clean.
var ErrNothingToCommit = fmt.Errorf("nothing to commit")

// GitClient implements Client by shelling out to the git CLI with -C dir.
type GitClient struct {
	dir string
}

// NewGitClient creates a GitClient for the repository at dir. It verifies git
// is installed and dir is inside a work tree.
func NewGitClient(ctx context.Context, dir string) (*GitClient, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git not available: %w", err)
	}
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--git-dir")
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("not a git repository: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return &GitClient{dir: dir}, nil
}

// Dir returns the repository directory the client operates on.
func (g *GitClient) Dir() string { return g.dir }

// CurrentBranch returns the name of the checked-out branch.
func (g *GitClient) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CreateBranch creates branch from base and checks it out, or checks out the
// branch if it already exists.
func (g *GitClient) CreateBranch(ctx context.Context, branch, base string) error {
	if g.branchExists(ctx, branch) {
		return g.Checkout(ctx, branch)
	}
	args := []string{"checkout", "-b", branch}
	if base != "" {
		args = append(args, base)
	}
	_, err := g.run(ctx, args...)
	return err
}

// Checkout switches to an existing branch.
func (g *GitClient) Checkout(ctx context.Context, branch string) error {
	_, err := g.run(ctx, "checkout", branch)
	return err
}

// StageFiles stages the given paths. Paths are passed after "--" so names
// starting with a dash cannot be read as flags.
func (g *GitClient) StageFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := g.run(ctx, args...)
	return err
}

// Commit records staged changes. A clean index returns ErrNothingToCommit.
func (g *GitClient) Commit(ctx context.Context, message string) error {
	status, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(status) == "" {
		return ErrNothingToCommit
	}
	_, err = g.run(ctx, "commit", "-m", message)
	return err
}

// Push pushes branch to origin with --set-upstream.
func (g *GitClient) Push(ctx context.Context, branch string) error {
	_, err := g.run(ctx, "push", "--set-upstream", "origin", branch)
	return err
}

// branchExists checks whether branch already exists locally.
func (g *GitClient) branchExists(ctx context.Context, branch string) bool {
	out, err := g.run(ctx, "branch", "--list", branch)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

// run executes a git subcommand in the client's directory, returning stdout.
func (g *GitClient) run(ctx context.Context, args ...string) (string, error) {
	cmdArgs := append([]string{"-C", g.dir}, args...)
	cmd := exec.CommandContext(ctx, "git", cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
