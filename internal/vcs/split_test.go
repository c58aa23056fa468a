package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/papapumpkin/supernova/internal/plan"
)

// fakeClient records git operations without touching a repository.
type fakeClient struct {
	branch     string
	created    []string
	checkouts  []string
	staged     [][]string
	commits    []string
	pushed     []string
	commitErr  error
	createErr  error
	currentErr error
}

func (f *fakeClient) CurrentBranch(ctx context.Context) (string, error) {
	if f.currentErr != nil {
		return "", f.currentErr
	}
	if f.branch == "" {
		return "main", nil
	}
	return f.branch, nil
}

func (f *fakeClient) CreateBranch(ctx context.Context, branch, base string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, branch)
	return nil
}

func (f *fakeClient) Checkout(ctx context.Context, branch string) error {
	f.checkouts = append(f.checkouts, branch)
	return nil
}

func (f *fakeClient) StageFiles(ctx context.Context, paths []string) error {
	f.staged = append(f.staged, paths)
	return nil
}

func (f *fakeClient) Commit(ctx context.Context, message string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, message)
	return nil
}

func (f *fakeClient) Push(ctx context.Context, branch string) error {
	f.pushed = append(f.pushed, branch)
	return nil
}

// testPlan builds a two-PR plan whose files exist under sourceDir.
func testPlan(t *testing.T, sourceDir string) *plan.Plan {
	t.Helper()
	files := []string{"api/handlers.py", "api/routes.py", "utils/helpers.py"}
	for _, rel := range files {
		path := filepath.Join(sourceDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("print('hi')\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &plan.Plan{
		Strategy:   "by_module",
		BaseBranch: "main",
		PRs: []plan.PRDescriptor{
			{Index: 1, Name: "api", BranchName: "user/feature-api", Title: "Split PR: api module", Description: "Implementation of api module", Files: files[:2], FileCount: 2},
			{Index: 2, Name: "utils", BranchName: "user/feature-utils", Title: "Split PR: utils module", Description: "Implementation of utils module", Files: files[2:], FileCount: 1, DependsOn: []int{1}},
		},
	}
}

func TestExecuteSplit_DryRun(t *testing.T) {
	t.Parallel()
	source := t.TempDir()
	p := testPlan(t, source)
	client := &fakeClient{}

	res, err := ExecuteSplit(context.Background(), client, p, ExecuteOptions{
		RepoDir:   t.TempDir(),
		SourceDir: source,
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("ExecuteSplit: %v", err)
	}
	if len(res.Branches) != 2 {
		t.Fatalf("expected 2 branch results, got %d", len(res.Branches))
	}
	for _, br := range res.Branches {
		if br.Status != StatusDryRun {
			t.Errorf("branch %s: status=%q, want %q", br.Branch, br.Status, StatusDryRun)
		}
	}
	if len(client.created) != 0 || len(client.commits) != 0 {
		t.Errorf("dry run touched the repository: created=%v commits=%v", client.created, client.commits)
	}
}

func TestExecuteSplit_CreatesBranchesAndCommits(t *testing.T) {
	t.Parallel()
	source := t.TempDir()
	repo := t.TempDir()
	p := testPlan(t, source)
	client := &fakeClient{branch: "main"}

	res, err := ExecuteSplit(context.Background(), client, p, ExecuteOptions{
		RepoDir:   repo,
		SourceDir: source,
	})
	if err != nil {
		t.Fatalf("ExecuteSplit: %v", err)
	}

	if res.BranchesMade != 2 || res.BranchesError != 0 {
		t.Fatalf("made=%d errors=%d, want 2/0", res.BranchesMade, res.BranchesError)
	}
	wantBranches := []string{"user/feature-api", "user/feature-utils"}
	for i, want := range wantBranches {
		if client.created[i] != want {
			t.Errorf("created[%d]=%q, want %q", i, client.created[i], want)
		}
	}
	if len(client.commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(client.commits))
	}

	// Files must have been copied into the repo.
	for _, rel := range []string{"api/handlers.py", "api/routes.py", "utils/helpers.py"} {
		if _, err := os.Stat(filepath.Join(repo, rel)); err != nil {
			t.Errorf("expected %s copied into repo: %v", rel, err)
		}
	}

	// Original branch restored last.
	if n := len(client.checkouts); n == 0 || client.checkouts[n-1] != "main" {
		t.Errorf("expected final checkout of main, got %v", client.checkouts)
	}
	// No push without the option.
	if len(client.pushed) != 0 {
		t.Errorf("unexpected pushes: %v", client.pushed)
	}
}

func TestExecuteSplit_PushOption(t *testing.T) {
	t.Parallel()
	source := t.TempDir()
	p := testPlan(t, source)
	client := &fakeClient{}

	res, err := ExecuteSplit(context.Background(), client, p, ExecuteOptions{
		RepoDir:   t.TempDir(),
		SourceDir: source,
		Push:      true,
	})
	if err != nil {
		t.Fatalf("ExecuteSplit: %v", err)
	}
	if res.BranchesMade != 2 {
		t.Fatalf("made=%d, want 2", res.BranchesMade)
	}
	if len(client.pushed) != 2 {
		t.Errorf("expected 2 pushes, got %v", client.pushed)
	}
}

func TestExecuteSplit_MissingFilesArePartial(t *testing.T) {
	t.Parallel()
	source := t.TempDir()
	p := testPlan(t, source)
	// Remove one planned file so the copy fails for it.
	if err := os.Remove(filepath.Join(source, "api/routes.py")); err != nil {
		t.Fatal(err)
	}
	client := &fakeClient{}

	res, err := ExecuteSplit(context.Background(), client, p, ExecuteOptions{
		RepoDir:   t.TempDir(),
		SourceDir: source,
	})
	if err != nil {
		t.Fatalf("ExecuteSplit: %v", err)
	}

	first := res.Branches[0]
	if first.Status != StatusPartial {
		t.Errorf("status=%q, want %q", first.Status, StatusPartial)
	}
	if len(first.Missing) != 1 || first.Missing[0] != "api/routes.py" {
		t.Errorf("missing=%v, want [api/routes.py]", first.Missing)
	}
	if first.FilesCopied != 1 {
		t.Errorf("files_copied=%d, want 1", first.FilesCopied)
	}
}

func TestExecuteSplit_CleanIndexIsWarning(t *testing.T) {
	t.Parallel()
	source := t.TempDir()
	p := testPlan(t, source)
	client := &fakeClient{commitErr: ErrNothingToCommit}

	res, err := ExecuteSplit(context.Background(), client, p, ExecuteOptions{
		RepoDir:   t.TempDir(),
		SourceDir: source,
	})
	if err != nil {
		t.Fatalf("ExecuteSplit: %v", err)
	}
	for _, br := range res.Branches {
		if br.Status != StatusWarning {
			t.Errorf("branch %s: status=%q, want %q", br.Branch, br.Status, StatusWarning)
		}
	}
}

func TestExecuteSplit_BranchErrorDoesNotAbort(t *testing.T) {
	t.Parallel()
	source := t.TempDir()
	p := testPlan(t, source)
	client := &fakeClient{createErr: errors.New("boom")}

	res, err := ExecuteSplit(context.Background(), client, p, ExecuteOptions{
		RepoDir:   t.TempDir(),
		SourceDir: source,
	})
	if err != nil {
		t.Fatalf("ExecuteSplit: %v", err)
	}
	if res.BranchesError != 2 {
		t.Errorf("errors=%d, want 2", res.BranchesError)
	}
	for _, br := range res.Branches {
		if br.Status != StatusError {
			t.Errorf("branch %s: status=%q, want %q", br.Branch, br.Status, StatusError)
		}
	}
}

func TestExecuteSplit_EmptyPlan(t *testing.T) {
	t.Parallel()
	_, err := ExecuteSplit(context.Background(), &fakeClient{}, &plan.Plan{}, ExecuteOptions{RepoDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for empty plan")
	}
}

func TestCopyFile_PreservesContent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "a", "src.txt")
	dst := filepath.Join(dir, "b", "c", "dst.txt")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatal(err)
	}
	want := []byte("line one\nline two\n")
	if err := os.WriteFile(src, want, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("content mismatch: %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode=%v, want 0600", info.Mode().Perm())
	}
}

func TestStatuses_AreDistinct(t *testing.T) {
	t.Parallel()
	statuses := []string{StatusSuccess, StatusPartial, StatusWarning, StatusError, StatusDryRun}
	seen := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		if seen[s] {
			t.Errorf("duplicate status %q", s)
		}
		seen[s] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 distinct statuses, got %d", len(seen))
	}
}

var _ Client = (*GitClient)(nil)

func ExampleExecuteSplit() {
	// A dry run reports planned branches without touching the repository.
	p := &plan.Plan{
		BaseBranch: "main",
		PRs: []plan.PRDescriptor{
			{Index: 1, Name: "core", BranchName: "split/core", FileCount: 3},
		},
	}
	res, _ := ExecuteSplit(context.Background(), &fakeClient{}, p, ExecuteOptions{RepoDir: ".", DryRun: true})
	fmt.Println(res.Branches[0].Status)
	// Output: dry_run
}
