// Package forge creates pull requests on a code host from an executed split
// plan. Only the GitHub REST API is implemented; the Client interface keeps
// the batch logic host-agnostic and testable.
package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Client creates pull requests on a code host.
type Client interface {
	CreatePR(ctx context.Context, req CreateRequest) (*PullRequest, error)
}

// CreateRequest describes one pull request to open.
type CreateRequest struct {
	Repo  string `json:"repo"` // "owner/name"
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"` // source branch
	Base  string `json:"base"` // target branch
	Draft bool   `json:"draft"`
}

// PullRequest is the subset of the API response the splitter uses.
type PullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
}

// ErrNoToken indicates no GitHub token could be resolved from the
// environment or the gh CLI.
var ErrNoToken = fmt.Errorf("no GitHub token found: set GITHUB_PAT_TOKEN or GITHUB_TOKEN, or log in with gh")

// ResolveGitHubToken finds a token, in order: the GITHUB_PAT_TOKEN and
// GITHUB_TOKEN environment variables, then `gh auth token`. Returns ErrNoToken
// when all sources are empty.
func ResolveGitHubToken(ctx context.Context) (string, error) {
	for _, key := range []string{"GITHUB_PAT_TOKEN", "GITHUB_TOKEN"} {
		if tok := strings.TrimSpace(os.Getenv(key)); tok != "" {
			return tok, nil
		}
	}
	if _, err := exec.LookPath("gh"); err == nil {
		out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
		if err == nil {
			if tok := strings.TrimSpace(string(out)); tok != "" {
				return tok, nil
			}
		}
	}
	return "", ErrNoToken
}

// GitHubClient implements Client against the GitHub REST API.
type GitHubClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewGitHubClient creates a client authenticated with token.
func NewGitHubClient(token string) *GitHubClient {
	return &GitHubClient{
		baseURL: "https://api.github.com",
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewGitHubClientForURL is NewGitHubClient with a custom API base URL, for
// GitHub Enterprise installs and tests.
func NewGitHubClientForURL(baseURL, token string) *GitHubClient {
	c := NewGitHubClient(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// CreatePR opens a pull request via POST /repos/{owner}/{repo}/pulls.
func (c *GitHubClient) CreatePR(ctx context.Context, req CreateRequest) (*PullRequest, error) {
	payload, err := json.Marshal(map[string]any{
		"title": req.Title,
		"body":  req.Body,
		"head":  req.Head,
		"base":  req.Base,
		"draft": req.Draft,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/pulls", c.baseURL, req.Repo)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("creating PR for %s: %w", req.Head, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("creating PR for %s: %s: %s", req.Head, resp.Status, apiErrorMessage(body))
	}

	var pr PullRequest
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &pr, nil
}

// apiErrorMessage extracts the "message" field from a GitHub error body,
// falling back to the trimmed raw body.
func apiErrorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
