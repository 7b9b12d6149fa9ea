// Package github is a thin client over the code host's REST API, limited to
// the PR, commit, event, branch, and release fields the tool consumes.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.github.com"

// ErrRateLimited indicates the API rate limit is exhausted. Authenticated
// requests get a far higher quota, so the hint is part of the message.
var ErrRateLimited = errors.New(
	"exceeded the GitHub API rate limit; set GITHUB_OAUTH_KEY to authenticate requests")

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PullRequest is the PR snapshot the workflow consumes. It is fetched once
// at workflow start and never refreshed mid-run.
type PullRequest struct {
	Number    int    `json:"number"`
	URL       string `json:"html_url"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Mergeable *bool  `json:"mergeable"`
	Base      Ref    `json:"base"`
	Head      Ref    `json:"head"`
	User      User   `json:"user"`
}

// Ref identifies one side of a pull request.
type Ref struct {
	Ref  string `json:"ref"`
	User User   `json:"user"`
}

// User carries the only account field the tool reads.
type User struct {
	Login string `json:"login"`
}

// Commit is one commit on a pull request.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	} `json:"commit"`
}

// Event is one lifecycle event on a pull request's issue.
type Event struct {
	Actor    User   `json:"actor"`
	Event    string `json:"event"`
	CommitID string `json:"commit_id"`
}

// Branch is a branch on the canonical repository.
type Branch struct {
	Name string `json:"name"`
}

// Release is a published release, used by the update check.
type Release struct {
	TagName string `json:"tag_name"`
}

// Client talks to the code host's REST API for a single repository.
type Client struct {
	baseURL    string
	slug       string
	token      string
	httpClient HTTPClient
}

// NewClient creates a client for the repository slug ("owner/name"). An
// empty token sends unauthenticated requests.
func NewClient(baseURL, slug, token string, httpClient HTTPClient) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, slug: slug, token: token, httpClient: httpClient}
}

// PullRequest fetches PR metadata by number.
func (c *Client) PullRequest(ctx context.Context, number int) (*PullRequest, error) {
	var pr PullRequest
	url := fmt.Sprintf("%s/repos/%s/pulls/%d", c.baseURL, c.slug, number)
	if err := c.doRequest(ctx, url, &pr); err != nil {
		return nil, fmt.Errorf("failed to get PR #%d: %w", number, err)
	}
	return &pr, nil
}

// Commits fetches the PR's commit list.
func (c *Client) Commits(ctx context.Context, number int) ([]Commit, error) {
	var commits []Commit
	url := fmt.Sprintf("%s/repos/%s/pulls/%d/commits?per_page=100", c.baseURL, c.slug, number)
	if err := c.doRequest(ctx, url, &commits); err != nil {
		return nil, fmt.Errorf("failed to get commits for PR #%d: %w", number, err)
	}
	return commits, nil
}

// IssueEvents fetches the PR's issue event list.
func (c *Client) IssueEvents(ctx context.Context, number int) ([]Event, error) {
	var events []Event
	url := fmt.Sprintf("%s/repos/%s/issues/%d/events?per_page=100", c.baseURL, c.slug, number)
	if err := c.doRequest(ctx, url, &events); err != nil {
		return nil, fmt.Errorf("failed to get events for PR #%d: %w", number, err)
	}
	return events, nil
}

// Branches fetches the repository's branch list.
func (c *Client) Branches(ctx context.Context) ([]Branch, error) {
	var branches []Branch
	url := fmt.Sprintf("%s/repos/%s/branches?per_page=100", c.baseURL, c.slug)
	if err := c.doRequest(ctx, url, &branches); err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	return branches, nil
}

// LatestRelease fetches the most recent published release for a repository
// slug, which need not be the client's own. Returns nil when the repo has no
// releases.
func (c *Client) LatestRelease(ctx context.Context, slug string) (*Release, error) {
	var release Release
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, slug)
	if err := c.doRequest(ctx, url, &release); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest release: %w", err)
	}
	return &release, nil
}

var errNotFound = errors.New("not found")

func (c *Client) doRequest(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	default:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
