// Package jira is a thin client over the issue tracker's query and
// transition API, limited to the fields the resolution flow consumes.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Issue is the tracker issue snapshot shown to the operator.
type Issue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

// Version is a project release version.
type Version struct {
	Name     string `json:"name"`
	Released bool   `json:"released"`
}

// Transition is an available workflow transition for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolution is an available issue resolution.
type Resolution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to a JIRA-style tracker with basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient HTTPClient
}

// NewClient creates a tracker client. Credentials are passed through from
// the environment-driven config.
func NewClient(baseURL, username, password string, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, username: username, password: password, httpClient: httpClient}
}

// Issue fetches an issue by key.
func (c *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	var issue Issue
	url := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=summary,status,assignee", c.baseURL, key)
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &issue); err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", key, err)
	}
	return &issue, nil
}

// ProjectVersions fetches all versions of a project.
func (c *Client) ProjectVersions(ctx context.Context, projectKey string) ([]Version, error) {
	var versions []Version
	url := fmt.Sprintf("%s/rest/api/2/project/%s/versions", c.baseURL, projectKey)
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &versions); err != nil {
		return nil, fmt.Errorf("failed to get versions for %s: %w", projectKey, err)
	}
	return versions, nil
}

// Transitions fetches the transitions currently available for an issue.
func (c *Client) Transitions(ctx context.Context, key string) ([]Transition, error) {
	var out struct {
		Transitions []Transition `json:"transitions"`
	}
	url := fmt.Sprintf("%s/rest/api/2/issue/%s/transitions", c.baseURL, key)
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get transitions for %s: %w", key, err)
	}
	return out.Transitions, nil
}

// Resolutions fetches the tracker's resolution list.
func (c *Client) Resolutions(ctx context.Context) ([]Resolution, error) {
	var resolutions []Resolution
	url := c.baseURL + "/rest/api/2/resolution"
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &resolutions); err != nil {
		return nil, fmt.Errorf("failed to get resolutions: %w", err)
	}
	return resolutions, nil
}

// TransitionIssue applies a transition with the chosen resolution, fix
// versions, and an optional comment.
func (c *Client) TransitionIssue(ctx context.Context, key, transitionID, resolutionID string, fixVersions []string, comment string) error {
	type name struct {
		Name string `json:"name"`
	}
	body := map[string]any{
		"transition": map[string]string{"id": transitionID},
	}
	fields := map[string]any{}
	if resolutionID != "" {
		fields["resolution"] = map[string]string{"id": resolutionID}
	}
	if len(fixVersions) > 0 {
		versions := make([]name, len(fixVersions))
		for i, v := range fixVersions {
			versions[i] = name{Name: v}
		}
		fields["fixVersions"] = versions
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	if comment != "" {
		body["update"] = map[string]any{
			"comment": []map[string]any{
				{"add": map[string]string{"body": comment}},
			},
		}
	}

	url := fmt.Sprintf("%s/rest/api/2/issue/%s/transitions", c.baseURL, key)
	if err := c.doRequest(ctx, http.MethodPost, url, body, nil); err != nil {
		return fmt.Errorf("failed to transition %s: %w", key, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, url string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		return nil
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
