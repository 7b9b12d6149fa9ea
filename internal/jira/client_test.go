package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/AIRFLOW-123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("fields") != "summary,status,assignee" {
			t.Errorf("fields = %q", r.URL.Query().Get("fields"))
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "releasebot" || pass != "hunter2" {
			t.Errorf("basic auth = %q/%q ok=%v", user, pass, ok)
		}
		w.Write([]byte(`{
			"key": "AIRFLOW-123",
			"fields": {
				"summary": "Scheduler race",
				"status": {"name": "Open"},
				"assignee": {"displayName": "Jane Dev"}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "releasebot", "hunter2", server.Client())
	issue, err := client.Issue(context.Background(), "AIRFLOW-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if issue.Key != "AIRFLOW-123" || issue.Fields.Summary != "Scheduler race" {
		t.Errorf("issue = %+v", issue)
	}
	if issue.Fields.Status.Name != "Open" || issue.Fields.Assignee.DisplayName != "Jane Dev" {
		t.Errorf("issue fields = %+v", issue.Fields)
	}
}

func TestProjectVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/project/AIRFLOW/versions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"name": "1.8.2", "released": true},
			{"name": "1.9.0", "released": false}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", server.Client())
	versions, err := client.ProjectVersions(context.Background(), "AIRFLOW")
	if err != nil {
		t.Fatalf("ProjectVersions failed: %v", err)
	}
	if len(versions) != 2 || !versions[0].Released || versions[1].Name != "1.9.0" {
		t.Errorf("versions = %+v", versions)
	}
}

func TestTransitions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transitions": [{"id": "5", "name": "Resolve Issue"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", server.Client())
	transitions, err := client.Transitions(context.Background(), "AIRFLOW-123")
	if err != nil {
		t.Fatalf("Transitions failed: %v", err)
	}
	if len(transitions) != 1 || transitions[0].ID != "5" || transitions[0].Name != "Resolve Issue" {
		t.Errorf("transitions = %+v", transitions)
	}
}

func TestTransitionIssue(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "releasebot", "hunter2", server.Client())
	err := client.TransitionIssue(context.Background(),
		"AIRFLOW-123", "5", "1", []string{"1.9.0", "2.0.0"}, "Merged to master")
	if err != nil {
		t.Fatalf("TransitionIssue failed: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/rest/api/2/issue/AIRFLOW-123/transitions" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}

	transition, _ := gotBody["transition"].(map[string]any)
	if transition["id"] != "5" {
		t.Errorf("transition = %v", gotBody["transition"])
	}
	fields, _ := gotBody["fields"].(map[string]any)
	resolution, _ := fields["resolution"].(map[string]any)
	if resolution["id"] != "1" {
		t.Errorf("resolution = %v", fields["resolution"])
	}
	fixVersions, _ := fields["fixVersions"].([]any)
	if len(fixVersions) != 2 {
		t.Fatalf("fixVersions = %v", fields["fixVersions"])
	}
	first, _ := fixVersions[0].(map[string]any)
	if first["name"] != "1.9.0" {
		t.Errorf("first fix version = %v", fixVersions[0])
	}
	update, _ := gotBody["update"].(map[string]any)
	comments, _ := update["comment"].([]any)
	if len(comments) != 1 {
		t.Fatalf("comments = %v", update["comment"])
	}
	add, _ := comments[0].(map[string]any)
	body, _ := add["add"].(map[string]any)
	if body["body"] != "Merged to master" {
		t.Errorf("comment = %v", comments[0])
	}
}

func TestTransitionIssueOmitsEmptyParts(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", server.Client())
	if err := client.TransitionIssue(context.Background(), "AIRFLOW-123", "5", "", nil, ""); err != nil {
		t.Fatalf("TransitionIssue failed: %v", err)
	}
	if _, ok := gotBody["fields"]; ok {
		t.Errorf("fields present in body: %v", gotBody)
	}
	if _, ok := gotBody["update"]; ok {
		t.Errorf("update present in body: %v", gotBody)
	}
}

func TestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", server.Client())
	if _, err := client.Issue(context.Background(), "AIRFLOW-123"); err == nil {
		t.Errorf("expected error for 401 response")
	}
}
