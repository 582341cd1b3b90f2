// Package client is the typed HTTP client for the dashboard API. It is
// the transport layer under the UI session: one method per endpoint,
// no caching or retry of its own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdash/internal/domain"
)

// Client talks to a taskdash server.
type Client struct {
	BaseURL     string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// APIError wraps non-2xx responses. Envelope carries the decoded error
// body when the server answered with the standard envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// NotFound reports whether the error is a 404 from the API.
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login verifies credentials and stores the returned token on the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var resp LoginResult
	err := c.do(ctx, http.MethodPost, "auth/login", map[string]any{
		"username": username,
		"password": password,
	}, &resp)
	if err == nil {
		c.BearerToken = resp.Token
	}
	return resp, err
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "health", nil, nil)
}

// Users

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var resp []domain.User
	err := c.do(ctx, http.MethodGet, "users", nil, &resp)
	return resp, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var resp domain.User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("users/%d", id), nil, &resp)
	return resp, err
}

func (c *Client) CreateUser(ctx context.Context, in domain.InsertUser) (domain.User, error) {
	var resp domain.User
	err := c.do(ctx, http.MethodPost, "users", in, &resp)
	return resp, err
}

// Projects

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var resp []domain.Project
	err := c.do(ctx, http.MethodGet, "projects", nil, &resp)
	return resp, err
}

func (c *Client) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	var resp domain.Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("projects/%d", id), nil, &resp)
	return resp, err
}

func (c *Client) CreateProject(ctx context.Context, in domain.InsertProject) (domain.Project, error) {
	var resp domain.Project
	err := c.do(ctx, http.MethodPost, "projects", in, &resp)
	return resp, err
}

func (c *Client) UpdateProject(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	var resp domain.Project
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("projects/%d", id), patch, &resp)
	return resp, err
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("projects/%d", id), nil, nil)
}

// Tasks

func (c *Client) ListTasks(ctx context.Context, f domain.TaskFilters) ([]domain.Task, error) {
	q := url.Values{}
	if f.ProjectID != 0 {
		q.Set("projectId", fmt.Sprint(f.ProjectID))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.AssigneeID != 0 {
		q.Set("assigneeId", fmt.Sprint(f.AssigneeID))
	}
	endpoint := "tasks"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp []domain.Task
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	var resp domain.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("tasks/%d", id), nil, &resp)
	return resp, err
}

func (c *Client) CreateTask(ctx context.Context, in domain.InsertTask) (domain.Task, error) {
	var resp domain.Task
	err := c.do(ctx, http.MethodPost, "tasks", in, &resp)
	return resp, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	var resp domain.Task
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("tasks/%d", id), patch, &resp)
	return resp, err
}

// ToggleTask flips a task between completed and todo.
func (c *Client) ToggleTask(ctx context.Context, id int64, completed bool) (domain.Task, error) {
	return c.UpdateTask(ctx, id, domain.TaskPatch{Completed: &completed})
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("tasks/%d", id), nil, nil)
}

// Comments

func (c *Client) TaskComments(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	var resp []domain.Comment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("tasks/%d/comments", taskID), nil, &resp)
	return resp, err
}

func (c *Client) AddComment(ctx context.Context, taskID int64, content string) (domain.Comment, error) {
	var resp domain.Comment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("tasks/%d/comments", taskID), map[string]any{
		"content": content,
	}, &resp)
	return resp, err
}

// Activities

func (c *Client) RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	endpoint := "activities"
	if limit > 0 {
		endpoint = fmt.Sprintf("activities?limit=%d", limit)
	}
	var resp []domain.Activity
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) RecordActivity(ctx context.Context, in domain.InsertActivity) (domain.Activity, error) {
	var resp domain.Activity
	err := c.do(ctx, http.MethodPost, "activities", in, &resp)
	return resp, err
}

// Dashboard

func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var resp domain.DashboardStats
	err := c.do(ctx, http.MethodGet, "dashboard/stats", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/api/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
