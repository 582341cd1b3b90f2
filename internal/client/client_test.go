package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"taskdash/internal/domain"
	"taskdash/internal/server"
	"taskdash/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	handler, err := server.New(server.Config{
		Store: store.NewMemStore(),
		Auth:  server.AuthConfig{JWTSecret: "test-secret"},
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ln.Close()
	})
	return New("http://" + ln.Addr().String())
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	user, err := c.CreateUser(ctx, domain.InsertUser{
		Username: "john.doe",
		Email:    "john@taskdash.dev",
		Password: "hunter22",
		Name:     "John Doe",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	login, err := c.Login(ctx, "john.doe", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Token == "" || c.BearerToken != login.Token {
		t.Fatal("token not stored on client")
	}

	project, err := c.CreateProject(ctx, domain.InsertProject{
		Name:      "Website Redesign",
		Category:  "web",
		Priority:  "high",
		StartDate: "2026-08-01T00:00:00Z",
		DueDate:   "2026-09-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.Status != "active" {
		t.Fatalf("project defaults: %+v", project)
	}
	if project.CreatedBy == nil || *project.CreatedBy != user.ID {
		t.Fatalf("attribution: %+v", project.CreatedBy)
	}

	task, err := c.CreateTask(ctx, domain.InsertTask{
		Title:     "Write docs",
		Priority:  "high",
		ProjectID: &project.ID,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, err := c.ListTasks(ctx, domain.TaskFilters{ProjectID: project.ID, Status: "todo"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("filtered list: %+v", tasks)
	}

	toggled, err := c.ToggleTask(ctx, task.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !toggled.Completed || toggled.Status != "completed" {
		t.Fatalf("toggle: %+v", toggled)
	}

	if _, err := c.AddComment(ctx, task.ID, "looks good"); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	comments, err := c.TaskComments(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].Content != "looks good" {
		t.Fatalf("comments: %+v", comments)
	}

	stats, err := c.DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ActiveProjects != 1 || stats.CompletedTasks != 1 {
		t.Fatalf("stats: %+v", stats)
	}

	if err := c.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	_, err = c.GetProject(ctx, project.ID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.NotFound() || apiErr.Code != "not_found" {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateProject(context.Background(), domain.InsertProject{
		Name:      "Bad",
		Category:  "web",
		Priority:  "urgent",
		StartDate: "2026-08-01T00:00:00Z",
		DueDate:   "2026-09-01T00:00:00Z",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "bad_request" {
		t.Fatalf("envelope: %+v", apiErr)
	}
}
