package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskdash/internal/domain"
)

func testStore(t *testing.T) *MemStore {
	t.Helper()
	s := NewMemStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.Now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return s
}

func mustProject(t *testing.T, s Store, name string) domain.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), domain.InsertProject{
		Name:      name,
		Category:  "web",
		Priority:  "medium",
		StartDate: "2026-08-01T00:00:00Z",
		DueDate:   "2026-09-01T00:00:00Z",
	}, nil)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func mustTask(t *testing.T, s Store, in domain.InsertTask) domain.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestSharedIDCounter(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, domain.InsertUser{Username: "a", Email: "a@x", Password: "pw", Name: "A"})
	if err != nil {
		t.Fatal(err)
	}
	p := mustProject(t, s, "P1")
	task := mustTask(t, s, domain.InsertTask{Title: "T1", Priority: "low"})
	c, err := s.CreateComment(ctx, domain.InsertComment{Content: "hi", TaskID: &task.ID}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ids := []int64{u.ID, p.ID, task.ID, c.ID}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not strictly increasing across kinds: %v", ids)
		}
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p1 := mustProject(t, s, "P1")
	p2 := mustProject(t, s, "P2")
	p3 := mustProject(t, s, "P3")
	if !(p1.ID < p2.ID && p2.ID < p3.ID) {
		t.Fatalf("expected increasing project ids, got %d %d %d", p1.ID, p2.ID, p3.ID)
	}

	ok, err := s.DeleteProject(ctx, p3.ID)
	if err != nil || !ok {
		t.Fatalf("delete existing: ok=%v err=%v", ok, err)
	}
	p4 := mustProject(t, s, "P4")
	if p4.ID <= p3.ID {
		t.Fatalf("id %d reused after deleting %d", p4.ID, p3.ID)
	}
}

func TestCreateDefaults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, domain.InsertUser{Username: "a", Email: "a@x", Password: "pw", Name: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "member" || u.Status != "available" {
		t.Fatalf("user defaults: role=%q status=%q", u.Role, u.Status)
	}
	if u.PasswordHash == "" || u.PasswordHash == "pw" {
		t.Fatalf("password stored raw or empty: %q", u.PasswordHash)
	}
	if u.CreatedAt == "" {
		t.Fatal("createdAt not assigned")
	}

	p := mustProject(t, s, "P")
	if p.Status != "active" || p.Progress != 0 {
		t.Fatalf("project defaults: status=%q progress=%d", p.Status, p.Progress)
	}

	task := mustTask(t, s, domain.InsertTask{Title: "T", Priority: "low"})
	if task.Status != "todo" || task.Completed {
		t.Fatalf("task defaults: status=%q completed=%v", task.Status, task.Completed)
	}
}

func TestProgressClamped(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	over := 150
	p, err := s.CreateProject(ctx, domain.InsertProject{
		Name: "P", Category: "web", Priority: "low",
		StartDate: "2026-08-01T00:00:00Z", DueDate: "2026-09-01T00:00:00Z",
		Progress: &over,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Progress != 100 {
		t.Fatalf("progress not clamped on create: %d", p.Progress)
	}

	under := -5
	p, err = s.UpdateProject(ctx, p.ID, domain.ProjectPatch{Progress: &under})
	if err != nil {
		t.Fatal(err)
	}
	if p.Progress != 0 {
		t.Fatalf("progress not clamped on patch: %d", p.Progress)
	}
}

func TestTaskCompletedStatusLockstep(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	task := mustTask(t, s, domain.InsertTask{Title: "T", Priority: "high", Status: "in_progress"})

	done := true
	got, err := s.UpdateTask(ctx, task.ID, domain.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "completed" || !got.Completed {
		t.Fatalf("completed=true should force status completed, got %q/%v", got.Status, got.Completed)
	}

	undone := false
	got, err = s.UpdateTask(ctx, task.ID, domain.TaskPatch{Completed: &undone})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "todo" || got.Completed {
		t.Fatalf("completed=false should force status todo, got %q/%v", got.Status, got.Completed)
	}

	status := "completed"
	got, err = s.UpdateTask(ctx, task.ID, domain.TaskPatch{Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Fatal("status=completed should set completed=true")
	}

	status = "in_progress"
	got, err = s.UpdateTask(ctx, task.ID, domain.TaskPatch{Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Fatal("status=in_progress should clear completed")
	}
}

func TestShallowPatchSemantics(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, domain.InsertProject{
		Name: "P", Description: "keep me", Category: "web", Priority: "high",
		StartDate: "2026-08-01T00:00:00Z", DueDate: "2026-09-01T00:00:00Z",
		TeamMembers: []int64{1, 2, 3},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	name := "Renamed"
	members := []int64{9}
	got, err := s.UpdateProject(ctx, p.ID, domain.ProjectPatch{Name: &name, TeamMembers: &members})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("name not patched: %q", got.Name)
	}
	if got.Description != "keep me" || got.Priority != "high" {
		t.Fatal("omitted fields must be untouched")
	}
	if len(got.TeamMembers) != 1 || got.TeamMembers[0] != 9 {
		t.Fatalf("teamMembers must be replaced wholesale, got %v", got.TeamMembers)
	}
}

func TestTaskFiltersConjunctive(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := mustProject(t, s, "P")

	mustTask(t, s, domain.InsertTask{Title: "A", Priority: "high", Status: "todo", ProjectID: &p.ID})
	mustTask(t, s, domain.InsertTask{Title: "B", Priority: "low", Status: "todo", ProjectID: &p.ID})
	mustTask(t, s, domain.InsertTask{Title: "C", Priority: "high", Status: "completed"})

	all, err := s.ListTasks(ctx, domain.TaskFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("empty filters must match all, got %d", len(all))
	}

	got, err := s.ListTasks(ctx, domain.TaskFilters{ProjectID: p.ID, Priority: "high"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("conjunctive filter mismatch: %+v", got)
	}
}

func TestMissingIDIsRecoverable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	mustTask(t, s, domain.InsertTask{Title: "T", Priority: "low"})

	if _, err := s.GetTask(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: %v", err)
	}
	title := "x"
	if _, err := s.UpdateTask(ctx, 999, domain.TaskPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	ok, err := s.DeleteTask(ctx, 999)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("delete of missing id reported success")
	}
	left, _ := s.ListTasks(ctx, domain.TaskFilters{})
	if len(left) != 1 {
		t.Fatalf("failed delete changed the collection: %d tasks", len(left))
	}
}

func TestDashboardStatsRecomputed(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, domain.InsertUser{Username: "a", Email: "a@x", Password: "pw", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	p := mustProject(t, s, "P")
	task := mustTask(t, s, domain.InsertTask{Title: "T", Priority: "low", ProjectID: &p.ID})

	stats, err := s.DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.DashboardStats{ActiveProjects: 1, CompletedTasks: 0, TeamMembers: 1, PendingTasks: 1}
	if stats != want {
		t.Fatalf("stats before toggle: %+v", stats)
	}

	done := true
	if _, err := s.UpdateTask(ctx, task.ID, domain.TaskPatch{Completed: &done}); err != nil {
		t.Fatal(err)
	}
	stats, err = s.DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want = domain.DashboardStats{ActiveProjects: 1, CompletedTasks: 1, TeamMembers: 1, PendingTasks: 0}
	if stats != want {
		t.Fatalf("stats after toggle: %+v", stats)
	}
}

func TestUniqueUsernameAndEmail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.CreateUser(ctx, domain.InsertUser{Username: "a", Email: "a@x", Password: "pw", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreateUser(ctx, domain.InsertUser{Username: "a", Email: "b@x", Password: "pw", Name: "B"})
	var verr domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "username" {
		t.Fatalf("duplicate username: %v", err)
	}
	_, err = s.CreateUser(ctx, domain.InsertUser{Username: "b", Email: "a@x", Password: "pw", Name: "B"})
	if !errors.As(err, &verr) || verr.Field != "email" {
		t.Fatalf("duplicate email: %v", err)
	}
}

func TestRecentActivitiesOrderAndLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		if _, err := s.CreateActivity(ctx, domain.InsertActivity{Type: "task_created", Description: "t"}, nil); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.RecentActivities(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Fatalf("default limit: got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt > got[i-1].CreatedAt {
			t.Fatalf("activities not newest-first at %d", i)
		}
	}

	got, err = s.RecentActivities(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("explicit limit: got %d", len(got))
	}
}

func TestDanglingReferencesAllowed(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := mustProject(t, s, "P")
	task := mustTask(t, s, domain.InsertTask{Title: "T", Priority: "low", ProjectID: &p.ID})

	if ok, err := s.DeleteProject(ctx, p.ID); err != nil || !ok {
		t.Fatalf("delete project: ok=%v err=%v", ok, err)
	}
	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("task should survive project delete: %v", err)
	}
	if got.ProjectID == nil || *got.ProjectID != p.ID {
		t.Fatal("task projectId should keep the dangling reference")
	}
}

func TestSeed(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := Seed(ctx, s); err != nil {
		t.Fatal(err)
	}
	stats, err := s.DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TeamMembers != 4 || stats.ActiveProjects != 2 {
		t.Fatalf("unexpected seeded stats: %+v", stats)
	}
	u, err := s.GetUserByUsername(ctx, "john.doe")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(u.PasswordHash, "password") {
		t.Fatal("seeded credential should verify")
	}
}
