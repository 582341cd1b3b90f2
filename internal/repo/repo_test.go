package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskdash/internal/db"
	"taskdash/internal/domain"
	"taskdash/internal/migrate"
	"taskdash/internal/store"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := New(conn)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	r.Now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return r
}

func TestMigrateIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		t.Fatal(err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	// The id counter is seeded exactly once, not once per run.
	var rows int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM id_sequence`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("id_sequence rows: %d", rows)
	}
}

func TestSharedSequenceAcrossKinds(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, domain.InsertUser{Username: "a", Email: "a@x", Password: "pw", Name: "A"})
	if err != nil {
		t.Fatal(err)
	}
	p, err := r.CreateProject(ctx, domain.InsertProject{
		Name: "P", Category: "web", Priority: "low",
		StartDate: "2026-08-01T00:00:00Z", DueDate: "2026-09-01T00:00:00Z",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	task, err := r.CreateTask(ctx, domain.InsertTask{Title: "T", Priority: "low"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !(u.ID < p.ID && p.ID < task.ID) {
		t.Fatalf("ids not strictly increasing across kinds: %d %d %d", u.ID, p.ID, task.ID)
	}

	if ok, err := r.DeleteTask(ctx, task.ID); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	next, err := r.CreateTask(ctx, domain.InsertTask{Title: "T2", Priority: "low"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if next.ID <= task.ID {
		t.Fatalf("id %d reused after deleting %d", next.ID, task.ID)
	}
}

func TestTaskRoundTripAndLockstep(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	due := "2026-08-20T00:00:00Z"
	task, err := r.CreateTask(ctx, domain.InsertTask{Title: "T", Priority: "high", DueDate: &due}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "todo" || got.Completed || got.DueDate == nil || *got.DueDate != due {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	done := true
	got, err = r.UpdateTask(ctx, task.ID, domain.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "completed" || !got.Completed {
		t.Fatalf("lockstep violated: %q/%v", got.Status, got.Completed)
	}
	// Stored row agrees with the returned value.
	got, err = r.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "completed" || !got.Completed {
		t.Fatalf("stored lockstep violated: %q/%v", got.Status, got.Completed)
	}
}

func TestProjectTeamMembersRoundTrip(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	p, err := r.CreateProject(ctx, domain.InsertProject{
		Name: "P", Category: "design", Priority: "medium",
		StartDate: "2026-08-01T00:00:00Z", DueDate: "2026-09-01T00:00:00Z",
		TeamMembers: []int64{4, 8, 15},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TeamMembers) != 3 || got.TeamMembers[2] != 15 {
		t.Fatalf("team members: %v", got.TeamMembers)
	}

	members := []int64{16}
	got, err = r.UpdateProject(ctx, p.ID, domain.ProjectPatch{TeamMembers: &members})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TeamMembers) != 1 || got.TeamMembers[0] != 16 {
		t.Fatalf("team members must be replaced wholesale: %v", got.TeamMembers)
	}
}

func TestFiltersAndStats(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	if _, err := r.CreateUser(ctx, domain.InsertUser{Username: "a", Email: "a@x", Password: "pw", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	p, err := r.CreateProject(ctx, domain.InsertProject{
		Name: "P", Category: "web", Priority: "low",
		StartDate: "2026-08-01T00:00:00Z", DueDate: "2026-09-01T00:00:00Z",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.CreateTask(ctx, domain.InsertTask{Title: "A", Priority: "high", ProjectID: &p.ID}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := r.CreateTask(ctx, domain.InsertTask{Title: "B", Priority: "low", Status: "completed", ProjectID: &p.ID}, nil); err != nil {
		t.Fatal(err)
	}

	got, err := r.ListTasks(ctx, domain.TaskFilters{ProjectID: p.ID, Priority: "high"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("filter mismatch: %+v", got)
	}

	stats, err := r.DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.DashboardStats{ActiveProjects: 1, CompletedTasks: 1, TeamMembers: 1, PendingTasks: 1}
	if stats != want {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestMissingIDSignals(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	if _, err := r.GetTask(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get missing: %v", err)
	}
	title := "x"
	if _, err := r.UpdateTask(ctx, 999, domain.TaskPatch{Title: &title}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	ok, err := r.DeleteProject(ctx, 999)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("delete of missing id reported success")
	}
}

func TestSeedAgainstSQLite(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	if err := store.Seed(ctx, r); err != nil {
		t.Fatal(err)
	}
	acts, err := r.RecentActivities(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(acts) != 4 {
		t.Fatalf("seeded activities: %d", len(acts))
	}
	for i := 1; i < len(acts); i++ {
		if acts[i].CreatedAt > acts[i-1].CreatedAt {
			t.Fatalf("activities not newest-first at %d", i)
		}
	}
}
