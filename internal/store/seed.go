package store

import (
	"context"
	"fmt"

	"taskdash/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// Seed loads a small demo data set: four users, three projects, a
// handful of tasks and an activity trail. It goes through the Store
// interface, so it works against any backend and exercises the same
// validation as the API.
func Seed(ctx context.Context, s Store) error {
	users := []domain.InsertUser{
		{Username: "john.doe", Email: "john@taskdash.dev", Password: "password", Name: "John Doe", Role: "admin", Status: "available"},
		{Username: "sarah.wilson", Email: "sarah@taskdash.dev", Password: "password", Name: "Sarah Wilson", Role: "manager", Status: "busy"},
		{Username: "mike.chen", Email: "mike@taskdash.dev", Password: "password", Name: "Mike Chen", Role: "member", Status: "available"},
		{Username: "emma.garcia", Email: "emma@taskdash.dev", Password: "password", Name: "Emma Garcia", Role: "member", Status: "away"},
	}
	ids := make([]int64, 0, len(users))
	for _, in := range users {
		u, err := s.CreateUser(ctx, in)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", in.Username, err)
		}
		ids = append(ids, u.ID)
	}

	projects := []domain.InsertProject{
		{
			Name: "Website Redesign", Description: "Refresh the marketing site and design system",
			Category: "web", Priority: "high", Status: "active",
			StartDate: "2026-01-05T00:00:00Z", DueDate: "2026-03-31T00:00:00Z",
			Progress: ptr(65), TeamMembers: []int64{ids[0], ids[1], ids[2]},
		},
		{
			Name: "Mobile App", Description: "Companion app for iOS and Android",
			Category: "mobile", Priority: "medium", Status: "active",
			StartDate: "2026-02-01T00:00:00Z", DueDate: "2026-06-30T00:00:00Z",
			Progress: ptr(30), TeamMembers: []int64{ids[2], ids[3]},
		},
		{
			Name: "Q1 Campaign", Description: "Launch campaign for the spring release",
			Category: "marketing", Priority: "low", Status: "completed",
			StartDate: "2025-11-01T00:00:00Z", DueDate: "2026-01-15T00:00:00Z",
			Progress: ptr(100), TeamMembers: []int64{ids[1]},
		},
	}
	pids := make([]int64, 0, len(projects))
	for _, in := range projects {
		p, err := s.CreateProject(ctx, in, &ids[0])
		if err != nil {
			return fmt.Errorf("seed project %s: %w", in.Name, err)
		}
		pids = append(pids, p.ID)
	}

	tasks := []domain.InsertTask{
		{Title: "Design homepage mockup", Status: "completed", Priority: "high", ProjectID: &pids[0], AssigneeID: &ids[1], DueDate: ptr("2026-01-20T00:00:00Z")},
		{Title: "Implement navigation component", Status: "in_progress", Priority: "high", ProjectID: &pids[0], AssigneeID: &ids[2]},
		{Title: "Set up CI pipeline", Status: "todo", Priority: "medium", ProjectID: &pids[0], AssigneeID: &ids[0]},
		{Title: "Sketch onboarding flow", Status: "in_progress", Priority: "medium", ProjectID: &pids[1], AssigneeID: &ids[3], DueDate: ptr("2026-03-10T00:00:00Z")},
		{Title: "Write push notification service", Status: "todo", Priority: "low", ProjectID: &pids[1], AssigneeID: &ids[2]},
	}
	tids := make([]int64, 0, len(tasks))
	for _, in := range tasks {
		t, err := s.CreateTask(ctx, in, &ids[0])
		if err != nil {
			return fmt.Errorf("seed task %s: %w", in.Title, err)
		}
		tids = append(tids, t.ID)
	}

	activities := []struct {
		in   domain.InsertActivity
		user int64
	}{
		{domain.InsertActivity{Type: "project_created", Description: "created project Website Redesign", ProjectID: &pids[0]}, ids[0]},
		{domain.InsertActivity{Type: "task_completed", Description: "completed Design homepage mockup", ProjectID: &pids[0], TaskID: &tids[0]}, ids[1]},
		{domain.InsertActivity{Type: "task_assigned", Description: "assigned Implement navigation component to Mike Chen", ProjectID: &pids[0], TaskID: &tids[1]}, ids[1]},
		{domain.InsertActivity{Type: "project_updated", Description: "marked Q1 Campaign as completed", ProjectID: &pids[2]}, ids[1]},
	}
	for _, a := range activities {
		if _, err := s.CreateActivity(ctx, a.in, &a.user); err != nil {
			return fmt.Errorf("seed activity %s: %w", a.in.Type, err)
		}
	}
	return nil
}
