// Package ui ties the client pieces together: cached resources per
// entity kind, the task view state, and the notification center. It is
// the layer a front end talks to; nothing here touches HTTP directly.
package ui

import (
	"context"

	"taskdash/internal/cache"
	"taskdash/internal/domain"
	"taskdash/internal/notify"
	"taskdash/internal/view"
)

// API is the slice of the HTTP client the session consumes.
// *client.Client satisfies it.
type API interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, in domain.InsertProject) (domain.Project, error)
	UpdateProject(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListTasks(ctx context.Context, f domain.TaskFilters) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (domain.Task, error)
	CreateTask(ctx context.Context, in domain.InsertTask) (domain.Task, error)
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error)
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

// Session is one client's view of the dashboard.
type Session struct {
	api    API
	Notify *notify.Center

	projects   *cache.Resource[[]domain.Project]
	tasks      *cache.Resource[[]domain.Task]
	users      *cache.Resource[[]domain.User]
	activities *cache.Resource[[]domain.Activity]
	stats      *cache.Resource[domain.DashboardStats]

	viewState view.State
}

func NewSession(api API) *Session {
	s := &Session{
		api:       api,
		Notify:    notify.NewCenter(),
		viewState: view.NewState(),
	}
	s.projects = cache.NewResource(func(ctx context.Context) ([]domain.Project, error) {
		return api.ListProjects(ctx)
	})
	// The full task list is cached once; filters and pagination are
	// applied locally in the view layer.
	s.tasks = cache.NewResource(func(ctx context.Context) ([]domain.Task, error) {
		return api.ListTasks(ctx, domain.TaskFilters{})
	})
	s.users = cache.NewResource(func(ctx context.Context) ([]domain.User, error) {
		return api.ListUsers(ctx)
	})
	s.activities = cache.NewResource(func(ctx context.Context) ([]domain.Activity, error) {
		return api.RecentActivities(ctx, 10)
	})
	s.stats = cache.NewResource(func(ctx context.Context) (domain.DashboardStats, error) {
		return api.DashboardStats(ctx)
	})
	return s
}

// loadError reports a failed refresh without discarding stale data.
func (s *Session) loadError(what string, err error) {
	s.Notify.Push(notify.Error, "failed to load "+what+": "+err.Error())
}

// Projects returns the cached project list, refreshing when stale.
func (s *Session) Projects(ctx context.Context) []domain.Project {
	items, err := s.projects.Get(ctx)
	if err != nil {
		s.loadError("projects", err)
	}
	return items
}

// Users returns the cached team roster.
func (s *Session) Users(ctx context.Context) []domain.User {
	items, err := s.users.Get(ctx)
	if err != nil {
		s.loadError("users", err)
	}
	return items
}

// Activities returns the cached recent-activity feed.
func (s *Session) Activities(ctx context.Context) []domain.Activity {
	items, err := s.activities.Get(ctx)
	if err != nil {
		s.loadError("activities", err)
	}
	return items
}

// Stats returns the cached dashboard counters.
func (s *Session) Stats(ctx context.Context) domain.DashboardStats {
	stats, err := s.stats.Get(ctx)
	if err != nil {
		s.loadError("dashboard stats", err)
	}
	return stats
}

// Tasks returns the current page of the task view.
func (s *Session) Tasks(ctx context.Context) view.Page {
	items, err := s.tasks.Get(ctx)
	if err != nil {
		s.loadError("tasks", err)
	}
	return s.viewState.Apply(items)
}

// ViewState exposes the current filters and page cursor.
func (s *Session) ViewState() view.State { return s.viewState }

// SetFilters replaces the task filters; any change resets to page 1.
func (s *Session) SetFilters(f view.Filters) {
	s.viewState = s.viewState.WithFilters(f)
}

// SetPage moves the task view to the given page.
func (s *Session) SetPage(page int) {
	s.viewState = s.viewState.WithPage(page)
}

// SetPageSize adjusts how many tasks one page holds.
func (s *Session) SetPageSize(size int) {
	if size > 0 {
		s.viewState.PageSize = size
	}
}

// invalidateTasks marks every resource a task mutation can affect.
func (s *Session) invalidateTasks() {
	s.tasks.Invalidate()
	s.stats.Invalidate()
	s.activities.Invalidate()
}

func (s *Session) invalidateProjects() {
	s.projects.Invalidate()
	s.stats.Invalidate()
	s.activities.Invalidate()
}

// CreateProject dispatches the creation and invalidates dependent
// resources on success.
func (s *Session) CreateProject(ctx context.Context, in domain.InsertProject) (domain.Project, error) {
	p, err := s.api.CreateProject(ctx, in)
	if err != nil {
		s.Notify.Push(notify.Error, "failed to create project: "+err.Error())
		return domain.Project{}, err
	}
	s.invalidateProjects()
	s.Notify.Push(notify.Success, "project created: "+p.Name)
	return p, nil
}

func (s *Session) UpdateProject(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	p, err := s.api.UpdateProject(ctx, id, patch)
	if err != nil {
		s.Notify.Push(notify.Error, "failed to update project: "+err.Error())
		return domain.Project{}, err
	}
	s.invalidateProjects()
	return p, nil
}

func (s *Session) DeleteProject(ctx context.Context, id int64) error {
	if err := s.api.DeleteProject(ctx, id); err != nil {
		s.Notify.Push(notify.Error, "failed to delete project: "+err.Error())
		return err
	}
	s.invalidateProjects()
	s.Notify.Push(notify.Success, "project deleted")
	return nil
}

func (s *Session) CreateTask(ctx context.Context, in domain.InsertTask) (domain.Task, error) {
	t, err := s.api.CreateTask(ctx, in)
	if err != nil {
		s.Notify.Push(notify.Error, "failed to create task: "+err.Error())
		return domain.Task{}, err
	}
	s.invalidateTasks()
	s.Notify.Push(notify.Success, "task created: "+t.Title)
	return t, nil
}

func (s *Session) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	t, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		s.Notify.Push(notify.Error, "failed to update task: "+err.Error())
		return domain.Task{}, err
	}
	s.invalidateTasks()
	return t, nil
}

func (s *Session) DeleteTask(ctx context.Context, id int64) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.Notify.Push(notify.Error, "failed to delete task: "+err.Error())
		return err
	}
	s.invalidateTasks()
	s.Notify.Push(notify.Success, "task deleted")
	return nil
}

// ToggleTask flips a task's completion optimistically: the cached list
// is updated before the request, and rolled back with an error toast
// if the server rejects it. A completed task reopens as todo, never
// in_progress.
func (s *Session) ToggleTask(ctx context.Context, id int64) (domain.Task, error) {
	prev, hasCache := s.tasks.Peek()
	var target domain.Task
	found := false
	for _, t := range prev {
		if t.ID == id {
			target = t
			found = true
			break
		}
	}
	if !found {
		// Cold cache, or the task is not on the cached list. Ask the
		// server for the current state so the flip is never blind.
		t, err := s.api.GetTask(ctx, id)
		if err != nil {
			s.Notify.Push(notify.Error, "failed to update task: "+err.Error())
			return domain.Task{}, err
		}
		target = t
	}

	completed := !target.Completed

	if hasCache && found {
		optimistic := make([]domain.Task, len(prev))
		copy(optimistic, prev)
		for i := range optimistic {
			if optimistic[i].ID == id {
				optimistic[i].Completed = completed
				if completed {
					optimistic[i].Status = "completed"
				} else {
					optimistic[i].Status = "todo"
				}
			}
		}
		s.tasks.Set(optimistic)
	}

	t, err := s.api.UpdateTask(ctx, id, domain.TaskPatch{Completed: &completed})
	if err != nil {
		if hasCache {
			s.tasks.Set(prev)
		}
		s.Notify.Push(notify.Error, "failed to update task: "+err.Error())
		return domain.Task{}, err
	}
	s.invalidateTasks()
	return t, nil
}

// Close releases the notification timers.
func (s *Session) Close() {
	s.Notify.Close()
}
