package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskdash/internal/domain"
)

// MemStore is the default backend: plain maps guarded by one mutex.
// Concurrent writers are serialized, last writer wins; there is no
// conflict detection. The id counter is shared across every entity
// kind and only ever increments, so ids stay unique repo-wide even
// after deletes.
type MemStore struct {
	mu sync.Mutex

	// Now is swappable in tests for deterministic timestamps.
	Now func() time.Time

	nextID     int64
	users      map[int64]domain.User
	projects   map[int64]domain.Project
	tasks      map[int64]domain.Task
	comments   map[int64]domain.Comment
	activities map[int64]domain.Activity
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		Now:        time.Now,
		nextID:     1,
		users:      make(map[int64]domain.User),
		projects:   make(map[int64]domain.Project),
		tasks:      make(map[int64]domain.Task),
		comments:   make(map[int64]domain.Comment),
		activities: make(map[int64]domain.Activity),
	}
}

// allocID must be called with mu held.
func (m *MemStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MemStore) now() string {
	return m.Now().UTC().Format(time.RFC3339)
}

// Users

func (m *MemStore) GetUser(ctx context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (m *MemStore) CreateUser(ctx context.Context, in domain.InsertUser) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	in.ApplyDefaults()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == in.Username {
			return domain.User{}, domain.ValidationError{Field: "username", Reason: "already taken"}
		}
		if u.Email == in.Email {
			return domain.User{}, domain.ValidationError{Field: "email", Reason: "already registered"}
		}
	}
	u := domain.User{
		ID:           m.allocID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: HashPassword(in.Password),
		Name:         in.Name,
		Role:         in.Role,
		Avatar:       in.Avatar,
		Status:       in.Status,
		CreatedAt:    m.now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *MemStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Projects

func (m *MemStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return domain.Project{}, ErrNotFound
	}
	return p, nil
}

func (m *MemStore) CreateProject(ctx context.Context, in domain.InsertProject, createdBy *int64) (domain.Project, error) {
	if err := in.Validate(); err != nil {
		return domain.Project{}, err
	}
	in.ApplyDefaults()
	progress := 0
	if in.Progress != nil {
		progress = domain.ClampProgress(*in.Progress)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := domain.Project{
		ID:          m.allocID(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      in.Status,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Progress:    progress,
		TeamMembers: append([]int64(nil), in.TeamMembers...),
		CreatedBy:   createdBy,
		CreatedAt:   m.now(),
	}
	m.projects[p.ID] = p
	return p, nil
}

func (m *MemStore) UpdateProject(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	if err := patch.Validate(); err != nil {
		return domain.Project{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return domain.Project{}, ErrNotFound
	}
	p = p.Apply(patch)
	m.projects[id] = p
	return p, nil
}

func (m *MemStore) DeleteProject(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return false, nil
	}
	delete(m.projects, id)
	return true, nil
}

// Tasks

func (m *MemStore) ListTasks(ctx context.Context, f domain.TaskFilters) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return t, nil
}

func (m *MemStore) CreateTask(ctx context.Context, in domain.InsertTask, createdBy *int64) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}
	status, completed := in.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()
	t := domain.Task{
		ID:          m.allocID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    in.Priority,
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		DueDate:     in.DueDate,
		Completed:   completed,
		CreatedBy:   createdBy,
		CreatedAt:   m.now(),
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *MemStore) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return domain.Task{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	t = t.Apply(patch)
	m.tasks[id] = t
	return t, nil
}

func (m *MemStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

// Comments

func (m *MemStore) TaskComments(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Comment
	for _, c := range m.comments {
		if c.TaskID != nil && *c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) CreateComment(ctx context.Context, in domain.InsertComment, authorID *int64) (domain.Comment, error) {
	if err := in.Validate(); err != nil {
		return domain.Comment{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := domain.Comment{
		ID:        m.allocID(),
		Content:   in.Content,
		TaskID:    in.TaskID,
		AuthorID:  authorID,
		CreatedAt: m.now(),
	}
	m.comments[c.ID] = c
	return c, nil
}

// Activities

func (m *MemStore) RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		out = append(out, a)
	}
	// Newest first; ids break ties since the clock may be coarse.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) CreateActivity(ctx context.Context, in domain.InsertActivity, userID *int64) (domain.Activity, error) {
	if err := in.Validate(); err != nil {
		return domain.Activity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := domain.Activity{
		ID:          m.allocID(),
		Type:        in.Type,
		Description: in.Description,
		UserID:      userID,
		ProjectID:   in.ProjectID,
		TaskID:      in.TaskID,
		CreatedAt:   m.now(),
	}
	m.activities[a.ID] = a
	return a, nil
}

// DashboardStats walks the live collections on every call; nothing is
// cached server-side.
func (m *MemStore) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s domain.DashboardStats
	for _, p := range m.projects {
		if p.Status == "active" {
			s.ActiveProjects++
		}
	}
	for _, t := range m.tasks {
		if t.Completed {
			s.CompletedTasks++
		} else {
			s.PendingTasks++
		}
	}
	s.TeamMembers = len(m.users)
	return s, nil
}
