// Package store holds the entity repository behind the dashboard API:
// users, projects, tasks, comments, and activity records, plus the
// aggregate dashboard counters. Implementations share one monotonic id
// counter across every entity kind, so ids are unique repo-wide and are
// never reused after a delete.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"taskdash/internal/domain"
)

// ErrNotFound signals update/get/delete against a missing id. It is a
// recoverable condition, not a failure of the store.
var ErrNotFound = errors.New("not found")

// Store is the repository contract shared by the in-memory and sqlite
// backends. It is constructed once and injected into the server; nothing
// reads it through package globals.
type Store interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, in domain.InsertUser) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id int64) (domain.Project, error)
	CreateProject(ctx context.Context, in domain.InsertProject, createdBy *int64) (domain.Project, error)
	UpdateProject(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error)
	DeleteProject(ctx context.Context, id int64) (bool, error)

	ListTasks(ctx context.Context, f domain.TaskFilters) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (domain.Task, error)
	CreateTask(ctx context.Context, in domain.InsertTask, createdBy *int64) (domain.Task, error)
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)

	TaskComments(ctx context.Context, taskID int64) ([]domain.Comment, error)
	CreateComment(ctx context.Context, in domain.InsertComment, authorID *int64) (domain.Comment, error)

	RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error)
	CreateActivity(ctx context.Context, in domain.InsertActivity, userID *int64) (domain.Activity, error)

	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

// HashPassword returns the stable SHA-256 hex digest stored in place of
// the raw credential.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword compares a candidate credential against a stored digest.
func CheckPassword(hash, password string) bool {
	return hash != "" && hash == HashPassword(password)
}
