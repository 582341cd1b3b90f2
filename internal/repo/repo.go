// Package repo is the SQLite-backed Store implementation. It keeps the
// exact semantics of the in-memory backend: one shared id sequence,
// shallow patches applied read-modify-write inside a transaction, and
// the task completed/status pair maintained in lockstep.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taskdash/internal/domain"
	"taskdash/internal/store"
)

type Repo struct {
	DB *sql.DB

	// Now is swappable in tests for deterministic timestamps.
	Now func() time.Time
}

var _ store.Store = (*Repo)(nil)

func New(db *sql.DB) *Repo {
	return &Repo{DB: db, Now: time.Now}
}

func (r *Repo) now() string {
	return r.Now().UTC().Format(time.RFC3339)
}

// allocID draws the next id from the shared sequence. Must run inside
// the caller's transaction so concurrent writers serialize on the row.
func allocID(ctx context.Context, tx *sql.Tx) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT next FROM id_sequence`).Scan(&id); err != nil {
		return 0, fmt.Errorf("read id sequence: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE id_sequence SET next = next + 1`); err != nil {
		return 0, fmt.Errorf("advance id sequence: %w", err)
	}
	return id, nil
}

func nullID(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

// Users

const userCols = `id,username,email,password_hash,name,role,avatar,status,created_at`

func scanUser(s interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Avatar, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, store.ErrNotFound
	}
	return u, err
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id))
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE username=?`, username))
}

func (r *Repo) CreateUser(ctx context.Context, in domain.InsertUser) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	in.ApplyDefaults()
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username=?`, in.Username).Scan(&n); err != nil {
		return domain.User{}, err
	}
	if n > 0 {
		return domain.User{}, domain.ValidationError{Field: "username", Reason: "already taken"}
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email=?`, in.Email).Scan(&n); err != nil {
		return domain.User{}, err
	}
	if n > 0 {
		return domain.User{}, domain.ValidationError{Field: "email", Reason: "already registered"}
	}

	id, err := allocID(ctx, tx)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: store.HashPassword(in.Password),
		Name:         in.Name,
		Role:         in.Role,
		Avatar:       in.Avatar,
		Status:       in.Status,
		CreatedAt:    r.now(),
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO users(`+userCols+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Name, u.Role, u.Avatar, u.Status, u.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	return u, tx.Commit()
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// Projects

const projectCols = `id,name,description,category,priority,status,start_date,due_date,progress,team_members,created_by,created_at`

func scanProject(s interface{ Scan(...any) error }) (domain.Project, error) {
	var p domain.Project
	var members string
	var createdBy sql.NullInt64
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Priority, &p.Status,
		&p.StartDate, &p.DueDate, &p.Progress, &members, &createdBy, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, store.ErrNotFound
	}
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(members), &p.TeamMembers); err != nil {
		return p, fmt.Errorf("decode team members: %w", err)
	}
	p.CreatedBy = idPtr(createdBy)
	return p, nil
}

func encodeMembers(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	return string(b), err
}

func (r *Repo) insertProject(ctx context.Context, tx *sql.Tx, p domain.Project) error {
	members, err := encodeMembers(p.TeamMembers)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO projects(`+projectCols+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Category, p.Priority, p.Status,
		p.StartDate, p.DueDate, p.Progress, members, nullID(p.CreatedBy), p.CreatedAt)
	return err
}

func (r *Repo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+projectCols+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *Repo) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	return scanProject(r.DB.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE id=?`, id))
}

func (r *Repo) CreateProject(ctx context.Context, in domain.InsertProject, createdBy *int64) (domain.Project, error) {
	if err := in.Validate(); err != nil {
		return domain.Project{}, err
	}
	in.ApplyDefaults()
	progress := 0
	if in.Progress != nil {
		progress = domain.ClampProgress(*in.Progress)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Project{}, err
	}
	defer tx.Rollback()

	id, err := allocID(ctx, tx)
	if err != nil {
		return domain.Project{}, err
	}
	p := domain.Project{
		ID:          id,
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
		CreatedAt:   r.now(),
	}
	if err := r.insertProject(ctx, tx, p); err != nil {
		return domain.Project{}, err
	}
	return p, tx.Commit()
}

func (r *Repo) UpdateProject(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	if err := patch.Validate(); err != nil {
		return domain.Project{}, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Project{}, err
	}
	defer tx.Rollback()

	p, err := scanProject(tx.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE id=?`, id))
	if err != nil {
		return domain.Project{}, err
	}
	p = p.Apply(patch)
	members, err := encodeMembers(p.TeamMembers)
	if err != nil {
		return domain.Project{}, err
	}
	_, err = tx.ExecContext(ctx, `UPDATE projects SET name=?,description=?,category=?,priority=?,status=?,start_date=?,due_date=?,progress=?,team_members=? WHERE id=?`,
		p.Name, p.Description, p.Category, p.Priority, p.Status, p.StartDate, p.DueDate, p.Progress, members, id)
	if err != nil {
		return domain.Project{}, err
	}
	return p, tx.Commit()
}

func (r *Repo) DeleteProject(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Tasks

const taskCols = `id,title,description,status,priority,project_id,assignee_id,due_date,completed,created_by,created_at`

func scanTask(s interface{ Scan(...any) error }) (domain.Task, error) {
	var t domain.Task
	var projectID, assigneeID, createdBy sql.NullInt64
	var dueDate sql.NullString
	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&projectID, &assigneeID, &dueDate, &t.Completed, &createdBy, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, store.ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.ProjectID = idPtr(projectID)
	t.AssigneeID = idPtr(assigneeID)
	t.DueDate = strPtr(dueDate)
	t.CreatedBy = idPtr(createdBy)
	return t, nil
}

func (r *Repo) ListTasks(ctx context.Context, f domain.TaskFilters) ([]domain.Task, error) {
	// Filtering happens in SQL but with the exact conjunctive zero-value
	// semantics of TaskFilters.Match.
	q := `SELECT ` + taskCols + ` FROM tasks WHERE 1=1`
	var args []any
	if f.ProjectID != 0 {
		q += ` AND project_id=?`
		args = append(args, f.ProjectID)
	}
	if f.Status != "" {
		q += ` AND status=?`
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		q += ` AND priority=?`
		args = append(args, f.Priority)
	}
	if f.AssigneeID != 0 {
		q += ` AND assignee_id=?`
		args = append(args, f.AssigneeID)
	}
	q += ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *Repo) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	return scanTask(r.DB.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id=?`, id))
}

func (r *Repo) CreateTask(ctx context.Context, in domain.InsertTask, createdBy *int64) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}
	status, completed := in.Normalize()
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	id, err := allocID(ctx, tx)
	if err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    in.Priority,
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		DueDate:     in.DueDate,
		Completed:   completed,
		CreatedBy:   createdBy,
		CreatedAt:   r.now(),
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO tasks(`+taskCols+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Title, t.Description, t.Status, t.Priority,
		nullID(t.ProjectID), nullID(t.AssigneeID), nullStr(t.DueDate), t.Completed, nullID(t.CreatedBy), t.CreatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	return t, tx.Commit()
}

func (r *Repo) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return domain.Task{}, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	t, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id=?`, id))
	if err != nil {
		return domain.Task{}, err
	}
	t = t.Apply(patch)
	_, err = tx.ExecContext(ctx, `UPDATE tasks SET title=?,description=?,status=?,priority=?,project_id=?,assignee_id=?,due_date=?,completed=? WHERE id=?`,
		t.Title, t.Description, t.Status, t.Priority,
		nullID(t.ProjectID), nullID(t.AssigneeID), nullStr(t.DueDate), t.Completed, id)
	if err != nil {
		return domain.Task{}, err
	}
	return t, tx.Commit()
}

func (r *Repo) DeleteTask(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Comments

const commentCols = `id,content,task_id,author_id,created_at`

func scanComment(s interface{ Scan(...any) error }) (domain.Comment, error) {
	var c domain.Comment
	var taskID, authorID sql.NullInt64
	err := s.Scan(&c.ID, &c.Content, &taskID, &authorID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, store.ErrNotFound
	}
	if err != nil {
		return c, err
	}
	c.TaskID = idPtr(taskID)
	c.AuthorID = idPtr(authorID)
	return c, nil
}

func (r *Repo) TaskComments(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+commentCols+` FROM comments WHERE task_id=? ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *Repo) CreateComment(ctx context.Context, in domain.InsertComment, authorID *int64) (domain.Comment, error) {
	if err := in.Validate(); err != nil {
		return domain.Comment{}, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Comment{}, err
	}
	defer tx.Rollback()

	id, err := allocID(ctx, tx)
	if err != nil {
		return domain.Comment{}, err
	}
	c := domain.Comment{
		ID:        id,
		Content:   in.Content,
		TaskID:    in.TaskID,
		AuthorID:  authorID,
		CreatedAt: r.now(),
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO comments(`+commentCols+`) VALUES (?,?,?,?,?)`,
		c.ID, c.Content, nullID(c.TaskID), nullID(c.AuthorID), c.CreatedAt)
	if err != nil {
		return domain.Comment{}, err
	}
	return c, tx.Commit()
}

// Activities

const activityCols = `id,type,description,user_id,project_id,task_id,created_at`

func scanActivity(s interface{ Scan(...any) error }) (domain.Activity, error) {
	var a domain.Activity
	var userID, projectID, taskID sql.NullInt64
	err := s.Scan(&a.ID, &a.Type, &a.Description, &userID, &projectID, &taskID, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, store.ErrNotFound
	}
	if err != nil {
		return a, err
	}
	a.UserID = idPtr(userID)
	a.ProjectID = idPtr(projectID)
	a.TaskID = idPtr(taskID)
	return a, nil
}

func (r *Repo) RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+activityCols+` FROM activities ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *Repo) CreateActivity(ctx context.Context, in domain.InsertActivity, userID *int64) (domain.Activity, error) {
	if err := in.Validate(); err != nil {
		return domain.Activity{}, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Activity{}, err
	}
	defer tx.Rollback()

	id, err := allocID(ctx, tx)
	if err != nil {
		return domain.Activity{}, err
	}
	a := domain.Activity{
		ID:          id,
		Type:        in.Type,
		Description: in.Description,
		UserID:      userID,
		ProjectID:   in.ProjectID,
		TaskID:      in.TaskID,
		CreatedAt:   r.now(),
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO activities(`+activityCols+`) VALUES (?,?,?,?,?,?,?)`,
		a.ID, a.Type, a.Description, nullID(a.UserID), nullID(a.ProjectID), nullID(a.TaskID), a.CreatedAt)
	if err != nil {
		return domain.Activity{}, err
	}
	return a, tx.Commit()
}

// DashboardStats runs fresh aggregate queries on every call.
func (r *Repo) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var s domain.DashboardStats
	row := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM projects WHERE status='active'),
			(SELECT COUNT(*) FROM tasks WHERE completed=1),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM tasks WHERE completed=0)`)
	if err := row.Scan(&s.ActiveProjects, &s.CompletedTasks, &s.TeamMembers, &s.PendingTasks); err != nil {
		return s, err
	}
	return s, nil
}
