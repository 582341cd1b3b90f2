package domain

// User is a registered team member. The password never leaves the server:
// only its SHA-256 digest is stored, and the digest is not serialized.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
	Status       string `json:"status" enum:"available,busy,away"`
	CreatedAt    string `json:"createdAt" format:"date-time"`
}

type Project struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category" enum:"web,mobile,design,marketing"`
	Priority    string  `json:"priority" enum:"high,medium,low"`
	Status      string  `json:"status" enum:"active,completed,paused"`
	StartDate   string  `json:"startDate" format:"date-time"`
	DueDate     string  `json:"dueDate" format:"date-time"`
	Progress    int     `json:"progress" minimum:"0" maximum:"100"`
	TeamMembers []int64 `json:"teamMembers"`
	CreatedBy   *int64  `json:"createdBy,omitempty"`
	CreatedAt   string  `json:"createdAt" format:"date-time"`
}

// Task keeps Completed and Status in lockstep: Completed is true exactly
// when Status is "completed". Every mutation path preserves that.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status" enum:"todo,in_progress,completed"`
	Priority    string  `json:"priority" enum:"high,medium,low"`
	ProjectID   *int64  `json:"projectId,omitempty"`
	AssigneeID  *int64  `json:"assigneeId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" format:"date-time"`
	Completed   bool    `json:"completed"`
	CreatedBy   *int64  `json:"createdBy,omitempty"`
	CreatedAt   string  `json:"createdAt" format:"date-time"`
}

type Comment struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	TaskID    *int64 `json:"taskId,omitempty"`
	AuthorID  *int64 `json:"authorId,omitempty"`
	CreatedAt string `json:"createdAt" format:"date-time"`
}

// Activity is a feed entry. Type is a free-text tag such as
// "task_completed" or "project_updated".
type Activity struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	UserID      *int64 `json:"userId,omitempty"`
	ProjectID   *int64 `json:"projectId,omitempty"`
	TaskID      *int64 `json:"taskId,omitempty"`
	CreatedAt   string `json:"createdAt" format:"date-time"`
}

// DashboardStats is recomputed over the live collections on every call.
type DashboardStats struct {
	ActiveProjects int `json:"activeProjects"`
	CompletedTasks int `json:"completedTasks"`
	TeamMembers    int `json:"teamMembers"`
	PendingTasks   int `json:"pendingTasks"`
}

// Insert payloads. Ids and createdAt are always assigned server-side.

type InsertUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Status   string `json:"status,omitempty" enum:"available,busy,away"`
}

type InsertProject struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category" enum:"web,mobile,design,marketing"`
	Priority    string  `json:"priority" enum:"high,medium,low"`
	Status      string  `json:"status,omitempty" enum:"active,completed,paused"`
	StartDate   string  `json:"startDate" format:"date-time"`
	DueDate     string  `json:"dueDate" format:"date-time"`
	Progress    *int    `json:"progress,omitempty"`
	TeamMembers []int64 `json:"teamMembers,omitempty"`
}

type InsertTask struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty" enum:"todo,in_progress,completed"`
	Priority    string  `json:"priority" enum:"high,medium,low"`
	ProjectID   *int64  `json:"projectId,omitempty"`
	AssigneeID  *int64  `json:"assigneeId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" format:"date-time"`
	Completed   *bool   `json:"completed,omitempty"`
}

type InsertComment struct {
	Content string `json:"content"`
	TaskID  *int64 `json:"taskId,omitempty"`
}

type InsertActivity struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	ProjectID   *int64 `json:"projectId,omitempty"`
	TaskID      *int64 `json:"taskId,omitempty"`
}

// Patch payloads: a nil field leaves the stored value untouched, a
// non-nil field replaces it wholesale (shallow merge; TeamMembers is
// replaced as a unit, never merged element-wise).

type ProjectPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" enum:"web,mobile,design,marketing"`
	Priority    *string  `json:"priority,omitempty" enum:"high,medium,low"`
	Status      *string  `json:"status,omitempty" enum:"active,completed,paused"`
	StartDate   *string  `json:"startDate,omitempty" format:"date-time"`
	DueDate     *string  `json:"dueDate,omitempty" format:"date-time"`
	Progress    *int     `json:"progress,omitempty"`
	TeamMembers *[]int64 `json:"teamMembers,omitempty"`
}

type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" enum:"todo,in_progress,completed"`
	Priority    *string `json:"priority,omitempty" enum:"high,medium,low"`
	ProjectID   *int64  `json:"projectId,omitempty"`
	AssigneeID  *int64  `json:"assigneeId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" format:"date-time"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TaskFilters narrow ListTasks. Zero values mean "match all"; the
// filters are conjunctive.
type TaskFilters struct {
	ProjectID  int64
	Status     string
	Priority   string
	AssigneeID int64
}

func (f TaskFilters) Match(t Task) bool {
	if f.ProjectID != 0 && (t.ProjectID == nil || *t.ProjectID != f.ProjectID) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssigneeID != 0 && (t.AssigneeID == nil || *t.AssigneeID != f.AssigneeID) {
		return false
	}
	return true
}
