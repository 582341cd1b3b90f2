package domain

// ApplyDefaults fills documented defaults for omitted optional fields.
func (u *InsertUser) ApplyDefaults() {
	if u.Role == "" {
		u.Role = "member"
	}
	if u.Status == "" {
		u.Status = "available"
	}
}

func (p *InsertProject) ApplyDefaults() {
	if p.Status == "" {
		p.Status = "active"
	}
}

// Normalize derives the status/completed pair so the lockstep invariant
// holds from creation onward. Status wins when both are supplied.
func (t InsertTask) Normalize() (status string, completed bool) {
	status = t.Status
	if status == "" {
		if t.Completed != nil && *t.Completed {
			status = "completed"
		} else {
			status = "todo"
		}
	}
	return status, status == "completed"
}

// Apply merges the shallow patch into a copy of the task and
// re-establishes the completed/status invariant. A patch that sets
// status drives completed; a patch that sets only completed drives
// status to completed or todo (never in_progress).
func (t Task) Apply(patch TaskPatch) Task {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.ProjectID != nil {
		t.ProjectID = patch.ProjectID
	}
	if patch.AssigneeID != nil {
		t.AssigneeID = patch.AssigneeID
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	switch {
	case patch.Status != nil:
		t.Status = *patch.Status
		t.Completed = t.Status == "completed"
	case patch.Completed != nil:
		t.Completed = *patch.Completed
		if t.Completed {
			t.Status = "completed"
		} else {
			t.Status = "todo"
		}
	}
	return t
}

func (p Project) Apply(patch ProjectPatch) Project {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Priority != nil {
		p.Priority = *patch.Priority
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.DueDate != nil {
		p.DueDate = *patch.DueDate
	}
	if patch.Progress != nil {
		p.Progress = ClampProgress(*patch.Progress)
	}
	if patch.TeamMembers != nil {
		// Replaced wholesale, never merged element-wise.
		p.TeamMembers = append([]int64(nil), (*patch.TeamMembers)...)
	}
	return p
}
