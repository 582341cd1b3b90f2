package domain

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a single rejected field. Create and patch
// payloads are checked before they ever reach a store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var (
	userStatuses      = []string{"available", "busy", "away"}
	projectCategories = []string{"web", "mobile", "design", "marketing"}
	priorities        = []string{"high", "medium", "low"}
	projectStatuses   = []string{"active", "completed", "paused"}
	taskStatuses      = []string{"todo", "in_progress", "completed"}
)

func oneOf(field, value string, allowed []string) error {
	for _, v := range allowed {
		if v == value {
			return nil
		}
	}
	return ValidationError{Field: field, Reason: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", "))}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func validTimestamp(field, value string) error {
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return ValidationError{Field: field, Reason: "must be an RFC 3339 timestamp"}
	}
	return nil
}

func (u InsertUser) Validate() error {
	if err := required("username", u.Username); err != nil {
		return err
	}
	if err := required("email", u.Email); err != nil {
		return err
	}
	if err := required("password", u.Password); err != nil {
		return err
	}
	if err := required("name", u.Name); err != nil {
		return err
	}
	if u.Status != "" {
		return oneOf("status", u.Status, userStatuses)
	}
	return nil
}

func (p InsertProject) Validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if err := oneOf("category", p.Category, projectCategories); err != nil {
		return err
	}
	if err := oneOf("priority", p.Priority, priorities); err != nil {
		return err
	}
	if p.Status != "" {
		if err := oneOf("status", p.Status, projectStatuses); err != nil {
			return err
		}
	}
	if err := required("startDate", p.StartDate); err != nil {
		return err
	}
	if err := validTimestamp("startDate", p.StartDate); err != nil {
		return err
	}
	if err := required("dueDate", p.DueDate); err != nil {
		return err
	}
	return validTimestamp("dueDate", p.DueDate)
}

func (t InsertTask) Validate() error {
	if err := required("title", t.Title); err != nil {
		return err
	}
	if err := oneOf("priority", t.Priority, priorities); err != nil {
		return err
	}
	if t.Status != "" {
		if err := oneOf("status", t.Status, taskStatuses); err != nil {
			return err
		}
	}
	if t.DueDate != nil {
		return validTimestamp("dueDate", *t.DueDate)
	}
	return nil
}

func (c InsertComment) Validate() error {
	return required("content", c.Content)
}

func (a InsertActivity) Validate() error {
	if err := required("type", a.Type); err != nil {
		return err
	}
	return required("description", a.Description)
}

func (p ProjectPatch) Validate() error {
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := oneOf("category", *p.Category, projectCategories); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := oneOf("priority", *p.Priority, priorities); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := oneOf("status", *p.Status, projectStatuses); err != nil {
			return err
		}
	}
	if p.StartDate != nil {
		if err := validTimestamp("startDate", *p.StartDate); err != nil {
			return err
		}
	}
	if p.DueDate != nil {
		if err := validTimestamp("dueDate", *p.DueDate); err != nil {
			return err
		}
	}
	return nil
}

func (t TaskPatch) Validate() error {
	if t.Title != nil {
		if err := required("title", *t.Title); err != nil {
			return err
		}
	}
	if t.Status != nil {
		if err := oneOf("status", *t.Status, taskStatuses); err != nil {
			return err
		}
	}
	if t.Priority != nil {
		if err := oneOf("priority", *t.Priority, priorities); err != nil {
			return err
		}
	}
	if t.DueDate != nil {
		return validTimestamp("dueDate", *t.DueDate)
	}
	return nil
}

// ClampProgress bounds a project progress value to [0,100]. Out-of-range
// input is clamped rather than rejected; the choice is documented in
// DESIGN.md.
func ClampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
