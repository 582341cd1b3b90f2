// Package wizard drives the four-step project creation flow as an
// explicit state machine. Each forward transition is gated on the
// fields that step collects; the draft survives failures and is only
// discarded on cancel or successful submit.
package wizard

import (
	"context"
	"errors"

	"taskdash/internal/domain"
)

type Step int

const (
	StepBasics  Step = 1 // name and schedule
	StepDetails Step = 2 // category and priority
	StepTeam    Step = 3 // team members
	StepReview  Step = 4 // confirm and submit
)

func (s Step) String() string {
	switch s {
	case StepBasics:
		return "basics"
	case StepDetails:
		return "details"
	case StepTeam:
		return "team"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// Draft accumulates the project fields across steps.
type Draft struct {
	Name        string
	Description string
	StartDate   string
	DueDate     string
	Category    string
	Priority    string
	TeamMembers []int64
}

// Creator submits the finished draft, normally Client.CreateProject.
type Creator func(context.Context, domain.InsertProject) (domain.Project, error)

var ErrNotOnReview = errors.New("wizard: submit is only valid on the review step")

type Wizard struct {
	step   Step
	draft  Draft
	create Creator
}

func New(create Creator) *Wizard {
	return &Wizard{step: StepBasics, create: create}
}

func (w *Wizard) Step() Step   { return w.step }
func (w *Wizard) Draft() Draft { return w.draft }

// SetDraft replaces the draft in place; it does not move the step.
func (w *Wizard) SetDraft(d Draft) { w.draft = d }

// validateStep gates the CURRENT step's fields before advancing.
func validateStep(s Step, d Draft) error {
	switch s {
	case StepBasics:
		if d.Name == "" {
			return domain.ValidationError{Field: "name", Reason: "is required"}
		}
		if d.StartDate == "" {
			return domain.ValidationError{Field: "startDate", Reason: "is required"}
		}
		if d.DueDate == "" {
			return domain.ValidationError{Field: "dueDate", Reason: "is required"}
		}
	case StepDetails:
		if d.Category == "" {
			return domain.ValidationError{Field: "category", Reason: "is required"}
		}
		if d.Priority == "" {
			return domain.ValidationError{Field: "priority", Reason: "is required"}
		}
	case StepTeam:
		if len(d.TeamMembers) == 0 {
			return domain.ValidationError{Field: "teamMembers", Reason: "at least one member is required"}
		}
	}
	return nil
}

// Next advances one step if the current step's fields validate. On the
// review step it is a no-op.
func (w *Wizard) Next() error {
	if w.step >= StepReview {
		return nil
	}
	if err := validateStep(w.step, w.draft); err != nil {
		return err
	}
	w.step++
	return nil
}

// Previous steps back without validation; it is a no-op on step 1.
func (w *Wizard) Previous() {
	if w.step > StepBasics {
		w.step--
	}
}

// Cancel abandons the flow: the draft is cleared and the wizard returns
// to the first step.
func (w *Wizard) Cancel() {
	w.draft = Draft{}
	w.step = StepBasics
}

// Submit builds the insert payload and sends it through the creator.
// On failure the wizard stays on the review step with the draft intact
// so the user can retry; on success it resets for the next project.
func (w *Wizard) Submit(ctx context.Context) (domain.Project, error) {
	if w.step != StepReview {
		return domain.Project{}, ErrNotOnReview
	}
	in := domain.InsertProject{
		Name:        w.draft.Name,
		Description: w.draft.Description,
		Category:    w.draft.Category,
		Priority:    w.draft.Priority,
		Status:      "active",
		StartDate:   w.draft.StartDate,
		DueDate:     w.draft.DueDate,
		TeamMembers: append([]int64(nil), w.draft.TeamMembers...),
	}
	p, err := w.create(ctx, in)
	if err != nil {
		return domain.Project{}, err
	}
	w.Cancel()
	return p, nil
}
