package wizard

import (
	"context"
	"errors"
	"testing"

	"taskdash/internal/domain"
)

func completeDraft() Draft {
	return Draft{
		Name:        "Website Redesign",
		StartDate:   "2026-08-01T00:00:00Z",
		DueDate:     "2026-09-01T00:00:00Z",
		Category:    "web",
		Priority:    "high",
		TeamMembers: []int64{1, 2},
	}
}

func advanceToReview(t *testing.T, w *Wizard) {
	t.Helper()
	w.SetDraft(completeDraft())
	for i := 0; i < 3; i++ {
		if err := w.Next(); err != nil {
			t.Fatalf("advance from step %d: %v", w.Step(), err)
		}
	}
	if w.Step() != StepReview {
		t.Fatalf("expected review step, at %d", w.Step())
	}
}

func TestStepGating(t *testing.T) {
	w := New(nil)

	err := w.Next()
	var ve domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("empty basics should block on name: %v", err)
	}
	if w.Step() != StepBasics {
		t.Fatalf("failed Next moved the step to %d", w.Step())
	}

	d := Draft{Name: "P", StartDate: "2026-08-01T00:00:00Z", DueDate: "2026-09-01T00:00:00Z"}
	w.SetDraft(d)
	if err := w.Next(); err != nil {
		t.Fatalf("valid basics: %v", err)
	}

	if err := w.Next(); !errors.As(err, &ve) || ve.Field != "category" {
		t.Fatalf("details gate: %v", err)
	}
	d.Category, d.Priority = "web", "low"
	w.SetDraft(d)
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}

	if err := w.Next(); !errors.As(err, &ve) || ve.Field != "teamMembers" {
		t.Fatalf("team gate: %v", err)
	}
	d.TeamMembers = []int64{7}
	w.SetDraft(d)
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if w.Step() != StepReview {
		t.Fatalf("step: %d", w.Step())
	}
	// Review has no forward gate.
	if err := w.Next(); err != nil {
		t.Fatalf("next on review: %v", err)
	}
}

func TestPreviousAndCancel(t *testing.T) {
	w := New(nil)
	advanceToReview(t, w)

	w.Previous()
	if w.Step() != StepTeam {
		t.Fatalf("previous: %d", w.Step())
	}
	w.Previous()
	w.Previous()
	w.Previous() // already at step 1, no-op
	if w.Step() != StepBasics {
		t.Fatalf("previous floor: %d", w.Step())
	}

	w.SetDraft(completeDraft())
	w.Cancel()
	if w.Step() != StepBasics || w.Draft().Name != "" {
		t.Fatalf("cancel must reset step and draft: step=%d draft=%+v", w.Step(), w.Draft())
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	boom := errors.New("server unreachable")
	w := New(func(ctx context.Context, in domain.InsertProject) (domain.Project, error) {
		return domain.Project{}, boom
	})
	advanceToReview(t, w)

	_, err := w.Submit(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("submit error: %v", err)
	}
	if w.Step() != StepReview {
		t.Fatalf("failed submit moved the step to %d", w.Step())
	}
	if w.Draft().Name != "Website Redesign" {
		t.Fatal("failed submit dropped the draft")
	}
}

func TestSubmitSuccessResetsAndBuildsPayload(t *testing.T) {
	var got domain.InsertProject
	w := New(func(ctx context.Context, in domain.InsertProject) (domain.Project, error) {
		got = in
		return domain.Project{ID: 10, Name: in.Name, Status: in.Status}, nil
	})
	advanceToReview(t, w)

	p, err := w.Submit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 10 {
		t.Fatalf("project: %+v", p)
	}
	if got.Status != "active" || got.Progress != nil {
		t.Fatalf("payload must start active with zero progress: %+v", got)
	}
	if len(got.TeamMembers) != 2 {
		t.Fatalf("payload members: %v", got.TeamMembers)
	}
	if w.Step() != StepBasics || w.Draft().Name != "" {
		t.Fatal("successful submit must reset the wizard")
	}
}

func TestSubmitOffReviewRejected(t *testing.T) {
	w := New(func(ctx context.Context, in domain.InsertProject) (domain.Project, error) {
		t.Fatal("creator must not be called")
		return domain.Project{}, nil
	})
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrNotOnReview) {
		t.Fatalf("submit on step 1: %v", err)
	}
}
