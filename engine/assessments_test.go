package engine

import (
	"errors"
	"testing"
)

func TestLearnerAverage(t *testing.T) {
	m := NewAssessmentMatrix()
	t1 := m.AddAssessment("Term 1")
	t2 := m.AddAssessment("Term 2")

	if err := m.SetMark(t1.ID, 1, "40"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetMark(t2.ID, 1, "60"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := m.LearnerAverage(1); got != 50 {
		t.Fatalf("expected average 50, got %v", got)
	}
	if got := m.LearnerAverage(2); got != 0 {
		t.Fatalf("expected 0 for unmarked learner, got %v", got)
	}
}

func TestLearnerAverageSkipsUnmarkedAssessments(t *testing.T) {
	m := NewAssessmentMatrix()
	t1 := m.AddAssessment("Term 1")
	m.AddAssessment("Term 2")
	m.AddAssessment("Term 3")

	if err := m.SetMark(t1.ID, 1, "80"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the two unmarked assessments must not drag the mean down
	if got := m.LearnerAverage(1); got != 80 {
		t.Fatalf("expected average 80, got %v", got)
	}
}

func TestClassAverage(t *testing.T) {
	m := NewAssessmentMatrix()
	t1 := m.AddAssessment("Term 1")
	t2 := m.AddAssessment("Term 2")

	// learner 1 averages 50, learner 2 has no marks (0), learner 3 averages 100
	if err := m.SetMark(t1.ID, 1, "40"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetMark(t2.ID, 1, "60"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetMark(t1.ID, 3, "100"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetMark(t2.ID, 3, "100"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := m.ClassAverage([]uint{1, 2, 3}); got != 50 {
		t.Fatalf("expected class average 50, got %v", got)
	}
	if got := m.ClassAverage(nil); got != 0 {
		t.Fatalf("expected 0 with no learners, got %v", got)
	}
}

func TestSetMarkValidation(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "non-numeric", value: "abc"},
		{name: "empty", value: ""},
		{name: "above range", value: "101"},
		{name: "below range", value: "-1"},
		{name: "fractional", value: "59.5"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			m := NewAssessmentMatrix()
			col := m.AddAssessment("Term 1")
			if err := m.SetMark(col.ID, 1, "70"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			err := m.SetMark(col.ID, 1, tc.value)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}

			// prior mark stays untouched
			if got, ok := m.Mark(col.ID, 1); !ok || got != 70 {
				t.Fatalf("expected prior mark 70 kept, got %d (%v)", got, ok)
			}
		})
	}
}

func TestSetMarkBounds(t *testing.T) {
	m := NewAssessmentMatrix()
	col := m.AddAssessment("Term 1")

	if err := m.SetMark(col.ID, 1, "0"); err != nil {
		t.Fatalf("0 must be a valid mark: %v", err)
	}
	if err := m.SetMark(col.ID, 1, "100"); err != nil {
		t.Fatalf("100 must be a valid mark: %v", err)
	}
}

func TestZeroMarkIsDistinctFromUnmarked(t *testing.T) {
	m := NewAssessmentMatrix()
	col := m.AddAssessment("Term 1")

	if _, ok := m.Mark(col.ID, 1); ok {
		t.Fatalf("expected no mark recorded yet")
	}
	if err := m.SetMark(col.ID, 1, "0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := m.Mark(col.ID, 1); !ok || got != 0 {
		t.Fatalf("expected recorded mark of 0, got %d (%v)", got, ok)
	}
}

func TestRenameKeepsIdentityAndMarks(t *testing.T) {
	m := NewAssessmentMatrix()
	first := m.AddAssessment("Term 1")
	second := m.AddAssessment("Term 2")

	if err := m.SetMark(first.ID, 1, "90"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Rename(first.ID, "Midterm"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cols := m.Assessments()
	if cols[0].ID != first.ID || cols[0].Label != "Midterm" {
		t.Fatalf("expected stable id with new label, got %+v", cols[0])
	}
	if got, ok := m.Mark(first.ID, 1); !ok || got != 90 {
		t.Fatalf("expected mark to survive relabel, got %d (%v)", got, ok)
	}
	if first.ID == second.ID {
		t.Fatalf("assessment ids must be unique")
	}
}

func TestAssessmentIDsNeverReused(t *testing.T) {
	m := NewAssessmentMatrix()
	first := m.AddAssessment("Term 1")

	if err := m.RemoveAssessment(first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	replacement := m.AddAssessment("Term 1 redo")
	if replacement.ID == first.ID {
		t.Fatalf("expected a fresh id, got reused %d", first.ID)
	}
}
