package engine

import (
	"context"
	"testing"
	"time"
)

func TestBandForAverage(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want string
	}{
		{name: "zero", avg: 0, want: "at risk"},
		{name: "just below fifty", avg: 49.9, want: "at risk"},
		{name: "lower bound inclusive", avg: 50, want: "borderline"},
		{name: "just below sixty five", avg: 64.9, want: "borderline"},
		{name: "upper bound exclusive", avg: 65, want: "on track"},
		{name: "full marks", avg: 100, want: "on track"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := BandForAverage(tc.avg); got != tc.want {
				t.Fatalf("expected %q for %v, got %q", tc.want, tc.avg, got)
			}
		})
	}
}

func TestAggregatorOverview(t *testing.T) {
	remote := newFakeRemote()
	eng := New(remote)
	ctx := context.Background()

	// Wednesday 2026-03-04
	eng.Attendance.now = func() time.Time {
		return time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	}

	strong, err := eng.Learners.Register(ctx, RegisterInput{Name: "Thandi", Grade: "10", ParentPhone: "071"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	weak, err := eng.Learners.Register(ctx, RegisterInput{Name: "Sipho", Grade: "10", ParentPhone: "072"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	term := eng.Matrix.AddAssessment("Term 1")
	if err := eng.Matrix.SetMark(term.ID, strong.ID, "80"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := eng.Matrix.SetMark(term.ID, weak.ID, "40"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := eng.Attendance.Toggle(ctx, strong.ID, "2026-03-02", Present); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := eng.Attendance.Toggle(ctx, strong.ID, "2026-03-03", Present); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := eng.Payments.SetPaid(ctx, strong.ID, eng.Payments.CurrentMonthKey(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overview := eng.Views.Overview("All")
	if len(overview) != 2 {
		t.Fatalf("expected 2 learners, got %d", len(overview))
	}

	// roster is newest first
	if overview[0].Learner.ID != weak.ID || overview[1].Learner.ID != strong.ID {
		t.Fatalf("unexpected order: %v", overview)
	}

	top := overview[1]
	if top.Average != 80 || top.Band != "on track" {
		t.Fatalf("expected 80 / on track, got %v / %q", top.Average, top.Band)
	}
	if top.AttendanceRate != 0.4 {
		t.Fatalf("expected weekly rate 0.4, got %v", top.AttendanceRate)
	}
	if !top.Paid {
		t.Fatalf("expected paid badge for current month")
	}

	low := overview[0]
	if low.Average != 40 || low.Band != "at risk" {
		t.Fatalf("expected 40 / at risk, got %v / %q", low.Average, low.Band)
	}
	if low.AttendanceRate != 0 || low.Paid {
		t.Fatalf("expected empty attendance and unpaid, got %v / %v", low.AttendanceRate, low.Paid)
	}

	if got := eng.Views.ClassAverage(); got != 60 {
		t.Fatalf("expected class average 60, got %v", got)
	}
}

func TestAggregatorRecomputesAfterMutation(t *testing.T) {
	remote := newFakeRemote()
	eng := New(remote)
	ctx := context.Background()

	l, err := eng.Learners.Register(ctx, RegisterInput{Name: "Thandi", Grade: "10", ParentPhone: "071"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term := eng.Matrix.AddAssessment("Term 1")

	if err := eng.Matrix.SetMark(term.ID, l.ID, "40"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.Views.Overview("All")[0].Band; got != "at risk" {
		t.Fatalf("expected at risk, got %q", got)
	}

	if err := eng.Matrix.SetMark(term.ID, l.ID, "70"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.Views.Overview("All")[0].Band; got != "on track" {
		t.Fatalf("expected derived band to follow the new mark, got %q", got)
	}
}
