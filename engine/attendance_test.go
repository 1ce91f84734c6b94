package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestToggleRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		setup Presence // state before the two toggles, Unknown means none
		value Presence
	}{
		{name: "unknown toggled present twice", setup: Unknown, value: Present},
		{name: "unknown toggled absent twice", setup: Unknown, value: Absent},
		{name: "present toggled present twice", setup: Present, value: Present},
		{name: "absent toggled absent twice", setup: Absent, value: Absent},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tracker := NewAttendanceTracker(newFakeRemote())
			ctx := context.Background()

			if tc.setup != Unknown {
				if _, err := tracker.Toggle(ctx, 1, "2026-03-02", tc.setup); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			before := tracker.Status(1, "2026-03-02")

			if _, err := tracker.Toggle(ctx, 1, "2026-03-02", tc.value); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := tracker.Toggle(ctx, 1, "2026-03-02", tc.value); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := tracker.Status(1, "2026-03-02"); got != before {
				t.Fatalf("expected round-trip back to %v, got %v", before, got)
			}
		})
	}
}

func TestToggleSetsAndClears(t *testing.T) {
	remote := newFakeRemote()
	tracker := NewAttendanceTracker(remote)
	ctx := context.Background()

	got, err := tracker.Toggle(ctx, 1, "2026-03-02", Present)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Present {
		t.Fatalf("expected present, got %v", got)
	}
	if present, ok := remote.attendance["1|2026-03-02"]; !ok || !present {
		t.Fatalf("expected present persisted, got %v (%v)", present, ok)
	}

	// a different value replaces the stored one
	got, err = tracker.Toggle(ctx, 1, "2026-03-02", Absent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Absent {
		t.Fatalf("expected absent, got %v", got)
	}

	// the stored value clears the day back to unknown
	got, err = tracker.Toggle(ctx, 1, "2026-03-02", Absent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Unknown {
		t.Fatalf("expected unknown, got %v", got)
	}
	if _, ok := remote.attendance["1|2026-03-02"]; ok {
		t.Fatalf("expected remote record cleared")
	}
}

func TestToggleRejectsUnknown(t *testing.T) {
	tracker := NewAttendanceTracker(newFakeRemote())

	_, err := tracker.Toggle(context.Background(), 1, "2026-03-02", Unknown)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestToggleRollsBackOnSyncFailure(t *testing.T) {
	remote := newFakeRemote()
	tracker := NewAttendanceTracker(remote)
	ctx := context.Background()

	if _, err := tracker.Toggle(ctx, 1, "2026-03-02", Absent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remote.attendanceErr = &SyncError{Op: "save attendance", StatusCode: 500, Message: "boom"}
	got, err := tracker.Toggle(ctx, 1, "2026-03-02", Present)
	if err == nil {
		t.Fatalf("expected sync error")
	}
	if got != Absent {
		t.Fatalf("expected rollback to absent, got %v", got)
	}
	if status := tracker.Status(1, "2026-03-02"); status != Absent {
		t.Fatalf("expected stored state rolled back to absent, got %v", status)
	}
}

func TestToggleStaleResponseDiscarded(t *testing.T) {
	remote := newFakeRemote()
	tracker := NewAttendanceTracker(remote)
	ctx := context.Background()

	firstInFlight := make(chan struct{})
	releaseFirst := make(chan struct{})
	remote.attendanceHook = func(call int) {
		if call == 1 {
			close(firstInFlight)
			<-releaseFirst
		}
	}

	// request A: unknown -> present, its persistence call stalls in flight
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := tracker.Toggle(ctx, 1, "2026-03-02", Present); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}()
	<-firstInFlight

	// request B: present -> absent, issued later but completes first
	got, err := tracker.Toggle(ctx, 1, "2026-03-02", Absent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Absent {
		t.Fatalf("expected absent, got %v", got)
	}

	close(releaseFirst)
	<-done

	// A's late response must not overwrite B's intent
	if status := tracker.Status(1, "2026-03-02"); status != Absent {
		t.Fatalf("expected final state absent, got %v", status)
	}
}

func TestWeekSnapshot(t *testing.T) {
	tracker := NewAttendanceTracker(newFakeRemote())
	// Wednesday 2026-03-04
	tracker.now = func() time.Time {
		return time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	}

	ctx := context.Background()
	if _, err := tracker.Toggle(ctx, 1, "2026-03-02", Present); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tracker.Toggle(ctx, 1, "2026-03-03", Absent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := tracker.WeekSnapshot(1)
	wantDates := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"}
	if len(snap) != 5 {
		t.Fatalf("expected 5 weekdays, got %d", len(snap))
	}
	for i, day := range snap {
		if day.Date != wantDates[i] {
			t.Fatalf("expected %s at position %d, got %s", wantDates[i], i, day.Date)
		}
	}
	if snap[0].Status != Present || snap[1].Status != Absent {
		t.Fatalf("expected recorded days resolved, got %v %v", snap[0].Status, snap[1].Status)
	}
	for _, day := range snap[2:] {
		if day.Status != Unknown {
			t.Fatalf("expected %s to default to unknown, got %v", day.Date, day.Status)
		}
	}
}

func TestMonthSnapshotWeekdaysOnly(t *testing.T) {
	tracker := NewAttendanceTracker(newFakeRemote())

	snap := tracker.MonthSnapshot(1, 2026, time.February)
	if len(snap) != 20 {
		t.Fatalf("expected 20 weekdays in February 2026, got %d", len(snap))
	}
	if snap[0].Date != "2026-02-02" {
		t.Fatalf("expected first weekday 2026-02-02, got %s", snap[0].Date)
	}
	if snap[len(snap)-1].Date != "2026-02-27" {
		t.Fatalf("expected last weekday 2026-02-27, got %s", snap[len(snap)-1].Date)
	}
	for _, day := range snap {
		d, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			t.Fatalf("bad date key %q: %v", day.Date, err)
		}
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend date %s leaked into month snapshot", day.Date)
		}
	}
}

func TestAttendanceRateCountsUnknownInDenominator(t *testing.T) {
	tracker := NewAttendanceTracker(newFakeRemote())
	ctx := context.Background()
	dates := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"}

	// 2 present, 1 absent, 2 unknown
	if _, err := tracker.Toggle(ctx, 1, dates[0], Present); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tracker.Toggle(ctx, 1, dates[1], Present); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tracker.Toggle(ctx, 1, dates[2], Absent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tracker.AttendanceRate(1, dates); got != 0.4 {
		t.Fatalf("expected rate 0.4 (2/5), got %v", got)
	}
	if got := tracker.AttendanceRate(1, nil); got != 0 {
		t.Fatalf("expected 0 over empty range, got %v", got)
	}
}
