package engine

import (
	"context"
	"sync"
	"time"

	"inevitable_academy_go/utils"
)

// Presence is the tri-state attendance value for one (learner, date) pair
type Presence int

const (
	Unknown Presence = iota
	Present
	Absent
)

func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// DayStatus is one resolved day in a week or month snapshot
type DayStatus struct {
	Date   string
	Status Presence
}

type attendanceKey struct {
	learnerID uint
	date      string
}

// AttendanceTracker owns per-learner, per-date presence. There is exactly one
// record per (learner, date); the weekly and monthly views are projections of
// the same records. Toggles apply optimistically and persist through the
// remote service; a per-key generation counter serializes writes so a stale
// response from an earlier in-flight request can never overwrite a later
// toggle.
type AttendanceTracker struct {
	mu      sync.Mutex
	remote  RemoteSync
	records map[attendanceKey]Presence
	gens    map[attendanceKey]uint64
	now     func() time.Time
}

// NewAttendanceTracker creates an empty tracker
func NewAttendanceTracker(remote RemoteSync) *AttendanceTracker {
	return &AttendanceTracker{
		remote:  remote,
		records: make(map[attendanceKey]Presence),
		gens:    make(map[attendanceKey]uint64),
		now:     time.Now,
	}
}

// Load replaces local records with the server's for the given date range
func (t *AttendanceTracker) Load(ctx context.Context, from, to string) error {
	records, err := t.remote.FetchAttendance(ctx, from, to)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range records {
		key := attendanceKey{learnerID: r.LearnerID, date: r.Date}
		if t.gens[key] != 0 {
			// a local toggle is in flight or already applied; it wins
			continue
		}
		if r.Present {
			t.records[key] = Present
		} else {
			t.records[key] = Absent
		}
	}
	return nil
}

// Status resolves one (learner, date) pair, defaulting to Unknown
func (t *AttendanceTracker) Status(learnerID uint, date string) Presence {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.records[attendanceKey{learnerID: learnerID, date: date}]
}

// Toggle applies the tapped value for (learner, date): tapping a value sets
// it, tapping the value already stored clears the day back to unknown, so
// toggling the same value twice round-trips. The new state is applied locally
// before the remote call is dispatched. On failure the prior state is
// restored, unless a later toggle on the same key has already superseded this
// one, in which case the late outcome is discarded.
func (t *AttendanceTracker) Toggle(ctx context.Context, learnerID uint, date string, value Presence) (Presence, error) {
	if value != Present && value != Absent {
		return Unknown, &ValidationError{Message: "Attendance can only be toggled to present or absent."}
	}

	key := attendanceKey{learnerID: learnerID, date: date}

	t.mu.Lock()
	prior := t.records[key]
	next := value
	if prior == value {
		next = Unknown
	}
	if next == Unknown {
		delete(t.records, key)
	} else {
		t.records[key] = next
	}
	t.gens[key]++
	gen := t.gens[key]
	t.mu.Unlock()

	var err error
	if next == Unknown {
		err = t.remote.ClearAttendance(ctx, learnerID, date)
	} else {
		err = t.remote.PutAttendance(ctx, learnerID, date, next == Present)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gens[key] != gen {
		// superseded by a later toggle; report the state that won
		return t.records[key], nil
	}
	if err != nil {
		if prior == Unknown {
			delete(t.records, key)
		} else {
			t.records[key] = prior
		}
		return prior, err
	}
	return next, nil
}

// WeekDates returns the Monday through Friday dates of the current week
func (t *AttendanceTracker) WeekDates() []string {
	now := t.now()
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	monday := now.AddDate(0, 0, -offset)

	dates := make([]string, 5)
	for i := 0; i < 5; i++ {
		dates[i] = utils.DateKey(monday.AddDate(0, 0, i))
	}
	return dates
}

// WeekSnapshot resolves the current Monday-Friday range for one learner
func (t *AttendanceTracker) WeekSnapshot(learnerID uint) []DayStatus {
	return t.snapshot(learnerID, t.WeekDates())
}

// MonthSnapshot resolves every weekday of the given month for one learner,
// in ascending order.
func (t *AttendanceTracker) MonthSnapshot(learnerID uint, year int, month time.Month) []DayStatus {
	return t.snapshot(learnerID, utils.WeekdayDateKeys(year, month))
}

func (t *AttendanceTracker) snapshot(learnerID uint, dates []string) []DayStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]DayStatus, len(dates))
	for i, d := range dates {
		out[i] = DayStatus{
			Date:   d,
			Status: t.records[attendanceKey{learnerID: learnerID, date: d}],
		}
	}
	return out
}

// AttendanceRate is present days divided by all days in the range. A day
// with no record counts in the denominator but not the numerator, so the
// rate can only rise as records are filled in.
func (t *AttendanceTracker) AttendanceRate(learnerID uint, dates []string) float64 {
	if len(dates) == 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	present := 0
	for _, d := range dates {
		if t.records[attendanceKey{learnerID: learnerID, date: d}] == Present {
			present++
		}
	}
	return float64(present) / float64(len(dates))
}

// RemoveLearner drops every record and generation for the learner
func (t *AttendanceTracker) RemoveLearner(learnerID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.records {
		if key.learnerID == learnerID {
			delete(t.records, key)
		}
	}
	for key := range t.gens {
		if key.learnerID == learnerID {
			delete(t.gens, key)
		}
	}
}
