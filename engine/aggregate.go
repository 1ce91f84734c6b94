package engine

import "inevitable_academy_go/models"

// BandForAverage maps an average mark to its status band: below 50 is
// "at risk", 50 up to but excluding 65 is "borderline", 65 and above is
// "on track".
func BandForAverage(avg float64) string {
	switch {
	case avg < 50:
		return "at risk"
	case avg < 65:
		return "borderline"
	default:
		return "on track"
	}
}

// LearnerOverview is one learner's display-ready derived metrics
type LearnerOverview struct {
	Learner        models.Learner
	Average        float64
	Band           string
	AttendanceRate float64
	Paid           bool
}

// Aggregator derives display metrics from the stores. It holds no state of
// its own and recomputes on every read, so it can never observe stale
// derived values after a mutation.
type Aggregator struct {
	learners *LearnerStore
	matrix   *AssessmentMatrix
	tracker  *AttendanceTracker
	ledger   *PaymentLedger
}

// NewAggregator creates a read-only view over the four stores
func NewAggregator(learners *LearnerStore, matrix *AssessmentMatrix, tracker *AttendanceTracker, ledger *PaymentLedger) *Aggregator {
	return &Aggregator{
		learners: learners,
		matrix:   matrix,
		tracker:  tracker,
		ledger:   ledger,
	}
}

// ClassAverage is the mean of every learner's average mark
func (a *Aggregator) ClassAverage() float64 {
	return a.matrix.ClassAverage(a.learners.IDs())
}

// Overview resolves metrics for every learner matching the grade filter:
// average and band from the matrix, attendance rate over the current week
// and paid status for the current month.
func (a *Aggregator) Overview(gradeFilter string) []LearnerOverview {
	weekDates := a.tracker.WeekDates()
	monthKey := a.ledger.CurrentMonthKey()

	learners := a.learners.List(gradeFilter)
	out := make([]LearnerOverview, len(learners))
	for i, l := range learners {
		avg := a.matrix.LearnerAverage(l.ID)
		out[i] = LearnerOverview{
			Learner:        l,
			Average:        avg,
			Band:           BandForAverage(avg),
			AttendanceRate: a.tracker.AttendanceRate(l.ID, weekDates),
			Paid:           a.ledger.IsPaid(l.ID, monthKey),
		}
	}
	return out
}
