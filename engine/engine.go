// Package engine is the learner records and academic tracking core: the
// roster, assessment marks, attendance and payment status behind the admin
// view. Stores apply edits optimistically, persist them through a RemoteSync
// and reconcile failures back into local state; the Aggregator derives
// display metrics on every read.
package engine

import (
	"context"
	"time"

	"inevitable_academy_go/utils"
)

// Engine wires the four stores, the aggregator and a shared RemoteSync
type Engine struct {
	Remote     RemoteSync
	Learners   *LearnerStore
	Matrix     *AssessmentMatrix
	Attendance *AttendanceTracker
	Payments   *PaymentLedger
	Views      *Aggregator
}

// New assembles an engine around the given persistence client
func New(remote RemoteSync) *Engine {
	matrix := NewAssessmentMatrix()
	tracker := NewAttendanceTracker(remote)
	ledger := NewPaymentLedger(remote)
	learners := NewLearnerStore(remote, matrix, tracker, ledger)

	return &Engine{
		Remote:     remote,
		Learners:   learners,
		Matrix:     matrix,
		Attendance: tracker,
		Payments:   ledger,
		Views:      NewAggregator(learners, matrix, tracker, ledger),
	}
}

// Load hydrates the roster, the current month's attendance and the current
// month's payment records from the server.
func (e *Engine) Load(ctx context.Context) error {
	if err := e.Learners.Load(ctx); err != nil {
		return err
	}

	now := time.Now()
	dates := utils.WeekdayDateKeys(now.Year(), now.Month())
	if len(dates) > 0 {
		if err := e.Attendance.Load(ctx, dates[0], dates[len(dates)-1]); err != nil {
			return err
		}
	}

	return e.Payments.Load(ctx, e.Payments.CurrentMonthKey())
}
