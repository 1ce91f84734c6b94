package engine

import (
	"context"
	"sync"
	"time"

	"inevitable_academy_go/utils"
)

type paymentKey struct {
	learnerID uint
	monthKey  string
}

// PaymentLedger owns per-learner, per-month paid status. Absence of a record
// always reads as unpaid. The current month key is computed once per ledger
// so every lookup in a session agrees on what "this month" means. Writes are
// optimistic with the same per-key generation arbitration as attendance.
type PaymentLedger struct {
	mu           sync.Mutex
	remote       RemoteSync
	paid         map[paymentKey]bool
	gens         map[paymentKey]uint64
	currentMonth string
}

// NewPaymentLedger creates a ledger anchored to the current month
func NewPaymentLedger(remote RemoteSync) *PaymentLedger {
	return &PaymentLedger{
		remote:       remote,
		paid:         make(map[paymentKey]bool),
		gens:         make(map[paymentKey]uint64),
		currentMonth: utils.MonthKey(time.Now()),
	}
}

// CurrentMonthKey returns the YYYY-MM key this ledger was anchored to
func (l *PaymentLedger) CurrentMonthKey() string {
	return l.currentMonth
}

// Load merges the server's records for one month into the ledger
func (l *PaymentLedger) Load(ctx context.Context, monthKey string) error {
	records, err := l.remote.FetchPayments(ctx, monthKey)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range records {
		key := paymentKey{learnerID: r.LearnerID, monthKey: r.MonthKey}
		if l.gens[key] != 0 {
			continue
		}
		l.paid[key] = r.Paid
	}
	return nil
}

// IsPaid reports whether the learner has paid for the month; no record means
// unpaid, never paid.
func (l *PaymentLedger) IsPaid(learnerID uint, monthKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paid[paymentKey{learnerID: learnerID, monthKey: monthKey}]
}

// SetPaid upserts the paid status, optimistically. The prior status is
// restored if persistence fails, unless a later write on the same key has
// already superseded this one.
func (l *PaymentLedger) SetPaid(ctx context.Context, learnerID uint, monthKey string, paid bool) error {
	key := paymentKey{learnerID: learnerID, monthKey: monthKey}

	l.mu.Lock()
	prior := l.paid[key]
	l.paid[key] = paid
	l.gens[key]++
	gen := l.gens[key]
	l.mu.Unlock()

	err := l.remote.PutPayment(ctx, learnerID, monthKey, paid)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gens[key] != gen {
		return nil
	}
	if err != nil {
		l.paid[key] = prior
		return err
	}
	return nil
}

// TogglePaid flips the learner's status for the month
func (l *PaymentLedger) TogglePaid(ctx context.Context, learnerID uint, monthKey string) error {
	return l.SetPaid(ctx, learnerID, monthKey, !l.IsPaid(learnerID, monthKey))
}

// RemoveLearner drops every record and generation for the learner
func (l *PaymentLedger) RemoveLearner(learnerID uint) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.paid {
		if key.learnerID == learnerID {
			delete(l.paid, key)
		}
	}
	for key := range l.gens {
		if key.learnerID == learnerID {
			delete(l.gens, key)
		}
	}
}
