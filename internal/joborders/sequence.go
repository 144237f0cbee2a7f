package joborders

import (
	"context"
	"fmt"
)

// Advisory lock key serializing completed-number assignment. Two
// transactions completing orders concurrently would otherwise read the
// same MAX and assign duplicate numbers.
const completedSeqLockKey = 0x544F5251 // "TORQ"

// sequencer owns the display-number bookkeeping for completed orders.
// Both operations must run on the transaction that carries the status
// change consuming them.
type sequencer struct {
	db dbtx
}

// NextCompletedNumber returns 1 + MAX(display_no) over Completed orders,
// or 1 when none exist. It takes a transaction-scoped advisory lock
// first, so concurrent completions serialize on their commits.
func (s sequencer) NextCompletedNumber(ctx context.Context) (int, error) {
	if _, err := s.db.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", completedSeqLockKey); err != nil {
		return 0, fmt.Errorf("joborders: acquire sequence lock: %w", err)
	}
	var next int
	err := s.db.QueryRow(ctx,
		"SELECT COALESCE(MAX(display_no), 0) + 1 FROM job_orders WHERE status = $1",
		StatusCompleted).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("joborders: next completed number: %w", err)
	}
	return next, nil
}

// CompactFrom closes the gap left by removing a completed order: every
// completed order numbered above the removed one shifts down by one,
// keeping the sequence dense.
func (s sequencer) CompactFrom(ctx context.Context, removed int) error {
	if _, err := s.db.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", completedSeqLockKey); err != nil {
		return fmt.Errorf("joborders: acquire sequence lock: %w", err)
	}
	_, err := s.db.Exec(ctx,
		"UPDATE job_orders SET display_no = display_no - 1 WHERE status = $1 AND display_no > $2",
		StatusCompleted, removed)
	if err != nil {
		return fmt.Errorf("joborders: compact sequence: %w", err)
	}
	return nil
}
