// Package lock serializes writers of the same loan so two toggles or edits
// cannot interleave their read-modify-write of the schedule.
package lock

import (
	"context"
)

// Locker hands out exclusive per-key locks. The returned unlock func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LoanKey is the lock key of a loan
func LoanKey(loanID string) string {
	return "credit:loan:" + loanID
}
