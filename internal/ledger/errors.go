package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the ledger operation surface.
var (
	ErrCustomerNotFound = errors.New("ledger: customer not found")
	ErrDebtNotFound     = errors.New("ledger: debt not found")
	ErrPaymentNotFound  = errors.New("ledger: payment not found")
	ErrInvalidAmount    = errors.New("ledger: invalid amount")
	ErrAlreadySettled   = errors.New("ledger: debt already paid")
	ErrNoUpdates        = errors.New("ledger: no fields to update")
	ErrConflict         = errors.New("ledger: concurrent update conflict")
)

// InconsistentStateError reports a partial-write window: some of the ordered
// writes of an operation were applied before a later one failed. Applied lists
// the writes that went through, so the stored state can be reconciled by hand
// or from the audit log.
type InconsistentStateError struct {
	Op      string
	Applied []string
	Err     error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("ledger: %s left inconsistent state (applied: %s): %v",
		e.Op, strings.Join(e.Applied, ", "), e.Err)
}

func (e *InconsistentStateError) Unwrap() error { return e.Err }

// IsTransient reports whether err is safe to retry. Reads may be retried
// blindly; writes must re-read state first, since a timed-out write may in
// fact have been applied.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrConflict)
}
