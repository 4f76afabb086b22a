package ledger

import (
	"time"

	"debt-ledger-backend/internal/models"
)

// SweepStatus returns the status d should carry at now, and whether that
// differs from the stored one. A debt with a past due date is promoted to
// overdue from pending or partial; paid is terminal and never reverts, and an
// already-overdue debt stays unchanged.
func SweepStatus(d *models.Debt, now time.Time) (models.DebtStatus, bool) {
	if d.DueDate == nil || !d.DueDate.Before(now) {
		return d.Status, false
	}
	switch d.Status {
	case models.DebtPending, models.DebtPartial:
		return models.DebtOverdue, true
	}
	return d.Status, false
}
