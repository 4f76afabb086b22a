package ledger

import (
	"github.com/shopspring/decimal"

	"debt-ledger-backend/internal/models"
)

// Balance is the post-mutation state of a debt's derived fields.
type Balance struct {
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Status    models.DebtStatus
}

// CustomerDelta is the increment to apply to a customer's aggregates.
// Both fields may be negative on reversal.
type CustomerDelta struct {
	TotalDebt decimal.Decimal
	TotalPaid decimal.Decimal
}

// NewDebtBalance computes the initial balance of a debt and the aggregate
// delta for its owner.
func NewDebtBalance(total decimal.Decimal) (Balance, CustomerDelta, error) {
	if total.Sign() <= 0 {
		return Balance{}, CustomerDelta{}, ErrInvalidAmount
	}
	b := Balance{
		Paid:      decimal.Zero,
		Remaining: total,
		Status:    models.DebtPending,
	}
	return b, CustomerDelta{TotalDebt: total}, nil
}

// ApplyPayment computes the debt balance and customer delta after paying
// amount against d. The zero-remaining check is exact decimal equality.
func ApplyPayment(d *models.Debt, amount decimal.Decimal) (Balance, CustomerDelta, error) {
	if d.Status == models.DebtPaid {
		return Balance{}, CustomerDelta{}, ErrAlreadySettled
	}
	if amount.Sign() <= 0 || amount.GreaterThan(d.RemainingAmount) {
		return Balance{}, CustomerDelta{}, ErrInvalidAmount
	}

	b := Balance{
		Paid:      d.PaidAmount.Add(amount),
		Remaining: d.RemainingAmount.Sub(amount),
	}
	if b.Remaining.IsZero() {
		b.Status = models.DebtPaid
	} else {
		b.Status = models.DebtPartial
	}

	delta := CustomerDelta{TotalPaid: amount, TotalDebt: amount.Neg()}
	return b, delta, nil
}

// ReversePayment is the inverse of ApplyPayment, used when a payment record
// is deleted.
func ReversePayment(d *models.Debt, amount decimal.Decimal) (Balance, CustomerDelta) {
	b := Balance{
		Paid:      d.PaidAmount.Sub(amount),
		Remaining: d.RemainingAmount.Add(amount),
	}
	switch {
	case b.Paid.IsZero():
		b.Status = models.DebtPending
	case b.Remaining.IsZero():
		b.Status = models.DebtPaid
	default:
		b.Status = models.DebtPartial
	}

	delta := CustomerDelta{TotalPaid: amount.Neg(), TotalDebt: amount}
	return b, delta
}

// ReverseDebtRemoval computes the customer delta for deleting d. Only the
// outstanding portion leaves total_debt; total_paid keeps what was already
// collected.
func ReverseDebtRemoval(d *models.Debt) CustomerDelta {
	return CustomerDelta{TotalDebt: d.RemainingAmount.Neg()}
}
