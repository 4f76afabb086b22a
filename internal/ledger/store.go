package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"debt-ledger-backend/internal/models"
)

// The store interfaces below are the only thing the ledger service knows
// about persistence. Get methods return the matching ledger sentinel
// (ErrCustomerNotFound etc.) on a miss. Update methods report matched=false
// when no row satisfied the predicate, without treating that as an error.

type DebtFilter struct {
	Status     models.DebtStatus
	CustomerID *uuid.UUID
}

type PaymentFilter struct {
	CustomerID *uuid.UUID
}

type CustomerStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Search(ctx context.Context, term string) ([]models.Customer, error)
	Insert(ctx context.Context, c *models.Customer) error
	// UpdateProfile sets identity fields only; it never touches the
	// aggregate columns.
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error)
	// ApplyDelta increments the aggregate columns atomically. Increments are
	// commutative, so concurrent deltas need no serialization.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta CustomerDelta) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	Totals(ctx context.Context) (totalDebt, totalPaid decimal.Decimal, err error)
}

type DebtStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Debt, error)
	List(ctx context.Context, f DebtFilter) ([]models.Debt, error)
	ListOverdue(ctx context.Context, now time.Time) ([]models.Debt, error)
	Insert(ctx context.Context, d *models.Debt) error
	// SetBalance writes the derived fields only if the stored paid_amount
	// still equals expectPaid (compare-and-set against writers outside this
	// process).
	SetBalance(ctx context.Context, id uuid.UUID, expectPaid decimal.Decimal, b Balance) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.DebtStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeletePaidFor(ctx context.Context, customerID uuid.UUID) (int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type PaymentStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]models.Payment, error)
	Recent(ctx context.Context, n int) ([]models.Payment, error)
	Insert(ctx context.Context, p *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type AuditStore interface {
	Append(ctx context.Context, entry *models.LedgerAuditLog) error
}
