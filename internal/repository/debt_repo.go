package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"debt-ledger-backend/internal/ledger"
	"debt-ledger-backend/internal/models"
)

// sweepableStatuses are the states a past-due debt can be surfaced from;
// paid is terminal and excluded everywhere.
var sweepableStatuses = []models.DebtStatus{
	models.DebtPending, models.DebtPartial, models.DebtOverdue,
}

type DebtRepository struct {
	db *gorm.DB
}

func NewDebtRepository(db *gorm.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

func (r *DebtRepository) Get(ctx context.Context, id uuid.UUID) (*models.Debt, error) {
	var debt models.Debt
	err := r.db.WithContext(ctx).First(&debt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrDebtNotFound
	}
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *DebtRepository) List(ctx context.Context, f ledger.DebtFilter) ([]models.Debt, error) {
	var debts []models.Debt
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	err := q.Find(&debts).Error
	return debts, err
}

func (r *DebtRepository) ListOverdue(ctx context.Context, now time.Time) ([]models.Debt, error) {
	var debts []models.Debt
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Where("status IN ?", sweepableStatuses).
		Order("due_date ASC").
		Find(&debts).Error
	return debts, err
}

func (r *DebtRepository) Insert(ctx context.Context, d *models.Debt) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// SetBalance is a compare-and-set: the write lands only if paid_amount has
// not moved since the caller read it.
func (r *DebtRepository) SetBalance(ctx context.Context, id uuid.UUID, expectPaid decimal.Decimal, b ledger.Balance) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Debt{}).
		Where("id = ? AND paid_amount = ?", id, expectPaid).
		Updates(map[string]any{
			"paid_amount":      b.Paid,
			"remaining_amount": b.Remaining,
			"status":           b.Status,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *DebtRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.DebtStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Debt{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

func (r *DebtRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Debt{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *DebtRepository) DeletePaidFor(ctx context.Context, customerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, models.DebtPaid).
		Delete(&models.Debt{})
	return res.RowsAffected, res.Error
}

func (r *DebtRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Debt{}).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Where("status IN ?", sweepableStatuses).
		Count(&count).Error
	return count, err
}
