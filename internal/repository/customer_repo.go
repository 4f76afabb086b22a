package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"debt-ledger-backend/internal/ledger"
	"debt-ledger-backend/internal/models"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Search matches name or phone by case-insensitive substring. An empty term
// returns everyone.
func (r *CustomerRepository) Search(ctx context.Context, term string) ([]models.Customer, error) {
	var customers []models.Customer
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+term+"%")
	}
	err := q.Find(&customers).Error
	return customers, err
}

func (r *CustomerRepository) Insert(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

// ApplyDelta runs the aggregate update as a single SQL increment, so
// concurrent deltas against the same customer commute.
func (r *CustomerRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta ledger.CustomerDelta) (bool, error) {
	updates := map[string]any{}
	if !delta.TotalDebt.IsZero() {
		updates["total_debt"] = gorm.Expr("total_debt + ?", delta.TotalDebt)
	}
	if !delta.TotalPaid.IsZero() {
		updates["total_paid"] = gorm.Expr("total_paid + ?", delta.TotalPaid)
	}
	if len(updates) == 0 {
		return true, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

func (r *CustomerRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		TotalDebt decimal.Decimal
		TotalPaid decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Select("COALESCE(SUM(total_debt),0) AS total_debt, COALESCE(SUM(total_paid),0) AS total_paid").
		Scan(&row).Error
	return row.TotalDebt, row.TotalPaid, err
}
