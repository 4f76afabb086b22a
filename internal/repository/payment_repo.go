package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"debt-ledger-backend/internal/ledger"
	"debt-ledger-backend/internal/models"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) List(ctx context.Context, f ledger.PaymentFilter) ([]models.Payment, error) {
	var payments []models.Payment
	q := r.db.WithContext(ctx).Order("payment_date DESC")
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	err := q.Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) Recent(ctx context.Context, n int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Order("payment_date DESC").
		Limit(n).
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) Insert(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
