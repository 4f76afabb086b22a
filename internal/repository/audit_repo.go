package repository

import (
	"context"

	"gorm.io/gorm"

	"debt-ledger-backend/internal/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry *models.LedgerAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
