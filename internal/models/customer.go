package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer aggregates are maintained by the ledger service, never written
// directly by handlers. TotalDebt is the sum of remaining amounts across the
// customer's non-deleted debts; TotalPaid the sum of non-reversed payments.
type Customer struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"index;size:180" json:"name"`
	Phone     string          `gorm:"index;size:60" json:"phone"`
	Address   string          `gorm:"size:255" json:"address,omitempty"`
	Email     string          `gorm:"size:180" json:"email,omitempty"`
	Notes     string          `gorm:"size:255" json:"notes,omitempty"`
	TotalDebt decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_debt"`
	TotalPaid decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_paid"`
	CreatedAt time.Time       `json:"created_at"`
}
