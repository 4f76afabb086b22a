package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records one amortization against a debt. The sum of Amount over a
// debt's payments equals that debt's PaidAmount.
type Payment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DebtID     uuid.UUID `gorm:"index" json:"debt_id"`
	CustomerID uuid.UUID `gorm:"index" json:"customer_id"`
	// CustomerName is a snapshot at creation, same as on Debt.
	CustomerName  string          `gorm:"size:180" json:"customer_name,omitempty"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`
	Notes         string          `gorm:"size:255" json:"notes,omitempty"`
	PaymentDate   time.Time       `gorm:"index" json:"payment_date"`
}
