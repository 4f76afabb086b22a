package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DebtStatus string

const (
	DebtPending DebtStatus = "pending"
	DebtPartial DebtStatus = "partial"
	DebtPaid    DebtStatus = "paid"
	DebtOverdue DebtStatus = "overdue"
)

// Debt invariant: PaidAmount + RemainingAmount == TotalAmount, always, with
// exact decimal equality. Status is derived from the balance and the due date.
type Debt struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID *uuid.UUID `gorm:"index" json:"customer_id,omitempty"`
	// CustomerName is a snapshot taken at creation; it is not rewritten when
	// the customer is later renamed.
	CustomerName    string          `gorm:"size:180" json:"customer_name"`
	Description     string          `gorm:"size:255" json:"description"`
	ProductType     string          `gorm:"size:60" json:"product_type"`
	InstallmentType string          `gorm:"size:60" json:"installment_type"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(14,2)" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(14,2)" json:"remaining_amount"`
	Status          DebtStatus      `gorm:"index;size:20" json:"status"`
	DueDate         *time.Time      `gorm:"index" json:"due_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
