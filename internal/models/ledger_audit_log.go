package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LedgerAuditLog records every balance-affecting mutation with its
// before/after amounts, so operators can reconcile after a partial write.
type LedgerAuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Action     string     `gorm:"index;size:40"`
	DebtID     *uuid.UUID `gorm:"index"`
	PaymentID  *uuid.UUID
	CustomerID *uuid.UUID `gorm:"index"`
	Details    datatypes.JSON
	CreatedAt  time.Time
}
