package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a company's prepaid balance. Deductions are single conditional
// updates, never read-then-write.
type Wallet struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID uuid.UUID       `gorm:"column:company_id;type:uuid;not null;uniqueIndex:idx_wallets_company_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// WalletEntry is an immutable record of one wallet movement.
type WalletEntry struct {
	ID       uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	WalletID uuid.UUID       `gorm:"column:wallet_id;type:uuid;not null;index"`
	Amount   decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Kind     string          `gorm:"column:kind;not null"`
	Ref      string          `gorm:"column:ref;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
