package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateCard is one carrier/zone pricing slab used to estimate RTO charges.
type RateCard struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Carrier string    `gorm:"column:carrier;not null;uniqueIndex:idx_rate_cards_carrier_zone"`
	Zone    string    `gorm:"column:zone;not null;uniqueIndex:idx_rate_cards_carrier_zone"`

	BaseCharge   decimal.Decimal `gorm:"column:base_charge;type:numeric(12,2);not null"`
	BaseWeightKG decimal.Decimal `gorm:"column:base_weight_kg;type:numeric(8,3);not null;default:0.5"`
	PerKGCharge  decimal.Decimal `gorm:"column:per_kg_charge;type:numeric(12,2);not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
