package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipglide/logistics-backend/pkg/enums"
)

// NDREvent records one failed delivery attempt reported by a courier.
type NDREvent struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"column:shipment_id;type:uuid;not null;index"`
	CompanyID  uuid.UUID `gorm:"column:company_id;type:uuid;not null"`

	Reason      string          `gorm:"column:reason"`
	Status      enums.NDRStatus `gorm:"column:status;type:text;not null;default:'open'"`
	AttemptedAt time.Time       `gorm:"column:attempted_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
