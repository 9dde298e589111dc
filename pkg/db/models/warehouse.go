package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a seller fulfilment location.
type Warehouse struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Pincode   string    `gorm:"column:pincode"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
