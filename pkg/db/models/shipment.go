package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipglide/logistics-backend/pkg/enums"
)

// Shipment is the forward-leg record couriers carry. The RTO engine reads it
// freely but only ever writes statuses from the RTO vocabulary.
type Shipment struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null"`

	AWB     string `gorm:"column:awb;not null;index"`
	Carrier string `gorm:"column:carrier;not null"`

	Status enums.ShipmentStatus `gorm:"column:status;type:text;not null;default:'created'"`

	WeightKG        decimal.Decimal `gorm:"column:weight_kg;type:numeric(8,3);not null;default:0"`
	PickupPincode   string          `gorm:"column:pickup_pincode"`
	DeliveryPincode string          `gorm:"column:delivery_pincode"`

	DeliveredAt *time.Time `gorm:"column:delivered_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
