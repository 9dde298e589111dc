package models

import (
	"time"

	"github.com/google/uuid"
)

// SalesOrder is the seller order a shipment fulfils. During restock the RTO
// engine enumerates its line items to put stock back.
type SalesOrder struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null"`
	OrderNumber string    `gorm:"column:order_number;not null"`

	Items []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem is a SKU/quantity pair on a sales order.
type OrderLineItem struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	SKU     string    `gorm:"column:sku;not null"`
	Qty     int       `gorm:"column:qty;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
