package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks on-hand stock per SKU and warehouse.
type InventoryItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SKU         string    `gorm:"column:sku;not null;uniqueIndex:idx_inventory_sku_warehouse"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:idx_inventory_sku_warehouse"`
	Quantity    int       `gorm:"column:quantity;not null;default:0"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
