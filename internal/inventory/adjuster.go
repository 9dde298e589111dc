package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/pkg/db/models"
)

// Adjuster resolves and mutates warehouse stock levels.
type Adjuster interface {
	WithTx(tx *gorm.DB) Adjuster
	GetBySKU(ctx context.Context, sku string, warehouseID uuid.UUID) (*models.InventoryItem, error)
	AdjustStock(ctx context.Context, inventoryID uuid.UUID, delta int) error
}

type adjuster struct {
	db *gorm.DB
}

// NewAdjuster returns an inventory adjuster bound to the provided database.
func NewAdjuster(db *gorm.DB) Adjuster {
	return &adjuster{db: db}
}

func (a *adjuster) WithTx(tx *gorm.DB) Adjuster {
	if tx == nil {
		return a
	}
	return &adjuster{db: tx}
}

func (a *adjuster) GetBySKU(ctx context.Context, sku string, warehouseID uuid.UUID) (*models.InventoryItem, error) {
	if sku == "" {
		return nil, fmt.Errorf("sku required")
	}
	var item models.InventoryItem
	err := a.db.WithContext(ctx).
		First(&item, "sku = ? AND warehouse_id = ?", sku, warehouseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// AdjustStock applies an atomic relative update so concurrent adjustments
// never lose increments to read-then-write races.
func (a *adjuster) AdjustStock(ctx context.Context, inventoryID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	result := a.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", inventoryID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
