package shipments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
)

// Repository manages persistence for shipments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	FindByAWB(ctx context.Context, awb string) (*models.Shipment, error)
	UpdateRTOStatus(ctx context.Context, id uuid.UUID, status enums.ShipmentStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a shipment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) FindByAWB(ctx context.Context, awb string) (*models.Shipment, error) {
	if awb == "" {
		return nil, nil
	}
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).First(&shipment, "awb = ?", awb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

// UpdateRTOStatus writes a shipment status, restricted to the RTO vocabulary.
func (r *repository) UpdateRTOStatus(ctx context.Context, id uuid.UUID, status enums.ShipmentStatus) error {
	if !status.IsRTOWritable() {
		return fmt.Errorf("status %q is outside the rto vocabulary", status)
	}
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
