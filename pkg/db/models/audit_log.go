package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipglide/logistics-backend/pkg/enums"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// AuditLog is an append-only trail of operator and engine actions.
type AuditLog struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID uuid.UUID         `gorm:"column:company_id;type:uuid;not null;index"`
	Action    enums.AuditAction `gorm:"column:action;type:text;not null"`
	EntityID  uuid.UUID         `gorm:"column:entity_id;type:uuid"`
	Actor     string            `gorm:"column:actor"`
	Detail    types.JSONMap     `gorm:"column:detail;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
