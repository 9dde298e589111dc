package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipglide/logistics-backend/pkg/enums"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// Notification is a persisted in-app notification. Delivery transports are
// external to this service.
type Notification struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID  uuid.UUID              `gorm:"column:company_id;type:uuid;not null;index"`
	RTOEventID uuid.UUID              `gorm:"column:rto_event_id;type:uuid;index"`
	Type       enums.NotificationType `gorm:"column:type;type:text;not null"`
	Payload    types.JSONMap          `gorm:"column:payload;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
