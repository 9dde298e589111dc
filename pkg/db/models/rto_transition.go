package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipglide/logistics-backend/pkg/enums"
)

// RTOTransition is one immutable row of an RTO event's status history.
type RTOTransition struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	RTOEventID uuid.UUID       `gorm:"column:rto_event_id;type:uuid;not null;index"`
	FromStatus enums.RTOStatus `gorm:"column:from_status;type:text;not null"`
	ToStatus   enums.RTOStatus `gorm:"column:to_status;type:text;not null"`
	Actor      string          `gorm:"column:actor"`
	Remarks    *string         `gorm:"column:remarks"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
