package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipglide/logistics-backend/pkg/enums"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// RTOEvent is the aggregate root of the return-to-origin workflow. Events are
// never deleted; terminal statuses close an immutable audit trail.
//
// Two storage-level uniqueness rules enforce the workflow's idempotency:
// a partial unique index on shipment_id over non-terminal statuses
// (idx_rto_events_active_shipment) and a unique index on ndr_event_id
// (idx_rto_events_ndr_event_id).
type RTOEvent struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShipmentID  uuid.UUID `gorm:"column:shipment_id;type:uuid;not null;index"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null"`

	NDREventID *uuid.UUID `gorm:"column:ndr_event_id;type:uuid;uniqueIndex:idx_rto_events_ndr_event_id"`
	ReverseAWB string     `gorm:"column:reverse_awb;index"`
	Carrier    string     `gorm:"column:carrier;not null"`

	RTOReason    enums.RTOReason      `gorm:"column:rto_reason;type:text;not null"`
	TriggerType  enums.RTOTriggerType `gorm:"column:trigger_type;type:text;not null"`
	ReturnStatus enums.RTOStatus      `gorm:"column:return_status;type:text;not null;default:'initiated'"`

	ChargesDeducted   bool            `gorm:"column:charges_deducted;not null;default:false"`
	ChargesDeductedAt *time.Time      `gorm:"column:charges_deducted_at"`
	ChargeAmount      decimal.Decimal `gorm:"column:charge_amount;type:numeric(12,2);not null;default:0"`

	QCPassed      *bool      `gorm:"column:qc_passed"`
	QCRemarks     *string    `gorm:"column:qc_remarks"`
	QCInspectedBy *string    `gorm:"column:qc_inspected_by"`
	QCInspectedAt *time.Time `gorm:"column:qc_inspected_at"`

	CancellationReason *string    `gorm:"column:cancellation_reason"`
	RestockedAt        *time.Time `gorm:"column:restocked_at"`

	Metadata types.JSONMap `gorm:"column:metadata;type:jsonb;serializer:json"`

	Transitions []RTOTransition `gorm:"foreignKey:RTOEventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasQCResult reports whether an inspection has been recorded.
func (e *RTOEvent) HasQCResult() bool {
	return e != nil && e.QCPassed != nil
}
