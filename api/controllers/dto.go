package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/types"
)

type transitionResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor,omitempty"`
	Remarks    *string   `json:"remarks,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type rtoEventResponse struct {
	ID          uuid.UUID  `json:"id"`
	ShipmentID  uuid.UUID  `json:"shipment_id"`
	OrderID     uuid.UUID  `json:"order_id"`
	WarehouseID uuid.UUID  `json:"warehouse_id"`
	NDREventID  *uuid.UUID `json:"ndr_event_id,omitempty"`

	ReverseAWB string `json:"reverse_awb,omitempty"`
	Carrier    string `json:"carrier"`

	Reason       string `json:"reason"`
	TriggerType  string `json:"trigger_type"`
	ReturnStatus string `json:"return_status"`

	ChargesDeducted   bool            `json:"charges_deducted"`
	ChargeAmount      decimal.Decimal `json:"charge_amount"`
	ChargesDeductedAt *time.Time      `json:"charges_deducted_at,omitempty"`

	QCPassed      *bool      `json:"qc_passed,omitempty"`
	QCRemarks     *string    `json:"qc_remarks,omitempty"`
	QCInspectedBy *string    `json:"qc_inspected_by,omitempty"`
	QCInspectedAt *time.Time `json:"qc_inspected_at,omitempty"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	RestockedAt        *time.Time `json:"restocked_at,omitempty"`

	Metadata    types.JSONMap        `json:"metadata,omitempty"`
	Transitions []transitionResponse `json:"transitions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRTOEventResponse(event *models.RTOEvent) rtoEventResponse {
	out := rtoEventResponse{
		ID:                 event.ID,
		ShipmentID:         event.ShipmentID,
		OrderID:            event.OrderID,
		WarehouseID:        event.WarehouseID,
		NDREventID:         event.NDREventID,
		ReverseAWB:         event.ReverseAWB,
		Carrier:            event.Carrier,
		Reason:             event.RTOReason.String(),
		TriggerType:        event.TriggerType.String(),
		ReturnStatus:       event.ReturnStatus.String(),
		ChargesDeducted:    event.ChargesDeducted,
		ChargeAmount:       event.ChargeAmount,
		ChargesDeductedAt:  event.ChargesDeductedAt,
		QCPassed:           event.QCPassed,
		QCRemarks:          event.QCRemarks,
		QCInspectedBy:      event.QCInspectedBy,
		QCInspectedAt:      event.QCInspectedAt,
		CancellationReason: event.CancellationReason,
		RestockedAt:        event.RestockedAt,
		Metadata:           event.Metadata,
		CreatedAt:          event.CreatedAt,
		UpdatedAt:          event.UpdatedAt,
	}
	for _, transition := range event.Transitions {
		out.Transitions = append(out.Transitions, transitionResponse{
			FromStatus: transition.FromStatus.String(),
			ToStatus:   transition.ToStatus.String(),
			Actor:      transition.Actor,
			Remarks:    transition.Remarks,
			CreatedAt:  transition.CreatedAt,
		})
	}
	return out
}
