package rto

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/internal/audit"
	"github.com/shipglide/logistics-backend/internal/couriers"
	"github.com/shipglide/logistics-backend/internal/notifications"
	"github.com/shipglide/logistics-backend/internal/shipments"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/metrics"
	"github.com/shipglide/logistics-backend/pkg/pagination"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// TransitionContext carries who moved an event and why.
type TransitionContext struct {
	Actor   string
	Remarks *string
}

// QCInput records one warehouse inspection.
type QCInput struct {
	Passed      bool
	Remarks     *string
	InspectedBy string
	Actor       string
}

// PickupScheduleResult reports whether the carrier accepted a pickup slot.
// Supported is false when the adapter does not offer scheduling at all.
type PickupScheduleResult struct {
	Supported bool   `json:"supported"`
	Message   string `json:"message,omitempty"`
}

// Service drives the lifecycle of existing RTO events.
type Service struct {
	tx        txRunner
	events    Repository
	shipments shipments.Repository
	couriers  providerResolver
	restock   *RestockExecutor
	notifier  notifications.Dispatcher
	audit     audit.Recorder
	metrics   *metrics.RTOMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceDeps bundles the lifecycle service's collaborators.
type ServiceDeps struct {
	Tx        txRunner
	Events    Repository
	Shipments shipments.Repository
	Couriers  providerResolver
	Restock   *RestockExecutor
	Notifier  notifications.Dispatcher
	Audit     audit.Recorder
	Metrics   *metrics.RTOMetrics
	Logger    *logger.Logger
}

// NewService wires the lifecycle service.
func NewService(deps ServiceDeps) *Service {
	return &Service{
		tx:        deps.Tx,
		events:    deps.Events,
		shipments: deps.Shipments,
		couriers:  deps.Couriers,
		restock:   deps.Restock,
		notifier:  deps.Notifier,
		audit:     deps.Audit,
		metrics:   deps.Metrics,
		logg:      deps.Logger,
		now:       time.Now,
	}
}

// GetRTOEvent loads one event with its transition history.
func (s *Service) GetRTOEvent(ctx context.Context, id uuid.UUID) (*models.RTOEvent, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load rto event")
	}
	if event == nil {
		return nil, errRTONotFound()
	}
	return event, nil
}

// ListRTOEvents pages through a company's returns, newest first.
func (s *Service) ListRTOEvents(ctx context.Context, companyID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.RTOEvent, *pagination.Cursor, error) {
	return s.events.List(ctx, companyID, params, filters)
}

// UpdateStatus moves an event forward along the lifecycle graph. Moving into
// restocked delegates to the restock executor so the inventory side effects
// ride the same transaction as the status change.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to enums.RTOStatus, tctx TransitionContext) (*models.RTOEvent, error) {
	ctx = s.logg.WithRTOEventID(ctx, id.String())

	if to == enums.RTOStatusRestocked {
		return s.restock.PerformRestock(ctx, id, tctx)
	}
	if to == enums.RTOStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "use the cancel operation to cancel an rto")
	}

	event, err := s.GetRTOEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(event.ReturnStatus, to) {
		return nil, errInvalidTransition(event.ReturnStatus, to)
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txEvents := s.events.WithTx(tx)
		if err := txEvents.UpdateStatus(ctx, event.ID, event.ReturnStatus, to, nil); err != nil {
			return err
		}
		if err := txEvents.AppendTransition(ctx, &models.RTOTransition{
			RTOEventID: event.ID,
			FromStatus: event.ReturnStatus,
			ToStatus:   to,
			Actor:      tctx.Actor,
			Remarks:    tctx.Remarks,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record transition")
		}
		if shipmentStatus, ok := shipmentStatusFor(to); ok {
			if err := s.shipments.WithTx(tx).UpdateRTOStatus(ctx, event.ShipmentID, shipmentStatus); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mirror status onto shipment")
			}
		}
		return s.audit.WithTx(tx).Record(ctx, event.CompanyID, enums.AuditActionRTOTransition, event.ID, tctx.Actor, types.JSONMap{
			"from": event.ReturnStatus.String(),
			"to":   to.String(),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.metrics.IncTransition(to.String())
	s.logg.Info(ctx, "rto status updated")
	if to == enums.RTOStatusDeliveredToWarehouse {
		s.notifier.NotifyRTODeliveredToWarehouse(ctx, event.CompanyID, event.ID, types.JSONMap{
			"shipment_id": event.ShipmentID.String(),
		})
	}
	return s.events.FindByID(ctx, id)
}

// RecordQCResult stores a warehouse inspection and moves the event to
// qc_completed. Inspections are only accepted once the package is physically
// back at the warehouse.
func (s *Service) RecordQCResult(ctx context.Context, id uuid.UUID, input QCInput) (*models.RTOEvent, error) {
	ctx = s.logg.WithRTOEventID(ctx, id.String())

	event, err := s.GetRTOEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	switch event.ReturnStatus {
	case enums.RTOStatusDeliveredToWarehouse, enums.RTOStatusQCPending:
	default:
		return nil, errQCBeforeDelivery(event.ReturnStatus)
	}

	now := s.now()
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txEvents := s.events.WithTx(tx)
		if err := txEvents.UpdateStatus(ctx, event.ID, event.ReturnStatus, enums.RTOStatusQCCompleted, map[string]any{
			"qc_passed":       input.Passed,
			"qc_remarks":      input.Remarks,
			"qc_inspected_by": input.InspectedBy,
			"qc_inspected_at": now,
		}); err != nil {
			return err
		}
		if err := txEvents.AppendTransition(ctx, &models.RTOTransition{
			RTOEventID: event.ID,
			FromStatus: event.ReturnStatus,
			ToStatus:   enums.RTOStatusQCCompleted,
			Actor:      input.Actor,
			Remarks:    input.Remarks,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record transition")
		}
		return s.audit.WithTx(tx).Record(ctx, event.CompanyID, enums.AuditActionRTOTransition, event.ID, input.Actor, types.JSONMap{
			"from":      event.ReturnStatus.String(),
			"to":        enums.RTOStatusQCCompleted.String(),
			"qc_passed": input.Passed,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.metrics.IncTransition(enums.RTOStatusQCCompleted.String())
	s.logg.Info(ctx, "rto qc recorded")
	s.notifier.NotifyRTOQCCompleted(ctx, event.CompanyID, event.ID, types.JSONMap{
		"qc_passed": input.Passed,
	})
	return s.events.FindByID(ctx, id)
}

// TrackReverseShipment proxies a live tracking probe to the event's carrier.
func (s *Service) TrackReverseShipment(ctx context.Context, reverseAWB string) (*couriers.TrackingResult, error) {
	event, err := s.events.FindByReverseAWB(ctx, reverseAWB)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up reverse awb")
	}
	if event == nil {
		return nil, errRTONotFound()
	}

	adapter, err := s.couriers.Provider(couriers.Canonical(event.Carrier))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "no courier adapter for carrier")
	}
	result, err := adapter.TrackShipment(ctx, reverseAWB)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "courier tracking failed")
	}
	return &result, nil
}

// CancelReverseShipment cancels a return that has not left with the courier.
// The courier-side cancellation happens inside the transaction, so a carrier
// failure leaves the event untouched.
func (s *Service) CancelReverseShipment(ctx context.Context, id uuid.UUID, reason string, tctx TransitionContext) (*models.RTOEvent, error) {
	ctx = s.logg.WithRTOEventID(ctx, id.String())

	event, err := s.GetRTOEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.ReturnStatus.IsPreTransit() {
		return nil, errCancelNotAllowed(event.ReturnStatus)
	}

	adapter, err := s.couriers.Provider(couriers.Canonical(event.Carrier))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "no courier adapter for carrier")
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txEvents := s.events.WithTx(tx)
		if err := txEvents.UpdateStatus(ctx, event.ID, event.ReturnStatus, enums.RTOStatusCancelled, map[string]any{
			"cancellation_reason": reason,
		}); err != nil {
			return err
		}
		if err := txEvents.AppendTransition(ctx, &models.RTOTransition{
			RTOEventID: event.ID,
			FromStatus: event.ReturnStatus,
			ToStatus:   enums.RTOStatusCancelled,
			Actor:      tctx.Actor,
			Remarks:    &reason,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record transition")
		}
		if err := s.shipments.WithTx(tx).UpdateRTOStatus(ctx, event.ShipmentID, enums.ShipmentStatusNDR); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to release shipment from rto")
		}
		if event.ReverseAWB != "" {
			if err := adapter.CancelReverseShipment(ctx, event.ReverseAWB, reason); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "courier cancellation failed")
			}
		}
		return s.audit.WithTx(tx).Record(ctx, event.CompanyID, enums.AuditActionRTOCancelled, event.ID, tctx.Actor, types.JSONMap{
			"reason": reason,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.metrics.IncTransition(enums.RTOStatusCancelled.String())
	s.logg.Info(ctx, "rto cancelled")
	s.notifier.NotifyRTOCancelled(ctx, event.CompanyID, event.ID, types.JSONMap{
		"reason": reason,
	})
	return s.events.FindByID(ctx, id)
}

// ScheduleReversePickup asks the carrier for a pickup slot when the adapter
// supports scheduling. Carriers without the capability yield a graceful
// "not supported" result rather than an error.
func (s *Service) ScheduleReversePickup(ctx context.Context, id uuid.UUID, slot couriers.PickupSlot) (PickupScheduleResult, error) {
	event, err := s.GetRTOEvent(ctx, id)
	if err != nil {
		return PickupScheduleResult{}, err
	}
	if event.ReverseAWB == "" {
		return PickupScheduleResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "rto has no reverse awb yet")
	}

	adapter, err := s.couriers.Provider(couriers.Canonical(event.Carrier))
	if err != nil {
		return PickupScheduleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "no courier adapter for carrier")
	}
	scheduler, ok := couriers.SchedulerFor(adapter)
	if !ok {
		return PickupScheduleResult{
			Supported: false,
			Message:   "carrier does not support pickup scheduling",
		}, nil
	}
	if err := scheduler.SchedulePickup(ctx, event.ReverseAWB, slot); err != nil {
		return PickupScheduleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "courier pickup scheduling failed")
	}

	if err := s.events.Update(ctx, event.ID, map[string]any{
		"metadata": mergeMetadata(event.Metadata, types.JSONMap{
			"pickup_date": slot.Date.Format("2006-01-02"),
			"pickup_slot": slot.Slot,
		}),
	}); err != nil {
		return PickupScheduleResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record pickup slot")
	}
	return PickupScheduleResult{Supported: true, Message: "pickup scheduled"}, nil
}

// shipmentStatusFor maps an RTO status onto the shipment status it mirrors.
func shipmentStatusFor(status enums.RTOStatus) (enums.ShipmentStatus, bool) {
	switch status {
	case enums.RTOStatusInTransit:
		return enums.ShipmentStatusRTOInTransit, true
	case enums.RTOStatusDeliveredToWarehouse:
		return enums.ShipmentStatusRTODelivered, true
	}
	return "", false
}

func mergeMetadata(base, extra types.JSONMap) types.JSONMap {
	merged := types.JSONMap{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
