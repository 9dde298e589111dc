package rto

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/internal/audit"
	"github.com/shipglide/logistics-backend/internal/couriers"
	"github.com/shipglide/logistics-backend/internal/ndr"
	"github.com/shipglide/logistics-backend/internal/notifications"
	"github.com/shipglide/logistics-backend/internal/ratecard"
	"github.com/shipglide/logistics-backend/internal/ratelimit"
	"github.com/shipglide/logistics-backend/internal/shipments"
	"github.com/shipglide/logistics-backend/internal/wallet"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/metrics"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// txRunner abstracts the database client's transaction helper.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// providerResolver abstracts the courier factory.
type providerResolver interface {
	Provider(carrier string) (couriers.Adapter, error)
}

// TriggerInput carries everything needed to open a return.
type TriggerInput struct {
	ShipmentID  uuid.UUID
	Reason      enums.RTOReason
	TriggerType enums.RTOTriggerType
	NDREventID  *uuid.UUID
	Actor       string
	Remarks     *string
}

// Coordinator runs the RTO trigger workflow: preconditions up front, then a
// single transaction covering the wallet charge, the event insert, the
// courier reverse booking and the shipment/NDR updates. A failure anywhere
// inside the transaction rolls everything back, including the charge.
type Coordinator struct {
	tx        txRunner
	events    Repository
	shipments shipments.Repository
	ndr       ndr.Repository
	wallet    wallet.Gateway
	charges   ratecard.Calculator
	couriers  providerResolver
	limiter   ratelimit.Limiter
	notifier  notifications.Dispatcher
	audit     audit.Recorder
	metrics   *metrics.RTOMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// CoordinatorDeps bundles the coordinator's collaborators.
type CoordinatorDeps struct {
	Tx        txRunner
	Events    Repository
	Shipments shipments.Repository
	NDR       ndr.Repository
	Wallet    wallet.Gateway
	Charges   ratecard.Calculator
	Couriers  providerResolver
	Limiter   ratelimit.Limiter
	Notifier  notifications.Dispatcher
	Audit     audit.Recorder
	Metrics   *metrics.RTOMetrics
	Logger    *logger.Logger
}

// NewCoordinator wires a trigger coordinator.
func NewCoordinator(deps CoordinatorDeps) *Coordinator {
	return &Coordinator{
		tx:        deps.Tx,
		events:    deps.Events,
		shipments: deps.Shipments,
		ndr:       deps.NDR,
		wallet:    deps.Wallet,
		charges:   deps.Charges,
		couriers:  deps.Couriers,
		limiter:   deps.Limiter,
		notifier:  deps.Notifier,
		audit:     deps.Audit,
		metrics:   deps.Metrics,
		logg:      deps.Logger,
		now:       time.Now,
	}
}

// TriggerRTO validates the trigger preconditions in order and, when they all
// hold, opens the return atomically. The returned event is reloaded after
// commit so it carries its transition history.
func (c *Coordinator) TriggerRTO(ctx context.Context, input TriggerInput) (*models.RTOEvent, error) {
	ctx = c.logg.WithShipmentID(ctx, input.ShipmentID.String())

	shipment, err := c.shipments.FindByID(ctx, input.ShipmentID)
	if err != nil {
		return nil, c.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load shipment"))
	}
	if shipment == nil {
		return nil, c.fail(ctx, input, errShipmentNotFound())
	}
	ctx = c.logg.WithCompanyID(ctx, shipment.CompanyID.String())

	if shipment.Status == enums.ShipmentStatusDelivered {
		return nil, c.fail(ctx, input, errAlreadyDelivered())
	}
	if shipment.Status.IsActiveRTO() {
		return nil, c.fail(ctx, input, errAlreadyInRTO())
	}
	active, err := c.events.FindActiveByShipment(ctx, shipment.ID)
	if err != nil {
		return nil, c.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to check active rto"))
	}
	if active != nil {
		return nil, c.fail(ctx, input, errAlreadyInRTO())
	}

	decision, err := c.limiter.CheckLimit(ctx, shipment.CompanyID.String())
	if err != nil {
		return nil, c.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiter unavailable"))
	}
	if !decision.Allowed {
		return nil, c.fail(ctx, input, errRateLimited(decision.RetryAfter))
	}

	if input.NDREventID != nil {
		if err := c.checkNDR(ctx, *input.NDREventID); err != nil {
			return nil, c.fail(ctx, input, err)
		}
	}

	breakdown, err := c.charges.CalculateRTOCharges(ctx, shipment, input.Reason)
	if err != nil {
		return nil, c.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to estimate rto charges"))
	}
	balance, err := c.wallet.GetBalance(ctx, shipment.CompanyID)
	if err != nil {
		return nil, c.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read wallet balance"))
	}
	if balance.LessThan(breakdown.FinalPrice) {
		return nil, c.fail(ctx, input, errInsufficientBalance(breakdown.FinalPrice, balance))
	}

	adapter, err := c.couriers.Provider(couriers.Canonical(shipment.Carrier))
	if err != nil {
		return nil, c.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "no courier adapter for carrier"))
	}

	var eventID uuid.UUID
	txErr := c.tx.WithTx(ctx, func(tx *gorm.DB) error {
		charge, err := c.wallet.WithTx(tx).HandleRTOCharge(ctx, shipment.CompanyID, breakdown.FinalPrice, "rto:"+shipment.AWB)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "wallet charge failed")
		}
		if !charge.Success {
			if charge.Err == wallet.ErrInsufficientBalance {
				return errInsufficientBalance(breakdown.FinalPrice, balance)
			}
			return errWalletChargeFailed(charge.Err)
		}

		now := c.now()
		event := &models.RTOEvent{
			ShipmentID:        shipment.ID,
			OrderID:           shipment.OrderID,
			CompanyID:         shipment.CompanyID,
			WarehouseID:       shipment.WarehouseID,
			NDREventID:        input.NDREventID,
			Carrier:           couriers.Canonical(shipment.Carrier),
			RTOReason:         input.Reason,
			TriggerType:       input.TriggerType,
			ReturnStatus:      enums.RTOStatusInitiated,
			ChargesDeducted:   true,
			ChargesDeductedAt: &now,
			ChargeAmount:      breakdown.FinalPrice,
			Metadata: types.JSONMap{
				"charge_breakdown": map[string]any{
					"base":             breakdown.Base.String(),
					"weight_surcharge": breakdown.WeightSurcharge.String(),
					"zone":             breakdown.Zone,
				},
			},
		}
		txEvents := c.events.WithTx(tx)
		if err := txEvents.Create(ctx, event); err != nil {
			return err
		}
		eventID = event.ID

		booking, err := adapter.CreateReverseShipment(ctx, couriers.ReverseShipmentRequest{
			OrderNumber:     shipment.OrderID.String(),
			ForwardAWB:      shipment.AWB,
			PickupPincode:   shipment.DeliveryPincode,
			DeliveryPincode: shipment.PickupPincode,
			WeightKG:        shipment.WeightKG.String(),
			Reason:          input.Reason.String(),
		})
		if err != nil {
			return errCourierCreateFailed(err)
		}
		if err := txEvents.Update(ctx, event.ID, map[string]any{"reverse_awb": booking.ReverseAWB}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record reverse awb")
		}
		if err := txEvents.AppendTransition(ctx, &models.RTOTransition{
			RTOEventID: event.ID,
			FromStatus: enums.RTOStatusInitiated,
			ToStatus:   enums.RTOStatusInitiated,
			Actor:      input.Actor,
			Remarks:    input.Remarks,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record initial transition")
		}

		if err := c.shipments.WithTx(tx).UpdateRTOStatus(ctx, shipment.ID, enums.ShipmentStatusRTOInitiated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to flag shipment as rto")
		}
		if input.NDREventID != nil {
			if err := c.ndr.WithTx(tx).MarkRTOTriggered(ctx, *input.NDREventID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to close ndr event")
			}
		}
		return c.audit.WithTx(tx).Record(ctx, shipment.CompanyID, enums.AuditActionRTOTriggered, event.ID, input.Actor, types.JSONMap{
			"shipment_id": shipment.ID.String(),
			"reverse_awb": booking.ReverseAWB,
			"charge":      breakdown.FinalPrice.String(),
		})
	})
	if txErr != nil {
		return nil, c.fail(ctx, input, txErr)
	}

	c.metrics.IncTrigger("success", input.Reason.String())
	ctx = c.logg.WithRTOEventID(ctx, eventID.String())
	c.logg.Info(ctx, "rto triggered")
	c.notifier.NotifyRTOInitiated(ctx, shipment.CompanyID, eventID, types.JSONMap{
		"shipment_id": shipment.ID.String(),
		"awb":         shipment.AWB,
		"reason":      input.Reason.String(),
	})

	return c.events.FindByID(ctx, eventID)
}

func (c *Coordinator) checkNDR(ctx context.Context, ndrEventID uuid.UUID) error {
	record, err := c.ndr.FindByID(ctx, ndrEventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load ndr event")
	}
	if record == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "ndr event not found")
	}
	claimed, err := c.events.FindByNDREvent(ctx, ndrEventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to check ndr claim")
	}
	if claimed != nil {
		return errDuplicateTrigger()
	}
	return nil
}

func (c *Coordinator) fail(ctx context.Context, input TriggerInput, err error) error {
	outcome := "failure"
	if typed := pkgerrors.As(err); typed != nil {
		outcome = string(typed.Code())
	}
	c.metrics.IncTrigger(outcome, input.Reason.String())
	c.logg.Error(ctx, "rto trigger rejected", err)
	return err
}
