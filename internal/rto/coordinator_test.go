package rto

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shipglide/logistics-backend/internal/ratelimit"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
)

func TestTriggerRTOHappyPath(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	adapter := &stubAdapter{name: "delhivery"}
	coordinator := newTestCoordinator(db, adapter, allowAll())

	event, err := coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID:  f.shipmentID,
		Reason:      enums.RTOReasonNDRUnresolved,
		TriggerType: enums.RTOTriggerAuto,
		NDREventID:  &f.ndrEventID,
		Actor:       "system",
	})
	if err != nil {
		t.Fatalf("trigger rto: %v", err)
	}
	if event == nil {
		t.Fatal("expected event")
	}
	if event.ReturnStatus != enums.RTOStatusInitiated {
		t.Fatalf("unexpected status %s", event.ReturnStatus)
	}
	if !event.ChargesDeducted || !event.ChargeAmount.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("unexpected charge state: %v %s", event.ChargesDeducted, event.ChargeAmount)
	}
	if event.ReverseAWB != "RV"+f.awb {
		t.Fatalf("unexpected reverse awb %q", event.ReverseAWB)
	}
	if len(event.Transitions) != 1 {
		t.Fatalf("expected initial transition, got %d", len(event.Transitions))
	}

	var w models.Wallet
	if err := db.First(&w, "company_id = ?", f.companyID).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("950")) {
		t.Fatalf("expected balance 950, got %s", w.Balance)
	}

	var shipment models.Shipment
	if err := db.First(&shipment, "id = ?", f.shipmentID).Error; err != nil {
		t.Fatalf("load shipment: %v", err)
	}
	if shipment.Status != enums.ShipmentStatusRTOInitiated {
		t.Fatalf("expected shipment rto_initiated, got %s", shipment.Status)
	}

	var ndrEvent models.NDREvent
	if err := db.First(&ndrEvent, "id = ?", f.ndrEventID).Error; err != nil {
		t.Fatalf("load ndr: %v", err)
	}
	if ndrEvent.Status != enums.NDRStatusRTOTriggered {
		t.Fatalf("expected ndr rto_triggered, got %s", ndrEvent.Status)
	}

	var entries []models.WalletEntry
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("load wallet entries: %v", err)
	}
	if len(entries) != 1 || !entries[0].Amount.Equal(decimal.RequireFromString("-50")) {
		t.Fatalf("unexpected wallet entries: %+v", entries)
	}
}

func TestTriggerRTOWeightSurcharge(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	if err := db.Model(&models.Shipment{}).Where("id = ?", f.shipmentID).
		Update("weight_kg", decimal.RequireFromString("2.2")).Error; err != nil {
		t.Fatalf("update weight: %v", err)
	}
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, allowAll())

	event, err := coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID:  f.shipmentID,
		Reason:      enums.RTOReasonAddressIssue,
		TriggerType: enums.RTOTriggerManual,
		Actor:       "ops@seller",
	})
	if err != nil {
		t.Fatalf("trigger rto: %v", err)
	}
	// 50 base + ceil(2.2 - 0.5) = 2kg started * 20.
	if !event.ChargeAmount.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("expected charge 90, got %s", event.ChargeAmount)
	}
}

func TestTriggerRTOShipmentNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, allowAll())

	_, err := coordinator.TriggerRTO(context.Background(), TriggerInput{
		ShipmentID: uuid.New(),
		Reason:     enums.RTOReasonNDRUnresolved,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTriggerRTOAlreadyDelivered(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	if err := db.Model(&models.Shipment{}).Where("id = ?", f.shipmentID).
		Update("status", enums.ShipmentStatusDelivered.String()).Error; err != nil {
		t.Fatalf("update shipment: %v", err)
	}
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, allowAll())

	_, err := coordinator.TriggerRTO(context.Background(), TriggerInput{
		ShipmentID: f.shipmentID,
		Reason:     enums.RTOReasonNDRUnresolved,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestTriggerRTOSecondTriggerConflicts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, allowAll())

	if _, err := coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID:  f.shipmentID,
		Reason:      enums.RTOReasonNDRUnresolved,
		TriggerType: enums.RTOTriggerAuto,
		Actor:       "system",
	}); err != nil {
		t.Fatalf("first trigger: %v", err)
	}

	_, err := coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID:  f.shipmentID,
		Reason:      enums.RTOReasonNDRUnresolved,
		TriggerType: enums.RTOTriggerAuto,
		Actor:       "system",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	var count int64
	if err := db.Model(&models.RTOEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one event, got %d", count)
	}
}

func TestTriggerRTODuplicateNDRClaim(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, allowAll())

	first, err := coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID:  f.shipmentID,
		Reason:      enums.RTOReasonNDRUnresolved,
		TriggerType: enums.RTOTriggerAuto,
		NDREventID:  &f.ndrEventID,
		Actor:       "system",
	})
	if err != nil {
		t.Fatalf("first trigger: %v", err)
	}

	// Cancel the first event so the shipment no longer has an active RTO;
	// the NDR claim alone must still block a re-trigger.
	if err := db.Model(&models.RTOEvent{}).Where("id = ?", first.ID).
		Update("return_status", enums.RTOStatusCancelled.String()).Error; err != nil {
		t.Fatalf("cancel event: %v", err)
	}
	if err := db.Model(&models.Shipment{}).Where("id = ?", f.shipmentID).
		Update("status", enums.ShipmentStatusNDR.String()).Error; err != nil {
		t.Fatalf("reset shipment: %v", err)
	}

	_, err = coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID:  f.shipmentID,
		Reason:      enums.RTOReasonNDRUnresolved,
		TriggerType: enums.RTOTriggerAuto,
		NDREventID:  &f.ndrEventID,
		Actor:       "system",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeDuplicateTrigger) {
		t.Fatalf("expected duplicate trigger, got %v", err)
	}
	if typed := pkgerrors.As(err); typed.Message() != "RTO already triggered for this NDR" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestTriggerRTOInsufficientBalance(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("10"))
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, allowAll())

	_, err := coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID: f.shipmentID,
		Reason:     enums.RTOReasonNDRUnresolved,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	var count int64
	if err := db.Model(&models.RTOEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no events, got %d", count)
	}
	var w models.Wallet
	if err := db.First(&w, "company_id = ?", f.companyID).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("balance changed: %s", w.Balance)
	}
}

func TestTriggerRTOCourierFailureRollsBackCharge(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	adapter := &stubAdapter{name: "delhivery", createErr: errors.New("carrier api down")}
	coordinator := newTestCoordinator(db, adapter, allowAll())

	_, err := coordinator.TriggerRTO(ctx, TriggerInput{
		ShipmentID:  f.shipmentID,
		Reason:      enums.RTOReasonNDRUnresolved,
		TriggerType: enums.RTOTriggerAuto,
		NDREventID:  &f.ndrEventID,
		Actor:       "system",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	var w models.Wallet
	if err := db.First(&w, "company_id = ?", f.companyID).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected charge rolled back, balance %s", w.Balance)
	}

	var count int64
	if err := db.Model(&models.RTOEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no events after rollback, got %d", count)
	}

	var shipment models.Shipment
	if err := db.First(&shipment, "id = ?", f.shipmentID).Error; err != nil {
		t.Fatalf("load shipment: %v", err)
	}
	if shipment.Status != enums.ShipmentStatusNDR {
		t.Fatalf("expected shipment untouched, got %s", shipment.Status)
	}
}

func TestTriggerRTORateLimited(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	limiter := &stubLimiter{decision: ratelimit.Decision{Allowed: false, RetryAfter: 42 * time.Second}}
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, limiter)

	_, err := coordinator.TriggerRTO(context.Background(), TriggerInput{
		ShipmentID: f.shipmentID,
		Reason:     enums.RTOReasonNDRUnresolved,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeRateLimit) {
		t.Fatalf("expected rate limit, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	if !ok || details["retry_after_seconds"] != int64(42) {
		t.Fatalf("expected retry_after surfaced, got %#v", pkgerrors.As(err).Details())
	}
}

func TestTriggerRTOUnknownNDR(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	coordinator := newTestCoordinator(db, &stubAdapter{name: "delhivery"}, allowAll())

	missing := uuid.New()
	_, err := coordinator.TriggerRTO(context.Background(), TriggerInput{
		ShipmentID: f.shipmentID,
		Reason:     enums.RTOReasonNDRUnresolved,
		NDREventID: &missing,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRepositoryCreateTranslatesUniqueViolations(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	events := NewRepository(db)

	base := models.RTOEvent{
		ShipmentID:   f.shipmentID,
		OrderID:      f.orderID,
		CompanyID:    f.companyID,
		WarehouseID:  f.warehouseID,
		Carrier:      "delhivery",
		RTOReason:    enums.RTOReasonNDRUnresolved,
		TriggerType:  enums.RTOTriggerAuto,
		ReturnStatus: enums.RTOStatusInitiated,
	}

	first := base
	first.NDREventID = &f.ndrEventID
	if err := events.Create(ctx, &first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	active := base
	if err := events.Create(ctx, &active); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected active-shipment conflict, got %v", err)
	}

	// A terminal row frees the shipment slot; the NDR claim still holds.
	if err := db.Model(&models.RTOEvent{}).Where("id = ?", first.ID).
		Update("return_status", enums.RTOStatusCancelled.String()).Error; err != nil {
		t.Fatalf("cancel first: %v", err)
	}
	dup := base
	dup.NDREventID = &f.ndrEventID
	if err := events.Create(ctx, &dup); !pkgerrors.HasCode(err, pkgerrors.CodeDuplicateTrigger) {
		t.Fatalf("expected duplicate trigger, got %v", err)
	}
}

func TestRepositoryFindActiveByShipment(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	events := NewRepository(db)

	event := &models.RTOEvent{
		ShipmentID:   f.shipmentID,
		OrderID:      f.orderID,
		CompanyID:    f.companyID,
		WarehouseID:  f.warehouseID,
		Carrier:      "delhivery",
		RTOReason:    enums.RTOReasonNDRUnresolved,
		TriggerType:  enums.RTOTriggerAuto,
		ReturnStatus: enums.RTOStatusInitiated,
	}
	if err := events.Create(ctx, event); err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := events.FindActiveByShipment(ctx, f.shipmentID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if active == nil || active.ID != event.ID {
		t.Fatalf("expected active event, got %+v", active)
	}

	if err := db.Model(&models.RTOEvent{}).Where("id = ?", event.ID).
		Update("return_status", enums.RTOStatusRestocked.String()).Error; err != nil {
		t.Fatalf("close event: %v", err)
	}
	active, err = events.FindActiveByShipment(ctx, f.shipmentID)
	if err != nil {
		t.Fatalf("find active after close: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active event, got %+v", active)
	}
}
