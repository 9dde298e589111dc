package rto

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
)

func TestPerformRestock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	if err := db.Create(&models.InventoryItem{SKU: "RED-1", WarehouseID: f.warehouseID, Quantity: 7}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	event := seedEvent(t, db, f, enums.RTOStatusQCCompleted)
	passed := true
	if err := db.Model(event).Update("qc_passed", passed).Error; err != nil {
		t.Fatalf("mark qc passed: %v", err)
	}

	svc := newTestService(db, &stubAdapter{name: "delhivery"})
	updated, err := svc.UpdateStatus(ctx, event.ID, enums.RTOStatusRestocked, TransitionContext{Actor: "warehouse"})
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if updated.ReturnStatus != enums.RTOStatusRestocked {
		t.Fatalf("unexpected status %s", updated.ReturnStatus)
	}
	if updated.RestockedAt == nil {
		t.Fatal("restocked_at not set")
	}

	var stock models.InventoryItem
	if err := db.First(&stock, "sku = ? AND warehouse_id = ?", "RED-1", f.warehouseID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if stock.Quantity != 9 {
		t.Fatalf("expected quantity 9, got %d", stock.Quantity)
	}
}

func TestPerformRestockZeroLineItems(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	if err := db.Where("order_id = ?", f.orderID).Delete(&models.OrderLineItem{}).Error; err != nil {
		t.Fatalf("clear line items: %v", err)
	}

	event := seedEvent(t, db, f, enums.RTOStatusQCCompleted)
	if err := db.Model(event).Update("qc_passed", true).Error; err != nil {
		t.Fatalf("mark qc passed: %v", err)
	}

	svc := newTestService(db, &stubAdapter{name: "delhivery"})
	updated, err := svc.UpdateStatus(ctx, event.ID, enums.RTOStatusRestocked, TransitionContext{Actor: "warehouse"})
	if err != nil {
		t.Fatalf("restock with no items: %v", err)
	}
	if updated.ReturnStatus != enums.RTOStatusRestocked {
		t.Fatalf("unexpected status %s", updated.ReturnStatus)
	}

	var count int64
	if err := db.Model(&models.InventoryItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count inventory: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no inventory rows touched, got %d", count)
	}
}

func TestPerformRestockRequiresQCPass(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))

	event := seedEvent(t, db, f, enums.RTOStatusQCCompleted)
	if err := db.Model(event).Update("qc_passed", false).Error; err != nil {
		t.Fatalf("mark qc failed: %v", err)
	}

	svc := newTestService(db, &stubAdapter{name: "delhivery"})
	_, err := svc.UpdateStatus(ctx, event.ID, enums.RTOStatusRestocked, TransitionContext{Actor: "warehouse"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPerformRestockRequiresQCCompleted(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	event := seedEvent(t, db, f, enums.RTOStatusDeliveredToWarehouse)

	svc := newTestService(db, &stubAdapter{name: "delhivery"})
	_, err := svc.UpdateStatus(context.Background(), event.ID, enums.RTOStatusRestocked, TransitionContext{Actor: "warehouse"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPerformRestockMissingInventoryRollsBack(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	f := seedFixture(t, db, decimal.RequireFromString("1000"))
	// No inventory row for RED-1 exists, the whole restock must fail.

	event := seedEvent(t, db, f, enums.RTOStatusQCCompleted)
	if err := db.Model(event).Update("qc_passed", true).Error; err != nil {
		t.Fatalf("mark qc passed: %v", err)
	}

	svc := newTestService(db, &stubAdapter{name: "delhivery"})
	_, err := svc.UpdateStatus(ctx, event.ID, enums.RTOStatusRestocked, TransitionContext{Actor: "warehouse"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var reloaded models.RTOEvent
	if err := db.First(&reloaded, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if reloaded.ReturnStatus != enums.RTOStatusQCCompleted {
		t.Fatalf("expected status untouched, got %s", reloaded.ReturnStatus)
	}
}
