package rto

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/internal/audit"
	"github.com/shipglide/logistics-backend/internal/couriers"
	"github.com/shipglide/logistics-backend/internal/inventory"
	"github.com/shipglide/logistics-backend/internal/ndr"
	"github.com/shipglide/logistics-backend/internal/notifications"
	"github.com/shipglide/logistics-backend/internal/orders"
	"github.com/shipglide/logistics-backend/internal/ratecard"
	"github.com/shipglide/logistics-backend/internal/ratelimit"
	"github.com/shipglide/logistics-backend/internal/shipments"
	"github.com/shipglide/logistics-backend/internal/wallet"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	"github.com/shipglide/logistics-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:rto_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Shipment{},
		&models.SalesOrder{},
		&models.OrderLineItem{},
		&models.NDREvent{},
		&models.RTOEvent{},
		&models.RTOTransition{},
		&models.Wallet{},
		&models.WalletEntry{},
		&models.InventoryItem{},
		&models.Warehouse{},
		&models.Notification{},
		&models.AuditLog{},
		&models.RateCard{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// AutoMigrate cannot express the partial index, create it the way the
	// production migration does.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_rto_events_active_shipment
		ON rto_events(shipment_id)
		WHERE return_status NOT IN ('restocked','refurbished','disposed','claimed','cancelled')`).Error; err != nil {
		t.Fatalf("create partial index: %v", err)
	}
	return db
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubAdapter struct {
	name      string
	createErr error
	cancelErr error
	trackErr  error
	track     couriers.TrackingResult

	created   []couriers.ReverseShipmentRequest
	cancelled []string
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) CreateReverseShipment(_ context.Context, req couriers.ReverseShipmentRequest) (couriers.ReverseShipmentResult, error) {
	if a.createErr != nil {
		return couriers.ReverseShipmentResult{}, a.createErr
	}
	a.created = append(a.created, req)
	return couriers.ReverseShipmentResult{
		ReverseAWB: "RV" + req.ForwardAWB,
		Courier:    a.name,
	}, nil
}

func (a *stubAdapter) TrackShipment(context.Context, string) (couriers.TrackingResult, error) {
	if a.trackErr != nil {
		return couriers.TrackingResult{}, a.trackErr
	}
	return a.track, nil
}

func (a *stubAdapter) CancelReverseShipment(_ context.Context, awb string, _ string) error {
	if a.cancelErr != nil {
		return a.cancelErr
	}
	a.cancelled = append(a.cancelled, awb)
	return nil
}

type schedulingAdapter struct {
	stubAdapter
	scheduleErr error
	scheduled   []couriers.PickupSlot
}

func (a *schedulingAdapter) SchedulePickup(_ context.Context, _ string, slot couriers.PickupSlot) error {
	if a.scheduleErr != nil {
		return a.scheduleErr
	}
	a.scheduled = append(a.scheduled, slot)
	return nil
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
}

func (l *stubLimiter) CheckLimit(context.Context, string) (ratelimit.Decision, error) {
	if l.err != nil {
		return ratelimit.Decision{}, l.err
	}
	return l.decision, nil
}

type fixture struct {
	companyID   uuid.UUID
	warehouseID uuid.UUID
	orderID     uuid.UUID
	shipmentID  uuid.UUID
	ndrEventID  uuid.UUID
	awb         string
}

// seedFixture creates a company's warehouse, wallet with the given balance,
// an order with one line item of sku RED-1 x2, an NDR'd shipment and a
// national rate card pricing delhivery returns at 50 flat.
func seedFixture(t *testing.T, db *gorm.DB, balance decimal.Decimal) fixture {
	t.Helper()

	f := fixture{
		companyID:   uuid.New(),
		warehouseID: uuid.New(),
		awb:         "AWB" + uuid.NewString()[:8],
	}

	if err := db.Create(&models.Warehouse{ID: f.warehouseID, CompanyID: f.companyID, Name: "blr-1", Pincode: "560001"}).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	if err := db.Create(&models.Wallet{CompanyID: f.companyID, Balance: balance}).Error; err != nil {
		t.Fatalf("seed wallet: %v", err)
	}

	order := &models.SalesOrder{
		CompanyID:   f.companyID,
		WarehouseID: f.warehouseID,
		OrderNumber: "SO-1001",
		Items:       []models.OrderLineItem{{SKU: "RED-1", Qty: 2}},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	f.orderID = order.ID

	shipment := &models.Shipment{
		OrderID:         order.ID,
		CompanyID:       f.companyID,
		WarehouseID:     f.warehouseID,
		AWB:             f.awb,
		Carrier:         "Delhivery",
		Status:          enums.ShipmentStatusNDR,
		WeightKG:        decimal.RequireFromString("0.5"),
		PickupPincode:   "560001",
		DeliveryPincode: "110001",
	}
	if err := db.Create(shipment).Error; err != nil {
		t.Fatalf("seed shipment: %v", err)
	}
	f.shipmentID = shipment.ID

	ndrEvent := &models.NDREvent{
		ShipmentID: shipment.ID,
		CompanyID:  f.companyID,
		Reason:     "customer unavailable",
		Status:     enums.NDRStatusOpen,
	}
	if err := db.Create(ndrEvent).Error; err != nil {
		t.Fatalf("seed ndr event: %v", err)
	}
	f.ndrEventID = ndrEvent.ID

	if err := db.Create(&models.RateCard{
		Carrier:      "delhivery",
		Zone:         "national",
		BaseCharge:   decimal.RequireFromString("50"),
		BaseWeightKG: decimal.RequireFromString("0.5"),
		PerKGCharge:  decimal.RequireFromString("20"),
	}).Error; err != nil {
		t.Fatalf("seed rate card: %v", err)
	}

	return f
}

func newTestCoordinator(db *gorm.DB, adapter couriers.Adapter, limiter ratelimit.Limiter) *Coordinator {
	logg := newTestLogger()
	return NewCoordinator(CoordinatorDeps{
		Tx:        &testTxRunner{db: db},
		Events:    NewRepository(db),
		Shipments: shipments.NewRepository(db),
		NDR:       ndr.NewRepository(db),
		Wallet:    wallet.NewGateway(db),
		Charges:   ratecard.NewCalculator(db),
		Couriers:  couriers.NewFactory(adapter),
		Limiter:   limiter,
		Notifier:  notifications.NewDispatcher(db, logg),
		Audit:     audit.NewRecorder(db),
		Logger:    logg,
	})
}

func newTestService(db *gorm.DB, adapter couriers.Adapter) *Service {
	logg := newTestLogger()
	runner := &testTxRunner{db: db}
	events := NewRepository(db)
	restock := NewRestockExecutor(RestockDeps{
		Tx:        runner,
		Events:    events,
		Orders:    orders.NewRepository(db),
		Inventory: inventory.NewAdjuster(db),
		Audit:     audit.NewRecorder(db),
		Logger:    logg,
	})
	return NewService(ServiceDeps{
		Tx:        runner,
		Events:    events,
		Shipments: shipments.NewRepository(db),
		Couriers:  couriers.NewFactory(adapter),
		Restock:   restock,
		Notifier:  notifications.NewDispatcher(db, logg),
		Audit:     audit.NewRecorder(db),
		Logger:    logg,
	})
}

func allowAll() *stubLimiter {
	return &stubLimiter{decision: ratelimit.Decision{Allowed: true}}
}
