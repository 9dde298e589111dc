package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:wallet_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Wallet{}, &models.WalletEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedWallet(t *testing.T, db *gorm.DB, balance string) uuid.UUID {
	t.Helper()
	w := &models.Wallet{CompanyID: uuid.New(), Balance: decimal.RequireFromString(balance)}
	if err := db.Create(w).Error; err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return w.CompanyID
}

func TestHandleRTOChargeDeductsAndRecords(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := seedWallet(t, db, "500")
	gw := NewGateway(db)

	result, err := gw.HandleRTOCharge(ctx, companyID, decimal.RequireFromString("120.50"), "rto:abc")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if !result.Success {
		t.Fatalf("charge rejected: %s", result.Err)
	}
	if !result.NewBalance.Equal(decimal.RequireFromString("379.50")) {
		t.Fatalf("balance = %s", result.NewBalance)
	}

	var entry models.WalletEntry
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if !entry.Amount.Equal(decimal.RequireFromString("-120.50")) || entry.Kind != "debit" || entry.Ref != "rto:abc" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestHandleRTOChargeInsufficientBalance(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := seedWallet(t, db, "10")
	gw := NewGateway(db)

	result, err := gw.HandleRTOCharge(ctx, companyID, decimal.RequireFromString("50"), "rto:abc")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if result.Success || result.Err != ErrInsufficientBalance {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.NewBalance.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("balance should be untouched, got %s", result.NewBalance)
	}

	var count int64
	db.Model(&models.WalletEntry{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no wallet entries, got %d", count)
	}
}

func TestHandleRTOChargeMissingWallet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	gw := NewGateway(db)

	result, err := gw.HandleRTOCharge(context.Background(), uuid.New(), decimal.NewFromInt(5), "rto:abc")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if result.Success || result.Err != "wallet not found" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestHandleRTOChargeRejectsNegativeAmount(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	gw := NewGateway(db)

	if _, err := gw.HandleRTOCharge(context.Background(), uuid.New(), decimal.NewFromInt(-1), "x"); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestHasMinimumBalance(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := seedWallet(t, db, "100")
	gw := NewGateway(db)

	ok, err := gw.HasMinimumBalance(ctx, companyID, decimal.NewFromInt(100))
	if err != nil || !ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
	ok, err = gw.HasMinimumBalance(ctx, companyID, decimal.RequireFromString("100.01"))
	if err != nil || ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
}
