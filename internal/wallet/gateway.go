package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/pkg/db/models"
)

const (
	entryKindDebit  = "debit"
	entryKindCredit = "credit"
)

// ErrInsufficientBalance is the ChargeResult.Err value set when the
// conditional deduction finds too little balance.
const ErrInsufficientBalance = "insufficient balance"

// ChargeResult reports the outcome of a conditional deduction.
type ChargeResult struct {
	Success    bool
	NewBalance decimal.Decimal
	Err        string
}

// Gateway exposes balance queries and atomic conditional deductions.
type Gateway interface {
	WithTx(tx *gorm.DB) Gateway
	GetBalance(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)
	HasMinimumBalance(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) (bool, error)
	HandleRTOCharge(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal, ref string) (ChargeResult, error)
}

type gateway struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGateway returns a wallet gateway bound to the provided database.
func NewGateway(db *gorm.DB) Gateway {
	return &gateway{db: db, now: time.Now}
}

func (g *gateway) WithTx(tx *gorm.DB) Gateway {
	if tx == nil {
		return g
	}
	return &gateway{db: tx, now: g.now}
}

func (g *gateway) GetBalance(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := g.find(ctx, companyID)
	if err != nil {
		return decimal.Zero, err
	}
	if wallet == nil {
		return decimal.Zero, nil
	}
	return wallet.Balance, nil
}

func (g *gateway) HasMinimumBalance(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) (bool, error) {
	balance, err := g.GetBalance(ctx, companyID)
	if err != nil {
		return false, err
	}
	return balance.GreaterThanOrEqual(amount), nil
}

// HandleRTOCharge deducts amount from the company wallet as a single
// conditional update ("deduct if balance >= amount"), so concurrent charges
// can never overdraw. A wallet entry row records the movement.
func (g *gateway) HandleRTOCharge(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal, ref string) (ChargeResult, error) {
	if amount.IsNegative() {
		return ChargeResult{}, fmt.Errorf("charge amount must not be negative")
	}

	wallet, err := g.find(ctx, companyID)
	if err != nil {
		return ChargeResult{}, err
	}
	if wallet == nil {
		return ChargeResult{Success: false, Err: "wallet not found"}, nil
	}

	result := g.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("company_id = ? AND balance >= ?", companyID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return ChargeResult{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ChargeResult{Success: false, NewBalance: wallet.Balance, Err: ErrInsufficientBalance}, nil
	}

	entry := &models.WalletEntry{
		WalletID: wallet.ID,
		Amount:   amount.Neg(),
		Kind:     entryKindDebit,
		Ref:      ref,
	}
	if err := g.db.WithContext(ctx).Create(entry).Error; err != nil {
		return ChargeResult{}, err
	}

	balance, err := g.GetBalance(ctx, companyID)
	if err != nil {
		return ChargeResult{}, err
	}
	return ChargeResult{Success: true, NewBalance: balance}, nil
}

func (g *gateway) find(ctx context.Context, companyID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := g.db.WithContext(ctx).First(&wallet, "company_id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}
