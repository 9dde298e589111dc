package ratecard

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/internal/couriers"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
)

const defaultZone = "national"

// ChargeBreakdown itemizes an estimated RTO charge.
type ChargeBreakdown struct {
	Base            decimal.Decimal `json:"base"`
	WeightSurcharge decimal.Decimal `json:"weight_surcharge"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	Zone            string          `json:"zone"`
}

// Calculator estimates the reverse-leg charge for a shipment.
type Calculator interface {
	CalculateRTOCharges(ctx context.Context, shipment *models.Shipment, reason enums.RTOReason) (ChargeBreakdown, error)
}

type calculator struct {
	db *gorm.DB
}

// NewCalculator returns a rate-card calculator backed by the provided database.
func NewCalculator(db *gorm.DB) Calculator {
	return &calculator{db: db}
}

// CalculateRTOCharges looks up the carrier/zone slab and applies per-kg
// surcharges above the slab's base weight. Reverse legs are priced the same
// as forward legs on every rate card we carry, so reason only participates in
// the breakdown metadata.
func (c *calculator) CalculateRTOCharges(ctx context.Context, shipment *models.Shipment, reason enums.RTOReason) (ChargeBreakdown, error) {
	if shipment == nil {
		return ChargeBreakdown{}, errors.New("shipment required")
	}

	zone := zoneFor(shipment.PickupPincode, shipment.DeliveryPincode)

	card, err := c.findCard(ctx, shipment.Carrier, zone)
	if err != nil {
		return ChargeBreakdown{}, err
	}
	if card == nil {
		card, err = c.findCard(ctx, shipment.Carrier, defaultZone)
		if err != nil {
			return ChargeBreakdown{}, err
		}
	}
	if card == nil {
		return ChargeBreakdown{}, errors.New("no rate card for carrier " + shipment.Carrier)
	}

	breakdown := ChargeBreakdown{Base: card.BaseCharge, Zone: card.Zone}

	if excess := shipment.WeightKG.Sub(card.BaseWeightKG); excess.IsPositive() {
		// Surcharge accrues per started kilogram above the base slab.
		breakdown.WeightSurcharge = excess.Ceil().Mul(card.PerKGCharge)
	}

	breakdown.FinalPrice = breakdown.Base.Add(breakdown.WeightSurcharge)
	return breakdown, nil
}

func (c *calculator) findCard(ctx context.Context, carrier, zone string) (*models.RateCard, error) {
	var card models.RateCard
	err := c.db.WithContext(ctx).
		First(&card, "carrier = ? AND zone = ?", couriers.Canonical(carrier), zone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// zoneFor buckets a lane by pincode prefix: same first-two digits means the
// packages stay within one postal region.
func zoneFor(pickup, delivery string) string {
	if len(pickup) >= 2 && len(delivery) >= 2 {
		if pickup[:2] == delivery[:2] {
			return "regional"
		}
	}
	return defaultZone
}
