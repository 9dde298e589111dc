package rto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/enums"
)

func errShipmentNotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
}

func errRTONotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "rto event not found")
}

func errAlreadyDelivered() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "shipment already delivered")
}

func errAlreadyInRTO() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "rto already active for this shipment")
}

func errDuplicateTrigger() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDuplicateTrigger, "RTO already triggered for this NDR")
}

func errRateLimited(retryAfter time.Duration) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeRateLimit, "rto trigger rate limit exceeded").
		WithDetails(map[string]any{"retry_after_seconds": int64(retryAfter.Seconds())})
}

func errInsufficientBalance(required, available decimal.Decimal) *pkgerrors.Error {
	msg := fmt.Sprintf("Insufficient wallet balance: required %s, available %s", required, available)
	return pkgerrors.New(pkgerrors.CodeInsufficientBalance, msg).
		WithDetails(map[string]any{
			"required":  required.String(),
			"available": available.String(),
		})
}

func errWalletChargeFailed(reason string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDependency, "wallet charge failed: "+reason)
}

func errCourierCreateFailed(err error) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "courier reverse shipment creation failed")
}

func errInvalidTransition(from, to enums.RTOStatus) *pkgerrors.Error {
	msg := fmt.Sprintf("cannot transition rto from %s to %s", from, to)
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]any{"from": from.String(), "to": to.String()})
}

func errQCBeforeDelivery(current enums.RTOStatus) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "must be delivered to warehouse before QC").
		WithDetails(map[string]any{"current": current.String()})
}

func errRestockInvalidStatus(current enums.RTOStatus) *pkgerrors.Error {
	msg := fmt.Sprintf("rto must complete qc before restock, current status %s", current)
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]any{"current": current.String()})
}

func errQCNotPassed() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "qc not passed, restock is not allowed")
}

func errCancelNotAllowed(current enums.RTOStatus) *pkgerrors.Error {
	msg := fmt.Sprintf("Cannot cancel RTO in status %s", current)
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]any{"current": current.String()})
}
