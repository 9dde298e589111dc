package rto

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/internal/audit"
	"github.com/shipglide/logistics-backend/internal/inventory"
	"github.com/shipglide/logistics-backend/internal/orders"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/metrics"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// RestockExecutor returns inspected goods to warehouse stock. Restock is only
// reachable from qc_completed with a passed inspection; every line item of
// the linked order is incremented atomically inside one transaction together
// with the final status change.
type RestockExecutor struct {
	tx        txRunner
	events    Repository
	orders    orders.Repository
	inventory inventory.Adjuster
	audit     audit.Recorder
	metrics   *metrics.RTOMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// RestockDeps bundles the executor's collaborators.
type RestockDeps struct {
	Tx        txRunner
	Events    Repository
	Orders    orders.Repository
	Inventory inventory.Adjuster
	Audit     audit.Recorder
	Metrics   *metrics.RTOMetrics
	Logger    *logger.Logger
}

// NewRestockExecutor wires a restock executor.
func NewRestockExecutor(deps RestockDeps) *RestockExecutor {
	return &RestockExecutor{
		tx:        deps.Tx,
		events:    deps.Events,
		orders:    deps.Orders,
		inventory: deps.Inventory,
		audit:     deps.Audit,
		metrics:   deps.Metrics,
		logg:      deps.Logger,
		now:       time.Now,
	}
}

// PerformRestock moves a qc-passed event into restocked and increments
// warehouse stock for each returned line item. Orders without line items
// restock as a no-op: the status still advances, inventory stays untouched.
func (e *RestockExecutor) PerformRestock(ctx context.Context, id uuid.UUID, tctx TransitionContext) (*models.RTOEvent, error) {
	ctx = e.logg.WithRTOEventID(ctx, id.String())

	event, err := e.events.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load rto event")
	}
	if event == nil {
		return nil, errRTONotFound()
	}
	if event.ReturnStatus != enums.RTOStatusQCCompleted {
		return nil, errRestockInvalidStatus(event.ReturnStatus)
	}
	if !event.HasQCResult() || !*event.QCPassed {
		return nil, errQCNotPassed()
	}

	order, err := e.orders.FindByID(ctx, event.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	var totalUnits int
	now := e.now()
	txErr := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txInventory := e.inventory.WithTx(tx)
		for _, item := range order.Items {
			stock, err := txInventory.GetBySKU(ctx, item.SKU, event.WarehouseID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load inventory")
			}
			if stock == nil {
				msg := fmt.Sprintf("no inventory record for sku %s in warehouse", item.SKU)
				return pkgerrors.New(pkgerrors.CodeNotFound, msg)
			}
			if err := txInventory.AdjustStock(ctx, stock.ID, item.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to adjust stock")
			}
			totalUnits += item.Qty
		}

		txEvents := e.events.WithTx(tx)
		if err := txEvents.UpdateStatus(ctx, event.ID, enums.RTOStatusQCCompleted, enums.RTOStatusRestocked, map[string]any{
			"restocked_at": now,
		}); err != nil {
			return err
		}
		if err := txEvents.AppendTransition(ctx, &models.RTOTransition{
			RTOEventID: event.ID,
			FromStatus: enums.RTOStatusQCCompleted,
			ToStatus:   enums.RTOStatusRestocked,
			Actor:      tctx.Actor,
			Remarks:    tctx.Remarks,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record transition")
		}
		return e.audit.WithTx(tx).Record(ctx, event.CompanyID, enums.AuditActionRTORestocked, event.ID, tctx.Actor, types.JSONMap{
			"units": totalUnits,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	e.metrics.IncTransition(enums.RTOStatusRestocked.String())
	e.metrics.AddRestockedUnits(totalUnits)
	e.logg.Info(ctx, "rto restocked")
	return e.events.FindByID(ctx, id)
}
