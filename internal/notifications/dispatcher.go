package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// Dispatcher records RTO notifications for downstream delivery. All methods
// are fire-and-forget: failures are logged, never returned to the workflow.
type Dispatcher interface {
	NotifyRTOInitiated(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap)
	NotifyRTODeliveredToWarehouse(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap)
	NotifyRTOQCCompleted(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap)
	NotifyRTOCancelled(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap)
	NotifyRTOStale(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap)
}

type dispatcher struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewDispatcher returns a dispatcher persisting notification rows.
func NewDispatcher(db *gorm.DB, logg *logger.Logger) Dispatcher {
	return &dispatcher{db: db, logg: logg}
}

func (d *dispatcher) NotifyRTOInitiated(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap) {
	d.record(ctx, companyID, rtoEventID, enums.NotificationRTOInitiated, payload)
}

func (d *dispatcher) NotifyRTODeliveredToWarehouse(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap) {
	d.record(ctx, companyID, rtoEventID, enums.NotificationRTODeliveredToWarehouse, payload)
}

func (d *dispatcher) NotifyRTOQCCompleted(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap) {
	d.record(ctx, companyID, rtoEventID, enums.NotificationRTOQCCompleted, payload)
}

func (d *dispatcher) NotifyRTOCancelled(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap) {
	d.record(ctx, companyID, rtoEventID, enums.NotificationRTOCancelled, payload)
}

func (d *dispatcher) NotifyRTOStale(ctx context.Context, companyID, rtoEventID uuid.UUID, payload types.JSONMap) {
	d.record(ctx, companyID, rtoEventID, enums.NotificationRTOStale, payload)
}

func (d *dispatcher) record(ctx context.Context, companyID, rtoEventID uuid.UUID, kind enums.NotificationType, payload types.JSONMap) {
	if payload == nil {
		payload = types.JSONMap{}
	}
	notification := &models.Notification{
		CompanyID:  companyID,
		RTOEventID: rtoEventID,
		Type:       kind,
		Payload:    payload,
	}
	if err := d.db.WithContext(ctx).Create(notification).Error; err != nil && d.logg != nil {
		fields := map[string]any{"notification_type": kind.String(), "rto_event_id": rtoEventID.String()}
		d.logg.Error(d.logg.WithFields(ctx, fields), "notification.persist_failed", err)
	}
}
