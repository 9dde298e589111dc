package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/shipglide/logistics-backend/internal/notifications"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/types"
)

const defaultStaleInitiatedAge = 48 * time.Hour

// staleEventSource lists RTO events stuck in initiated past a cutoff.
type staleEventSource interface {
	ListStaleInitiated(ctx context.Context, olderThan time.Time) ([]models.RTOEvent, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// StaleRTOJobParams configure the stale-RTO sweep.
type StaleRTOJobParams struct {
	Logger   *logger.Logger
	Events   staleEventSource
	Notifier notifications.Dispatcher
	MaxAge   time.Duration
}

// NewStaleRTOJob flags returns that never left the initiated status. These
// usually mean the courier accepted the reverse booking but no pickup
// happened; sellers get a notification so they can chase the carrier.
func NewStaleRTOJob(params StaleRTOJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("events source required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultStaleInitiatedAge
	}
	return &staleRTOJob{
		logg:     params.Logger,
		events:   params.Events,
		notifier: params.Notifier,
		maxAge:   maxAge,
		now:      time.Now,
	}, nil
}

type staleRTOJob struct {
	logg     *logger.Logger
	events   staleEventSource
	notifier notifications.Dispatcher
	maxAge   time.Duration
	now      func() time.Time
}

func (j *staleRTOJob) Name() string { return "stale-rto-sweep" }

func (j *staleRTOJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxAge)
	events, err := j.events.ListStaleInitiated(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale rtos: %w", err)
	}
	if len(events) == 0 {
		j.logg.Info(ctx, "no stale rtos found")
		return nil
	}

	var flagged int
	var errs error
	for i := range events {
		event := &events[i]
		if alreadyFlagged(event) {
			continue
		}

		metadata := types.JSONMap{}
		for k, v := range event.Metadata {
			metadata[k] = v
		}
		metadata["stale_flagged_at"] = j.now().UTC().Format(time.RFC3339)

		if err := j.events.Update(ctx, event.ID, map[string]any{"metadata": metadata}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("flag rto %s: %w", event.ID, err))
			continue
		}
		j.notifier.NotifyRTOStale(ctx, event.CompanyID, event.ID, types.JSONMap{
			"shipment_id":  event.ShipmentID.String(),
			"initiated_at": event.CreatedAt.UTC().Format(time.RFC3339),
		})
		flagged++
	}

	fields := map[string]any{"stale": len(events), "flagged": flagged}
	j.logg.Info(j.logg.WithFields(ctx, fields), "stale rto sweep complete")
	return errs
}

func alreadyFlagged(event *models.RTOEvent) bool {
	if event.Metadata == nil {
		return false
	}
	_, ok := event.Metadata["stale_flagged_at"]
	return ok
}
