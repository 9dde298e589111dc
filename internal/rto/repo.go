package rto

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/internal/repo"
	"github.com/shipglide/logistics-backend/pkg/db"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/pagination"
)

// Repository owns persistence for RTO events and their transition history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.RTOEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RTOEvent, error)
	FindActiveByShipment(ctx context.Context, shipmentID uuid.UUID) (*models.RTOEvent, error)
	FindByNDREvent(ctx context.Context, ndrEventID uuid.UUID) (*models.RTOEvent, error)
	FindByReverseAWB(ctx context.Context, reverseAWB string) (*models.RTOEvent, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.RTOStatus, updates map[string]any) error
	AppendTransition(ctx context.Context, t *models.RTOTransition) error
	List(ctx context.Context, companyID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.RTOEvent, *pagination.Cursor, error)
	ListStaleInitiated(ctx context.Context, olderThan time.Time) ([]models.RTOEvent, error)
}

// ListFilters narrow the company-scoped RTO listing.
type ListFilters struct {
	Status *enums.RTOStatus
	Reason *enums.RTOReason
}

type repository struct {
	repo.Base
}

// NewRepository builds a Repository backed by the provided GORM handle.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

// Create inserts a new RTO event. Unique violations from the storage layer
// are translated into the workflow's idempotency errors: a second active RTO
// for the same shipment or a second claim on the same NDR event.
func (r *repository) Create(ctx context.Context, event *models.RTOEvent) error {
	if err := r.DB(ctx).Create(event).Error; err != nil {
		if db.IsUniqueViolation(err, "ndr_event_id") {
			return errDuplicateTrigger()
		}
		if db.IsUniqueViolation(err, "idx_rto_events_active_shipment") ||
			db.IsUniqueViolation(err, "rto_events.shipment_id") {
			return errAlreadyInRTO()
		}
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "rto event conflicts with an existing row")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create rto event")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.RTOEvent, error) {
	var event models.RTOEvent
	err := r.DB(ctx).
		Preload("Transitions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindActiveByShipment returns the shipment's non-terminal RTO event, if any.
func (r *repository) FindActiveByShipment(ctx context.Context, shipmentID uuid.UUID) (*models.RTOEvent, error) {
	var event models.RTOEvent
	err := r.DB(ctx).
		Where("shipment_id = ?", shipmentID).
		Where("return_status NOT IN ?", terminalStatusStrings()).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) FindByNDREvent(ctx context.Context, ndrEventID uuid.UUID) (*models.RTOEvent, error) {
	var event models.RTOEvent
	err := r.DB(ctx).First(&event, "ndr_event_id = ?", ndrEventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) FindByReverseAWB(ctx context.Context, reverseAWB string) (*models.RTOEvent, error) {
	var event models.RTOEvent
	err := r.DB(ctx).First(&event, "reverse_awb = ?", reverseAWB).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.DB(ctx).Model(&models.RTOEvent{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus moves an event from one status to another with a guarded
// write. The WHERE clause on the current status makes the move a
// compare-and-set, so two concurrent transitions cannot both win.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.RTOStatus, updates map[string]any) error {
	values := map[string]any{"return_status": to.String()}
	for k, v := range updates {
		values[k] = v
	}
	result := r.DB(ctx).Model(&models.RTOEvent{}).
		Where("id = ?", id).
		Where("return_status = ?", from.String()).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errInvalidTransition(from, to)
	}
	return nil
}

func (r *repository) AppendTransition(ctx context.Context, t *models.RTOTransition) error {
	return r.DB(ctx).Create(t).Error
}

// List pages through a company's RTO events, newest first.
func (r *repository) List(ctx context.Context, companyID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.RTOEvent, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.DB(ctx).Model(&models.RTOEvent{}).Where("company_id = ?", companyID)
	if filters.Status != nil {
		query = query.Where("return_status = ?", filters.Status.String())
	}
	if filters.Reason != nil {
		query = query.Where("rto_reason = ?", filters.Reason.String())
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var events []models.RTOEvent
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, nil, err
	}

	if len(events) > normalized {
		next := events[normalized]
		events = events[:normalized]
		return events, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return events, nil, nil
}

// ListStaleInitiated returns events still sitting in initiated that were
// created before the cutoff.
func (r *repository) ListStaleInitiated(ctx context.Context, olderThan time.Time) ([]models.RTOEvent, error) {
	var events []models.RTOEvent
	err := r.DB(ctx).
		Where("return_status = ?", enums.RTOStatusInitiated.String()).
		Where("created_at < ?", olderThan).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func terminalStatusStrings() []string {
	out := make([]string, 0, 4)
	for _, s := range enums.ValidRTOStatuses() {
		if s.IsTerminal() {
			out = append(out, s.String())
		}
	}
	return out
}
