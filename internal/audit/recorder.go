package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	"github.com/shipglide/logistics-backend/pkg/types"
)

// Recorder appends rows to the audit trail. Record participates in the
// caller's transaction when built from one via WithTx.
type Recorder interface {
	WithTx(tx *gorm.DB) Recorder
	Record(ctx context.Context, companyID uuid.UUID, action enums.AuditAction, entityID uuid.UUID, actor string, detail types.JSONMap) error
}

type recorder struct {
	db *gorm.DB
}

// NewRecorder returns an audit recorder bound to the provided database.
func NewRecorder(db *gorm.DB) Recorder {
	return &recorder{db: db}
}

func (r *recorder) WithTx(tx *gorm.DB) Recorder {
	if tx == nil {
		return r
	}
	return &recorder{db: tx}
}

func (r *recorder) Record(ctx context.Context, companyID uuid.UUID, action enums.AuditAction, entityID uuid.UUID, actor string, detail types.JSONMap) error {
	entry := &models.AuditLog{
		CompanyID: companyID,
		Action:    action,
		EntityID:  entityID,
		Actor:     actor,
		Detail:    detail,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}
