package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the GORM handle shared by every domain repository. Repositories
// embed it and go through DB so queries always carry the caller's context.
type Base struct {
	db *gorm.DB
}

// NewBase wraps a GORM connection for use by a repository.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the connection to ctx. A nil context returns the bare handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
