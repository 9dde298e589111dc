package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identifiers are assigned application-side so the same models work against
// Postgres and the sqlite driver used in tests.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (e *RTOEvent) BeforeCreate(*gorm.DB) error      { ensureID(&e.ID); return nil }
func (t *RTOTransition) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }
func (s *Shipment) BeforeCreate(*gorm.DB) error      { ensureID(&s.ID); return nil }
func (o *SalesOrder) BeforeCreate(*gorm.DB) error    { ensureID(&o.ID); return nil }
func (i *OrderLineItem) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }
func (n *NDREvent) BeforeCreate(*gorm.DB) error      { ensureID(&n.ID); return nil }
func (w *Wallet) BeforeCreate(*gorm.DB) error        { ensureID(&w.ID); return nil }
func (e *WalletEntry) BeforeCreate(*gorm.DB) error   { ensureID(&e.ID); return nil }
func (i *InventoryItem) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }
func (w *Warehouse) BeforeCreate(*gorm.DB) error     { ensureID(&w.ID); return nil }
func (n *Notification) BeforeCreate(*gorm.DB) error  { ensureID(&n.ID); return nil }
func (a *AuditLog) BeforeCreate(*gorm.DB) error      { ensureID(&a.ID); return nil }
func (r *RateCard) BeforeCreate(*gorm.DB) error      { ensureID(&r.ID); return nil }
