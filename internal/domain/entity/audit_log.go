package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records a lifecycle mutation with before/after snapshots
type AuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EntityID    uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	EntityType  string    `gorm:"size:50;not null" json:"entity_type"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	OldValues   *string   `gorm:"size:2000" json:"old_values,omitempty"` // JSON snapshot
	NewValues   *string   `gorm:"size:2000" json:"new_values,omitempty"` // JSON snapshot
	Description *string   `gorm:"size:500" json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// BeforeCreate generates a UUID before creating a new audit entry
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
