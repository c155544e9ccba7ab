package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog rows are append-only. Every financial mutation writes exactly one
// entry inside the same transaction as the mutation itself.
type AuditLog struct {
	AuditLogID uuid.UUID `gorm:"column:audit_log_id;type:uuid;primaryKey" json:"audit_log_id"`

	AuditLogUserID *uuid.UUID `gorm:"column:audit_log_user_id;type:uuid" json:"audit_log_user_id,omitempty"`

	AuditLogEntityType string `gorm:"column:audit_log_entity_type;type:varchar(50);not null" json:"audit_log_entity_type"`
	AuditLogEntityID   string `gorm:"column:audit_log_entity_id;type:varchar(64);not null" json:"audit_log_entity_id"`
	AuditLogAction     string `gorm:"column:audit_log_action;type:varchar(50);not null" json:"audit_log_action"`

	AuditLogBefore datatypes.JSON `gorm:"column:audit_log_before" json:"audit_log_before,omitempty"`
	AuditLogAfter  datatypes.JSON `gorm:"column:audit_log_after" json:"audit_log_after,omitempty"`

	AuditLogSource string `gorm:"column:audit_log_source;type:varchar(30);default:'admin'" json:"audit_log_source"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.AuditLogID == uuid.Nil {
		a.AuditLogID = uuid.New()
	}
	return nil
}
