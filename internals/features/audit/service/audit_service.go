// file: internals/features/audit/service/audit_service.go
package service

import (
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/audit/model"
	"tesfa_backend/internals/helpers/apperr"
)

// Record appends one audit entry on the caller's transaction handle. If the
// surrounding transaction rolls back, the entry rolls back with it.
func Record(tx *gorm.DB, userID *uuid.UUID, entityType, entityID, action string, before, after any, source string) error {
	entry := model.AuditLog{
		AuditLogID:         uuid.New(),
		AuditLogUserID:     userID,
		AuditLogEntityType: entityType,
		AuditLogEntityID:   entityID,
		AuditLogAction:     action,
		AuditLogSource:     source,
	}

	if before != nil {
		raw, err := sonic.Marshal(before)
		if err != nil {
			return apperr.Persistence(err)
		}
		entry.AuditLogBefore = datatypes.JSON(raw)
	}
	if after != nil {
		raw, err := sonic.Marshal(after)
		if err != nil {
			return apperr.Persistence(err)
		}
		entry.AuditLogAfter = datatypes.JSON(raw)
	}

	if err := tx.Create(&entry).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}
