// 📁 controller/audit_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/audit/model"
	helper "tesfa_backend/internals/helpers"
	"tesfa_backend/internals/helpers/filterq"
)

type AuditController struct {
	DB *gorm.DB
}

func NewAuditController(db *gorm.DB) *AuditController {
	return &AuditController{DB: db}
}

// List is the compliance read. Entries are never edited or deleted, so the
// endpoint is query-only by construction.
func (ctrl *AuditController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 50, 500)

	f := filterq.New().
		Eq("audit_log_entity_type", c.Query("entity_type")).
		Eq("audit_log_entity_id", c.Query("entity_id")).
		Eq("audit_log_action", c.Query("action")).
		Eq("audit_log_source", c.Query("source")).
		DateFrom("created_at", c.Query("date_from")).
		DateTo("created_at", c.Query("date_to"))
	if v := c.Query("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.EqID("audit_log_user_id", id)
		}
	}

	base := ctrl.DB.WithContext(c.Context()).Model(&model.AuditLog{})

	var total int64
	if err := f.Apply(base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var rows []model.AuditLog
	if err := f.Apply(base.Session(&gorm.Session{})).
		Order("created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonList(c, "", rows,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}
