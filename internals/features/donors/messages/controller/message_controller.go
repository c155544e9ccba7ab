// 📁 controller/message_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/donors/messages/model"
	helper "tesfa_backend/internals/helpers"
)

// Read-only view over the history the messaging collaborator writes.
type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

func (ctrl *MessageController) HistoryForDonor(c *fiber.Ctx) error {
	donorID, err := uuid.Parse(c.Params("donor_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid donor id")
	}

	pg := helper.ResolvePaging(c, 50, 200)

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.MessageLog{}).
		Where("message_donor_id = ?", donorID)
	if v := c.Query("channel"); v != "" { // sms | whatsapp | call
		q = q.Where("message_channel = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var rows []model.MessageLog
	if err := q.Order("created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}
