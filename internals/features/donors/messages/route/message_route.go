package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	messageController "tesfa_backend/internals/features/donors/messages/controller"
)

func MessageRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := messageController.NewMessageController(db)

	api.Get("/donor/:donor_id", ctrl.HistoryForDonor)
}
