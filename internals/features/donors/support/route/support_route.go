package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	supportController "tesfa_backend/internals/features/donors/support/controller"
)

func SupportRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := supportController.NewSupportController(db)

	api.Get("/", ctrl.List)
	api.Post("/", ctrl.Create)
	api.Get("/:id", ctrl.GetByID)
	api.Put("/:id", ctrl.Update)
	api.Post("/:id/replies", ctrl.Reply)
}
