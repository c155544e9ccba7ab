package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	churchController "tesfa_backend/internals/features/churches/controller"
)

func ChurchRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := churchController.NewChurchController(db)

	api.Get("/", ctrl.List)
	api.Post("/", ctrl.Create)
	api.Get("/:church_id/representatives", ctrl.Representatives)
	api.Post("/representatives", ctrl.CreateRepresentative)
}
