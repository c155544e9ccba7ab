package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	pledgeController "tesfa_backend/internals/features/finance/pledges/controller"
)

func PledgeRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := pledgeController.NewPledgeController(db)

	api.Get("/", ctrl.List)
	api.Post("/", ctrl.Create)
	api.Put("/:id", ctrl.Update)
	api.Patch("/:id/status", ctrl.SetStatus)
}
