package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	donorController "tesfa_backend/internals/features/donors/donors/controller"
)

func DonorRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := donorController.NewDonorController(db)

	api.Get("/", ctrl.List)
	api.Post("/", ctrl.Create)
	api.Get("/:id", ctrl.GetByID)
	api.Put("/:id", ctrl.Update)
	api.Delete("/:id", ctrl.Delete)

	api.Post("/:id/recalculate", ctrl.RecalculateFinancials)
	api.Patch("/:id/financials", ctrl.UpdateFinancials)
}
