// 📁 route/plan_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tesfa_backend/internals/constants"
	"tesfa_backend/internals/features/finance/payment_plans/controller"
	"tesfa_backend/internals/middlewares/auth"
)

func PlanRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPlanController(db)

	plans := r.Group("/payment-plans")
	plans.Get("/", ctrl.List)
	plans.Get("/:id", ctrl.GetByID)
	plans.Post("/", ctrl.Create)
	plans.Patch("/:id/status", auth.RequireRoles(constants.FinanceRoles...), ctrl.SetStatus)
}
