// 📁 route/payment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tesfa_backend/internals/constants"
	"tesfa_backend/internals/features/finance/payments/controller"
	"tesfa_backend/internals/middlewares/auth"
)

// PaymentRoutes mounts both payment ledgers under the given router.
// Reviewer actions (confirm/void/edit/delete) stay behind finance roles.
func PaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentController(db)

	pledge := r.Group("/pledge-payments")
	pledge.Get("/", ctrl.List)
	pledge.Post("/", ctrl.Create)
	pledge.Patch("/:id/confirm", auth.RequireRoles(constants.FinanceRoles...), ctrl.Confirm)
	pledge.Patch("/:id/void", auth.RequireRoles(constants.FinanceRoles...), ctrl.Void)
	pledge.Put("/:id", auth.RequireRoles(constants.FinanceRoles...), ctrl.Edit)
	pledge.Delete("/:id", auth.RequireRoles(constants.FinanceRoles...), ctrl.Delete)

	instant := r.Group("/instant-payments")
	instant.Get("/", ctrl.ListInstant)
	instant.Post("/", ctrl.CreateInstant)
	instant.Patch("/:id/review", auth.RequireRoles(constants.FinanceRoles...), ctrl.ReviewInstant)
}
