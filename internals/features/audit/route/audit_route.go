// 📁 route/audit_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tesfa_backend/internals/constants"
	"tesfa_backend/internals/features/audit/controller"
	"tesfa_backend/internals/middlewares/auth"
)

func AuditRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuditController(db)

	r.Get("/audit-logs", auth.RequireRoles(constants.AdminAndAbove...), ctrl.List)
}
