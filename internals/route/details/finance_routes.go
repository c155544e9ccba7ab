// 📁 internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	AuditRoute "tesfa_backend/internals/features/audit/route"
	PlanRoute "tesfa_backend/internals/features/finance/payment_plans/route"
	PaymentRoute "tesfa_backend/internals/features/finance/payments/route"
	PledgeRoute "tesfa_backend/internals/features/finance/pledges/route"
	ReportRoute "tesfa_backend/internals/features/finance/reports/route"
)

func FinanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	PledgeRoute.PledgeRoutes(r.Group("/pledges"), db)
	PaymentRoute.PaymentRoutes(r, db)
	PlanRoute.PlanRoutes(r, db)
	ReportRoute.ReportRoutes(r, db)
	AuditRoute.AuditRoutes(r, db)
}
