// 📁 route/report_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/finance/reports/controller"
)

func ReportRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReportController(db)

	reports := r.Group("/reports")
	reports.Get("/overview", ctrl.Overview)
	reports.Get("/payments", ctrl.PaymentStatistics)
}
