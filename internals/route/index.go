// 📁 internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "tesfa_backend/internals/features/users/auth/route"
	"tesfa_backend/internals/middlewares"
	authMiddleware "tesfa_backend/internals/middlewares/auth"
	routeDetails "tesfa_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== ADMIN PANEL =====================
	// Everything below requires a valid token; per-route role checks sit
	// inside the feature route files.
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api",
		authMiddleware.AuthMiddleware(),
		middlewares.DBMiddleware(db),
	)

	routeDetails.DonorAdminRoutes(admin, db)
	routeDetails.FinanceAdminRoutes(admin, db)
}
