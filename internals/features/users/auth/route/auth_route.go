package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "tesfa_backend/internals/features/users/auth/controller"
	"tesfa_backend/internals/middlewares"
	authMiddleware "tesfa_backend/internals/middlewares/auth"
)

// AuthRoutes mounts login/refresh (rate-limited) and the authenticated
// profile route.
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	api := app.Group("/api/auth")
	api.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	api.Post("/refresh", middlewares.LoginRateLimiter(), ctrl.Refresh)
	api.Get("/me", authMiddleware.AuthMiddleware(), ctrl.Me)
}
