// 📁 internals/route/details/donor_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ChurchRoute "tesfa_backend/internals/features/churches/route"
	DonorRoute "tesfa_backend/internals/features/donors/donors/route"
	MessageRoute "tesfa_backend/internals/features/donors/messages/route"
	SupportRoute "tesfa_backend/internals/features/donors/support/route"
)

func DonorAdminRoutes(r fiber.Router, db *gorm.DB) {
	DonorRoute.DonorRoutes(r.Group("/donors"), db)
	SupportRoute.SupportRoutes(r.Group("/support-requests"), db)
	MessageRoute.MessageRoutes(r.Group("/messages"), db)
	ChurchRoute.ChurchRoutes(r.Group("/churches"), db)
}
