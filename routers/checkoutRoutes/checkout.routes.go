package checkoutRoutes

import (
	controllers "lms/controllers/checkout"
	"lms/middleware"
	validators "lms/validators/checkout"

	"github.com/gofiber/fiber/v2"
)

// SetupCheckoutRoutes sets up order initiation and payment verification
func SetupCheckoutRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	courseGroup.Post("/:id/order", middleware.JWTMiddleware, validators.InitiateOrder(), controllers.InitiateOrder)
	courseGroup.Post("/:id/verify-payment", middleware.JWTMiddleware, validators.VerifyPayment(), controllers.VerifyPayment)
}
