package paymentRoutes

import (
	controllers "lms/controllers/payment"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up the receipt/history view
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Get("/history", middleware.JWTMiddleware, controllers.GetPaymentHistory)
}
