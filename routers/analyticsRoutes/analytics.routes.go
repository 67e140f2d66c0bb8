package analyticsRoutes

import (
	controllers "lms/controllers/analytics"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupAnalyticsRoutes sets up the analytics read endpoints
func SetupAnalyticsRoutes(app *fiber.App) {
	app.Get("/analytics/me", middleware.JWTMiddleware, controllers.GetUserAnalytics)
	app.Get("/admin/analytics/platform", middleware.JWTMiddleware, middleware.AdminOnly, controllers.GetPlatformAnalytics)
}
