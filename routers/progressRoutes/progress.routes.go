package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	validators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up progress tracking routes
func SetupProgressRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	courseGroup.Post("/:course_id/unit/:unit_id/complete", middleware.JWTMiddleware, validators.MarkUnitComplete(), controllers.MarkUnitComplete)
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetProgress)
	courseGroup.Post("/:course_id/time-spent", middleware.JWTMiddleware, validators.AddTimeSpent(), controllers.AddTimeSpent)
}
