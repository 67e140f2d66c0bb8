package analyticsController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/analytics"

	"github.com/gofiber/fiber/v2"
)

// topCoursesDefault bounds the platform leaderboard.
const topCoursesDefault = 5

// GetUserAnalytics returns the caller's enrollment count, recent quiz
// average and quiz history.
func GetUserAnalytics(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	report, err := analytics.ForUser(database.Database.Db, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute analytics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User analytics fetched!", report)
}

// GetPlatformAnalytics returns platform-wide statistics (Admin only)
func GetPlatformAnalytics(c *fiber.Ctx) error {
	topN := c.QueryInt("top", topCoursesDefault)
	if topN < 1 {
		topN = topCoursesDefault
	}

	report, err := analytics.ForPlatform(database.Database.Db, topN)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute analytics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Platform analytics fetched!", report)
}
