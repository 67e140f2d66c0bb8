package progressController

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/catalog"
	"lms/services/enrollment"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// loadCaller resolves the authenticated user and the validated course,
// enforcing the single access predicate before any progress operation.
func loadCaller(c *fiber.Ctx) (*models.User, uint, int, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, 0, fiber.StatusUnauthorized, errors.New("Unauthorized!")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, 0, fiber.StatusUnauthorized, errors.New("User not found!")
	}

	courseID := uint(c.Locals("courseID").(int))

	hasAccess, err := enrollment.HasAccess(database.Database.Db, &user, courseID)
	if err != nil {
		return nil, 0, fiber.StatusInternalServerError, errors.New("Failed to check access!")
	}
	if !hasAccess {
		return nil, 0, fiber.StatusForbidden, errors.New("Please enroll in this course first!")
	}

	return &user, courseID, 0, nil
}

// MarkUnitComplete adds a content unit to the caller's completed set
func MarkUnitComplete(c *fiber.Ctx) error {
	user, courseID, status, err := loadCaller(c)
	if err != nil {
		return middleware.JsonResponse(c, status, false, err.Error(), nil)
	}

	unitID := c.Locals("unitID").(string)

	course, err := catalog.GetCourse(database.Database.Db, courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	snapshot, err := progress.MarkUnitComplete(database.Database.Db, user.ID, courseID, unitID, course.TotalUnits)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark unit complete!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unit marked complete!", snapshot)
}

// GetProgress returns the caller's progress snapshot for a course
func GetProgress(c *fiber.Ctx) error {
	user, courseID, status, err := loadCaller(c)
	if err != nil {
		return middleware.JsonResponse(c, status, false, err.Error(), nil)
	}

	course, err := catalog.GetCourse(database.Database.Db, courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	snapshot, err := progress.GetProgress(database.Database.Db, user.ID, courseID, course.TotalUnits)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", snapshot)
}

// AddTimeSpent accumulates study minutes into the caller's progress record
func AddTimeSpent(c *fiber.Ctx) error {
	user, courseID, status, err := loadCaller(c)
	if err != nil {
		return middleware.JsonResponse(c, status, false, err.Error(), nil)
	}

	reqData, ok := c.Locals("validatedTimeSpent").(*struct {
		Minutes int64 `json:"minutes"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := progress.AddTimeSpent(database.Database.Db, user.ID, courseID, reqData.Minutes); err != nil {
		if errors.Is(err, progress.ErrInvalidMinutes) || errors.Is(err, progress.ErrIncrementTooLarge) {
			return middleware.ValidationErrorResponse(c, map[string]string{"minutes": err.Error()})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add time spent!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Time spent recorded!", nil)
}
