package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SubmitQuizResult records a graded quiz attempt for the caller. Results
// feed the analytics reports; grading itself happens client side against
// the course's question bank.
func SubmitQuizResult(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	hasAccess, err := enrollment.HasAccess(database.Database.Db, &user, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check access!", nil)
	}
	if !hasAccess {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	reqData, ok := c.Locals("validatedQuizResult").(*struct {
		Score    int    `json:"score" validate:"gte=0"`
		MaxScore int    `json:"maxScore" validate:"gt=0"`
		Category string `json:"category"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result := models.QuizResult{
		UserID:     userID,
		CourseID:   uint(courseID),
		Score:      reqData.Score,
		MaxScore:   reqData.MaxScore,
		Percentage: float64(reqData.Score) / float64(reqData.MaxScore) * 100,
		Category:   reqData.Category,
		TakenAt:    time.Now(),
	}

	if err := database.Database.Db.Create(&result).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz result!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz result submitted!", fiber.Map{
		"score":      result.Score,
		"max_score":  result.MaxScore,
		"percentage": result.Percentage,
		"category":   result.Category,
	})
}
