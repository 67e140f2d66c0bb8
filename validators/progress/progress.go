package progressValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func courseIDParam(c *fiber.Ctx) (int, bool) {
	courseIDStr := strings.TrimSpace(c.Params("course_id"))
	if courseIDStr == "" {
		return 0, false
	}

	courseID, err := strconv.Atoi(courseIDStr)
	if err != nil || courseID <= 0 {
		return 0, false
	}

	return courseID, true
}

func MarkUnitComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		unitID := strings.TrimSpace(c.Params("unit_id"))
		if unitID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unit ID is required!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("unitID", unitID)
		return c.Next()
	}
}

func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func AddTimeSpent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Minutes int64 `json:"minutes"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// Range checks live in the progress service; only shape is checked here
		c.Locals("courseID", courseID)
		c.Locals("validatedTimeSpent", reqData)
		return c.Next()
	}
}
