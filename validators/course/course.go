package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			errors[verr.Field()] = "Failed on rule: " + verr.Tag()
		}
	} else {
		errors["body"] = "Invalid request body!"
	}
	return errors
}

// courseIDParam parses and validates the course id path parameter
func courseIDParam(c *fiber.Ctx, name string) (int, bool) {
	courseIDStr := strings.TrimSpace(c.Params(name))
	if courseIDStr == "" {
		return 0, false
	}

	courseID, err := strconv.Atoi(courseIDStr)
	if err != nil || courseID <= 0 {
		return 0, false
	}

	return courseID, true
}

func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if (reqData.Page != nil && *reqData.Page < 1) || (reqData.Limit != nil && *reqData.Limit < 1) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"pagination": "Page and limit must be greater than 0!",
			})
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3"`
			Description string `json:"description"`
			Author      string `json:"author" validate:"required"`
			Price       int64  `json:"price" validate:"gte=0"`
			TotalUnits  int    `json:"totalUnits" validate:"gte=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCreateCourse", reqData)
		return c.Next()
	}
}

func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func SubmitQuizResult() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Score    int    `json:"score" validate:"gte=0"`
			MaxScore int    `json:"maxScore" validate:"gt=0"`
			Category string `json:"category"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		if reqData.Score > reqData.MaxScore {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"score": "Score cannot exceed max score!",
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedQuizResult", reqData)
		return c.Next()
	}
}
