package checkoutValidator

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

func courseIDParam(c *fiber.Ctx) (int, bool) {
	courseIDStr := strings.TrimSpace(c.Params("id"))
	if courseIDStr == "" {
		return 0, false
	}

	courseID, err := strconv.Atoi(courseIDStr)
	if err != nil || courseID <= 0 {
		return 0, false
	}

	return courseID, true
}

func InitiateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			OrderID   string `json:"orderId" validate:"required"`
			PaymentID string `json:"paymentId" validate:"required"`
			Signature string `json:"signature" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedVerifyPayment", reqData)
		return c.Next()
	}
}
