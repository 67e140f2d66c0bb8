package checkoutController

import (
	"errors"
	"time"

	"lms/config"
	"lms/database"
	"lms/gateway"
	"lms/middleware"
	"lms/models"
	"lms/services/catalog"
	"lms/services/payments"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// InitiateOrder creates a payment-gateway order for the course's price.
// Nothing is persisted locally; a timed-out call is safe to retry.
func InitiateOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	gw := gateway.NewClient(
		config.AppConfig.GatewayBaseURL,
		config.AppConfig.GatewayKeyID,
		config.AppConfig.GatewaySecret,
		time.Duration(config.AppConfig.GatewayTimeout)*time.Second,
	)

	order, err := payments.InitiateOrder(database.Database.Db, gw, userID, uint(courseID), config.AppConfig.Currency)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
		}
		if errors.Is(err, payments.ErrAlreadyEnrolled) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment order!", nil)
	}

	order.KeyID = gw.KeyID()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order created successfully!", order)
}

// VerifyPayment authenticates the gateway callback and grants enrollment.
// A signature mismatch is fatal and mutates nothing.
func VerifyPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedVerifyPayment").(*struct {
		OrderID   string `json:"orderId" validate:"required"`
		PaymentID string `json:"paymentId" validate:"required"`
		Signature string `json:"signature" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	record, err := payments.ConfirmPayment(
		database.Database.Db,
		config.AppConfig.GatewaySecret,
		config.AppConfig.Currency,
		userID,
		uint(courseID),
		payments.Callback{
			OrderID:   reqData.OrderID,
			PaymentID: reqData.PaymentID,
			Signature: reqData.Signature,
			Payload:   c.Body(),
		},
	)
	if err != nil {
		if errors.Is(err, payments.ErrVerificationFailed) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment verification failed!", nil)
		}
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process payment!", nil)
	}

	// Confirmation mail is best effort; enrollment already succeeded.
	go utils.SendEnrollmentConfirmation(user.Email, user.Name, record.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified, enrolled successfully!", fiber.Map{
		"enrolled":      true,
		"receiptNumber": record.ReceiptNumber,
		"paymentId":     record.PaymentID,
		"amount":        record.Amount,
		"currency":      record.Currency,
	})
}
