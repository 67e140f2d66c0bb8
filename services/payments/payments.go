// Package payments owns the checkout flow: order initiation against the
// gateway, verification of the signed callback, and the append-only record
// store behind the receipt view.
package payments

import (
	"errors"
	"log"
	"time"

	"lms/gateway"
	"lms/models"
	"lms/services/catalog"
	"lms/services/enrollment"
	"lms/services/progress"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyEnrolled fails order initiation for a course the user
	// already holds, to avoid a wasted gateway round trip.
	ErrAlreadyEnrolled = errors.New("user already enrolled in this course")
	// ErrVerificationFailed means the callback signature did not match.
	// Never retried, always logged: it may indicate tampering or replay.
	ErrVerificationFailed = errors.New("payment verification failed")
)

// OrderDescriptor is what the client needs to open the gateway checkout.
// Nothing about it is persisted locally.
type OrderDescriptor struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	KeyID    string `json:"keyId,omitempty"`
}

// Callback carries the gateway's signed confirmation of a payment.
type Callback struct {
	OrderID   string
	PaymentID string
	Signature string
	Payload   []byte // raw callback body, kept for audit
}

// InitiateOrder requests a gateway order for the course's price. The course
// must exist and the caller must not already be enrolled. No local state is
// touched, so the caller may retry a timed-out call with a fresh order.
func InitiateOrder(db *gorm.DB, gw gateway.OrderCreator, userID, courseID uint, currency string) (*OrderDescriptor, error) {
	course, err := catalog.GetCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := enrollment.IsEnrolled(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	// Gateway amounts are minor currency units
	amount := course.Price * 100

	order, err := gw.CreateOrder(amount, currency, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &OrderDescriptor{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

// ConfirmPayment authenticates a gateway callback and, on success, appends
// the audit record, grants enrollment and ensures a progress record. Any
// signature mismatch mutates no state. Replaying a valid callback appends
// another audit row but double-grants nothing the user can observe.
//
// The record write and the grant are separate writes with no transaction
// across them. The enrollment ledger is the sole source of truth for
// access: the call reports success only once the grant completed, and a
// record left without its grant is repaired out of band (see the
// reconciliation sweep).
func ConfirmPayment(db *gorm.DB, secret, currency string, userID, courseID uint, cb Callback) (*models.PaymentRecord, error) {
	if !gateway.VerifyPaymentSignature(cb.OrderID, cb.PaymentID, cb.Signature, secret) {
		log.Printf("[PAYMENT] signature mismatch for order %s payment %s (user %d, course %d)", cb.OrderID, cb.PaymentID, userID, courseID)
		return nil, ErrVerificationFailed
	}

	course, err := catalog.GetCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	record := models.PaymentRecord{
		UserID:         userID,
		CourseID:       courseID,
		OrderID:        cb.OrderID,
		PaymentID:      cb.PaymentID,
		Signature:      cb.Signature,
		Amount:         course.Price * 100,
		Currency:       currency,
		ReceiptNumber:  uuid.NewString(),
		GatewayPayload: datatypes.JSON(cb.Payload),
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}

	if err := enrollment.Grant(db, userID, courseID); err != nil {
		// The audit row exists without its grant. Surface the failure and
		// leave the repair to the reconciliation sweep.
		log.Printf("[PAYMENT] reconciliation candidate: payment %s recorded but grant failed for user %d course %d: %v", cb.PaymentID, userID, courseID, err)
		return nil, err
	}

	if err := progress.Ensure(db, userID, courseID); err != nil {
		// Access is granted; progress is created lazily on first read anyway.
		log.Printf("[PAYMENT] failed to seed progress for user %d course %d: %v", userID, courseID, err)
	}

	return &record, nil
}

// Receipt is one row of the payment history view: a record joined with
// course metadata. Pure read projection, no business logic.
type Receipt struct {
	ReceiptNumber string    `json:"receiptNumber"`
	OrderID       string    `json:"orderId"`
	PaymentID     string    `json:"paymentId"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	CourseID      uint      `json:"courseId"`
	CourseTitle   string    `json:"courseTitle"`
	CourseAuthor  string    `json:"courseAuthor"`
	PaidAt        time.Time `json:"paidAt"`
}

// ListForUser returns the caller's receipts, newest first.
func ListForUser(db *gorm.DB, userID uint, page, limit int) ([]Receipt, int64, error) {
	query := db.Model(&models.PaymentRecord{}).
		Where("payment_records.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	receipts := make([]Receipt, 0)
	err := query.
		Select("payment_records.receipt_number, payment_records.order_id, payment_records.payment_id, payment_records.amount, payment_records.currency, payment_records.course_id, courses.title AS course_title, courses.author AS course_author, payment_records.created_at AS paid_at").
		Joins("JOIN courses ON courses.id = payment_records.course_id").
		Order("payment_records.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&receipts).Error
	if err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}
