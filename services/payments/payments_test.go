package payments

import (
	"errors"
	"testing"

	"lms/database"
	"lms/gateway"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/catalog"
	"lms/services/enrollment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-gateway-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func seedUserAndCourse(t *testing.T, db *gorm.DB, price int64) (*models.User, *courseModels.Course) {
	t.Helper()

	user := models.User{Email: uuid.NewString() + "@example.com", Password: "x", Role: "USER"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Go Basics", Author: "A", Price: price, TotalUnits: 10, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	return &user, &course
}

type stubGateway struct {
	lastAmount   int64
	lastCurrency string
	err          error
}

func (s *stubGateway) CreateOrder(amount int64, currency, receipt string) (*gateway.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastAmount = amount
	s.lastCurrency = currency
	return &gateway.Order{ID: "order_stub_1", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func TestInitiateOrderConvertsToMinorUnits(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 999)

	gw := &stubGateway{}
	order, err := InitiateOrder(db, gw, user.ID, course.ID, "INR")
	require.NoError(t, err)

	assert.Equal(t, int64(99900), order.Amount)
	assert.Equal(t, int64(99900), gw.lastAmount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "order_stub_1", order.OrderID)
}

func TestInitiateOrderUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUserAndCourse(t, db, 100)

	_, err := InitiateOrder(db, &stubGateway{}, user.ID, 9999, "INR")
	assert.ErrorIs(t, err, catalog.ErrCourseNotFound)
}

func TestInitiateOrderAlreadyEnrolled(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 100)

	require.NoError(t, enrollment.Grant(db, user.ID, course.ID))

	gw := &stubGateway{}
	_, err := InitiateOrder(db, gw, user.ID, course.ID, "INR")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Zero(t, gw.lastAmount, "no gateway round trip for an enrolled user")
}

func TestInitiateOrderGatewayFailureLeavesNoState(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 100)

	_, err := InitiateOrder(db, &stubGateway{err: errors.New("timeout")}, user.ID, course.ID, "INR")
	require.Error(t, err)

	var records int64
	require.NoError(t, db.Model(&models.PaymentRecord{}).Count(&records).Error)
	assert.Zero(t, records)
}

func validCallback(orderID, paymentID string) Callback {
	return Callback{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: gateway.SignPayment(orderID, paymentID, testSecret),
		Payload:   []byte(`{"orderId":"` + orderID + `"}`),
	}
}

func TestConfirmPaymentGrantsAccess(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 999)

	record, err := ConfirmPayment(db, testSecret, "INR", user.ID, course.ID, validCallback("order_1", "pay_1"))
	require.NoError(t, err)

	assert.Equal(t, int64(99900), record.Amount)
	assert.NotEmpty(t, record.ReceiptNumber)

	enrolled, err := enrollment.IsEnrolled(db, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	// Progress record is seeded so the first read never fails
	var progressCount int64
	require.NoError(t, db.Model(&courseModels.Progress{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&progressCount).Error)
	assert.Equal(t, int64(1), progressCount)
}

func TestConfirmPaymentReplayDoesNotDoubleGrant(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 500)

	cb := validCallback("order_1", "pay_1")

	_, err := ConfirmPayment(db, testSecret, "INR", user.ID, course.ID, cb)
	require.NoError(t, err)
	_, err = ConfirmPayment(db, testSecret, "INR", user.ID, course.ID, cb)
	require.NoError(t, err)

	var enrollments int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)

	// Every verified call is appended to the audit trail
	var records int64
	require.NoError(t, db.Model(&models.PaymentRecord{}).
		Where("payment_id = ?", "pay_1").
		Count(&records).Error)
	assert.Equal(t, int64(2), records)
}

func TestConfirmPaymentRejectsTamperedSignature(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 500)

	cb := validCallback("order_1", "pay_1")
	tampered := []byte(cb.Signature)
	tampered[0] ^= 0x01
	cb.Signature = string(tampered)

	_, err := ConfirmPayment(db, testSecret, "INR", user.ID, course.ID, cb)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	// A failed verification mutates no state at all
	var records, enrollments, progresses int64
	require.NoError(t, db.Model(&models.PaymentRecord{}).Count(&records).Error)
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Count(&enrollments).Error)
	require.NoError(t, db.Model(&courseModels.Progress{}).Count(&progresses).Error)
	assert.Zero(t, records)
	assert.Zero(t, enrollments)
	assert.Zero(t, progresses)
}

func TestConfirmPaymentForgedSignature(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 500)

	// A client self-reporting success with a signature made from a guessed
	// secret must never gain access
	cb := Callback{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: gateway.SignPayment("order_1", "pay_1", "guessed-secret"),
	}

	_, err := ConfirmPayment(db, testSecret, "INR", user.ID, course.ID, cb)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	enrolled, err := enrollment.IsEnrolled(db, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestListForUser(t *testing.T) {
	db := setupTestDB(t)
	user, course := seedUserAndCourse(t, db, 250)

	_, err := ConfirmPayment(db, testSecret, "INR", user.ID, course.ID, validCallback("order_1", "pay_1"))
	require.NoError(t, err)

	receipts, total, err := ListForUser(db, user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, receipts, 1)

	assert.Equal(t, "pay_1", receipts[0].PaymentID)
	assert.Equal(t, int64(25000), receipts[0].Amount)
	assert.Equal(t, course.ID, receipts[0].CourseID)
	assert.Equal(t, "Go Basics", receipts[0].CourseTitle)

	// Another user sees nothing
	other, _ := seedUserAndCourse(t, db, 100)
	receipts, total, err = ListForUser(db, other.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, receipts)
}
