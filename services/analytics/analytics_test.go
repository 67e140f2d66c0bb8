package analytics

import (
	"testing"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/enrollment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{Email: uuid.NewString() + "@example.com", Password: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedQuiz(t *testing.T, db *gorm.DB, userID uint, percentage float64, takenAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.QuizResult{
		UserID:     userID,
		Score:      int(percentage),
		MaxScore:   100,
		Percentage: percentage,
		Category:   "general",
		TakenAt:    takenAt,
	}).Error)
}

func TestForUserBlankUser(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "USER")

	report, err := ForUser(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), report.EnrolledCount)
	assert.Equal(t, float64(0), report.AvgQuizScore)
	assert.NotNil(t, report.QuizHistory)
	assert.Empty(t, report.QuizHistory)
}

func TestForUserHistoryAndRecentAverage(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "USER")

	require.NoError(t, enrollment.Grant(db, user.ID, 1))
	require.NoError(t, enrollment.Grant(db, user.ID, 2))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// Seven attempts; only the five most recent (90..50) feed the average
	for i, pct := range []float64{30, 40, 50, 60, 70, 80, 90} {
		seedQuiz(t, db, user.ID, pct, base.Add(time.Duration(i)*time.Hour))
	}

	report, err := ForUser(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.EnrolledCount)
	require.Len(t, report.QuizHistory, 7)

	// Most recent first
	assert.Equal(t, float64(90), report.QuizHistory[0].Percentage)
	assert.Equal(t, float64(30), report.QuizHistory[6].Percentage)

	// (90+80+70+60+50)/5
	assert.InDelta(t, 70.0, report.AvgQuizScore, 0.001)
}

func TestForPlatformEmpty(t *testing.T) {
	db := setupTestDB(t)

	report, err := ForPlatform(db, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(0), report.Totals.TotalUsers)
	assert.Equal(t, int64(0), report.Totals.TotalRevenue)
	assert.Equal(t, float64(0), report.AvgQuizPercentage)
	assert.Empty(t, report.TopCourses)
	assert.Empty(t, report.MonthlyRevenue)
}

func TestForPlatformTotals(t *testing.T) {
	db := setupTestDB(t)

	seedUser(t, db, "USER")
	seedUser(t, db, "USER")
	seedUser(t, db, "ADMIN")

	require.NoError(t, db.Create(&models.PaymentRecord{UserID: 1, CourseID: 1, Amount: 99900, Currency: "INR", ReceiptNumber: uuid.NewString()}).Error)
	require.NoError(t, db.Create(&models.PaymentRecord{UserID: 2, CourseID: 1, Amount: 49900, Currency: "INR", ReceiptNumber: uuid.NewString()}).Error)

	report, err := ForPlatform(db, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.Totals.TotalUsers)
	assert.Equal(t, int64(2), report.Totals.UsersByRole["USER"])
	assert.Equal(t, int64(1), report.Totals.UsersByRole["ADMIN"])
	assert.Equal(t, int64(149800), report.Totals.TotalRevenue)
}

func TestMonthlyRevenueBuckets(t *testing.T) {
	db := setupTestDB(t)

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	records := []models.PaymentRecord{
		{UserID: 1, CourseID: 1, Amount: 1000, ReceiptNumber: uuid.NewString()},
		{UserID: 2, CourseID: 1, Amount: 2000, ReceiptNumber: uuid.NewString()},
		{UserID: 3, CourseID: 2, Amount: 500, ReceiptNumber: uuid.NewString()},
	}
	records[0].CreatedAt = time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	records[1].CreatedAt = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	records[2].CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	buckets, err := monthlyRevenue(db, now)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	// Oldest month first
	assert.Equal(t, "2026-06", buckets[0].Month)
	assert.Equal(t, int64(500), buckets[0].Revenue)
	assert.Equal(t, "2026-08", buckets[1].Month)
	assert.Equal(t, int64(3000), buckets[1].Revenue)
}

func TestTopCoursesDeterministicTies(t *testing.T) {
	db := setupTestDB(t)

	for _, title := range []string{"First", "Second", "Third"} {
		require.NoError(t, db.Create(&courseModels.Course{Title: title, Author: "A", IsPublished: true}).Error)
	}

	// Course 1: 2 enrollments; courses 2 and 3: 1 each (tie)
	require.NoError(t, enrollment.Grant(db, 1, 1))
	require.NoError(t, enrollment.Grant(db, 2, 1))
	require.NoError(t, enrollment.Grant(db, 1, 3))
	require.NoError(t, enrollment.Grant(db, 2, 2))

	for i := 0; i < 3; i++ {
		report, err := ForPlatform(db, 3)
		require.NoError(t, err)
		require.Len(t, report.TopCourses, 3)

		assert.Equal(t, uint(1), report.TopCourses[0].CourseID)
		assert.Equal(t, int64(2), report.TopCourses[0].Enrollments)
		assert.Equal(t, "First", report.TopCourses[0].Title)

		// Tie broken by ascending course id, stable across queries
		assert.Equal(t, uint(2), report.TopCourses[1].CourseID)
		assert.Equal(t, uint(3), report.TopCourses[2].CourseID)
	}
}

func TestTopCoursesLimit(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, enrollment.Grant(db, 1, 1))
	require.NoError(t, enrollment.Grant(db, 1, 2))
	require.NoError(t, enrollment.Grant(db, 1, 3))

	report, err := ForPlatform(db, 2)
	require.NoError(t, err)
	assert.Len(t, report.TopCourses, 2)
}

func TestAvgQuizPercentagePlatformWide(t *testing.T) {
	db := setupTestDB(t)

	user := seedUser(t, db, "USER")
	other := seedUser(t, db, "USER")
	seedQuiz(t, db, user.ID, 80, time.Now())
	seedQuiz(t, db, other.ID, 40, time.Now())

	report, err := ForPlatform(db, 5)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, report.AvgQuizPercentage, 0.001)
}
