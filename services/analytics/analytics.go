// Package analytics computes per-user and platform statistics from the
// enrollment, payment, progress and quiz stores. Every query is recomputed
// from current state; nothing is cached and no transaction spans the
// underlying stores, so a result reflects whatever each store held at read
// time.
package analytics

import (
	"database/sql"
	"sort"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// RecentQuizWindow is how many most recent quiz percentages feed the
// per-user average.
const RecentQuizWindow = 5

// QuizEntry is one row of a user's quiz history.
type QuizEntry struct {
	Score      int       `json:"score"`
	MaxScore   int       `json:"maxScore"`
	Percentage float64   `json:"percentage"`
	Category   string    `json:"category"`
	TakenAt    time.Time `json:"takenAt"`
}

// UserAnalytics is the per-user report.
type UserAnalytics struct {
	EnrolledCount int64       `json:"enrolledCount"`
	AvgQuizScore  float64     `json:"avgQuizScore"`
	QuizHistory   []QuizEntry `json:"quizHistory"`
}

// ForUser builds the per-user report. A user with no enrollments and no
// quiz history gets zero counts and an empty (not null) history.
func ForUser(db *gorm.DB, userID uint) (*UserAnalytics, error) {
	var enrolled int64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ?", userID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}

	var results []models.QuizResult
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("taken_at DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	history := make([]QuizEntry, len(results))
	for i, r := range results {
		history[i] = QuizEntry{
			Score:      r.Score,
			MaxScore:   r.MaxScore,
			Percentage: r.Percentage,
			Category:   r.Category,
			TakenAt:    r.TakenAt,
		}
	}

	avg := float64(0)
	window := len(history)
	if window > RecentQuizWindow {
		window = RecentQuizWindow
	}
	if window > 0 {
		sum := float64(0)
		for _, entry := range history[:window] {
			sum += entry.Percentage
		}
		avg = sum / float64(window)
	}

	return &UserAnalytics{
		EnrolledCount: enrolled,
		AvgQuizScore:  avg,
		QuizHistory:   history,
	}, nil
}

// PlatformTotals are the headline platform counters.
type PlatformTotals struct {
	TotalUsers       int64            `json:"totalUsers"`
	UsersByRole      map[string]int64 `json:"usersByRole"`
	TotalEnrollments int64            `json:"totalEnrollments"`
	TotalRevenue     int64            `json:"totalRevenue"` // minor currency units
}

// MonthBucket is revenue for one calendar month.
type MonthBucket struct {
	Month   string `json:"month"` // YYYY-MM
	Revenue int64  `json:"revenue"`
}

// CourseRank is one entry of the top-courses leaderboard.
type CourseRank struct {
	CourseID    uint   `json:"courseId"`
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
}

// PlatformAnalytics is the platform-wide report.
type PlatformAnalytics struct {
	Totals            PlatformTotals `json:"totals"`
	MonthlyRevenue    []MonthBucket  `json:"monthlyRevenue"`
	TopCourses        []CourseRank   `json:"topCourses"`
	AvgQuizPercentage float64        `json:"avgQuizPercentage"`
}

// MonthlyRevenueWindow is the trailing window of calendar months reported.
const MonthlyRevenueWindow = 12

// ForPlatform builds the platform-wide report. topN bounds the course
// leaderboard; ties rank by ascending course id so repeated queries return
// the same order.
func ForPlatform(db *gorm.DB, topN int) (*PlatformAnalytics, error) {
	totals, err := platformTotals(db)
	if err != nil {
		return nil, err
	}

	monthly, err := monthlyRevenue(db, time.Now())
	if err != nil {
		return nil, err
	}

	top, err := topCourses(db, topN)
	if err != nil {
		return nil, err
	}

	var avgQuiz sql.NullFloat64
	if err := db.Model(&models.QuizResult{}).
		Where("is_deleted = ?", false).
		Select("AVG(percentage)").
		Scan(&avgQuiz).Error; err != nil {
		return nil, err
	}

	return &PlatformAnalytics{
		Totals:            *totals,
		MonthlyRevenue:    monthly,
		TopCourses:        top,
		AvgQuizPercentage: avgQuiz.Float64,
	}, nil
}

func platformTotals(db *gorm.DB) (*PlatformTotals, error) {
	totals := &PlatformTotals{UsersByRole: make(map[string]int64)}

	type roleCount struct {
		Role  string
		Count int64
	}
	var roles []roleCount
	if err := db.Model(&models.User{}).
		Where("is_deleted = ?", false).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roles).Error; err != nil {
		return nil, err
	}
	for _, rc := range roles {
		totals.UsersByRole[rc.Role] = rc.Count
		totals.TotalUsers += rc.Count
	}

	if err := db.Model(&courseModels.Enrollment{}).Count(&totals.TotalEnrollments).Error; err != nil {
		return nil, err
	}

	var revenue sql.NullInt64
	if err := db.Model(&models.PaymentRecord{}).
		Select("SUM(amount)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	totals.TotalRevenue = revenue.Int64

	return totals, nil
}

// monthlyRevenue buckets record amounts by calendar month over the trailing
// window. Bucketing happens here rather than in SQL so the reduction is the
// same on every database driver.
func monthlyRevenue(db *gorm.DB, now time.Time) ([]MonthBucket, error) {
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(MonthlyRevenueWindow - 1), 0)

	type row struct {
		CreatedAt time.Time
		Amount    int64
	}
	var rows []row
	if err := db.Model(&models.PaymentRecord{}).
		Where("created_at >= ?", windowStart).
		Select("created_at, amount").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[string]int64)
	for _, r := range rows {
		byMonth[r.CreatedAt.Format("2006-01")] += r.Amount
	}

	buckets := make([]MonthBucket, 0, len(byMonth))
	for month, revenue := range byMonth {
		buckets = append(buckets, MonthBucket{Month: month, Revenue: revenue})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })

	return buckets, nil
}

func topCourses(db *gorm.DB, topN int) ([]CourseRank, error) {
	type row struct {
		CourseID    uint
		Enrollments int64
	}
	var rows []row
	if err := db.Model(&courseModels.Enrollment{}).
		Select("course_id, COUNT(*) AS enrollments").
		Group("course_id").
		Order("enrollments DESC, course_id ASC").
		Limit(topN).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	top := make([]CourseRank, 0, len(rows))
	for _, r := range rows {
		rank := CourseRank{CourseID: r.CourseID, Enrollments: r.Enrollments}

		var course courseModels.Course
		if err := db.Where("id = ?", r.CourseID).First(&course).Error; err == nil {
			rank.Title = course.Title
		}

		top = append(top, rank)
	}

	return top, nil
}
