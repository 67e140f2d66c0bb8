package utils

import (
	"log"
	"time"

	"lms/database"
	"lms/models"
	"lms/services/enrollment"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// reconcileGracePeriod keeps the sweep away from payments that are still
// in flight between the record write and the grant.
const reconcileGracePeriod = 10 * time.Minute

// InitializeReconciler starts the hourly paid-but-not-enrolled sweep.
// The enrollment ledger is the sole source of truth for access; payment
// records are advisory. A crash between the record write and the grant
// leaves a record without its grant, and this job repairs that out of band
// instead of the original request retrying.
func InitializeReconciler() {
	log.Println("[RECONCILER] Initializing payment reconciliation scheduler...")

	c := cron.New()

	c.AddFunc("0 * * * *", func() {
		log.Println("[RECONCILER] Running paid-but-not-enrolled sweep...")
		ReconcilePaidEnrollments(database.Database.Db)
	})

	c.Start()
	log.Println("[RECONCILER] Reconciliation scheduler started - runs hourly")
}

// ReconcilePaidEnrollments grants enrollment for every payment record older
// than the grace period whose (user, course) pair has no enrollment row.
// Returns how many pairs were repaired.
func ReconcilePaidEnrollments(db *gorm.DB) int {
	cutoff := time.Now().Add(-reconcileGracePeriod)

	var orphans []models.PaymentRecord
	err := db.Model(&models.PaymentRecord{}).
		Joins("LEFT JOIN enrollments ON enrollments.user_id = payment_records.user_id AND enrollments.course_id = payment_records.course_id AND enrollments.deleted_at IS NULL").
		Where("enrollments.id IS NULL AND payment_records.created_at < ?", cutoff).
		Find(&orphans).Error
	if err != nil {
		log.Printf("[RECONCILER] sweep query failed: %v", err)
		return 0
	}

	type pair struct{ userID, courseID uint }
	seen := make(map[pair]bool)

	repaired := 0
	for _, record := range orphans {
		key := pair{record.UserID, record.CourseID}
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := enrollment.Grant(db, record.UserID, record.CourseID); err != nil {
			log.Printf("[RECONCILER] failed to repair grant for user %d course %d: %v", record.UserID, record.CourseID, err)
			continue
		}

		log.Printf("[RECONCILER] repaired missing grant for user %d course %d (payment %s)", record.UserID, record.CourseID, record.PaymentID)
		repaired++
	}

	if repaired > 0 {
		log.Printf("[RECONCILER] sweep complete, repaired %d grants", repaired)
	}
	return repaired
}
