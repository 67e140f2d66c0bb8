// Package enrollment is the authoritative ledger of (user, course) access
// grants. Access decisions everywhere in the system go through HasAccess so
// the admin bypass lives in exactly one place.
package enrollment

import (
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Grant adds a course to the user's enrollment set. Granting an already held
// course is a no-op, never an error. The conditional insert rides on the
// composite unique index, so concurrent grants from multiple server
// instances cannot produce a duplicate row.
func Grant(db *gorm.DB, userID, courseID uint) error {
	entry := courseModels.Enrollment{UserID: userID, CourseID: courseID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&entry).Error
}

// IsEnrolled reports raw set membership, without the admin bypass. Order
// initiation uses this to fail fast before a wasted gateway round trip.
func IsEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// HasAccess is the single access predicate: an admin implicitly holds every
// course, everyone else needs the course in their enrollment set.
func HasAccess(db *gorm.DB, user *models.User, courseID uint) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	return IsEnrolled(db, user.ID, courseID)
}

// CountForUser returns the size of the user's enrollment set.
func CountForUser(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CoursesForUser returns the catalog entries the user is enrolled in,
// newest grant first.
func CoursesForUser(db *gorm.DB, userID uint) ([]courseModels.Course, error) {
	var courses []courseModels.Course
	err := db.Model(&courseModels.Course{}).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.created_at desc").
		Find(&courses).Error
	return courses, err
}
