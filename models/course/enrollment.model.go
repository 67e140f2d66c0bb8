package course

import "gorm.io/gorm"

// Enrollment records that a user holds access to a course. One row per
// (user, course); the composite unique index is what makes the grant an
// atomic add-if-absent across concurrent server instances.
type Enrollment struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
}
