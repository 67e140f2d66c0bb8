package course

import "gorm.io/gorm"

// Progress holds the per-(user, course) time-spent counter. The counter only
// ever grows and is updated with an atomic increment, never read-modify-write.
// Created lazily, on the first completion event or the first progress read.
type Progress struct {
	gorm.Model
	UserID           uint  `json:"user_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID         uint  `json:"course_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	TimeSpentMinutes int64 `json:"time_spent_minutes" gorm:"default:0"`
}

// ProgressUnit marks one content unit as completed by one user. The unique
// index over (user, course, unit) gives set semantics: re-completing a unit
// is a no-op and concurrent completions cannot produce duplicates.
type ProgressUnit struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex:idx_progress_unit;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_progress_unit;not null"`
	UnitID   string `json:"unit_id" gorm:"type:varchar(100);uniqueIndex:idx_progress_unit;not null"`
}
