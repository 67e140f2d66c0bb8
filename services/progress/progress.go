// Package progress tracks content consumption per (user, course): the set of
// completed units and the accumulated time spent.
package progress

import (
	"errors"

	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidMinutes rejects non-positive time increments.
	ErrInvalidMinutes = errors.New("minutes must be a positive number")
	// ErrIncrementTooLarge rejects increments above the single-call cap.
	ErrIncrementTooLarge = errors.New("minutes exceeds the single increment limit")
)

// MaxMinutesPerIncrement caps one addTimeSpent call at eight hours. The
// counter has no domain upper bound, the cap only keeps a misbehaving client
// from inflating it in one shot.
const MaxMinutesPerIncrement = 480

// Progress states derived from the completed set. Only completion events
// move the state; time spent never does.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Snapshot is the caller-facing view of one (user, course) progress record.
// Percentage is recomputed from current counts on every call, never cached.
type Snapshot struct {
	CompletedCount   int64   `json:"completedCount"`
	TotalCount       int     `json:"totalCount"`
	Percentage       float64 `json:"percentage"`
	TimeSpentMinutes int64   `json:"timeSpentMinutes"`
	Status           string  `json:"status"`
}

// Ensure creates an empty progress record for the pair if none exists.
// Safe to call any number of times and from concurrent writers.
func Ensure(db *gorm.DB, userID, courseID uint) error {
	record := courseModels.Progress{UserID: userID, CourseID: courseID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&record).Error
}

// MarkUnitComplete adds the unit to the completed set. Repeating the call
// with the same unit id is a no-op; the unique index over
// (user, course, unit) makes that hold across concurrent processes too.
// The caller is trusted to pass a unit id that belongs to the course.
func MarkUnitComplete(db *gorm.DB, userID, courseID uint, unitID string, totalUnits int) (*Snapshot, error) {
	if err := Ensure(db, userID, courseID); err != nil {
		return nil, err
	}

	unit := courseModels.ProgressUnit{UserID: userID, CourseID: courseID, UnitID: unitID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "unit_id"}},
		DoNothing: true,
	}).Create(&unit).Error; err != nil {
		return nil, err
	}

	return GetProgress(db, userID, courseID, totalUnits)
}

// GetProgress returns the current snapshot, lazily creating an empty record
// on the first read rather than failing it.
func GetProgress(db *gorm.DB, userID, courseID uint, totalUnits int) (*Snapshot, error) {
	if err := Ensure(db, userID, courseID); err != nil {
		return nil, err
	}

	var completed int64
	if err := db.Model(&courseModels.ProgressUnit{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	var record courseModels.Progress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&record).Error; err != nil {
		return nil, err
	}

	percentage := float64(0)
	if totalUnits > 0 {
		percentage = float64(completed) / float64(totalUnits) * 100
	}

	status := StatusNotStarted
	if totalUnits > 0 && completed >= int64(totalUnits) {
		status = StatusCompleted
	} else if completed > 0 {
		status = StatusInProgress
	}

	return &Snapshot{
		CompletedCount:   completed,
		TotalCount:       totalUnits,
		Percentage:       percentage,
		TimeSpentMinutes: record.TimeSpentMinutes,
		Status:           status,
	}, nil
}

// AddTimeSpent accumulates minutes into the pair's counter. The update is an
// atomic increment in the store; a read-then-write-back here would lose
// updates under concurrent calls.
func AddTimeSpent(db *gorm.DB, userID, courseID uint, minutes int64) error {
	if minutes <= 0 {
		return ErrInvalidMinutes
	}
	if minutes > MaxMinutesPerIncrement {
		return ErrIncrementTooLarge
	}

	if err := Ensure(db, userID, courseID); err != nil {
		return err
	}

	return db.Model(&courseModels.Progress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		UpdateColumn("time_spent_minutes", gorm.Expr("time_spent_minutes + ?", minutes)).Error
}
