package models

import (
	"time"

	"gorm.io/gorm"
)

// QuizResult stores a graded quiz attempt. Owned by the quiz subsystem;
// analytics only ever reads these rows.
type QuizResult struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	CourseID   uint      `gorm:"index" json:"course_id"`
	Score      int       `json:"score"`
	MaxScore   int       `json:"max_score"`
	Percentage float64   `json:"percentage"`
	Category   string    `gorm:"type:varchar(100)" json:"category"`
	TakenAt    time.Time `gorm:"index" json:"taken_at"`
	IsDeleted  bool      `gorm:"default:false"`
}
