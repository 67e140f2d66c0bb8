package catalog

import (
	"errors"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ErrCourseNotFound is returned when a course id does not resolve to a
// published, live course.
var ErrCourseNotFound = errors.New("course not found")

// GetCourse resolves a course id to its catalog entry. Unpublished and
// deleted courses are invisible to this subsystem.
func GetCourse(db *gorm.DB, courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// ListPublished returns a page of published courses and the total count.
func ListPublished(db *gorm.DB, page, limit int) ([]courseModels.Course, int64, error) {
	query := db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	var courses []courseModels.Course
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}
