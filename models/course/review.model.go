package course

import "gorm.io/gorm"

// Review is a course rating, one per (course, learner). Saving a review
// recomputes the course's denormalized rating stats.
type Review struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null;uniqueIndex:idx_course_learner_review"`
	LearnerID    uint   `json:"learner_id" gorm:"not null;uniqueIndex:idx_course_learner_review"`
	EnrollmentID uint   `json:"enrollment_id" gorm:"index;not null"`
	Rating       int    `json:"rating"` // 1-5, validator enforced
	Comment      string `json:"comment" gorm:"type:text"`
	IsDeleted    bool   `gorm:"default:false"`
}
