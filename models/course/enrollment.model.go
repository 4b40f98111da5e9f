package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollPending   = "PENDING"
	EnrollActive    = "ACTIVE"
	EnrollCompleted = "COMPLETED"
	EnrollDropped   = "DROPPED"
	EnrollExpired   = "EXPIRED"
)

// Enrollment tracks a learner's registration in a course with denormalized
// progress. Unique per (learner, course).
type Enrollment struct {
	gorm.Model
	LearnerID uint `json:"learner_id" gorm:"index;not null;uniqueIndex:idx_learner_course"`
	CourseID  uint `json:"course_id" gorm:"index;not null;uniqueIndex:idx_learner_course"`

	// Cohort support for partner organizations
	PartnerID  *uint  `json:"partner_id" gorm:"index"`
	CohortName string `json:"cohort_name" gorm:"size:100"`

	Status             string     `json:"status" gorm:"default:'ACTIVE';index"` // PENDING, ACTIVE, COMPLETED, DROPPED, EXPIRED
	ProgressPercentage int        `json:"progress_percentage" gorm:"default:0"` // 0-100
	CompletedLessons   int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons       int        `json:"total_lessons" gorm:"default:0"`
	FinalScore         *int       `json:"final_score"` // set by a passing exam attempt
	CertificateIssued  bool       `json:"certificate_issued" gorm:"default:false"`
	CompletedAt        *time.Time `json:"completed_at"`
	LastAccessed       time.Time  `json:"last_accessed"`
	IsDeleted          bool       `gorm:"default:false"`
}

// LessonProgress is a per-learner per-lesson completion record, unique per
// (learner, lesson). Completed rows are counted against a course's published
// lessons to recompute Enrollment.ProgressPercentage.
type LessonProgress struct {
	gorm.Model
	LearnerID uint `json:"learner_id" gorm:"index;not null;uniqueIndex:idx_learner_lesson"`
	LessonID  uint `json:"lesson_id" gorm:"index;not null;uniqueIndex:idx_learner_lesson"`

	IsCompleted         bool       `json:"is_completed" gorm:"default:false;index"`
	CompletedAt         *time.Time `json:"completed_at"`
	LastWatchedPosition int        `json:"last_watched_position" gorm:"default:0"` // seconds, video lessons
	CodeSubmitted       string     `json:"code_submitted" gorm:"type:text"`
	TimeSpentSeconds    int        `json:"time_spent_seconds" gorm:"default:0"`
	IsDeleted           bool       `gorm:"default:false"`
}
