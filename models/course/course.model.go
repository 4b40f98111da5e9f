package course

import "gorm.io/gorm"

// Difficulty levels
const (
	DifficultyBeginner     = "BEGINNER"
	DifficultyIntermediate = "INTERMEDIATE"
	DifficultyAdvanced     = "ADVANCED"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title            string  `json:"title" gorm:"size:200;index"`
	Slug             string  `json:"slug" gorm:"size:200;unique"`
	Description      string  `json:"description" gorm:"type:text"`
	ShortDescription string  `json:"short_description" gorm:"size:300"`
	Difficulty       string  `json:"difficulty" gorm:"default:'BEGINNER';index"` // BEGINNER, INTERMEDIATE, ADVANCED
	ThumbnailURL     string  `json:"thumbnail_url"`
	PromoVideoURL    string  `json:"promo_video_url"`
	InstructorID     *uint   `json:"instructor_id" gorm:"index"`
	PartnerID        *uint   `json:"partner_id" gorm:"index"`
	IsFree           bool    `json:"is_free" gorm:"default:true"`
	Price            float64 `json:"price" gorm:"default:0"`
	IsPublished      bool    `json:"is_published" gorm:"default:false;index"`

	// Denormalized stats, recomputed on enrollment/review writes
	TotalEnrollments int     `json:"total_enrollments" gorm:"default:0"`
	AverageRating    float64 `json:"average_rating" gorm:"default:0"`
	TotalReviews     int     `json:"total_reviews" gorm:"default:0"`

	IsDeleted bool `gorm:"default:false"`
}

// CoursePrerequisite requires a minimum final score in another course before
// enrolling. Unique per (course, prerequisite) pair.
type CoursePrerequisite struct {
	gorm.Model
	CourseID       uint `json:"course_id" gorm:"index;not null;uniqueIndex:idx_course_prereq"`
	PrerequisiteID uint `json:"prerequisite_id" gorm:"not null;uniqueIndex:idx_course_prereq"`
	MinScore       int  `json:"min_score" gorm:"default:70"` // percent, 0-100
	IsDeleted      bool `gorm:"default:false"`
}
