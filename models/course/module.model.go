package course

import "gorm.io/gorm"

// Module represents a section within a course
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"size:200"`
	Description string `json:"description" gorm:"type:text"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // unique within course, validator enforced
	IsDeleted   bool   `gorm:"default:false"`
}

// Lesson types
const (
	LessonText       = "TEXT"
	LessonVideo      = "VIDEO"
	LessonCode       = "CODE"
	LessonQuiz       = "QUIZ"
	LessonAssignment = "ASSIGNMENT"
)

// Lesson is a unit of content inside a module
type Lesson struct {
	gorm.Model
	ModuleID   uint   `json:"module_id" gorm:"index;not null"`
	Title      string `json:"title" gorm:"size:200"`
	LessonType string `json:"lesson_type" gorm:"default:'TEXT';index"` // TEXT, VIDEO, CODE, QUIZ, ASSIGNMENT
	Content    string `json:"content" gorm:"type:text"`                // markdown/html body

	// VIDEO lessons
	VideoURL             string `json:"video_url"`
	VideoDurationMinutes int    `json:"video_duration_minutes" gorm:"default:0"`

	// CODE lessons
	CodeInitial  string `json:"code_initial" gorm:"type:text"`
	CodeSolution string `json:"-" gorm:"type:text"`
	CodeLanguage string `json:"code_language" gorm:"size:50"`

	OrderIndex           int  `json:"order_index" gorm:"default:0"` // unique within module, validator enforced
	IsFree               bool `json:"is_free" gorm:"default:false"` // free preview
	IsPublished          bool `json:"is_published" gorm:"default:false;index"`
	EstimatedTimeMinutes int  `json:"estimated_time_minutes" gorm:"default:5"`
	IsDeleted            bool `gorm:"default:false"`
}
