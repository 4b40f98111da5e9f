package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz types
const (
	QuizLesson   = "LESSON"
	QuizModule   = "MODULE"
	QuizPractice = "PRACTICE"
)

// Quiz attaches to exactly one of course, module or lesson. The
// exactly-one-parent rule is enforced by the create/update validator.
type Quiz struct {
	gorm.Model
	CourseID *uint `json:"course_id" gorm:"index"`
	ModuleID *uint `json:"module_id" gorm:"index"`
	LessonID *uint `json:"lesson_id" gorm:"index"`

	Title       string `json:"title" gorm:"size:200"`
	Description string `json:"description" gorm:"type:text"`
	QuizType    string `json:"quiz_type" gorm:"default:'LESSON'"` // LESSON, MODULE, PRACTICE

	TimeLimitMinutes int  `json:"time_limit_minutes" gorm:"default:10"`
	MaxAttempts      int  `json:"max_attempts" gorm:"default:1"`
	PassingScore     int  `json:"passing_score" gorm:"default:70"` // percent
	ShuffleQuestions bool `json:"shuffle_questions" gorm:"default:true"`
	ShowAnswers      bool `json:"show_answers" gorm:"default:true"`
	OrderIndex       int  `json:"order_index" gorm:"default:0"`

	TotalQuestions int  `json:"total_questions" gorm:"default:0"`
	IsDeleted      bool `gorm:"default:false"`
}

// QuizQuestion holds a multiple-choice question; Options is a JSON array of
// option strings and CorrectOption the 0-based index of the right one.
type QuizQuestion struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string         `json:"question_text" gorm:"type:text"`
	Options       datatypes.JSON `json:"options"`
	CorrectOption int            `json:"-"`
	Explanation   string         `json:"explanation" gorm:"type:text"`
	Points        int            `json:"points" gorm:"default:1"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	IsDeleted     bool           `gorm:"default:false"`
}

// QuizAttempt stores one graded attempt. Answers maps question ID to the
// selected option index.
type QuizAttempt struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null;uniqueIndex:idx_quiz_attempt"`
	LearnerID     uint           `json:"learner_id" gorm:"index;not null;uniqueIndex:idx_quiz_attempt"`
	EnrollmentID  *uint          `json:"enrollment_id" gorm:"index"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1;uniqueIndex:idx_quiz_attempt"`
	Answers       datatypes.JSON `json:"answers"` // {"<questionID>": <optionIndex>}
	Score         int            `json:"score" gorm:"default:0"`
	Passed        bool           `json:"passed" gorm:"default:false"`
	TimeTakenSecs int            `json:"time_taken_seconds" gorm:"default:0"`
	CompletedAt   *time.Time     `json:"completed_at"`
	IsDeleted     bool           `gorm:"default:false"`
}
