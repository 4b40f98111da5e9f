package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseExam is the final exam of a course, one per course. A passing
// attempt records the enrollment's final score.
type CourseExam struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"uniqueIndex;not null"`
	Title       string `json:"title" gorm:"size:100;default:'Final Exam'"`
	Description string `json:"description" gorm:"size:200"`

	TimeLimitMinutes      int  `json:"time_limit_minutes" gorm:"default:60"`
	MaxAttempts           int  `json:"max_attempts" gorm:"default:2"`
	PassingScore          int  `json:"passing_score" gorm:"default:80"` // percent
	ShuffleQuestions      bool `json:"shuffle_questions" gorm:"default:true"`
	ShowAnswers           bool `json:"show_answers" gorm:"default:false"`
	RequireAllQuizzesPass bool `json:"require_all_quizzes_passed" gorm:"default:false"`

	TotalQuestions int  `json:"total_questions" gorm:"default:0"`
	TotalAttempts  int  `json:"total_attempts" gorm:"default:0"`
	IsDeleted      bool `gorm:"default:false"`
}

// ExamQuestion mirrors QuizQuestion but belongs to a course exam.
type ExamQuestion struct {
	gorm.Model
	ExamID        uint           `json:"exam_id" gorm:"index;not null"`
	QuestionText  string         `json:"question_text" gorm:"type:text"`
	Options       datatypes.JSON `json:"options"`
	CorrectOption int            `json:"-"`
	Points        int            `json:"points" gorm:"default:1"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	IsDeleted     bool           `gorm:"default:false"`
}

type CourseExamAttempt struct {
	gorm.Model
	ExamID        uint           `json:"exam_id" gorm:"index;not null;uniqueIndex:idx_exam_attempt"`
	LearnerID     uint           `json:"learner_id" gorm:"index;not null;uniqueIndex:idx_exam_attempt"`
	EnrollmentID  uint           `json:"enrollment_id" gorm:"index;not null"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1;uniqueIndex:idx_exam_attempt"`
	Answers       datatypes.JSON `json:"answers"` // {"<questionID>": <optionIndex>}
	Score         int            `json:"score" gorm:"default:0"`
	Passed        bool           `json:"passed" gorm:"default:false"`
	TimeTakenSecs int            `json:"time_taken_seconds" gorm:"default:0"`
	CompletedAt   *time.Time     `json:"completed_at"`
	IsDeleted     bool           `gorm:"default:false"`
}
