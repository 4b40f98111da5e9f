package courseValidator

import (
	"strings"

	"bluelearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// QuizQuestionPayload carries one question of a quiz or exam
type QuizQuestionPayload struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points"`
}

// QuizRequest is the quiz create/update payload. Exactly one of CourseID,
// ModuleID or LessonID must be set.
type QuizRequest struct {
	CourseID *uint `json:"course_id"`
	ModuleID *uint `json:"module_id"`
	LessonID *uint `json:"lesson_id"`

	Title            string `json:"title"`
	Description      string `json:"description"`
	QuizType         string `json:"quiz_type"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
	MaxAttempts      int    `json:"max_attempts"`
	PassingScore     *int   `json:"passing_score"`
	ShuffleQuestions *bool  `json:"shuffle_questions"`
	ShowAnswers      *bool  `json:"show_answers"`
	OrderIndex       int    `json:"order_index"`

	Questions []QuizQuestionPayload `json:"questions"`
}

func validateQuestions(questions []QuizQuestionPayload, errors map[string]string) {
	for _, q := range questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			errors["questions"] = "Every question needs question text!"
			return
		}
		if len(q.Options) < 2 {
			errors["questions"] = "Every question needs at least 2 options!"
			return
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			errors["questions"] = "Correct option index out of range!"
			return
		}
	}
}

// CreateQuiz validator middleware. Enforces the exactly-one-parent rule.
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		parents := 0
		if reqData.CourseID != nil && *reqData.CourseID > 0 {
			parents++
		}
		if reqData.ModuleID != nil && *reqData.ModuleID > 0 {
			parents++
		}
		if reqData.LessonID != nil && *reqData.LessonID > 0 {
			parents++
		}
		if parents != 1 {
			errors["parent"] = "Quiz must have exactly one parent: course, module or lesson!"
		}

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}
		if reqData.MaxAttempts < 0 {
			errors["max_attempts"] = "Max attempts cannot be negative!"
		}
		validateQuestions(reqData.Questions, errors)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// QuizIDParam validator middleware
func QuizIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "quizID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// AttemptRequest submits an answers map for grading. Keys are question IDs
// as strings, values the selected 0-based option index.
type AttemptRequest struct {
	Answers       map[string]int `json:"answers"`
	TimeTakenSecs int            `json:"time_taken_seconds"`
}

// SubmitAttempt validator middleware, shared by quiz and exam attempts
func SubmitAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "attemptTargetID"); err != nil {
			return err
		}

		reqData := new(AttemptRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(reqData.Answers) == 0 {
			errors["answers"] = "Answers are required!"
		}
		if reqData.TimeTakenSecs < 0 {
			errors["time_taken_seconds"] = "Time taken cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAttempt", reqData)
		return c.Next()
	}
}

// ExamRequest upserts a course final exam
type ExamRequest struct {
	Title                 string `json:"title"`
	Description           string `json:"description"`
	TimeLimitMinutes      int    `json:"time_limit_minutes"`
	MaxAttempts           int    `json:"max_attempts"`
	PassingScore          *int   `json:"passing_score"`
	RequireAllQuizzesPass bool   `json:"require_all_quizzes_passed"`

	Questions []QuizQuestionPayload `json:"questions"`
}

// UpsertExam validator middleware; course ID in the path
func UpsertExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(ExamRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}
		if reqData.MaxAttempts < 0 {
			errors["max_attempts"] = "Max attempts cannot be negative!"
		}
		validateQuestions(reqData.Questions, errors)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExam", reqData)
		return c.Next()
	}
}
