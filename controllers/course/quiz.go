package courseController

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// quizCourse resolves which course a quiz belongs to through its parent.
func quizCourse(db *gorm.DB, quiz *courseModels.Quiz) (*courseModels.Course, error) {
	var courseID uint

	switch {
	case quiz.CourseID != nil:
		courseID = *quiz.CourseID
	case quiz.ModuleID != nil:
		var module courseModels.Module
		if err := db.Where("id = ?", *quiz.ModuleID).First(&module).Error; err != nil {
			return nil, err
		}
		courseID = module.CourseID
	case quiz.LessonID != nil:
		var lesson courseModels.Lesson
		if err := db.Where("id = ?", *quiz.LessonID).First(&lesson).Error; err != nil {
			return nil, err
		}
		var module courseModels.Module
		if err := db.Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
			return nil, err
		}
		courseID = module.CourseID
	default:
		return nil, gorm.ErrRecordNotFound
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func CreateQuiz(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// Verify the parent exists before resolving its course
	if reqData.ModuleID != nil {
		if err := db.Where("id = ? AND is_deleted = ?", *reqData.ModuleID, false).
			First(&courseModels.Module{}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
	}
	if reqData.LessonID != nil {
		if err := db.Where("id = ? AND is_deleted = ?", *reqData.LessonID, false).
			First(&courseModels.Lesson{}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
	}

	quiz := courseModels.Quiz{
		CourseID:       reqData.CourseID,
		ModuleID:       reqData.ModuleID,
		LessonID:       reqData.LessonID,
		Title:          reqData.Title,
		Description:    reqData.Description,
		QuizType:       reqData.QuizType,
		OrderIndex:     reqData.OrderIndex,
		TotalQuestions: len(reqData.Questions),
	}
	if quiz.QuizType == "" {
		quiz.QuizType = courseModels.QuizLesson
	}
	if reqData.TimeLimitMinutes > 0 {
		quiz.TimeLimitMinutes = reqData.TimeLimitMinutes
	} else {
		quiz.TimeLimitMinutes = 10
	}
	if reqData.MaxAttempts > 0 {
		quiz.MaxAttempts = reqData.MaxAttempts
	} else {
		quiz.MaxAttempts = 1
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	} else {
		quiz.PassingScore = 70
	}
	if reqData.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *reqData.ShuffleQuestions
	} else {
		quiz.ShuffleQuestions = true
	}
	if reqData.ShowAnswers != nil {
		quiz.ShowAnswers = *reqData.ShowAnswers
	} else {
		quiz.ShowAnswers = true
	}

	course, err := quizCourse(db, &quiz)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent course not found!", nil)
	}
	if !canManageCourse(&user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	tx := db.Begin()

	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving quiz to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	for i, q := range reqData.Questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
		}

		points := q.Points
		if points == 0 {
			points = 1
		}

		question := courseModels.QuizQuestion{
			QuizID:        quiz.ID,
			QuestionText:  q.QuestionText,
			Options:       datatypes.JSON(optionsJSON),
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
			Points:        points,
			OrderIndex:    i,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			log.Printf("Error saving quiz question: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing quiz creation: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully.", quiz)
}

// DeleteQuiz soft-deletes a quiz and its questions. Past attempts stay for
// the record.
func DeleteQuiz(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	quizID := c.Locals("quizID").(int)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	course, err := quizCourse(db, &quiz)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !canManageCourse(&user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	tx := db.Begin()

	if err := tx.Model(&quiz).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting quiz %d: %v", quiz.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}
	if err := tx.Model(&courseModels.QuizQuestion{}).
		Where("quiz_id = ?", quiz.ID).
		Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing quiz deletion: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully.", nil)
}

// GetQuiz returns a quiz with its questions. Correct answers stay hidden
// through the models' json tags.
func GetQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).
		Order("order_index ASC").
		Find(&questions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz detail.", fiber.Map{
		"quiz":      quiz,
		"questions": questions,
	})
}

// SubmitQuizAttempt grades an answers map against the quiz questions.
// Attempts beyond the quiz's max_attempts are rejected.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	quizID := c.Locals("attemptTargetID").(int)

	reqData, ok := c.Locals("validatedAttempt").(*courseValidator.AttemptRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	course, err := quizCourse(db, &quiz)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, course.ID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var attemptCount int64
	db.Model(&courseModels.QuizAttempt{}).
		Where("quiz_id = ? AND learner_id = ? AND is_deleted = ?", quiz.ID, userId, false).
		Count(&attemptCount)
	if quiz.MaxAttempts > 0 && attemptCount >= int64(quiz.MaxAttempts) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"attempts": fmt.Sprintf("You have used all %d attempts for this quiz!", quiz.MaxAttempts),
		})
	}

	var questions []courseModels.QuizQuestion
	db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Find(&questions)
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Quiz has no questions!", nil)
	}

	earned, total := gradeAnswers(questions, reqData.Answers)
	score := earned * 100 / total
	passed := score >= quiz.PassingScore

	answersJSON, err := json.Marshal(reqData.Answers)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	now := time.Now()
	attempt := courseModels.QuizAttempt{
		QuizID:        quiz.ID,
		LearnerID:     userId,
		EnrollmentID:  &enrollment.ID,
		AttemptNumber: int(attemptCount) + 1,
		Answers:       datatypes.JSON(answersJSON),
		Score:         score,
		Passed:        passed,
		TimeTakenSecs: reqData.TimeTakenSecs,
		CompletedAt:   &now,
	}
	if err := db.Create(&attempt).Error; err != nil {
		log.Printf("Error saving quiz attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	response := fiber.Map{
		"attempt":            attempt,
		"score":              score,
		"passed":             passed,
		"attempts_remaining": quiz.MaxAttempts - attempt.AttemptNumber,
	}
	if quiz.ShowAnswers {
		answers := make(map[string]int, len(questions))
		for _, q := range questions {
			answers[fmt.Sprintf("%d", q.ID)] = q.CorrectOption
		}
		response["correct_answers"] = answers
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt graded.", response)
}

// gradeAnswers sums the points of correctly answered questions. Returns
// earned and total points; total is never zero for a non-empty question set.
func gradeAnswers(questions []courseModels.QuizQuestion, answers map[string]int) (int, int) {
	earned, total := 0, 0
	for _, q := range questions {
		points := q.Points
		if points == 0 {
			points = 1
		}
		total += points
		if selected, ok := answers[fmt.Sprintf("%d", q.ID)]; ok && selected == q.CorrectOption {
			earned += points
		}
	}
	return earned, total
}

// QuizAttemptList returns the caller's attempts for one quiz.
func QuizAttemptList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	quizID := c.Locals("quizID").(int)

	db := database.Database.Db

	var attempts []courseModels.QuizAttempt
	if err := db.Where("quiz_id = ? AND learner_id = ? AND is_deleted = ?", quizID, userId, false).
		Order("attempt_number ASC").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt list.", attempts)
}
