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
)

// UpsertExam creates or replaces the final exam of a course. Replacing the
// exam rewrites its question set.
func UpsertExam(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedExam").(*courseValidator.ExamRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(&user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	var exam courseModels.CourseExam
	isNew := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).First(&exam).Error != nil
	if isNew {
		exam = courseModels.CourseExam{
			CourseID:         course.ID,
			Title:            "Final Exam",
			TimeLimitMinutes: 60,
			MaxAttempts:      2,
			PassingScore:     80,
			ShuffleQuestions: true,
		}
	}

	if reqData.Title != "" {
		exam.Title = reqData.Title
	}
	if reqData.Description != "" {
		exam.Description = reqData.Description
	}
	if reqData.TimeLimitMinutes > 0 {
		exam.TimeLimitMinutes = reqData.TimeLimitMinutes
	}
	if reqData.MaxAttempts > 0 {
		exam.MaxAttempts = reqData.MaxAttempts
	}
	if reqData.PassingScore != nil {
		exam.PassingScore = *reqData.PassingScore
	}
	exam.RequireAllQuizzesPass = reqData.RequireAllQuizzesPass
	if len(reqData.Questions) > 0 {
		exam.TotalQuestions = len(reqData.Questions)
	}

	tx := db.Begin()

	if err := tx.Save(&exam).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving exam: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save exam!", nil)
	}

	if len(reqData.Questions) > 0 {
		// Replace the existing question set
		if err := tx.Model(&courseModels.ExamQuestion{}).
			Where("exam_id = ?", exam.ID).
			Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error clearing exam questions: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save exam!", nil)
		}

		for i, q := range reqData.Questions {
			optionsJSON, err := json.Marshal(q.Options)
			if err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save exam!", nil)
			}

			points := q.Points
			if points == 0 {
				points = 1
			}

			question := courseModels.ExamQuestion{
				ExamID:        exam.ID,
				QuestionText:  q.QuestionText,
				Options:       datatypes.JSON(optionsJSON),
				CorrectOption: q.CorrectOption,
				Points:        points,
				OrderIndex:    i,
			}
			if err := tx.Create(&question).Error; err != nil {
				tx.Rollback()
				log.Printf("Error saving exam question: %v", err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save exam!", nil)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing exam upsert: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save exam!", nil)
	}

	status := fiber.StatusOK
	message := "Exam updated successfully."
	if isNew {
		status = fiber.StatusCreated
		message = "Exam created successfully."
	}
	return middleware.JsonResponse(c, status, true, message, exam)
}

// SubmitExamAttempt grades a final exam attempt. A passing attempt records
// the enrollment's final score, which prerequisite gating reads.
func SubmitExamAttempt(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("attemptTargetID").(int)

	reqData, ok := c.Locals("validatedAttempt").(*courseValidator.AttemptRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var exam courseModels.CourseExam
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	if exam.RequireAllQuizzesPass && !allCourseQuizzesPassed(uint(courseID), userId) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must pass all course quizzes before taking the exam!", nil)
	}

	var attemptCount int64
	db.Model(&courseModels.CourseExamAttempt{}).
		Where("exam_id = ? AND learner_id = ? AND is_deleted = ?", exam.ID, userId, false).
		Count(&attemptCount)
	if exam.MaxAttempts > 0 && attemptCount >= int64(exam.MaxAttempts) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"attempts": fmt.Sprintf("You have used all %d attempts for this exam!", exam.MaxAttempts),
		})
	}

	var questions []courseModels.ExamQuestion
	db.Where("exam_id = ? AND is_deleted = ?", exam.ID, false).Find(&questions)
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Exam has no questions!", nil)
	}

	earned, total := gradeExamAnswers(questions, reqData.Answers)
	score := earned * 100 / total
	passed := score >= exam.PassingScore

	answersJSON, err := json.Marshal(reqData.Answers)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	now := time.Now()
	attempt := courseModels.CourseExamAttempt{
		ExamID:        exam.ID,
		LearnerID:     userId,
		EnrollmentID:  enrollment.ID,
		AttemptNumber: int(attemptCount) + 1,
		Answers:       datatypes.JSON(answersJSON),
		Score:         score,
		Passed:        passed,
		TimeTakenSecs: reqData.TimeTakenSecs,
		CompletedAt:   &now,
	}

	tx := db.Begin()

	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving exam attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	if err := tx.Model(&exam).Update("total_attempts", exam.TotalAttempts+1).Error; err != nil {
		tx.Rollback()
		log.Printf("Error bumping exam attempt count: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	// Keep the enrollment's best passing score
	if passed && (enrollment.FinalScore == nil || score > *enrollment.FinalScore) {
		if err := tx.Model(&enrollment).Update("final_score", score).Error; err != nil {
			tx.Rollback()
			log.Printf("Error saving final score: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing exam attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt graded.", fiber.Map{
		"attempt":            attempt,
		"score":              score,
		"passed":             passed,
		"attempts_remaining": exam.MaxAttempts - attempt.AttemptNumber,
	})
}

func gradeExamAnswers(questions []courseModels.ExamQuestion, answers map[string]int) (int, int) {
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

// allCourseQuizzesPassed reports whether the learner has at least one
// passing attempt for every quiz attached to the course or its content.
func allCourseQuizzesPassed(courseID, learnerID uint) bool {
	db := database.Database.Db

	var quizzes []courseModels.Quiz
	db.Where("is_deleted = ?", false).
		Where("course_id = ? OR module_id IN (?) OR lesson_id IN (?)",
			courseID,
			db.Model(&courseModels.Module{}).Select("id").Where("course_id = ? AND is_deleted = ?", courseID, false),
			db.Model(&courseModels.Lesson{}).Select("lessons.id").
				Joins("JOIN modules ON modules.id = lessons.module_id").
				Where("modules.course_id = ? AND lessons.is_deleted = ?", courseID, false),
		).
		Find(&quizzes)

	for _, quiz := range quizzes {
		var passedAttempts int64
		db.Model(&courseModels.QuizAttempt{}).
			Where("quiz_id = ? AND learner_id = ? AND passed = ? AND is_deleted = ?", quiz.ID, learnerID, true, false).
			Count(&passedAttempts)
		if passedAttempts == 0 {
			return false
		}
	}
	return true
}
