package courseController

import (
	"log"
	"time"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RecalcEnrollmentProgress recounts completed published lessons against the
// course's published lesson total and stores the resulting percentage. An
// enrollment that reaches 100% flips to COMPLETED.
func RecalcEnrollmentProgress(db *gorm.DB, enrollment *courseModels.Enrollment) error {
	var totalLessons int64
	db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND lessons.is_published = ? AND lessons.is_deleted = ? AND modules.is_deleted = ?",
			enrollment.CourseID, true, false, false).
		Count(&totalLessons)

	var completedLessons int64
	db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lesson_progresses.learner_id = ? AND lesson_progresses.is_completed = ? AND lesson_progresses.is_deleted = ?",
			enrollment.LearnerID, true, false).
		Where("modules.course_id = ? AND lessons.is_published = ? AND lessons.is_deleted = ?",
			enrollment.CourseID, true, false).
		Count(&completedLessons)

	enrollment.TotalLessons = int(totalLessons)
	enrollment.CompletedLessons = int(completedLessons)

	if totalLessons == 0 {
		enrollment.ProgressPercentage = 0
	} else {
		enrollment.ProgressPercentage = int(completedLessons * 100 / totalLessons)
	}

	if enrollment.ProgressPercentage >= 100 && enrollment.Status == courseModels.EnrollActive {
		now := time.Now()
		enrollment.Status = courseModels.EnrollCompleted
		enrollment.CompletedAt = &now
	}
	enrollment.LastAccessed = time.Now()

	return db.Save(enrollment).Error
}

// MarkLessonComplete records a lesson completion and recomputes the
// enrollment's progress.
func MarkLessonComplete(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	reqData, _ := c.Locals("validatedCompletion").(*courseValidator.CompleteLessonRequest)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	if enrollment.Status != courseModels.EnrollActive && enrollment.Status != courseModels.EnrollCompleted {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enrollment is not active!", nil)
	}

	// The lesson must be a published lesson of this course
	var lesson courseModels.Lesson
	if err := db.Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.id = ? AND modules.course_id = ? AND lessons.is_published = ? AND lessons.is_deleted = ?",
			lessonID, courseID, true, false).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var progress courseModels.LessonProgress
	err := db.Where("learner_id = ? AND lesson_id = ? AND is_deleted = ?", userId, lesson.ID, false).
		First(&progress).Error

	if err == nil && progress.IsCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Lesson is already completed!", nil)
	}

	now := time.Now()
	if err != nil {
		progress = courseModels.LessonProgress{
			LearnerID: userId,
			LessonID:  lesson.ID,
		}
	}
	progress.IsCompleted = true
	progress.CompletedAt = &now
	if reqData != nil {
		progress.TimeSpentSeconds += reqData.TimeSpentSeconds
		if reqData.LastWatchedPosition > 0 {
			progress.LastWatchedPosition = reqData.LastWatchedPosition
		}
		if reqData.CodeSubmitted != "" {
			progress.CodeSubmitted = reqData.CodeSubmitted
		}
	}

	if err := db.Save(&progress).Error; err != nil {
		log.Printf("Error saving lesson progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
	}

	if err := RecalcEnrollmentProgress(db, &enrollment); err != nil {
		log.Printf("Error recalculating enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if enrollment.Status == courseModels.EnrollCompleted && enrollment.CompletedAt != nil &&
		time.Since(*enrollment.CompletedAt) < time.Minute {
		notification := models.Notification{
			UserID:      userId,
			Title:       "Course completed",
			Message:     "Congratulations, you finished the course! You can now request your certificate.",
			Type:        models.NotifySuccess,
			TargetModel: "Enrollment",
			TargetID:    &enrollment.ID,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("Error creating completion notification: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete.", fiber.Map{
		"lesson_progress": progress,
		"enrollment":      enrollment,
	})
}

// GetCourseProgress returns the enrollment with a per-module breakdown.
func GetCourseProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var modules []courseModels.Module
	db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index ASC").
		Find(&modules)

	type moduleProgress struct {
		ModuleID         uint   `json:"module_id"`
		Title            string `json:"title"`
		TotalLessons     int64  `json:"total_lessons"`
		CompletedLessons int64  `json:"completed_lessons"`
	}

	breakdown := make([]moduleProgress, 0, len(modules))
	for _, m := range modules {
		var total, completed int64
		db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND is_published = ? AND is_deleted = ?", m.ID, true, false).
			Count(&total)
		db.Model(&courseModels.LessonProgress{}).
			Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
			Where("lesson_progresses.learner_id = ? AND lesson_progresses.is_completed = ? AND lesson_progresses.is_deleted = ?",
				userId, true, false).
			Where("lessons.module_id = ? AND lessons.is_published = ? AND lessons.is_deleted = ?", m.ID, true, false).
			Count(&completed)

		breakdown = append(breakdown, moduleProgress{
			ModuleID:         m.ID,
			Title:            m.Title,
			TotalLessons:     total,
			CompletedLessons: completed,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress.", fiber.Map{
		"enrollment": enrollment,
		"modules":    breakdown,
	})
}
