package courseController

import (
	"log"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

func CreateModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
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

	// Order index is unique within a course
	var clash int64
	db.Model(&courseModels.Module{}).
		Where("course_id = ? AND order_index = ? AND is_deleted = ?", course.ID, *reqData.OrderIndex, false).
		Count(&clash)
	if clash > 0 {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"order_index": "A module with this order already exists in the course!",
		})
	}

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  *reqData.OrderIndex,
	}
	if err := db.Create(&module).Error; err != nil {
		log.Printf("Error saving module to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully.", module)
}

func UpdateModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(&user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	if reqData.OrderIndex != nil && *reqData.OrderIndex != module.OrderIndex {
		var clash int64
		db.Model(&courseModels.Module{}).
			Where("course_id = ? AND order_index = ? AND id != ? AND is_deleted = ?",
				course.ID, *reqData.OrderIndex, module.ID, false).
			Count(&clash)
		if clash > 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"order_index": "A module with this order already exists in the course!",
			})
		}
		module.OrderIndex = *reqData.OrderIndex
	}

	if reqData.Title != "" {
		module.Title = reqData.Title
	}
	if reqData.Description != "" {
		module.Description = reqData.Description
	}

	if err := db.Save(&module).Error; err != nil {
		log.Printf("Error updating module %d: %v", module.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully.", module)
}

func DeleteModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID := c.Locals("moduleID").(int)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(&user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	tx := db.Begin()

	module.IsDeleted = true
	if err := tx.Save(&module).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting module %d: %v", module.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	// Lessons go with the module
	if err := tx.Model(&courseModels.Lesson{}).
		Where("module_id = ?", module.ID).
		Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting lessons of module %d: %v", module.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing module delete: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully.", nil)
}

func CreateLesson(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(&user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	// Order index is unique within a module
	var clash int64
	db.Model(&courseModels.Lesson{}).
		Where("module_id = ? AND order_index = ? AND is_deleted = ?", module.ID, *reqData.OrderIndex, false).
		Count(&clash)
	if clash > 0 {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"order_index": "A lesson with this order already exists in the module!",
		})
	}

	estimated := reqData.EstimatedTimeMinutes
	if estimated == 0 {
		estimated = 5
	}

	lesson := courseModels.Lesson{
		ModuleID:             module.ID,
		Title:                reqData.Title,
		LessonType:           reqData.LessonType,
		Content:              reqData.Content,
		VideoURL:             reqData.VideoURL,
		VideoDurationMinutes: reqData.VideoDurationMinutes,
		CodeInitial:          reqData.CodeInitial,
		CodeSolution:         reqData.CodeSolution,
		CodeLanguage:         reqData.CodeLanguage,
		OrderIndex:           *reqData.OrderIndex,
		IsFree:               reqData.IsFree,
		EstimatedTimeMinutes: estimated,
	}
	if err := db.Create(&lesson).Error; err != nil {
		log.Printf("Error saving lesson to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully.", lesson)
}

func UpdateLesson(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	lesson, course, err := lessonWithCourse(c, lessonID)
	if lesson == nil {
		return err
	}

	if !canManageCourse(&user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	if reqData.OrderIndex != nil && *reqData.OrderIndex != lesson.OrderIndex {
		var clash int64
		db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND order_index = ? AND id != ? AND is_deleted = ?",
				lesson.ModuleID, *reqData.OrderIndex, lesson.ID, false).
			Count(&clash)
		if clash > 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"order_index": "A lesson with this order already exists in the module!",
			})
		}
		lesson.OrderIndex = *reqData.OrderIndex
	}

	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.LessonType != "" {
		lesson.LessonType = reqData.LessonType
	}
	if reqData.Content != "" {
		lesson.Content = reqData.Content
	}
	if reqData.VideoURL != "" {
		lesson.VideoURL = reqData.VideoURL
	}
	if reqData.VideoDurationMinutes > 0 {
		lesson.VideoDurationMinutes = reqData.VideoDurationMinutes
	}
	if reqData.CodeInitial != "" {
		lesson.CodeInitial = reqData.CodeInitial
	}
	if reqData.CodeSolution != "" {
		lesson.CodeSolution = reqData.CodeSolution
	}
	if reqData.CodeLanguage != "" {
		lesson.CodeLanguage = reqData.CodeLanguage
	}
	if reqData.EstimatedTimeMinutes > 0 {
		lesson.EstimatedTimeMinutes = reqData.EstimatedTimeMinutes
	}

	if err := db.Save(lesson).Error; err != nil {
		log.Printf("Error updating lesson %d: %v", lesson.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully.", lesson)
}

// PublishLesson flips a lesson live and refreshes enrollment lesson totals
// for the course.
func PublishLesson(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lessonID := c.Locals("lessonID").(int)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	lesson, course, err := lessonWithCourse(c, lessonID)
	if lesson == nil {
		return err
	}

	if !canManageCourse(&user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	if lesson.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Lesson is already published!", nil)
	}

	lesson.IsPublished = true
	if err := db.Save(lesson).Error; err != nil {
		log.Printf("Error publishing lesson %d: %v", lesson.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish lesson!", nil)
	}

	// The published lesson count changed; refresh every enrollment
	var enrollments []courseModels.Enrollment
	if err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&enrollments).Error; err == nil {
		for i := range enrollments {
			if err := RecalcEnrollmentProgress(db, &enrollments[i]); err != nil {
				log.Printf("Error recalculating enrollment %d: %v", enrollments[i].ID, err)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson published successfully.", lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lessonID := c.Locals("lessonID").(int)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	lesson, course, err := lessonWithCourse(c, lessonID)
	if lesson == nil {
		return err
	}

	if !canManageCourse(&user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
	}

	wasPublished := lesson.IsPublished
	lesson.IsDeleted = true
	lesson.IsPublished = false
	if err := db.Save(lesson).Error; err != nil {
		log.Printf("Error deleting lesson %d: %v", lesson.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	if wasPublished {
		var enrollments []courseModels.Enrollment
		if err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&enrollments).Error; err == nil {
			for i := range enrollments {
				if err := RecalcEnrollmentProgress(db, &enrollments[i]); err != nil {
					log.Printf("Error recalculating enrollment %d: %v", enrollments[i].ID, err)
				}
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully.", nil)
}

// lessonWithCourse loads a lesson and walks up to its course. Responds 404
// on the context itself when either is missing.
func lessonWithCourse(c *fiber.Ctx, lessonID int) (*courseModels.Lesson, *courseModels.Course, error) {
	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", lesson.ModuleID, false).First(&module).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&course).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return &lesson, &course, nil
}
