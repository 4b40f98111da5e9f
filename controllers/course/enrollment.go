package courseController

import (
	"fmt"
	"log"
	"time"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	"bluelearn/utils"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInCourse enrolls the caller in a published course. Enrollment is
// blocked until every prerequisite course is completed with the required
// minimum final score.
func EnrollInCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	reqData, _ := c.Locals("validatedEnroll").(*courseValidator.EnrollRequest)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// Unpublished courses are invisible to learners
	var course courseModels.Course
	if err := db.Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, course.ID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	}

	// Prerequisite gating
	var prerequisites []courseModels.CoursePrerequisite
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&prerequisites)

	for _, prereq := range prerequisites {
		var prereqEnrollment courseModels.Enrollment
		err := db.Where("learner_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
			userId, prereq.PrerequisiteID, courseModels.EnrollCompleted, false).
			First(&prereqEnrollment).Error

		met := err == nil &&
			(prereq.MinScore == 0 ||
				(prereqEnrollment.FinalScore != nil && *prereqEnrollment.FinalScore >= prereq.MinScore))

		if !met {
			var prereqCourse courseModels.Course
			db.Where("id = ?", prereq.PrerequisiteID).First(&prereqCourse)
			msg := fmt.Sprintf("You must complete '%s' with a score of at least %d%% before enrolling!",
				prereqCourse.Title, prereq.MinScore)
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, msg, nil)
		}
	}

	var totalLessons int64
	db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND lessons.is_published = ? AND lessons.is_deleted = ? AND modules.is_deleted = ?",
			course.ID, true, false, false).
		Count(&totalLessons)

	enrollment := courseModels.Enrollment{
		LearnerID:    userId,
		CourseID:     course.ID,
		PartnerID:    course.PartnerID,
		Status:       courseModels.EnrollActive,
		TotalLessons: int(totalLessons),
		LastAccessed: time.Now(),
	}
	if reqData != nil {
		enrollment.CohortName = reqData.CohortName
	}

	tx := db.Begin()

	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	if err := tx.Model(&course).Update("total_enrollments", gorm.Expr("total_enrollments + 1")).Error; err != nil {
		tx.Rollback()
		log.Printf("Error bumping enrollment count: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully.", enrollment)
}

func UserEnrollmentList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page, limit := 1, 10
	if reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	var total int64

	if err := db.Where("learner_id = ? AND is_deleted = ?", userId, false).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	db.Model(&courseModels.Enrollment{}).Where("learner_id = ? AND is_deleted = ?", userId, false).Count(&total)

	// Attach course titles so clients need no second round trip
	type enrollmentView struct {
		courseModels.Enrollment
		CourseTitle string `json:"course_title"`
	}
	views := make([]enrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		var crs courseModels.Course
		db.Select("title").Where("id = ?", e.CourseID).First(&crs)
		views = append(views, enrollmentView{Enrollment: e, CourseTitle: crs.Title})
	}

	response := map[string]interface{}{
		"enrollments": views,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment list.", response)
}

// DropEnrollment marks an active enrollment dropped.
func DropEnrollment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status != courseModels.EnrollActive {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only active enrollments can be dropped!", nil)
	}

	enrollment.Status = courseModels.EnrollDropped
	if err := db.Save(&enrollment).Error; err != nil {
		log.Printf("Error dropping enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to drop enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment dropped.", enrollment)
}
