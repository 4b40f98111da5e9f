package courseController

import (
	"log"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	"bluelearn/utils"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// canManageCourse reports whether the user owns the course or is a platform
// admin.
func canManageCourse(user *models.User, course *courseModels.Course) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return course.InstructorID != nil && *course.InstructorID == user.ID
}

func CreateCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	slug := utils.UniqueSlug(utils.Slugify(reqData.Title), func(s string) bool {
		var count int64
		db.Model(&courseModels.Course{}).Where("slug = ?", s).Count(&count)
		return count > 0
	})

	isFree := true
	if reqData.IsFree != nil {
		isFree = *reqData.IsFree
	}
	if reqData.Price > 0 {
		isFree = false
	}

	difficulty := reqData.Difficulty
	if difficulty == "" {
		difficulty = courseModels.DifficultyBeginner
	}

	newCourse := courseModels.Course{
		Title:            reqData.Title,
		Slug:             slug,
		Description:      reqData.Description,
		ShortDescription: reqData.ShortDescription,
		Difficulty:       difficulty,
		ThumbnailURL:     reqData.ThumbnailURL,
		PromoVideoURL:    reqData.PromoVideoURL,
		InstructorID:     &user.ID,
		PartnerID:        reqData.PartnerID,
		IsFree:           isFree,
		Price:            reqData.Price,
	}

	if err := db.Create(&newCourse).Error; err != nil {
		log.Printf("Error saving course to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	utils.RecordAudit(c, &user.ID, user.Email, "COURSE_CREATE", "Course created", "Course", newCourse.ID, nil)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", newCourse)
}

func UpdateCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
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

	if reqData.Title != "" && reqData.Title != course.Title {
		course.Title = reqData.Title
		course.Slug = utils.UniqueSlug(utils.Slugify(reqData.Title), func(s string) bool {
			var count int64
			db.Model(&courseModels.Course{}).Where("slug = ? AND id != ?", s, course.ID).Count(&count)
			return count > 0
		})
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.ShortDescription != "" {
		course.ShortDescription = reqData.ShortDescription
	}
	if reqData.Difficulty != "" {
		course.Difficulty = reqData.Difficulty
	}
	if reqData.ThumbnailURL != "" {
		course.ThumbnailURL = reqData.ThumbnailURL
	}
	if reqData.PromoVideoURL != "" {
		course.PromoVideoURL = reqData.PromoVideoURL
	}
	if reqData.IsFree != nil {
		course.IsFree = *reqData.IsFree
	}
	if reqData.Price > 0 {
		course.Price = reqData.Price
		course.IsFree = false
	}

	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error updating course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", course)
}

// PublishCourse flips a course live. A course needs at least one published
// lesson before it can go live.
func PublishCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

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

	if course.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course is already published!", nil)
	}

	var publishedLessons int64
	db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND lessons.is_published = ? AND lessons.is_deleted = ?", course.ID, true, false).
		Count(&publishedLessons)
	if publishedLessons == 0 {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Course needs at least one published lesson before it can be published!", nil)
	}

	course.IsPublished = true
	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error publishing course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	utils.RecordAudit(c, &user.ID, user.Email, "COURSE_PUBLISH", "Course published", "Course", course.ID, nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully.", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

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

	var activeEnrollments int64
	db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND status = ? AND is_deleted = ?", course.ID, courseModels.EnrollActive, false).
		Count(&activeEnrollments)
	if activeEnrollments > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course has active enrollments and cannot be deleted!", nil)
	}

	course.IsDeleted = true
	course.IsPublished = false
	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error deleting course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	utils.RecordAudit(c, &user.ID, user.Email, "COURSE_DELETE", "Course deleted", "Course", course.ID, nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

// AddPrerequisite requires a minimum score in another course before a
// learner can enroll.
func AddPrerequisite(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedPrerequisite").(*courseValidator.AddPrerequisiteRequest)
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

	if reqData.PrerequisiteID == course.ID {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "A course cannot be its own prerequisite!", nil)
	}

	var prereqCourse courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.PrerequisiteID, false).First(&prereqCourse).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Prerequisite course not found!", nil)
	}

	var existing courseModels.CoursePrerequisite
	if err := db.Where("course_id = ? AND prerequisite_id = ? AND is_deleted = ?", course.ID, prereqCourse.ID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Prerequisite already exists!", nil)
	}

	minScore := 70
	if reqData.MinScore != nil {
		minScore = *reqData.MinScore
	}

	prereq := courseModels.CoursePrerequisite{
		CourseID:       course.ID,
		PrerequisiteID: prereqCourse.ID,
		MinScore:       minScore,
	}
	if err := db.Create(&prereq).Error; err != nil {
		log.Printf("Error saving prerequisite: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add prerequisite!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Prerequisite added successfully.", prereq)
}

func RemovePrerequisite(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)
	prereqID := c.Locals("prerequisiteID").(int)

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

	var prereq courseModels.CoursePrerequisite
	if err := db.Where("course_id = ? AND prerequisite_id = ? AND is_deleted = ?", course.ID, prereqID, false).
		First(&prereq).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Prerequisite not found!", nil)
	}

	prereq.IsDeleted = true
	if err := db.Save(&prereq).Error; err != nil {
		log.Printf("Error removing prerequisite %d: %v", prereq.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove prerequisite!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Prerequisite removed successfully.", nil)
}

// InstructorCourseList lists the caller's own courses, drafts included.
func InstructorCourseList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var courses []courseModels.Course
	query := db.Where("is_deleted = ?", false)
	if user.Role != models.RoleAdmin {
		query = query.Where("instructor_id = ?", userId)
	}
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course list.", courses)
}
