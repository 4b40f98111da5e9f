package courseController

import (
	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// CourseRoster lists the enrollments of one course for its instructor.
func CourseRoster(c *fiber.Ctx) error {
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

	var enrollments []courseModels.Enrollment
	if err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch roster!", nil)
	}

	type rosterEntry struct {
		courseModels.Enrollment
		LearnerName  string `json:"learner_name"`
		LearnerEmail string `json:"learner_email"`
	}

	roster := make([]rosterEntry, 0, len(enrollments))
	for _, e := range enrollments {
		var learner models.User
		db.Select("name, email").Where("id = ?", e.LearnerID).First(&learner)
		roster = append(roster, rosterEntry{
			Enrollment:   e,
			LearnerName:  learner.Name,
			LearnerEmail: learner.Email,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course roster.", roster)
}

// InstructorStats summarizes the caller's courses: enrollments, completions
// and ratings.
func InstructorStats(c *fiber.Ctx) error {
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
	db.Where("instructor_id = ? AND is_deleted = ?", userId, false).Find(&courses)

	courseIDs := make([]uint, 0, len(courses))
	published := 0
	for _, crs := range courses {
		courseIDs = append(courseIDs, crs.ID)
		if crs.IsPublished {
			published++
		}
	}

	var totalEnrollments, completed, certificates int64
	if len(courseIDs) > 0 {
		db.Model(&courseModels.Enrollment{}).
			Where("course_id IN ? AND is_deleted = ?", courseIDs, false).
			Count(&totalEnrollments)
		db.Model(&courseModels.Enrollment{}).
			Where("course_id IN ? AND status = ? AND is_deleted = ?", courseIDs, courseModels.EnrollCompleted, false).
			Count(&completed)
		db.Model(&courseModels.Certificate{}).
			Where("course_id IN ? AND is_deleted = ?", courseIDs, false).
			Count(&certificates)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor stats.", fiber.Map{
		"total_courses":       len(courses),
		"published_courses":   published,
		"total_enrollments":   totalEnrollments,
		"completed":           completed,
		"certificates_issued": certificates,
	})
}
