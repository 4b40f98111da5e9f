package courseController

import (
	"bluelearn/database"
	"bluelearn/middleware"
	courseModels "bluelearn/models/course"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CourseList is the public catalog. Only published courses are visible.
func CourseList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.CourseListQuery)
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

	query := db.Model(&courseModels.Course{}).
		Where("is_published = ? AND is_deleted = ?", true, false)
	if reqData.Difficulty != "" {
		query = query.Where("difficulty = ?", reqData.Difficulty)
	}
	if reqData.PartnerID != nil {
		query = query.Where("partner_id = ?", *reqData.PartnerID)
	}
	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		query = query.Where("title LIKE ? OR short_description LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var courses []courseModels.Course
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course list.", response)
}

// CourseDetail returns a published course with its modules, lessons and
// quizzes. Lesson bodies are included only for free-preview lessons; the
// rest show titles and metadata.
func CourseDetail(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Enrolled callers see full lesson content
	enrolled := false
	if userId, ok := c.Locals("userId").(uint); ok {
		var count int64
		db.Model(&courseModels.Enrollment{}).
			Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, course.ID, false).
			Count(&count)
		enrolled = count > 0
	}

	var modules []courseModels.Module
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index ASC").
		Find(&modules)

	type moduleView struct {
		courseModels.Module
		Lessons []courseModels.Lesson `json:"lessons"`
	}

	views := make([]moduleView, 0, len(modules))
	for _, m := range modules {
		var lessons []courseModels.Lesson
		db.Where("module_id = ? AND is_published = ? AND is_deleted = ?", m.ID, true, false).
			Order("order_index ASC").
			Find(&lessons)

		if !enrolled {
			for i := range lessons {
				if !lessons[i].IsFree {
					lessons[i].Content = ""
					lessons[i].VideoURL = ""
					lessons[i].CodeInitial = ""
				}
			}
		}

		views = append(views, moduleView{Module: m, Lessons: lessons})
	}

	var prerequisites []courseModels.CoursePrerequisite
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&prerequisites)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course detail.", fiber.Map{
		"course":        course,
		"modules":       views,
		"prerequisites": prerequisites,
		"enrolled":      enrolled,
	})
}
