package courseValidator

import (
	"strconv"
	"strings"

	"bluelearn/middleware"
	courseModels "bluelearn/models/course"

	"github.com/gofiber/fiber/v2"
)

var validDifficulties = map[string]bool{
	courseModels.DifficultyBeginner:     true,
	courseModels.DifficultyIntermediate: true,
	courseModels.DifficultyAdvanced:     true,
}

// parseIDParam validates a positive integer path parameter and stores it in
// c.Locals under the given key.
func parseIDParam(c *fiber.Ctx, param, key string) (int, error) {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "ID is required!", nil)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID!", nil)
	}
	c.Locals(key, id)
	return id, nil
}

// CreateCourseRequest is the instructor-facing course payload
type CreateCourseRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description"`
	Difficulty       string  `json:"difficulty"`
	ThumbnailURL     string  `json:"thumbnail_url"`
	PromoVideoURL    string  `json:"promo_video_url"`
	IsFree           *bool   `json:"is_free"`
	Price            float64 `json:"price"`
	PartnerID        *uint   `json:"partner_id"`
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if len(strings.TrimSpace(reqData.Description)) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}
		if reqData.Difficulty != "" && !validDifficulties[reqData.Difficulty] {
			errors["difficulty"] = "Difficulty must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validator middleware; same payload, course ID in the path
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Difficulty != "" && !validDifficulties[reqData.Difficulty] {
			errors["difficulty"] = "Difficulty must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseListQuery filters the public catalog
type CourseListQuery struct {
	Page       *int   `query:"page"`
	Limit      *int   `query:"limit"`
	Difficulty string `query:"difficulty"`
	PartnerID  *uint  `query:"partner_id"`
	Search     string `query:"search"`
}

// CourseList validator middleware
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if reqData.Difficulty != "" && !validDifficulties[reqData.Difficulty] {
			errors["difficulty"] = "Difficulty must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// GetCourseDetail validator middleware
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// AddPrerequisiteRequest declares a prerequisite with a minimum score
type AddPrerequisiteRequest struct {
	PrerequisiteID uint `json:"prerequisite_id"`
	MinScore       *int `json:"min_score"`
}

// AddPrerequisite validator middleware
func AddPrerequisite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(AddPrerequisiteRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.PrerequisiteID == 0 {
			errors["prerequisite_id"] = "Prerequisite course ID is required!"
		}
		if reqData.MinScore != nil && (*reqData.MinScore < 0 || *reqData.MinScore > 100) {
			errors["min_score"] = "Minimum score must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPrerequisite", reqData)
		return c.Next()
	}
}

// RemovePrerequisite validator middleware; course and prerequisite IDs in
// the path
func RemovePrerequisite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}
		if _, err := parseIDParam(c, "prereq_id", "prerequisiteID"); err != nil {
			return err
		}
		return c.Next()
	}
}
