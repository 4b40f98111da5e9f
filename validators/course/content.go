package courseValidator

import (
	"strings"

	"bluelearn/middleware"
	courseModels "bluelearn/models/course"

	"github.com/gofiber/fiber/v2"
)

var validLessonTypes = map[string]bool{
	courseModels.LessonText:       true,
	courseModels.LessonVideo:      true,
	courseModels.LessonCode:       true,
	courseModels.LessonQuiz:       true,
	courseModels.LessonAssignment: true,
}

// ModuleRequest is the module create/update payload
type ModuleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  *int   `json:"order_index"`
}

// CreateModule validator middleware; course ID in the path
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(ModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.OrderIndex == nil || *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must be 0 or greater!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// UpdateModule validator middleware; module ID in the path
func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "module_id", "moduleID"); err != nil {
			return err
		}

		reqData := new(ModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must be 0 or greater!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// LessonRequest is the lesson create/update payload
type LessonRequest struct {
	Title                string `json:"title"`
	LessonType           string `json:"lesson_type"`
	Content              string `json:"content"`
	VideoURL             string `json:"video_url"`
	VideoDurationMinutes int    `json:"video_duration_minutes"`
	CodeInitial          string `json:"code_initial"`
	CodeSolution         string `json:"code_solution"`
	CodeLanguage         string `json:"code_language"`
	OrderIndex           *int   `json:"order_index"`
	IsFree               bool   `json:"is_free"`
	EstimatedTimeMinutes int    `json:"estimated_time_minutes"`
}

// CreateLesson validator middleware; module ID in the path. Type-specific
// required fields: VIDEO needs a video URL, CODE needs initial code.
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "module_id", "moduleID"); err != nil {
			return err
		}

		reqData := new(LessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.LessonType == "" {
			reqData.LessonType = courseModels.LessonText
		}
		if !validLessonTypes[reqData.LessonType] {
			errors["lesson_type"] = "Invalid lesson type!"
		}
		if reqData.LessonType == courseModels.LessonVideo && strings.TrimSpace(reqData.VideoURL) == "" {
			errors["video_url"] = "Video URL is required for video lessons!"
		}
		if reqData.LessonType == courseModels.LessonCode && strings.TrimSpace(reqData.CodeInitial) == "" {
			errors["code_initial"] = "Initial code is required for code exercises!"
		}
		if reqData.OrderIndex == nil || *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must be 0 or greater!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validator middleware; lesson ID in the path
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "lesson_id", "lessonID"); err != nil {
			return err
		}

		reqData := new(LessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.LessonType != "" && !validLessonTypes[reqData.LessonType] {
			errors["lesson_type"] = "Invalid lesson type!"
		}
		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must be 0 or greater!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// LessonIDParam validator middleware for routes keyed by lesson ID only
func LessonIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "lesson_id", "lessonID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// ModuleIDParam validator middleware for routes keyed by module ID only
func ModuleIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "module_id", "moduleID"); err != nil {
			return err
		}
		return c.Next()
	}
}
