package courseValidator

import (
	"strings"

	"bluelearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollRequest optionally assigns the enrollment to a cohort
type EnrollRequest struct {
	CohortName string `json:"cohort_name"`
}

// EnrollCourse validator middleware
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		// Cohort is optional
		reqData := new(EnrollRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// CompleteLessonRequest carries optional tracking data with a completion
type CompleteLessonRequest struct {
	TimeSpentSeconds    int    `json:"time_spent_seconds"`
	LastWatchedPosition int    `json:"last_watched_position"`
	CodeSubmitted       string `json:"code_submitted"`
}

// CompleteLesson validator middleware; course and lesson IDs in the path
func CompleteLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "course_id", "courseID"); err != nil {
			return err
		}
		if _, err := parseIDParam(c, "lesson_id", "lessonID"); err != nil {
			return err
		}

		reqData := new(CompleteLessonRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		errors := make(map[string]string)
		if reqData.TimeSpentSeconds < 0 {
			errors["time_spent_seconds"] = "Time spent cannot be negative!"
		}
		if reqData.LastWatchedPosition < 0 {
			errors["last_watched_position"] = "Watched position cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCompletion", reqData)
		return c.Next()
	}
}

// GetCourseProgress validator middleware
func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// IssueCertificate validator middleware
func IssueCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// VerifyCertificate validator middleware; hash in the path
func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hash := strings.TrimSpace(c.Params("hash"))
		if len(hash) != 16 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification hash!", nil)
		}
		c.Locals("verificationHash", hash)
		return c.Next()
	}
}

// ReviewRequest rates a course 1-5 with a comment
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview validator middleware
func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(ReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}
		if strings.TrimSpace(reqData.Comment) == "" {
			errors["comment"] = "Comment is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// EnrollmentListQuery paginates the caller's enrollments
type EnrollmentListQuery struct {
	Page  *int `query:"page"`
	Limit *int `query:"limit"`
}

// GetUserEnrollments validator middleware
func GetUserEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollmentListQuery)

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

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}
