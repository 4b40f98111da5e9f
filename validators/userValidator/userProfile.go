package userValidator

import (
	"strconv"
	"strings"

	"bluelearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest updates the caller's own profile. Pointer fields
// distinguish "not sent" from empty.
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Mobile          *string `json:"mobile"`
	Bio             *string `json:"bio"`
	Specialization  *string `json:"specialization"`
	YearsExperience *int    `json:"years_experience"`
}

// UpdateProfile validator middleware
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Name != nil && len(strings.TrimSpace(*reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.YearsExperience != nil && *reqData.YearsExperience < 0 {
			errors["years_experience"] = "Years of experience cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// MessageRequest sends a direct message to another user
type MessageRequest struct {
	RecipientID uint   `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ParentID    *uint  `json:"parent_id"`
}

// SendMessage validator middleware
func SendMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MessageRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.RecipientID == 0 {
			errors["recipient_id"] = "Recipient is required!"
		}
		if strings.TrimSpace(reqData.Body) == "" {
			errors["body"] = "Message body is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMessage", reqData)
		return c.Next()
	}
}

// NotificationIDParam validator middleware
func NotificationIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification ID!", nil)
		}
		c.Locals("notificationID", id)
		return c.Next()
	}
}

// MessageIDParam validator middleware
func MessageIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid message ID!", nil)
		}
		c.Locals("messageID", id)
		return c.Next()
	}
}

// Pagination query for notification and message listings
type Pagination struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// List validator middleware
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(Pagination)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page < 0 || reqData.Limit < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"page": "Page and limit must be positive integers!",
			})
		}

		if reqData.Page == 0 {
			reqData.Page = 1
		}
		if reqData.Limit == 0 {
			reqData.Limit = 10
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}
