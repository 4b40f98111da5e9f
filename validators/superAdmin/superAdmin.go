package superAdminValidator

import (
	"strconv"
	"strings"
	"time"

	"bluelearn/middleware"
	"bluelearn/models"

	"github.com/gofiber/fiber/v2"
)

var validRoles = map[string]bool{
	models.RoleLearner:      true,
	models.RoleInstructor:   true,
	models.RolePartnerAdmin: true,
	models.RoleAdmin:        true,
}

var validReportTypes = map[string]bool{
	models.ReportUsers:       true,
	models.ReportCourses:     true,
	models.ReportEnrollments: true,
	models.ReportPartners:    true,
	models.ReportEngagement:  true,
}

var validBackupTypes = map[string]bool{
	models.BackupFull:     true,
	models.BackupDatabase: true,
	models.BackupMedia:    true,
}

var validPriorities = map[string]bool{
	models.PriorityLow:    true,
	models.PriorityNormal: true,
	models.PriorityHigh:   true,
	models.PriorityUrgent: true,
}

// UserListQuery filters the platform user listing
type UserListQuery struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	Role    string `query:"role"`
	Search  string `query:"search"`
	Blocked string `query:"blocked"` // "true" or "false"
}

// UserList validator middleware
func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UserListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page < 0 {
			errors["page"] = "Page must be a positive integer!"
		}
		if reqData.Limit < 0 {
			errors["limit"] = "Limit must be a positive integer!"
		}
		if reqData.Role != "" && !validRoles[reqData.Role] {
			errors["role"] = "Invalid role filter!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Page == 0 {
			reqData.Page = 1
		}
		if reqData.Limit == 0 {
			reqData.Limit = 10
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// UserIDParam validator middleware
func UserIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
		}
		c.Locals("targetUserID", id)
		return c.Next()
	}
}

// BlockUserRequest blocks a user, optionally until a given time
type BlockUserRequest struct {
	Reason       string `json:"reason"`
	BlockedUntil string `json:"blocked_until"` // RFC3339, optional
}

// BlockUser validator middleware
func BlockUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
		}
		c.Locals("targetUserID", id)

		reqData := new(BlockUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.BlockedUntil != "" {
			until, err := time.Parse(time.RFC3339, reqData.BlockedUntil)
			if err != nil {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"blocked_until": "Must be a valid RFC3339 timestamp!",
				})
			}
			c.Locals("blockedUntil", until)
		}

		c.Locals("validatedBlock", reqData)
		return c.Next()
	}
}

// SettingsRequest updates the global platform settings. Pointer fields
// distinguish "not sent" from zero values.
type SettingsRequest struct {
	SiteName                 *string `json:"site_name"`
	SiteDescription          *string `json:"site_description"`
	ContactEmail             *string `json:"contact_email"`
	ContactPhone             *string `json:"contact_phone"`
	MaintenanceMode          *bool   `json:"maintenance_mode"`
	AllowRegistrations       *bool   `json:"allow_registrations"`
	RequireEmailVerification *bool   `json:"require_email_verification"`
	MaxLoginAttempts         *int    `json:"max_login_attempts"`
	SessionTimeoutMinutes    *int    `json:"session_timeout_minutes"`
	DefaultUserRole          *string `json:"default_user_role"`
}

// UpdateSettings validator middleware
func UpdateSettings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SettingsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.SiteName != nil && len(strings.TrimSpace(*reqData.SiteName)) < 2 {
			errors["site_name"] = "Site name must be at least 2 characters long!"
		}
		if reqData.MaxLoginAttempts != nil && (*reqData.MaxLoginAttempts < 1 || *reqData.MaxLoginAttempts > 20) {
			errors["max_login_attempts"] = "Max login attempts must be between 1 and 20!"
		}
		if reqData.SessionTimeoutMinutes != nil && *reqData.SessionTimeoutMinutes < 5 {
			errors["session_timeout_minutes"] = "Session timeout must be at least 5 minutes!"
		}
		if reqData.DefaultUserRole != nil && !validRoles[*reqData.DefaultUserRole] {
			errors["default_user_role"] = "Invalid default user role!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSettings", reqData)
		return c.Next()
	}
}

// AnnouncementRequest creates a system-wide announcement
type AnnouncementRequest struct {
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Priority    string   `json:"priority"`
	TargetRoles []string `json:"target_roles"`
	StartDate   string   `json:"start_date"` // RFC3339, optional
	EndDate     string   `json:"end_date"`   // RFC3339, optional
	Dismissible *bool    `json:"dismissible"`
}

// CreateAnnouncement validator middleware
func CreateAnnouncement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AnnouncementRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if strings.TrimSpace(reqData.Message) == "" {
			errors["message"] = "Message is required!"
		}
		if reqData.Priority != "" && !validPriorities[reqData.Priority] {
			errors["priority"] = "Invalid priority!"
		}
		for _, role := range reqData.TargetRoles {
			if !validRoles[role] {
				errors["target_roles"] = "Unknown role: " + role
				break
			}
		}

		var start, end time.Time
		var err error
		if reqData.StartDate != "" {
			if start, err = time.Parse(time.RFC3339, reqData.StartDate); err != nil {
				errors["start_date"] = "Must be a valid RFC3339 timestamp!"
			}
		}
		if reqData.EndDate != "" {
			if end, err = time.Parse(time.RFC3339, reqData.EndDate); err != nil {
				errors["end_date"] = "Must be a valid RFC3339 timestamp!"
			}
		}
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			errors["end_date"] = "End date must be after start date!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if !start.IsZero() {
			c.Locals("announcementStart", start)
		}
		if !end.IsZero() {
			c.Locals("announcementEnd", end)
		}
		c.Locals("validatedAnnouncement", reqData)
		return c.Next()
	}
}

// ReportRequest generates a named platform report
type ReportRequest struct {
	ReportType string                 `json:"report_type"`
	Parameters map[string]interface{} `json:"parameters"`
}

// GenerateReport validator middleware
func GenerateReport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReportRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if !validReportTypes[reqData.ReportType] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"report_type": "Report type must be one of USERS, COURSES, ENROLLMENTS, PARTNERS, ENGAGEMENT!",
			})
		}

		c.Locals("validatedReport", reqData)
		return c.Next()
	}
}

// BackupRequest triggers a platform backup
type BackupRequest struct {
	BackupType string `json:"backup_type"`
	Notes      string `json:"notes"`
}

// TriggerBackup validator middleware
func TriggerBackup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BackupRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.BackupType == "" {
			reqData.BackupType = models.BackupFull
		}
		if !validBackupTypes[reqData.BackupType] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"backup_type": "Backup type must be FULL, DATABASE or MEDIA!",
			})
		}

		c.Locals("validatedBackup", reqData)
		return c.Next()
	}
}
