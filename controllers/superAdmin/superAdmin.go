package superAdminController

import (
	"encoding/json"
	"log"
	"time"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	partnerModels "bluelearn/models/partner"
	"bluelearn/utils"
	superAdminValidator "bluelearn/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserList").(*superAdminValidator.UserListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	offset := (reqData.Page - 1) * reqData.Limit

	db := database.Database.Db

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if reqData.Role != "" {
		query = query.Where("role = ?", reqData.Role)
	}
	if reqData.Blocked == "true" {
		query = query.Where("is_blocked = ?", true)
	} else if reqData.Blocked == "false" {
		query = query.Where("is_blocked = ?", false)
	}
	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list.", response)
}

func BlockUser(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	targetID := c.Locals("targetUserID").(int)

	reqData, _ := c.Locals("validatedBlock").(*superAdminValidator.BlockUserRequest)

	db := database.Database.Db

	var admin models.User
	if err := db.Where("id = ? AND is_deleted = ?", adminId, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if uint(targetID) == adminId {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot block yourself!", nil)
	}

	var target models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if target.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already blocked!", nil)
	}

	target.IsBlocked = true
	if until, ok := c.Locals("blockedUntil").(time.Time); ok {
		target.BlockedUntil = &until
	}
	if err := db.Save(&target).Error; err != nil {
		log.Printf("Error blocking user %d: %v", target.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to block user!", nil)
	}

	reason := ""
	if reqData != nil {
		reason = reqData.Reason
	}
	utils.RecordAudit(c, &adminId, admin.Email, "USER_BLOCK", "User blocked", "User", target.ID,
		map[string]interface{}{"reason": reason})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User blocked successfully.", nil)
}

func UnblockUser(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	targetID := c.Locals("targetUserID").(int)

	db := database.Database.Db

	var admin models.User
	if err := db.Where("id = ? AND is_deleted = ?", adminId, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var target models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if !target.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is not blocked!", nil)
	}

	target.IsBlocked = false
	target.BlockedUntil = nil
	target.FailedLoginAttempts = 0
	if err := db.Save(&target).Error; err != nil {
		log.Printf("Error unblocking user %d: %v", target.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unblock user!", nil)
	}

	utils.RecordAudit(c, &adminId, admin.Email, "USER_UNBLOCK", "User unblocked", "User", target.ID, nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User unblocked successfully.", nil)
}

// GetSettings returns the global settings singleton, creating the defaults
// row on first access.
func GetSettings(c *fiber.Ctx) error {
	db := database.Database.Db

	var settings models.GlobalSetting
	if err := db.First(&settings).Error; err != nil {
		settings = models.GlobalSetting{
			SiteName:                 "BlueLearn",
			AllowRegistrations:       true,
			RequireEmailVerification: true,
			MaxLoginAttempts:         5,
			SessionTimeoutMinutes:    30,
			DefaultUserRole:          models.RoleLearner,
		}
		if err := db.Create(&settings).Error; err != nil {
			log.Printf("Error creating default settings: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load settings!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Global settings.", settings)
}

// UpdateSettings writes the singleton row. Only fields present in the
// request change.
func UpdateSettings(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSettings").(*superAdminValidator.SettingsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var admin models.User
	if err := db.Where("id = ? AND is_deleted = ?", adminId, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var settings models.GlobalSetting
	if err := db.First(&settings).Error; err != nil {
		settings = models.GlobalSetting{
			SiteName:                 "BlueLearn",
			AllowRegistrations:       true,
			RequireEmailVerification: true,
			MaxLoginAttempts:         5,
			SessionTimeoutMinutes:    30,
			DefaultUserRole:          models.RoleLearner,
		}
	}

	changes := map[string]interface{}{}
	if reqData.SiteName != nil {
		settings.SiteName = *reqData.SiteName
		changes["site_name"] = *reqData.SiteName
	}
	if reqData.SiteDescription != nil {
		settings.SiteDescription = *reqData.SiteDescription
	}
	if reqData.ContactEmail != nil {
		settings.ContactEmail = *reqData.ContactEmail
	}
	if reqData.ContactPhone != nil {
		settings.ContactPhone = *reqData.ContactPhone
	}
	if reqData.MaintenanceMode != nil {
		settings.MaintenanceMode = *reqData.MaintenanceMode
		changes["maintenance_mode"] = *reqData.MaintenanceMode
	}
	if reqData.AllowRegistrations != nil {
		settings.AllowRegistrations = *reqData.AllowRegistrations
		changes["allow_registrations"] = *reqData.AllowRegistrations
	}
	if reqData.RequireEmailVerification != nil {
		settings.RequireEmailVerification = *reqData.RequireEmailVerification
	}
	if reqData.MaxLoginAttempts != nil {
		settings.MaxLoginAttempts = *reqData.MaxLoginAttempts
	}
	if reqData.SessionTimeoutMinutes != nil {
		settings.SessionTimeoutMinutes = *reqData.SessionTimeoutMinutes
	}
	if reqData.DefaultUserRole != nil {
		settings.DefaultUserRole = *reqData.DefaultUserRole
	}
	settings.UpdatedBy = &adminId

	if err := db.Save(&settings).Error; err != nil {
		log.Printf("Error saving settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update settings!", nil)
	}

	utils.RecordAudit(c, &adminId, admin.Email, "SETTINGS_UPDATE", "Global settings updated", "GlobalSetting", settings.ID, changes)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated successfully.", settings)
}

func CreateAnnouncement(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedAnnouncement").(*superAdminValidator.AnnouncementRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	rolesJSON, err := json.Marshal(reqData.TargetRoles)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create announcement!", nil)
	}

	announcement := models.SystemAnnouncement{
		Title:       reqData.Title,
		Content:     reqData.Message,
		Priority:    reqData.Priority,
		TargetRoles: datatypes.JSON(rolesJSON),
		StartDate:   time.Now(),
		EndDate:     time.Now().Add(7 * 24 * time.Hour),
		Dismissible: true,
		CreatedBy:   adminId,
	}
	if announcement.Priority == "" {
		announcement.Priority = models.PriorityNormal
	}
	if start, ok := c.Locals("announcementStart").(time.Time); ok {
		announcement.StartDate = start
	}
	if end, ok := c.Locals("announcementEnd").(time.Time); ok {
		announcement.EndDate = end
	}
	if reqData.Dismissible != nil {
		announcement.Dismissible = *reqData.Dismissible
	}

	if err := db.Create(&announcement).Error; err != nil {
		log.Printf("Error saving announcement: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create announcement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Announcement created successfully.", announcement)
}

// ActiveAnnouncements returns the announcements currently visible to the
// caller's role.
func ActiveAnnouncements(c *fiber.Ctx) error {
	role, _ := c.Locals("userRole").(string)

	db := database.Database.Db

	now := time.Now()
	var announcements []models.SystemAnnouncement
	if err := db.Where("start_date <= ? AND end_date >= ? AND is_deleted = ?", now, now, false).
		Order("priority DESC, created_at DESC").
		Find(&announcements).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch announcements!", nil)
	}

	// Empty target_roles means everyone
	visible := make([]models.SystemAnnouncement, 0, len(announcements))
	for _, a := range announcements {
		var roles []string
		if len(a.TargetRoles) > 0 {
			if err := json.Unmarshal(a.TargetRoles, &roles); err != nil {
				log.Printf("Error decoding target roles of announcement %d: %v", a.ID, err)
				continue
			}
		}
		if len(roles) == 0 {
			visible = append(visible, a)
			continue
		}
		for _, r := range roles {
			if r == role {
				visible = append(visible, a)
				break
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Active announcements.", visible)
}

func AuditLogList(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.AuditLog{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if target := c.Query("target_model"); target != "" {
		query = query.Where("target_model = ?", target)
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC").Limit(200).Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch audit log!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit log.", entries)
}

// GenerateReport computes a named report and stores it as a SystemReport
// row.
func GenerateReport(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReport").(*superAdminValidator.ReportRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	data := buildReportData(reqData.ReportType)

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate report!", nil)
	}
	paramsJSON, _ := json.Marshal(reqData.Parameters)

	report := models.SystemReport{
		Title:       reqData.ReportType + " report",
		ReportType:  reqData.ReportType,
		Data:        datatypes.JSON(dataJSON),
		Parameters:  datatypes.JSON(paramsJSON),
		GeneratedBy: adminId,
		StartDate:   time.Now(),
		EndDate:     time.Now(),
	}
	if err := db.Create(&report).Error; err != nil {
		log.Printf("Error saving report: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate report!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Report generated successfully.", fiber.Map{
		"report": report,
		"data":   data,
	})
}

// buildReportData aggregates platform counters for one report type.
func buildReportData(reportType string) map[string]interface{} {
	db := database.Database.Db
	data := map[string]interface{}{}

	count := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		db.Model(model).Where(query, args...).Count(&n)
		return n
	}

	switch reportType {
	case models.ReportUsers:
		data["total"] = count(&models.User{}, "is_deleted = ?", false)
		data["learners"] = count(&models.User{}, "role = ? AND is_deleted = ?", models.RoleLearner, false)
		data["instructors"] = count(&models.User{}, "role = ? AND is_deleted = ?", models.RoleInstructor, false)
		data["blocked"] = count(&models.User{}, "is_blocked = ? AND is_deleted = ?", true, false)
	case models.ReportCourses:
		data["total"] = count(&courseModels.Course{}, "is_deleted = ?", false)
		data["published"] = count(&courseModels.Course{}, "is_published = ? AND is_deleted = ?", true, false)
	case models.ReportEnrollments:
		data["total"] = count(&courseModels.Enrollment{}, "is_deleted = ?", false)
		data["active"] = count(&courseModels.Enrollment{}, "status = ? AND is_deleted = ?", courseModels.EnrollActive, false)
		data["completed"] = count(&courseModels.Enrollment{}, "status = ? AND is_deleted = ?", courseModels.EnrollCompleted, false)
		data["certificates"] = count(&courseModels.Certificate{}, "is_deleted = ?", false)
	case models.ReportPartners:
		data["total"] = count(&partnerModels.Partner{}, "is_deleted = ?", false)
		data["verified"] = count(&partnerModels.Partner{}, "verification_status = ? AND is_deleted = ?", partnerModels.VerifyVerified, false)
		data["pending"] = count(&partnerModels.Partner{}, "verification_status = ? AND is_deleted = ?", partnerModels.VerifyPending, false)
	case models.ReportEngagement:
		data["lesson_completions"] = count(&courseModels.LessonProgress{}, "is_completed = ? AND is_deleted = ?", true, false)
		data["quiz_attempts"] = count(&courseModels.QuizAttempt{}, "is_deleted = ?", false)
		data["exam_attempts"] = count(&courseModels.CourseExamAttempt{}, "is_deleted = ?", false)
		data["reviews"] = count(&courseModels.Review{}, "is_deleted = ?", false)
	}

	return data
}

// TriggerBackup starts a backup synchronously and returns its record.
func TriggerBackup(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedBackup").(*superAdminValidator.BackupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var admin models.User
	if err := db.Where("id = ? AND is_deleted = ?", adminId, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	record := utils.RunBackup(reqData.BackupType, &adminId)
	if record == nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start backup!", nil)
	}

	utils.RecordAudit(c, &adminId, admin.Email, "BACKUP_TRIGGER", "Manual backup triggered", "BackupRecord", record.ID, nil)

	status := fiber.StatusCreated
	if record.Status == models.BackupFailed {
		status = fiber.StatusInternalServerError
	}
	return middleware.JsonResponse(c, status, record.Status != models.BackupFailed, "Backup "+record.Status+".", record)
}

func BackupList(c *fiber.Ctx) error {
	db := database.Database.Db

	var backups []models.BackupRecord
	if err := db.Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(50).
		Find(&backups).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch backups!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Backup list.", backups)
}

// PlatformStats is the superadmin dashboard summary.
func PlatformStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var users, courses, enrollments, partners, certificates int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&users)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&courses)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&enrollments)
	db.Model(&partnerModels.Partner{}).Where("is_deleted = ?", false).Count(&partners)
	db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false).Count(&certificates)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Platform stats.", fiber.Map{
		"users":        users,
		"courses":      courses,
		"enrollments":  enrollments,
		"partners":     partners,
		"certificates": certificates,
	})
}
