package superAdminRoutes

import (
	superAdminController "bluelearn/controllers/superAdmin"
	"bluelearn/middleware"
	"bluelearn/models"
	superAdminValidator "bluelearn/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/superadmin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	// User administration
	adminGroup.Get("/users", superAdminValidator.UserList(), superAdminController.UserList)
	adminGroup.Post("/user/:id/block", middleware.CheckPermissionMiddleware("manage-users"), superAdminValidator.BlockUser(), superAdminController.BlockUser)
	adminGroup.Post("/user/:id/unblock", middleware.CheckPermissionMiddleware("manage-users"), superAdminValidator.UserIDParam(), superAdminController.UnblockUser)

	// Global settings
	adminGroup.Get("/settings", superAdminController.GetSettings)
	adminGroup.Put("/settings", middleware.CheckPermissionMiddleware("manage-settings"), superAdminValidator.UpdateSettings(), superAdminController.UpdateSettings)

	// Announcements
	adminGroup.Post("/announcement", superAdminValidator.CreateAnnouncement(), superAdminController.CreateAnnouncement)
	app.Get("/announcements", middleware.JWTMiddleware, superAdminController.ActiveAnnouncements)

	// Reports, audit trail, backups
	adminGroup.Post("/report", middleware.CheckPermissionMiddleware("view-reports"), superAdminValidator.GenerateReport(), superAdminController.GenerateReport)
	adminGroup.Get("/audit", superAdminController.AuditLogList)
	adminGroup.Post("/backup", middleware.CheckPermissionMiddleware("run-backups"), superAdminValidator.TriggerBackup(), superAdminController.TriggerBackup)
	adminGroup.Get("/backups", superAdminController.BackupList)

	// Dashboard
	adminGroup.Get("/stats", superAdminController.PlatformStats)
}
