package partnerRoutes

import (
	partnerController "bluelearn/controllers/partner"
	"bluelearn/middleware"
	"bluelearn/models"
	partnerValidator "bluelearn/validators/partner"

	"github.com/gofiber/fiber/v2"
)

func SetupPartnerRoutes(app *fiber.App) {
	partnerGroup := app.Group("/partner")

	// Application is open to any authenticated user
	partnerGroup.Post("/apply", middleware.JWTMiddleware, partnerValidator.CreatePartner(), partnerController.ApplyPartner)

	partnerGroup.Get("/list", middleware.JWTMiddleware, partnerController.PartnerList)
	partnerGroup.Get("/:id", middleware.JWTMiddleware, partnerValidator.PartnerIDParam(), partnerController.PartnerDetail)

	// Profile edits, by the partner's own admins
	partnerGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RolePartnerAdmin, models.RoleAdmin), partnerValidator.UpdatePartner(), partnerController.UpdatePartner)

	// Verification is a platform admin decision
	partnerGroup.Patch("/:id/verify", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), partnerValidator.VerifyPartner(), partnerController.VerifyPartner)

	// Organization structure, managed by the partner's admins
	orgRoles := middleware.RequireRole(models.RolePartnerAdmin, models.RoleAdmin)
	partnerGroup.Post("/:id/campus", middleware.JWTMiddleware, orgRoles, partnerValidator.CreateCampus(), partnerController.CreateCampus)
	partnerGroup.Get("/:id/campuses", middleware.JWTMiddleware, partnerValidator.PartnerIDParam(), partnerController.CampusList)

	campusGroup := app.Group("/campus", middleware.JWTMiddleware, orgRoles)
	campusGroup.Post("/:campus_id/faculty", partnerValidator.CreateFaculty(), partnerController.CreateFaculty)

	app.Post("/department", middleware.JWTMiddleware, orgRoles, partnerValidator.CreateDepartment(), partnerController.CreateDepartment)

	// Invitations
	partnerGroup.Post("/:id/invitation", middleware.JWTMiddleware, orgRoles, partnerValidator.CreateInvitation(), partnerController.CreateInvitation)
	app.Post("/invitation/accept", middleware.JWTMiddleware, partnerValidator.AcceptInvitation(), partnerController.AcceptInvitation)

	partnerGroup.Get("/:id/activity", middleware.JWTMiddleware, orgRoles, partnerValidator.PartnerIDParam(), partnerController.ActivityLogList)
}
