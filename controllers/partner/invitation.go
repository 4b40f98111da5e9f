package partnerController

import (
	"log"
	"time"

	authController "bluelearn/controllers/auth"
	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	partnerModels "bluelearn/models/partner"
	"bluelearn/utils"
	partnerValidator "bluelearn/validators/partner"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateInvitation emails an invitation token to join the partner as an
// instructor or admin. Tokens expire after 7 days.
func CreateInvitation(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	partnerID := c.Locals("partnerID").(int)
	role, _ := c.Locals("userRole").(string)

	reqData, ok := c.Locals("validatedInvitation").(*partnerValidator.InvitationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var partner partnerModels.Partner
	if err := db.Where("id = ? AND is_deleted = ?", partnerID, false).First(&partner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Partner not found!", nil)
	}

	if !isPartnerAdmin(userId, partner.ID, role) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this partner!", nil)
	}

	if partner.VerificationStatus != partnerModels.VerifyVerified {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Partner must be verified before inviting members!", nil)
	}

	// One open invitation per email per partner
	var open partnerModels.PartnerInvitation
	if err := db.Where("partner_id = ? AND email = ? AND accepted_at IS NULL AND expires_at > ? AND is_deleted = ?",
		partner.ID, reqData.Email, time.Now(), false).First(&open).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An open invitation already exists for this email!", nil)
	}

	invitation := partnerModels.PartnerInvitation{
		PartnerID: partner.ID,
		Email:     reqData.Email,
		Role:      reqData.Role,
		Token:     utils.NewInvitationToken(),
		InvitedBy: userId,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := db.Create(&invitation).Error; err != nil {
		log.Printf("Error saving invitation: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create invitation!", nil)
	}

	utils.SendInvitationEmail(invitation.Email, partner.Name, invitation.Role, invitation.Token)
	logPartnerActivity(partner.ID, &userId, "INVITATION_SENT", "Invitation sent to "+invitation.Email, nil)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Invitation sent successfully.", fiber.Map{
		"id":         invitation.ID,
		"email":      invitation.Email,
		"role":       invitation.Role,
		"expires_at": invitation.ExpiresAt,
	})
}

// AcceptInvitation redeems an invitation token for the logged-in user. The
// caller's email must match the invited address.
func AcceptInvitation(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedAccept").(*partnerValidator.AcceptInvitationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var invitation partnerModels.PartnerInvitation
	if err := db.Where("token = ? AND is_deleted = ?", reqData.Token, false).First(&invitation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invitation not found!", nil)
	}

	if invitation.AcceptedAt != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invitation has already been accepted!", nil)
	}
	if invitation.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusGone, false, "Invitation has expired!", nil)
	}
	if invitation.Email != user.Email {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This invitation was sent to a different email address!", nil)
	}

	tx := db.Begin()

	now := time.Now()
	invitation.AcceptedAt = &now
	if err := tx.Save(&invitation).Error; err != nil {
		tx.Rollback()
		log.Printf("Error accepting invitation %d: %v", invitation.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
	}

	switch invitation.Role {
	case models.RolePartnerAdmin:
		admin := partnerModels.PartnerAdmin{
			PartnerID: invitation.PartnerID,
			UserID:    userId,
		}
		if err := tx.Create(&admin).Error; err != nil {
			tx.Rollback()
			log.Printf("Error creating partner admin: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
		}
		if user.Role == models.RoleLearner {
			if err := tx.Model(&user).Update("role", models.RolePartnerAdmin).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
			}
			if err := authController.SeedPermissions(tx, models.RolePartnerAdmin, userId); err != nil {
				tx.Rollback()
				log.Printf("Error seeding partner admin permissions for user %d: %v", userId, err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
			}
		}
	case models.RoleInstructor:
		instructor := partnerModels.PartnerInstructor{
			PartnerID:    invitation.PartnerID,
			InstructorID: userId,
		}
		if err := tx.Create(&instructor).Error; err != nil {
			tx.Rollback()
			log.Printf("Error creating partner instructor: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
		}
		if user.Role == models.RoleLearner {
			if err := tx.Model(&user).Update("role", models.RoleInstructor).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
			}
			profile := models.InstructorProfile{UserID: userId}
			if err := tx.Where("user_id = ?", userId).FirstOrCreate(&profile).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
			}
			if err := authController.SeedPermissions(tx, models.RoleInstructor, userId); err != nil {
				tx.Rollback()
				log.Printf("Error seeding instructor permissions for user %d: %v", userId, err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
			}
		}
		if err := tx.Model(&partnerModels.Partner{}).
			Where("id = ?", invitation.PartnerID).
			Update("total_instructors", gorm.Expr("total_instructors + 1")).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing invitation acceptance: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to accept invitation!", nil)
	}

	logPartnerActivity(invitation.PartnerID, &userId, "INVITATION_ACCEPTED", "Invitation accepted by "+user.Email, nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Invitation accepted.", fiber.Map{
		"partner_id": invitation.PartnerID,
		"role":       invitation.Role,
	})
}

// ActivityLogList returns a partner's activity log for its admins.
func ActivityLogList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	partnerID := c.Locals("partnerID").(int)
	role, _ := c.Locals("userRole").(string)

	db := database.Database.Db

	var partner partnerModels.Partner
	if err := db.Where("id = ? AND is_deleted = ?", partnerID, false).First(&partner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Partner not found!", nil)
	}

	if !isPartnerAdmin(userId, partner.ID, role) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this partner!", nil)
	}

	var entries []partnerModels.PartnerActivityLog
	if err := db.Where("partner_id = ?", partner.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch activity log!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity log.", entries)
}
