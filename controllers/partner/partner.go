package partnerController

import (
	"encoding/json"
	"log"
	"time"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	partnerModels "bluelearn/models/partner"
	"bluelearn/utils"
	partnerValidator "bluelearn/validators/partner"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// logPartnerActivity appends a partner-scoped activity row. Failures are
// logged, never surfaced.
func logPartnerActivity(partnerID uint, userID *uint, action, description string, details map[string]interface{}) {
	var detailsJSON datatypes.JSON
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			detailsJSON = datatypes.JSON(raw)
		}
	}

	entry := partnerModels.PartnerActivityLog{
		PartnerID:   partnerID,
		UserID:      userID,
		Action:      action,
		Description: description,
		Details:     detailsJSON,
	}
	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("Error writing partner activity log: %v", err)
	}
}

// ApplyPartner registers a new partner organization in PENDING state. When
// a registration number is supplied the external business registry is
// consulted; a confirmed registration pre-approves the application for
// admin review.
func ApplyPartner(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedPartner").(*partnerValidator.PartnerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := db.Where("contact_email = ? AND is_deleted = ?", reqData.ContactEmail, false).
		First(&partnerModels.Partner{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A partner with this contact email already exists!", nil)
	}

	slug := utils.UniqueSlug(utils.Slugify(reqData.Name), func(s string) bool {
		var count int64
		db.Model(&partnerModels.Partner{}).Where("slug = ?", s).Count(&count)
		return count > 0
	})

	partnerType := reqData.PartnerType
	if partnerType == "" {
		partnerType = partnerModels.TypeInstitution
	}

	partner := partnerModels.Partner{
		PublicID:         utils.NewInvitationToken(),
		PartnerCode:      utils.NewPartnerCode(),
		Name:             reqData.Name,
		Slug:             slug,
		PartnerType:      partnerType,
		Tier:             partnerModels.TierBasic,
		ContactEmail:     reqData.ContactEmail,
		ContactPhone:     reqData.ContactPhone,
		Website:          reqData.Website,
		AddressLine1:     reqData.AddressLine1,
		AddressLine2:     reqData.AddressLine2,
		City:             reqData.City,
		StateProvince:    reqData.StateProvince,
		Country:          reqData.Country,
		ShortDescription: reqData.ShortDescription,
		FullDescription:  reqData.FullDescription,
		EstablishedYear:  reqData.EstablishedYear,
		RegistrationNo:   reqData.RegistrationNo,
	}

	// Business registry lookup; a failed lookup leaves the application for
	// manual verification
	if reqData.RegistrationNo != "" {
		if approved, err := utils.VerifyBusinessRegistration(reqData.RegistrationNo, reqData.Country); err == nil {
			partner.RegistryApproved = approved
		}
	}

	tx := db.Begin()

	if err := tx.Create(&partner).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving partner: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit partner application!", nil)
	}

	admin := partnerModels.PartnerAdmin{
		PartnerID: partner.ID,
		UserID:    userId,
		IsPrimary: true,
	}
	if err := tx.Create(&admin).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving partner admin: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit partner application!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing partner application: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit partner application!", nil)
	}

	logPartnerActivity(partner.ID, &userId, "PARTNER_APPLY", "Partner application submitted", map[string]interface{}{
		"registry_approved": partner.RegistryApproved,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Partner application submitted.", partner)
}

// VerifyPartner lets a platform admin approve, reject or suspend a partner.
func VerifyPartner(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	partnerID := c.Locals("partnerID").(int)

	reqData, ok := c.Locals("validatedVerify").(*partnerValidator.VerifyPartnerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var partner partnerModels.Partner
	if err := db.Where("id = ? AND is_deleted = ?", partnerID, false).First(&partner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Partner not found!", nil)
	}

	if partner.VerificationStatus == reqData.Status {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Partner is already in this state!", nil)
	}

	previous := partner.VerificationStatus
	partner.VerificationStatus = reqData.Status
	switch reqData.Status {
	case partnerModels.VerifyVerified:
		now := time.Now()
		partner.VerifiedBy = &userId
		partner.VerifiedAt = &now
		partner.RejectionReason = ""
	case partnerModels.VerifyRejected:
		partner.RejectionReason = reqData.Reason
	}

	if err := db.Save(&partner).Error; err != nil {
		log.Printf("Error updating partner %d: %v", partner.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update partner!", nil)
	}

	utils.RecordAudit(c, &userId, user.Email, "PARTNER_"+reqData.Status, "Partner verification status changed", "Partner", partner.ID,
		map[string]interface{}{"from": previous, "to": reqData.Status})
	logPartnerActivity(partner.ID, &userId, "STATUS_"+reqData.Status, "Verification status changed", nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Partner status updated.", partner)
}

// UpdatePartner edits a partner's own contact and branding fields. The
// verification lifecycle is VerifyPartner's job.
func UpdatePartner(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	partnerID := c.Locals("partnerID").(int)
	role, _ := c.Locals("userRole").(string)

	reqData, ok := c.Locals("validatedPartnerUpdate").(*partnerValidator.UpdatePartnerRequest)
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

	if reqData.ContactPhone != nil {
		partner.ContactPhone = *reqData.ContactPhone
	}
	if reqData.Website != nil {
		partner.Website = *reqData.Website
	}
	if reqData.AddressLine1 != nil {
		partner.AddressLine1 = *reqData.AddressLine1
	}
	if reqData.AddressLine2 != nil {
		partner.AddressLine2 = *reqData.AddressLine2
	}
	if reqData.City != nil {
		partner.City = *reqData.City
	}
	if reqData.StateProvince != nil {
		partner.StateProvince = *reqData.StateProvince
	}
	if reqData.Country != nil {
		partner.Country = *reqData.Country
	}
	if reqData.LogoURL != nil {
		partner.LogoURL = *reqData.LogoURL
	}
	if reqData.ShortDescription != nil {
		partner.ShortDescription = *reqData.ShortDescription
	}
	if reqData.FullDescription != nil {
		partner.FullDescription = *reqData.FullDescription
	}
	if reqData.EstablishedYear != nil {
		partner.EstablishedYear = *reqData.EstablishedYear
	}

	if err := db.Save(&partner).Error; err != nil {
		log.Printf("Error updating partner %d: %v", partner.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update partner!", nil)
	}

	logPartnerActivity(partner.ID, &userId, "PARTNER_UPDATE", "Partner profile updated", nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Partner updated successfully.", partner)
}

// PartnerList is admin-facing and includes pending applications.
func PartnerList(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Where("is_deleted = ?", false)
	if status := c.Query("status"); status != "" {
		query = query.Where("verification_status = ?", status)
	}

	var partners []partnerModels.Partner
	if err := query.Order("created_at DESC").Find(&partners).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch partners!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Partner list.", partners)
}

func PartnerDetail(c *fiber.Ctx) error {
	partnerID := c.Locals("partnerID").(int)

	db := database.Database.Db

	var partner partnerModels.Partner
	if err := db.Where("id = ? AND is_deleted = ?", partnerID, false).First(&partner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Partner not found!", nil)
	}

	var campuses []partnerModels.Campus
	db.Where("partner_id = ? AND is_deleted = ?", partner.ID, false).Find(&campuses)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Partner detail.", fiber.Map{
		"partner":  partner,
		"campuses": campuses,
	})
}

// isPartnerAdmin reports whether the user administers the partner or is a
// platform admin.
func isPartnerAdmin(userID uint, partnerID uint, role string) bool {
	if role == models.RoleAdmin {
		return true
	}
	var count int64
	database.Database.Db.Model(&partnerModels.PartnerAdmin{}).
		Where("partner_id = ? AND user_id = ? AND is_deleted = ?", partnerID, userID, false).
		Count(&count)
	return count > 0
}
