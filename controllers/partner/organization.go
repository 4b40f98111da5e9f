package partnerController

import (
	"log"

	"bluelearn/database"
	"bluelearn/middleware"
	partnerModels "bluelearn/models/partner"
	"bluelearn/utils"
	partnerValidator "bluelearn/validators/partner"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateCampus adds a campus under a verified partner. Campus names are
// unique per partner.
func CreateCampus(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	partnerID := c.Locals("partnerID").(int)
	role, _ := c.Locals("userRole").(string)

	reqData, ok := c.Locals("validatedCampus").(*partnerValidator.CampusRequest)
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Partner must be verified before adding campuses!", nil)
	}

	var existing partnerModels.Campus
	if err := db.Where("partner_id = ? AND name = ? AND is_deleted = ?", partner.ID, reqData.Name, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A campus with this name already exists!", nil)
	}

	code := reqData.Code
	if code == "" {
		code = utils.Slugify(reqData.Name)
	}

	campus := partnerModels.Campus{
		PartnerID:     partner.ID,
		Name:          reqData.Name,
		Code:          code,
		AddressLine1:  reqData.AddressLine1,
		City:          reqData.City,
		StateProvince: reqData.StateProvince,
		Country:       reqData.Country,
		ContactEmail:  reqData.ContactEmail,
		ContactPhone:  reqData.ContactPhone,
		IsMainCampus:  reqData.IsMainCampus,
	}

	tx := db.Begin()

	// Only one main campus per partner
	if campus.IsMainCampus {
		if err := tx.Model(&partnerModels.Campus{}).
			Where("partner_id = ?", partner.ID).
			Update("is_main_campus", false).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create campus!", nil)
		}
	}

	if err := tx.Create(&campus).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving campus: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create campus!", nil)
	}

	if err := tx.Model(&partner).Update("total_campuses", gorm.Expr("total_campuses + 1")).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create campus!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing campus creation: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create campus!", nil)
	}

	logPartnerActivity(partner.ID, &userId, "CAMPUS_CREATE", "Campus created: "+campus.Name, nil)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Campus created successfully.", campus)
}

func CampusList(c *fiber.Ctx) error {
	partnerID := c.Locals("partnerID").(int)

	db := database.Database.Db

	var campuses []partnerModels.Campus
	if err := db.Where("partner_id = ? AND is_deleted = ?", partnerID, false).
		Order("is_main_campus DESC, name ASC").
		Find(&campuses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch campuses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Campus list.", campuses)
}

// CreateFaculty adds a faculty under a campus. Faculty names are unique per
// campus.
func CreateFaculty(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	campusID := c.Locals("campusID").(int)
	role, _ := c.Locals("userRole").(string)

	reqData, ok := c.Locals("validatedFaculty").(*partnerValidator.FacultyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var campus partnerModels.Campus
	if err := db.Where("id = ? AND is_deleted = ?", campusID, false).First(&campus).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Campus not found!", nil)
	}

	if !isPartnerAdmin(userId, campus.PartnerID, role) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this partner!", nil)
	}

	var existing partnerModels.Faculty
	if err := db.Where("campus_id = ? AND name = ? AND is_deleted = ?", campus.ID, reqData.Name, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A faculty with this name already exists!", nil)
	}

	faculty := partnerModels.Faculty{
		CampusID:     campus.ID,
		Name:         reqData.Name,
		Code:         reqData.Code,
		Description:  reqData.Description,
		ContactEmail: reqData.ContactEmail,
	}
	if err := db.Create(&faculty).Error; err != nil {
		log.Printf("Error saving faculty: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create faculty!", nil)
	}

	logPartnerActivity(campus.PartnerID, &userId, "FACULTY_CREATE", "Faculty created: "+faculty.Name, nil)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Faculty created successfully.", faculty)
}

// CreateDepartment adds a department under exactly one of a faculty or a
// campus.
func CreateDepartment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	reqData, ok := c.Locals("validatedDepartment").(*partnerValidator.DepartmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Resolve the owning partner through the parent
	var partnerID uint
	var parentCampus *uint

	if reqData.FacultyID != nil {
		var faculty partnerModels.Faculty
		if err := db.Where("id = ? AND is_deleted = ?", *reqData.FacultyID, false).First(&faculty).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Faculty not found!", nil)
		}
		var campus partnerModels.Campus
		if err := db.Where("id = ? AND is_deleted = ?", faculty.CampusID, false).First(&campus).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Campus not found!", nil)
		}
		partnerID = campus.PartnerID
		parentCampus = nil
	} else {
		var campus partnerModels.Campus
		if err := db.Where("id = ? AND is_deleted = ?", *reqData.CampusID, false).First(&campus).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Campus not found!", nil)
		}
		partnerID = campus.PartnerID
		parentCampus = reqData.CampusID
	}

	if !isPartnerAdmin(userId, partnerID, role) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this partner!", nil)
	}

	department := partnerModels.Department{
		FacultyID:   reqData.FacultyID,
		CampusID:    parentCampus,
		Name:        reqData.Name,
		Code:        reqData.Code,
		Description: reqData.Description,
	}

	tx := db.Begin()

	if err := tx.Create(&department).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create department!", nil)
	}

	if reqData.FacultyID != nil {
		if err := tx.Model(&partnerModels.Faculty{}).
			Where("id = ?", *reqData.FacultyID).
			Update("total_departments", gorm.Expr("total_departments + 1")).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create department!", nil)
		}
	} else {
		if err := tx.Model(&partnerModels.Campus{}).
			Where("id = ?", *reqData.CampusID).
			Update("total_departments", gorm.Expr("total_departments + 1")).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create department!", nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing department creation: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create department!", nil)
	}

	logPartnerActivity(partnerID, &userId, "DEPARTMENT_CREATE", "Department created: "+department.Name, nil)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Department created successfully.", department)
}
