package courseController

import (
	"log"
	"time"

	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	"bluelearn/utils"

	"github.com/gofiber/fiber/v2"
)

// IssueCertificate issues a certificate for the caller's completed
// enrollment. One certificate per enrollment.
func IssueCertificate(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, course.ID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	if enrollment.Status != courseModels.EnrollCompleted {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course is not completed yet!", nil)
	}

	var existing courseModels.Certificate
	if err := db.Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already issued for this enrollment!", existing)
	}

	certID := utils.NewCertificateID()
	certificate := courseModels.Certificate{
		EnrollmentID:     enrollment.ID,
		LearnerID:        userId,
		CourseID:         course.ID,
		CertificateID:    certID,
		VerificationHash: utils.CertificateVerificationHash(certID, userId, course.ID),
		IssuedAt:         time.Now(),
	}

	tx := db.Begin()

	if err := tx.Create(&certificate).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving certificate: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	if err := tx.Model(&enrollment).Update("certificate_issued", true).Error; err != nil {
		tx.Rollback()
		log.Printf("Error flagging enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing certificate issue: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	utils.SendCertificateEmail(user.Email, user.Name, course.Title, certificate.VerificationHash)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully.", certificate)
}

// VerifyCertificate is a public lookup by verification hash.
func VerifyCertificate(c *fiber.Ctx) error {
	hash := c.Locals("verificationHash").(string)

	db := database.Database.Db

	var certificate courseModels.Certificate
	if err := db.Where("verification_hash = ? AND is_deleted = ?", hash, false).
		First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var course courseModels.Course
	db.Select("title").Where("id = ?", certificate.CourseID).First(&course)

	var learner models.User
	db.Select("name").Where("id = ?", certificate.LearnerID).First(&learner)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", fiber.Map{
		"certificate_id": certificate.CertificateID,
		"learner_name":   learner.Name,
		"course_title":   course.Title,
		"issued_at":      certificate.IssuedAt,
	})
}

// UserCertificateList returns every certificate the caller has earned.
func UserCertificateList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var certificates []courseModels.Certificate
	if err := db.Where("learner_id = ? AND is_deleted = ?", userId, false).
		Order("issued_at DESC").
		Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate list.", certificates)
}
