package userController

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"bluelearn/config"
	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	"bluelearn/utils"
	userValidator "bluelearn/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func GetProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	response := fiber.Map{"user": user}

	switch user.Role {
	case models.RoleLearner:
		var profile models.LearnerProfile
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			response["learner_profile"] = profile
		}
	case models.RoleInstructor:
		var profile models.InstructorProfile
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			response["instructor_profile"] = profile
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User profile.", response)
}

func UpdateProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if reqData.Name != nil {
		user.Name = *reqData.Name
	}
	if reqData.Mobile != nil {
		user.Mobile = *reqData.Mobile
	}
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	// Instructor-only fields
	if user.Role == models.RoleInstructor && (reqData.Bio != nil || reqData.Specialization != nil || reqData.YearsExperience != nil) {
		var profile models.InstructorProfile
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			if reqData.Bio != nil {
				profile.Bio = *reqData.Bio
			}
			if reqData.Specialization != nil {
				profile.Specialization = *reqData.Specialization
			}
			if reqData.YearsExperience != nil {
				profile.YearsExperience = *reqData.YearsExperience
			}
			if err := db.Save(&profile).Error; err != nil {
				log.Printf("Error updating instructor profile %d: %v", profile.ID, err)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

const maxProfileImageBytes = 2 << 20

// UploadProfileImage stores a multipart image under the upload directory and
// records its served URL on the user.
func UploadProfileImage(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No image file in request!", nil)
	}
	if file.Size > maxProfileImageBytes {
		return middleware.ValidationErrorResponse(c, map[string]string{"image": "Image must be 2MB or smaller!"})
	}
	if !allowedImageExts[strings.ToLower(filepath.Ext(file.Filename))] {
		return middleware.ValidationErrorResponse(c, map[string]string{"image": "Only JPG, PNG and WEBP images are allowed!"})
	}

	destPath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if err != nil {
		log.Printf("Error saving profile image for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
	}

	imageURL := "/uploads/" + filepath.Base(destPath)
	if err := db.Model(&user).Update("profile_image", imageURL).Error; err != nil {
		log.Printf("Error updating profile image for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile image updated.", fiber.Map{
		"profile_image": imageURL,
	})
}

func NotificationList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*userValidator.Pagination)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	offset := (reqData.Page - 1) * reqData.Limit

	db := database.Database.Db

	var notifications []models.Notification
	var total int64
	var unread int64

	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("created_at DESC").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	db.Model(&models.Notification{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&total)
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ? AND is_deleted = ?", userId, false, false).Count(&unread)

	response := map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification list.", response)
}

func MarkNotificationRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	notificationID := c.Locals("notificationID").(int)

	db := database.Database.Db

	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", notificationID, userId, false).
		First(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := db.Save(&notification).Error; err != nil {
			log.Printf("Error marking notification %d read: %v", notification.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", notification)
}

func SendMessage(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedMessage").(*userValidator.MessageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if reqData.RecipientID == userId {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot message yourself!", nil)
	}

	var recipient models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.RecipientID, false).First(&recipient).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Recipient not found!", nil)
	}

	// A reply must reference an existing message in the caller's thread
	if reqData.ParentID != nil {
		var parent models.DirectMessage
		if err := db.Where("id = ? AND (sender_id = ? OR recipient_id = ?) AND is_deleted = ?",
			*reqData.ParentID, userId, userId, false).First(&parent).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent message not found!", nil)
		}
	}

	message := models.DirectMessage{
		SenderID:    userId,
		RecipientID: reqData.RecipientID,
		Subject:     reqData.Subject,
		Body:        reqData.Body,
		ParentID:    reqData.ParentID,
	}
	if err := db.Create(&message).Error; err != nil {
		log.Printf("Error saving message: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send message!", nil)
	}

	notification := models.Notification{
		UserID:      reqData.RecipientID,
		Title:       "New message",
		Message:     "You have a new message.",
		Type:        models.NotifyInfo,
		TargetModel: "DirectMessage",
		TargetID:    &message.ID,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Error creating message notification: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message sent successfully.", message)
}

func MarkMessageRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	messageID := c.Locals("messageID").(int)

	db := database.Database.Db

	// Only the recipient can mark a message read
	var message models.DirectMessage
	if err := db.Where("id = ? AND recipient_id = ? AND is_deleted = ?", messageID, userId, false).
		First(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found!", nil)
	}

	if !message.IsRead {
		now := time.Now()
		message.IsRead = true
		message.ReadAt = &now
		if err := db.Save(&message).Error; err != nil {
			log.Printf("Error marking message %d read: %v", message.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update message!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message marked as read.", message)
}

func MessageList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*userValidator.Pagination)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	offset := (reqData.Page - 1) * reqData.Limit

	db := database.Database.Db

	var messages []models.DirectMessage
	var total int64

	if err := db.Where("(sender_id = ? OR recipient_id = ?) AND is_deleted = ?", userId, userId, false).
		Order("created_at DESC").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&messages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	db.Model(&models.DirectMessage{}).
		Where("(sender_id = ? OR recipient_id = ?) AND is_deleted = ?", userId, userId, false).
		Count(&total)

	response := map[string]interface{}{
		"messages": messages,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message list.", response)
}
