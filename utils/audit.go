package utils

import (
	"encoding/json"
	"log"

	"bluelearn/database"
	"bluelearn/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// RecordAudit appends an audit log row. Failures are logged, never surfaced
// to the caller.
func RecordAudit(c *fiber.Ctx, userID *uint, userEmail, action, description, targetModel string, targetID uint, changes map[string]interface{}) {
	var changesJSON datatypes.JSON
	if changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			changesJSON = datatypes.JSON(raw)
		}
	}

	entry := models.AuditLog{
		UserID:      userID,
		UserEmail:   userEmail,
		Action:      action,
		Description: description,
		TargetModel: targetModel,
		TargetID:    targetID,
		Changes:     changesJSON,
	}
	if c != nil {
		entry.IPAddress = c.IP()
		entry.UserAgent = c.Get("User-Agent")
	}

	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("Error writing audit log (%s %s/%d): %v", action, targetModel, targetID, err)
	}
}
