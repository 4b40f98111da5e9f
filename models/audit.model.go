package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of administrative and user actions.
// Rows are never updated or soft-deleted.
type AuditLog struct {
	gorm.Model
	UserID      *uint          `gorm:"index" json:"user_id"`
	UserEmail   string         `gorm:"size:150" json:"user_email"` // email at time of action
	Action      string         `gorm:"size:50;index" json:"action"`
	Description string         `gorm:"size:255" json:"description"`
	TargetModel string         `gorm:"size:100;index" json:"target_model"`
	TargetID    uint           `json:"target_id"`
	Changes     datatypes.JSON `json:"changes,omitempty"`
	IPAddress   string         `gorm:"size:45" json:"ip_address"`
	UserAgent   string         `gorm:"type:text" json:"user_agent"`
}
