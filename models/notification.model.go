package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification types
const (
	NotifyInfo    = "INFO"
	NotifySuccess = "SUCCESS"
	NotifyWarning = "WARNING"
	NotifyError   = "ERROR"
)

type Notification struct {
	gorm.Model
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:200" json:"title"`
	Message     string     `gorm:"type:text" json:"message"`
	Type        string     `gorm:"default:'INFO'" json:"type"` // INFO, SUCCESS, WARNING, ERROR
	TargetURL   string     `gorm:"size:500" json:"target_url,omitempty"`
	TargetModel string     `gorm:"size:100" json:"target_model,omitempty"`
	TargetID    *uint      `json:"target_id,omitempty"`
	IsRead      bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt      *time.Time `json:"read_at"`
	IsDeleted   bool       `gorm:"default:false"`
}

// DirectMessage is a user-to-user message, optionally threaded via ParentID
type DirectMessage struct {
	gorm.Model
	SenderID    uint       `gorm:"index;not null" json:"sender_id"`
	RecipientID uint       `gorm:"index;not null" json:"recipient_id"`
	Subject     string     `gorm:"size:255" json:"subject"`
	Body        string     `gorm:"type:text" json:"body"`
	IsRead      bool       `gorm:"default:false" json:"is_read"`
	ReadAt      *time.Time `json:"read_at"`
	ParentID    *uint      `gorm:"index" json:"parent_id,omitempty"`
	IsDeleted   bool       `gorm:"default:false"`
}
