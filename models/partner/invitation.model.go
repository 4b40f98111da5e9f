package partner

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PartnerInvitation lets a partner admin invite users (instructors, admins)
// by email. Token is a UUID sent in the invitation link.
type PartnerInvitation struct {
	gorm.Model
	PartnerID  uint       `json:"partner_id" gorm:"index;not null"`
	Email      string     `json:"email" gorm:"size:150;index"`
	Role       string     `json:"role" gorm:"size:20"` // INSTRUCTOR or PARTNER_ADMIN
	Token      string     `json:"-" gorm:"size:36;uniqueIndex"`
	InvitedBy  uint       `json:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	IsDeleted  bool       `gorm:"default:false"`
}

// PartnerActivityLog is an append-only record of partner-scoped actions.
type PartnerActivityLog struct {
	gorm.Model
	PartnerID   uint           `json:"partner_id" gorm:"index;not null"`
	UserID      *uint          `json:"user_id"`
	Action      string         `json:"action" gorm:"size:50"`
	Description string         `json:"description" gorm:"size:255"`
	Details     datatypes.JSON `json:"details,omitempty"`
}
