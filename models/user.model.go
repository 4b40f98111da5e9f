package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleLearner      = "LEARNER"
	RoleInstructor   = "INSTRUCTOR"
	RolePartnerAdmin = "PARTNER_ADMIN"
	RoleAdmin        = "ADMIN"
)

type User struct {
	gorm.Model
	ProfileImage        string     `gorm:"default:''" json:"profile_image"`
	Name                string     `gorm:"default:''" json:"name"`
	Email               string     `gorm:"unique;not null" json:"email"`
	Mobile              string     `gorm:"default:''" json:"mobile"`
	Role                string     `gorm:"default:'LEARNER'" json:"role"` // LEARNER, INSTRUCTOR, PARTNER_ADMIN, ADMIN
	Password            string     `gorm:"not null" json:"-"`
	IsEmailVerified     bool       `gorm:"default:false" json:"is_email_verified"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"is_blocked"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}

// LearnerProfile holds learner-specific data, one per LEARNER user
type LearnerProfile struct {
	gorm.Model
	UserID    uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	RegNumber string `gorm:"unique" json:"reg_number"`
	IsDeleted bool   `gorm:"default:false" json:"-"`
}

// InstructorProfile holds instructor-specific data, one per INSTRUCTOR user
type InstructorProfile struct {
	gorm.Model
	UserID          uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio             string     `gorm:"type:text" json:"bio"`
	Specialization  string     `json:"specialization"`
	YearsExperience int        `gorm:"default:0" json:"years_experience"`
	IsVerified      bool       `gorm:"default:false" json:"is_verified"`
	VerifiedBy      *uint      `json:"verified_by"`
	VerifiedAt      *time.Time `json:"verified_at"`
	IsDeleted       bool       `gorm:"default:false" json:"-"`
}
