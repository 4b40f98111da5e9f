package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GlobalSetting is a singleton row of platform-wide settings. Updates always
// write to the first row.
type GlobalSetting struct {
	gorm.Model
	SiteName                 string `gorm:"size:100;default:'BlueLearn'" json:"site_name"`
	SiteDescription          string `gorm:"type:text" json:"site_description"`
	ContactEmail             string `gorm:"size:150" json:"contact_email"`
	ContactPhone             string `gorm:"size:20" json:"contact_phone"`
	MaintenanceMode          bool   `gorm:"default:false" json:"maintenance_mode"`
	AllowRegistrations       bool   `gorm:"default:true" json:"allow_registrations"`
	RequireEmailVerification bool   `gorm:"default:true" json:"require_email_verification"`
	MaxLoginAttempts         int    `gorm:"default:5" json:"max_login_attempts"`
	SessionTimeoutMinutes    int    `gorm:"default:30" json:"session_timeout_minutes"`
	DefaultUserRole          string `gorm:"default:'LEARNER'" json:"default_user_role"`
	UpdatedBy                *uint  `json:"updated_by"`
}

// Announcement priorities
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// SystemAnnouncement is shown to users whose role is in TargetRoles while
// the current time falls inside [StartDate, EndDate].
type SystemAnnouncement struct {
	gorm.Model
	Title       string         `gorm:"size:200" json:"title"`
	Content     string         `gorm:"type:text" json:"content"`
	Priority    string         `gorm:"default:'NORMAL'" json:"priority"` // LOW, NORMAL, HIGH, URGENT
	TargetRoles datatypes.JSON `json:"target_roles"`                     // e.g. ["LEARNER","INSTRUCTOR"]
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Dismissible bool           `gorm:"default:true" json:"dismissible"`
	CreatedBy   uint           `json:"created_by"`
	IsDeleted   bool           `gorm:"default:false"`
}

// Report types
const (
	ReportUsers       = "USERS"
	ReportCourses     = "COURSES"
	ReportEnrollments = "ENROLLMENTS"
	ReportPartners    = "PARTNERS"
	ReportEngagement  = "ENGAGEMENT"
)

type SystemReport struct {
	gorm.Model
	Title       string         `gorm:"size:200" json:"title"`
	ReportType  string         `gorm:"size:20;index" json:"report_type"`
	Data        datatypes.JSON `json:"data"`
	Parameters  datatypes.JSON `json:"parameters"`
	GeneratedBy uint           `json:"generated_by"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	IsDeleted   bool           `gorm:"default:false"`
}

// Backup types and statuses
const (
	BackupFull     = "FULL"
	BackupDatabase = "DATABASE"
	BackupMedia    = "MEDIA"

	BackupPending    = "PENDING"
	BackupInProgress = "IN_PROGRESS"
	BackupCompleted  = "COMPLETED"
	BackupFailed     = "FAILED"
)

type BackupRecord struct {
	gorm.Model
	Name         string     `gorm:"size:200" json:"name"`
	BackupType   string     `gorm:"size:20" json:"backup_type"`       // FULL, DATABASE, MEDIA
	Status       string     `gorm:"default:'PENDING'" json:"status"`  // PENDING, IN_PROGRESS, COMPLETED, FAILED
	FilePath     string     `gorm:"size:500" json:"file_path"`
	FileSizeMB   int        `gorm:"default:0" json:"file_size_mb"`
	TriggeredBy  *uint      `json:"triggered_by"` // nil for scheduled backups
	CompletedAt  *time.Time `json:"completed_at"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	IsDeleted    bool       `gorm:"default:false"`
}
