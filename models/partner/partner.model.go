package partner

import (
	"time"

	"gorm.io/gorm"
)

// Partner types
const (
	TypeInstitution = "INSTITUTION"
	TypeCorporate   = "CORPORATE"
	TypeIndividual  = "INDIVIDUAL"
	TypeGovernment  = "GOVERNMENT"
	TypeNonprofit   = "NONPROFIT"
	TypeBootcamp    = "BOOTCAMP"
)

// Partnership tiers
const (
	TierBasic      = "BASIC"
	TierPremium    = "PREMIUM"
	TierEnterprise = "ENTERPRISE"
)

// Verification statuses
const (
	VerifyPending   = "PENDING"
	VerifyVerified  = "VERIFIED"
	VerifyRejected  = "REJECTED"
	VerifySuspended = "SUSPENDED"
)

// Partner is an organization that scopes its own instructors, courses and
// learners (the tenant of the platform).
type Partner struct {
	gorm.Model
	PublicID    string `json:"public_id" gorm:"size:36;uniqueIndex"` // UUID exposed in URLs
	PartnerCode string `json:"partner_code" gorm:"size:50;unique"`   // generated, e.g. PTR-AB12CD34
	Name        string `json:"name" gorm:"size:200;index"`
	Slug        string `json:"slug" gorm:"size:200;unique"`
	PartnerType string `json:"partner_type" gorm:"default:'INSTITUTION'"`
	Tier        string `json:"tier" gorm:"default:'BASIC'"`

	ContactEmail string `json:"contact_email" gorm:"size:150;unique"`
	ContactPhone string `json:"contact_phone" gorm:"size:20"`
	Website      string `json:"website" gorm:"size:255"`

	AddressLine1  string `json:"address_line1" gorm:"size:255"`
	AddressLine2  string `json:"address_line2" gorm:"size:255"`
	City          string `json:"city" gorm:"size:100"`
	StateProvince string `json:"state_province" gorm:"size:100"`
	Country       string `json:"country" gorm:"size:100"`

	LogoURL          string `json:"logo_url" gorm:"size:500"`
	ShortDescription string `json:"short_description" gorm:"size:200"`
	FullDescription  string `json:"full_description" gorm:"type:text"`
	EstablishedYear  int    `json:"established_year" gorm:"default:0"`
	RegistrationNo   string `json:"registration_number" gorm:"size:50"`

	VerificationStatus string     `json:"verification_status" gorm:"default:'PENDING';index"` // PENDING, VERIFIED, REJECTED, SUSPENDED
	VerifiedBy         *uint      `json:"verified_by"`
	VerifiedAt         *time.Time `json:"verified_at"`
	RejectionReason    string     `json:"rejection_reason" gorm:"type:text"`
	RegistryApproved   bool       `json:"registry_approved" gorm:"default:false"` // external business registry lookup

	TotalCampuses    int  `json:"total_campuses" gorm:"default:0"`
	TotalInstructors int  `json:"total_instructors" gorm:"default:0"`
	TotalStudents    int  `json:"total_students" gorm:"default:0"`
	IsDeleted        bool `gorm:"default:false"`
}

// PartnerAdmin links a PARTNER_ADMIN user to the partner they manage.
type PartnerAdmin struct {
	gorm.Model
	PartnerID uint   `json:"partner_id" gorm:"index;not null;uniqueIndex:idx_partner_admin"`
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_partner_admin"`
	Title     string `json:"title" gorm:"size:100"`
	IsPrimary bool   `json:"is_primary" gorm:"default:false"`
	IsDeleted bool   `gorm:"default:false"`
}

// PartnerInstructor attaches an instructor to a partner, optionally scoped
// to a department.
type PartnerInstructor struct {
	gorm.Model
	PartnerID    uint  `json:"partner_id" gorm:"index;not null;uniqueIndex:idx_partner_instructor"`
	InstructorID uint  `json:"instructor_id" gorm:"not null;uniqueIndex:idx_partner_instructor"`
	DepartmentID *uint `json:"department_id" gorm:"index"`
	IsActive     bool  `json:"is_active" gorm:"default:true"`
	IsDeleted    bool  `gorm:"default:false"`
}
