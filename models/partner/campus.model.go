package partner

import "gorm.io/gorm"

// Campus is a branch of a partner organization. Name is unique per partner.
type Campus struct {
	gorm.Model
	PartnerID uint   `json:"partner_id" gorm:"index;not null;uniqueIndex:idx_partner_campus"`
	Name      string `json:"name" gorm:"size:200;uniqueIndex:idx_partner_campus"`
	Code      string `json:"code" gorm:"size:50"` // derived from name when empty

	AddressLine1  string `json:"address_line1" gorm:"size:255"`
	City          string `json:"city" gorm:"size:100"`
	StateProvince string `json:"state_province" gorm:"size:100"`
	Country       string `json:"country" gorm:"size:100"`

	ContactEmail string `json:"contact_email" gorm:"size:150"`
	ContactPhone string `json:"contact_phone" gorm:"size:20"`
	HeadUserID   *uint  `json:"head_user_id"`

	IsMainCampus bool `json:"is_main_campus" gorm:"default:false"`
	IsActive     bool `json:"is_active" gorm:"default:true"`

	TotalDepartments int  `json:"total_departments" gorm:"default:0"`
	IsDeleted        bool `gorm:"default:false"`
}

// Faculty is a school within a university-type campus. Name is unique per
// campus.
type Faculty struct {
	gorm.Model
	CampusID    uint   `json:"campus_id" gorm:"index;not null;uniqueIndex:idx_campus_faculty"`
	Name        string `json:"name" gorm:"size:200;uniqueIndex:idx_campus_faculty"`
	Code        string `json:"code" gorm:"size:50"`
	Description string `json:"description" gorm:"type:text"`
	DeanUserID  *uint  `json:"dean_user_id"`

	ContactEmail string `json:"contact_email" gorm:"size:150"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	TotalDepartments int  `json:"total_departments" gorm:"default:0"`
	IsDeleted        bool `gorm:"default:false"`
}

// Department belongs to exactly one of a faculty or a campus (for partners
// without faculties). The validator enforces the exactly-one-parent rule.
type Department struct {
	gorm.Model
	FacultyID *uint `json:"faculty_id" gorm:"index"`
	CampusID  *uint `json:"campus_id" gorm:"index"`

	Name        string `json:"name" gorm:"size:200"`
	Code        string `json:"code" gorm:"size:50"`
	Description string `json:"description" gorm:"type:text"`
	HeadUserID  *uint  `json:"head_user_id"`

	ContactEmail string `json:"contact_email" gorm:"size:150"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	TotalInstructors int  `json:"total_instructors" gorm:"default:0"`
	TotalCourses     int  `json:"total_courses" gorm:"default:0"`
	IsDeleted        bool `gorm:"default:false"`
}
