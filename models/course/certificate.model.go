package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued once per completed enrollment. VerificationHash is a
// lookup token derived from the certificate UUID and the learner/course IDs,
// not a cryptographic signature.
type Certificate struct {
	gorm.Model
	EnrollmentID     uint      `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	LearnerID        uint      `json:"learner_id" gorm:"index;not null"`
	CourseID         uint      `json:"course_id" gorm:"index;not null"`
	CertificateID    string    `json:"certificate_id" gorm:"size:36;unique"` // UUID
	VerificationHash string    `json:"verification_hash" gorm:"size:16;unique"`
	PDFPath          string    `json:"pdf_path,omitempty" gorm:"size:500"`
	IssuedAt         time.Time `json:"issued_at"`
	IsDeleted        bool      `gorm:"default:false"`
}
