package utils

import (
	"log"
	"time"

	"bluelearn/config"
	"bluelearn/database"
	"bluelearn/models"
	courseModels "bluelearn/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeEnrollmentScheduler sets up the enrollment expiry scheduler
func InitializeEnrollmentScheduler() {
	log.Println("[ENROLLMENT-SCHEDULER] Initializing enrollment scheduler...")

	c := cron.New()

	// Run hourly to expire stale enrollments
	c.AddFunc("0 * * * *", func() {
		log.Println("[ENROLLMENT-SCHEDULER] Running enrollment expiry check...")
		ExpireStaleEnrollments()
	})

	c.Start()
	log.Println("[ENROLLMENT-SCHEDULER] Enrollment scheduler started - runs hourly")
}

// ExpireStaleEnrollments marks ACTIVE enrollments past the configured
// validity window as EXPIRED and notifies the learner.
func ExpireStaleEnrollments() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.EnrollmentValidityDays)

	var stale []courseModels.Enrollment
	if err := db.
		Where("status = ? AND is_deleted = ? AND created_at < ?", courseModels.EnrollActive, false, cutoff).
		Find(&stale).Error; err != nil {
		log.Printf("[ENROLLMENT-SCHEDULER] Error fetching stale enrollments: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}
	log.Printf("[ENROLLMENT-SCHEDULER] Found %d enrollments to expire", len(stale))

	for _, enrollment := range stale {
		if err := db.Model(&courseModels.Enrollment{}).
			Where("id = ?", enrollment.ID).
			Update("status", courseModels.EnrollExpired).Error; err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error expiring enrollment %d: %v", enrollment.ID, err)
			continue
		}

		var course courseModels.Course
		db.Where("id = ?", enrollment.CourseID).First(&course)

		// LearnerID on an enrollment is the user ID, not the profile ID.
		notification := models.Notification{
			UserID:      enrollment.LearnerID,
			Title:       "Enrollment expired",
			Message:     "Your enrollment in \"" + course.Title + "\" has expired.",
			Type:        models.NotifyWarning,
			TargetModel: "enrollment",
			TargetID:    &enrollment.ID,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("[ENROLLMENT-SCHEDULER] Error creating notification for enrollment %d: %v", enrollment.ID, err)
		}
	}
}
