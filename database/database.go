package database

import (
	"fmt"
	"log"
	"os"

	"bluelearn/models"
	courseModels "bluelearn/models/course"
	partnerModels "bluelearn/models/partner"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	runMigrations(db)

	Database = DbInstance{Db: db}
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		// accounts
		&models.User{},
		&models.LearnerProfile{},
		&models.InstructorProfile{},
		&models.OTP{},
		&models.LoginTracking{},
		&models.Permission{},

		// courses
		&courseModels.Course{},
		&courseModels.CoursePrerequisite{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.QuizAttempt{},
		&courseModels.CourseExam{},
		&courseModels.ExamQuestion{},
		&courseModels.CourseExamAttempt{},
		&courseModels.Enrollment{},
		&courseModels.LessonProgress{},
		&courseModels.Review{},
		&courseModels.Certificate{},

		// partner
		&partnerModels.Partner{},
		&partnerModels.PartnerAdmin{},
		&partnerModels.PartnerInstructor{},
		&partnerModels.Campus{},
		&partnerModels.Faculty{},
		&partnerModels.Department{},
		&partnerModels.PartnerInvitation{},
		&partnerModels.PartnerActivityLog{},

		// superadmin
		&models.GlobalSetting{},
		&models.SystemAnnouncement{},
		&models.Notification{},
		&models.DirectMessage{},
		&models.AuditLog{},
		&models.SystemReport{},
		&models.BackupRecord{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
