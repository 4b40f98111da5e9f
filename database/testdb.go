package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectTestDb opens a fresh in-memory SQLite database, runs migrations and
// installs it as the global instance. Each call gets its own database, so
// tests stay isolated.
func ConnectTestDb() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive for the
	// lifetime of the test.
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get test database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	runMigrations(db)

	Database = DbInstance{Db: db}
	return db
}
