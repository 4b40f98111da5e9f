package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	EmailSender    string
	Password       string // SMTP password
	SendGridAPIKey string // Preferred over SMTP when set

	RegistryApiURL string // Business registry lookup for partner verification
	RegistryApiKey string

	EnrollmentValidityDays int // ACTIVE enrollments older than this expire
	BackupDir              string
	UploadDir              string // Served statically from /uploads
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@bluelearn.io"),
		Password:       getEnv("EMAIL_PASSWORD", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		RegistryApiURL: getEnv("REGISTRY_API_URL", "https://registry.bluelearn.io/v1/"),
		RegistryApiKey: getEnv("REGISTRY_API_KEY", ""),

		EnrollmentValidityDays: getEnvInt("ENROLLMENT_VALIDITY_DAYS", 365),
		BackupDir:              getEnv("BACKUP_DIR", "./backups"),
		UploadDir:              getEnv("UPLOAD_DIR", "./public/uploads"),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
