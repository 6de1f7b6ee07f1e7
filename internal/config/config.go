// Package config loads application configuration from the environment.
// The resulting struct is built once in main and handed to each component,
// so nothing reaches for a process-wide settings object at call time.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting.
type Config struct {
	Port         int
	AllowOrigins []string

	// Google Drive (CV source folder)
	GoogleServiceAccountFile string
	GoogleDriveFolderID      string

	// LLM used for structured CV extraction
	OpenAIAPIKey string
	OpenAIModel  string

	// SendGrid
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Base URL embedded in tracking pixel links
	AppBaseURL string

	// API key required on mutating endpoints
	AdminAPIKey string
}

// Load reads the .env file when present and builds the Config from the
// environment. Missing optional values fall back to development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = 8000
	}

	allowOrigins := []string{"*"}
	if raw := os.Getenv("ALLOW_ORIGIN"); raw != "" {
		allowOrigins = strings.Split(raw, ",")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Recruiting Team"
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	return &Config{
		Port:                     port,
		AllowOrigins:             allowOrigins,
		GoogleServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		GoogleDriveFolderID:      os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:              model,
		SendGridAPIKey:           os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail:        os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:         fromName,
		AppBaseURL:               strings.TrimRight(baseURL, "/"),
		AdminAPIKey:              os.Getenv("ADMIN_API_KEY"),
	}
}
