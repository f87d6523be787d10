package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// Webhook ingress
	WebhookToken string
	WebhookRate  float64
	WebhookBurst int

	// Admin surface
	AdminToken     string
	AllowedOrigins string

	// Intake tuning
	Timezone            string
	LookbackDays        int
	SegmentWindowDays   int
	DateToleranceSec    int
	BodyMaxLen          int
	ArchiveGrace        time.Duration
	ArchiveSweepEvery   time.Duration
	RequireKeywords     bool
	ReparseLockTTL      time.Duration
	ReparseLookbackDays int

	// AI oracle (optional)
	GeminiAPIKey   string
	GeminiModelID  string
	OracleMinScore float64

	// Google Calendar sync (optional)
	GoogleCalendarID         string
	GoogleCredentialsFile    string
	CalendarPublishOnConfirm bool

	// Operator notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	NotifyRecipients  string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		WebhookToken: getEnv("WEBHOOK_TOKEN", ""),
		WebhookRate:  getEnvAsFloat("WEBHOOK_RATE_PER_SEC", 10),
		WebhookBurst: getEnvAsInt("WEBHOOK_BURST", 20),

		AdminToken:     getEnv("ADMIN_TOKEN", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),

		Timezone:            getEnv("INBOX_TIMEZONE", "America/Denver"),
		LookbackDays:        getEnvAsInt("BOOKING_LOOKBACK_DAYS", 30),
		SegmentWindowDays:   getEnvAsInt("BOOKING_SEGMENT_WINDOW_DAYS", 45),
		DateToleranceSec:    getEnvAsInt("BOOKING_DATE_TOLERANCE_SEC", 60),
		BodyMaxLen:          getEnvAsInt("MESSAGE_BODY_MAX_LEN", 2000),
		ArchiveGrace:        getEnvAsDuration("BOOKING_ARCHIVE_GRACE", 72*time.Hour),
		ArchiveSweepEvery:   getEnvAsDuration("BOOKING_ARCHIVE_SWEEP_EVERY", time.Hour),
		RequireKeywords:     getEnvAsBool("INTAKE_REQUIRE_KEYWORDS", true),
		ReparseLockTTL:      getEnvAsDuration("REPARSE_LOCK_TTL", 15*time.Minute),
		ReparseLookbackDays: getEnvAsInt("REPARSE_LOOKBACK_DAYS", 90),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		OracleMinScore: getEnvAsFloat("ORACLE_MIN_SCORE", 0.8),

		GoogleCalendarID:         getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleCredentialsFile:    getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		CalendarPublishOnConfirm: getEnvAsBool("CALENDAR_PUBLISH_ON_CONFIRM", true),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Booking Inbox"),
		NotifyRecipients:  getEnv("NOTIFY_RECIPIENTS", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
