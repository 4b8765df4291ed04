package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	LogMode   string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string

	RedisAddr      string
	RedisPassword  string
	AccessCacheTTL time.Duration

	// Remote collaborator API; when empty the local database serves course detail and access status
	CollaboratorURL   string
	CollaboratorToken string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	PurchaseChannelURL string // base of the messaging channel used for purchase prompts
	PurchaseContact    string // recipient on that channel

	QuizTickSpec     string // cron spec delivering quiz timer ticks
	SessionSweepSpec string // cron spec sweeping idle study sessions
	SessionIdleTTL   time.Duration
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
		LogMode:   getEnv("LOG_MODE", "dev"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "examprep"),
		DBPort:     getEnv("DB_PORT", "5432"),
		SQLitePath: getEnv("SQLITE_PATH", "examprep.db"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		AccessCacheTTL: getEnvDuration("ACCESS_CACHE_TTL", 10*time.Minute),

		CollaboratorURL:   getEnv("COLLABORATOR_URL", ""),
		CollaboratorToken: getEnv("COLLABORATOR_TOKEN", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "no-reply@examprep.local"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "ExamPrep"),

		PurchaseChannelURL: getEnv("PURCHASE_CHANNEL_URL", "https://wa.me"),
		PurchaseContact:    getEnv("PURCHASE_CONTACT", ""),

		QuizTickSpec:     getEnv("QUIZ_TICK_SPEC", "@every 1s"),
		SessionSweepSpec: getEnv("SESSION_SWEEP_SPEC", "@every 1m"),
		SessionIdleTTL:   getEnvDuration("SESSION_IDLE_TTL", 2*time.Hour),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver != "postgres" && AppConfig.DBDriver != "sqlite" {
		log.Printf("Warning: unknown DB_DRIVER %q, falling back to postgres.", AppConfig.DBDriver)
		AppConfig.DBDriver = "postgres"
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

// getEnvDuration parses values like "90s" or "15m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
