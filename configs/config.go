package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Publishing struct {
	Timeout         time.Duration
	Concurrency     int
	QueueEnabled    bool
	MinScheduleLead time.Duration
	TokenEncryption bool
}

type Scanner struct {
	Enabled  bool
	Schedule string
	Window   time.Duration
	ClaimTTL time.Duration
}

// PlatformAPIs holds the base URLs of the platform endpoints. Overridable so
// adapters can be pointed at sandboxes or local fakes.
type PlatformAPIs struct {
	XBase             string
	LinkedInBase      string
	YouTubeUploadBase string
	GraphBase         string
	InstagramBase     string
	ThreadsBase       string
}

type Config struct {
	Port           string
	PostgresURI    string
	RedisURI       string
	FrontendURL    string
	MigrationsPath string
	R2             R2
	SecretKey      string
	CookieName     string
	CronSecret     string
	LogLevel       string
	LogFormat      string
	Publishing     Publishing
	Scanner        Scanner
	PlatformAPIs   PlatformAPIs
}

func LoadConfig() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		PostgresURI:    getEnv("POSTGRES_URI", ""),
		RedisURI:       getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "postflow_session"),
		CronSecret: getEnv("CRON_SECRET", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
		Publishing: Publishing{
			Timeout:         getEnvDuration("PUBLISH_TIMEOUT", 5*time.Minute),
			Concurrency:     getEnvInt("PUBLISH_CONCURRENCY", 6),
			QueueEnabled:    getEnvBool("PUBLISH_QUEUE_ENABLED", false),
			MinScheduleLead: getEnvDuration("MIN_SCHEDULE_LEAD", time.Hour),
			TokenEncryption: getEnvBool("TOKEN_ENCRYPTION", false),
		},
		Scanner: Scanner{
			Enabled:  getEnvBool("SCANNER_ENABLED", true),
			Schedule: getEnv("SCAN_SCHEDULE", "@every 5m"),
			Window:   getEnvDuration("SCAN_WINDOW", 5*time.Minute),
			ClaimTTL: getEnvDuration("CLAIM_TTL", 15*time.Minute),
		},
		PlatformAPIs: PlatformAPIs{
			XBase:             getEnv("X_API_BASE", "https://api.twitter.com"),
			LinkedInBase:      getEnv("LINKEDIN_API_BASE", "https://api.linkedin.com"),
			YouTubeUploadBase: getEnv("YOUTUBE_UPLOAD_BASE", "https://www.googleapis.com/upload"),
			GraphBase:         getEnv("GRAPH_API_BASE", "https://graph.facebook.com/v21.0"),
			InstagramBase:     getEnv("INSTAGRAM_API_BASE", "https://graph.instagram.com/v21.0"),
			ThreadsBase:       getEnv("THREADS_API_BASE", "https://graph.threads.net"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
