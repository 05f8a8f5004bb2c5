package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ExportConfig controls raster capture and PDF packaging.
type ExportConfig struct {
	ChromePath  string
	Scale       float64
	JPEGQuality int
	PageSize    string
	MaxPixels   int
	TimeoutSec  int
}

func (c ExportConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// PersistConfig selects where saved documents go after the local upsert.
type PersistConfig struct {
	// Backend is one of "http", "postgres" or "none".
	Backend     string
	URL         string
	Payload     string
	TimeoutSec  int
	DatabaseURL string
}

func (c PersistConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ArchiveConfig selects where exported PDFs are copied, if anywhere.
type ArchiveConfig struct {
	// Backend is one of "none", "fs" or "minio".
	Backend string
	Dir     string
	MinIO   MinIOConfig
}

// AppConfig is the centralized configuration struct for the application.
type AppConfig struct {
	Port     string
	LogLevel string
	Export   ExportConfig
	Persist  PersistConfig
	Archive  ArchiveConfig

	// SessionIdleMin closes editors unused for this many minutes; 0 keeps them.
	SessionIdleMin int
}

func (c AppConfig) SessionIdle() time.Duration { return time.Duration(c.SessionIdleMin) * time.Minute }

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Export: ExportConfig{
			ChromePath:  getEnv("CHROME_PATH", ""),
			Scale:       getEnvFloat("EXPORT_SCALE", 2),
			JPEGQuality: getEnvInt("EXPORT_JPEG_QUALITY", 85),
			PageSize:    getEnv("EXPORT_PAGE_SIZE", "Letter"),
			MaxPixels:   getEnvInt("EXPORT_MAX_PIXELS", 40_000_000),
			TimeoutSec:  getEnvInt("EXPORT_TIMEOUT_SEC", 60),
		},
		Persist: PersistConfig{
			Backend:     strings.ToLower(getEnv("PERSIST_BACKEND", "none")),
			URL:         getEnv("BACKEND_URL", ""),
			Payload:     strings.ToLower(getEnv("BACKEND_PAYLOAD", "fields")),
			TimeoutSec:  getEnvInt("BACKEND_TIMEOUT_SEC", 15),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Archive: ArchiveConfig{
			Backend: strings.ToLower(getEnv("ARCHIVE_BACKEND", "none")),
			Dir:     getEnv("ARCHIVE_DIR", "resume-data"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "resumes"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		SessionIdleMin: getEnvInt("SESSION_IDLE_TTL_MIN", 120),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
