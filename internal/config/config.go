package config

import (
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Object storage (FTP-backed blob store)
	FTPHost     string
	FTPPort     string
	FTPUser     string
	FTPPassword string

	// Public base URL of the storage surface, used to build
	// /storage/v1/object/public/... URLs stored in submission rows.
	StorageBaseURL string

	// DefaultContainer is the fallback container for submission assets.
	DefaultContainer string

	// Signed URL TTLs: Display when re-signing a stored reference for
	// rendering, Upload when a submission asset has just been written.
	SignedURLDisplayTTL time.Duration
	SignedURLUploadTTL  time.Duration

	// Redis (signed URL cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "leetuiux"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		FTPHost:     getEnv("FTP_HOST", "localhost"),
		FTPPort:     getEnv("FTP_PORT", "21"),
		FTPUser:     getEnv("FTP_USER", ""),
		FTPPassword: getEnv("FTP_PASSWORD", ""),

		StorageBaseURL:   getEnv("STORAGE_BASE_URL", "http://localhost:8080"),
		DefaultContainer: getEnv("STORAGE_DEFAULT_CONTAINER", "submissions"),

		SignedURLDisplayTTL: parseDuration(getEnv("SIGNED_URL_DISPLAY_TTL", "1h"), time.Hour),
		SignedURLUploadTTL:  parseDuration(getEnv("SIGNED_URL_UPLOAD_TTL", "168h"), 168*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
