package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	AllowOrigins []string

	SessionTTL       string
	PasswordResetTTL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	StorageDriver string
	UploadBaseDir string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string

	VideoMaxBytes   int64
	ImageMaxBytes   int64
	DefaultPageSize int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      must("DATABASE_URL"),
		JWTSecret:        must("JWT_SECRET"),
		AllowOrigins:     splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		SessionTTL:       getenv("SESSION_TTL", "24h"),
		PasswordResetTTL: getenv("PASSWORD_RESET_TTL", "10m"),
		SMTPHost:         getenv("SMTP_HOST", ""),
		SMTPPort:         getenv("SMTP_PORT", ""),
		SMTPUsername:     getenv("SMTP_USERNAME", ""),
		SMTPPassword:     getenv("SMTP_PASSWORD", ""),
		SMTPFrom:         getenv("SMTP_FROM", ""),
		StorageDriver:    getenv("STORAGE_DRIVER", StorageLocal),
		UploadBaseDir:    getenv("UPLOAD_BASE_DIR", "uploads"),
		VideoMaxBytes:    envInt64("VIDEO_MAX_BYTES", 512*1024*1024),
		ImageMaxBytes:    envInt64("IMAGE_MAX_BYTES", 5*1024*1024),
		DefaultPageSize:  envInt("DEFAULT_PAGE_SIZE", 10),
	}

	if cfg.StorageDriver == StorageMinIO {
		cfg.MinIOEndpoint = must("MINIO_ENDPOINT")
		cfg.MinIOAccessKey = must("MINIO_ACCESS_KEY")
		cfg.MinIOSecretKey = must("MINIO_SECRET_KEY")
		cfg.MinIOUseSSL = getenv("MINIO_USE_SSL", "false") == "true"
		cfg.MinIOBucket = getenv("MINIO_BUCKET", "streamnest-media")
	}
	return cfg
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}

func envInt(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func envInt64(k string, d int64) int64 {
	if v, err := strconv.ParseInt(getenv(k, ""), 10, 64); err == nil && v > 0 {
		return v
	}
	return d
}
