package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret   string
	JWTTTL      time.Duration
	AdminAPIKey string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	ImageStore       string // "local" or "s3"
	UploadDir        string
	PublicUploadPath string
	S3Bucket         string
	S3Region         string
	S3PublicBaseURL  string

	// BackupDir empty disables the nightly upload backup.
	BackupDir       string
	BackupHour      int
	BackupRetention time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	CORSOrigins []string
	LogLevel    string
	LogFormat   string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "5432"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  getEnv("DB_NAME", "farmfresh"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		AdminAPIKey:             os.Getenv("ADMIN_API_KEY"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		ImageStore:              strings.ToLower(getEnv("IMAGE_STORE", "local")),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		PublicUploadPath:        getEnv("PUBLIC_UPLOAD_PATH", "/uploads"),
		S3Bucket:                os.Getenv("S3_BUCKET"),
		S3Region:                os.Getenv("S3_REGION"),
		S3PublicBaseURL:         os.Getenv("S3_PUBLIC_BASE_URL"),
		BackupDir:               os.Getenv("BACKUP_DIR"),
		BackupHour:              2,
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		CORSOrigins:             splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BackupRetention, err = getDuration("BACKUP_RETENTION", 4*24*time.Hour); err != nil {
		return nil, err
	}
	if v := os.Getenv("BACKUP_HOUR"); v != "" {
		if cfg.BackupHour, err = strconv.Atoi(v); err != nil || cfg.BackupHour < 0 || cfg.BackupHour > 23 {
			return nil, fmt.Errorf("invalid BACKUP_HOUR %q", v)
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
	}
	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a postgres DSN built from the
// DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	switch c.ImageStore {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET must be set when IMAGE_STORE=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IMAGE_STORE %q", c.ImageStore))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
