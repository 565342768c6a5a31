package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Deployment modes. The serverless platform enforces a hard request body
// limit far below what a standalone deployment accepts, so the default
// upload ceiling depends on the mode.
const (
	ModeStandalone = "standalone"
	ModeServerless = "serverless"
)

// Storage backend selectors.
const (
	BackendMinIO = "minio"
	BackendLocal = "local"
)

const (
	maxUploadStandalone = 200 * 1024 * 1024
	maxUploadServerless = 4 * 1024 * 1024
)

// Config aggregates runtime configuration for the GoShare API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	SMTP     SMTPConfig
	Share    ShareConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MigrateURL returns the connection URL in the form golang-migrate's
// pgx5 driver expects.
func (p PostgresConfig) MigrateURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries MinIO connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	PublicRead      bool
}

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// ShareConfig groups file-sharing behaviour: link construction, storage
// backend selection and upload limits.
type ShareConfig struct {
	BaseURL        string
	Backend        string
	Mode           string
	UploadsDir     string
	SpoolDir       string
	MaxUploadSize  int64
	LinkTTL        time.Duration
	AllowedOrigins []string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("GOSHARE_API_HOST", "0.0.0.0"),
			Port:         getInt("GOSHARE_API_PORT", 8080),
			ReadTimeout:  getDuration("GOSHARE_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("GOSHARE_API_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("GOSHARE_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "goshare_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "goshare"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "goshare"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "goshare"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			PublicRead:      getBool("MINIO_PUBLIC_READ", false),
		},
		SMTP: SMTPConfig{
			Host:     getString("SMTP_HOST", "localhost"),
			Port:     getInt("SMTP_PORT", 587),
			Username: getString("SMTP_USERNAME", ""),
			Password: getString("SMTP_PASSWORD", ""),
		},
		Share: loadShareConfig(),
		Metrics: MetricsConfig{
			PrometheusPath: getString("GOSHARE_METRICS_PATH", "/metrics"),
		},
	}

	if cfg.Share.Backend != BackendMinIO && cfg.Share.Backend != BackendLocal {
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Share.Backend)
	}

	return cfg, nil
}

func loadShareConfig() ShareConfig {
	mode := strings.ToLower(getString("GOSHARE_MODE", ModeStandalone))
	if mode != ModeServerless {
		mode = ModeStandalone
	}

	maxUpload := int64(maxUploadStandalone)
	if mode == ModeServerless {
		maxUpload = maxUploadServerless
	}
	if v, ok := os.LookupEnv("GOSHARE_MAX_UPLOAD_BYTES"); ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			maxUpload = parsed
		}
	}

	return ShareConfig{
		BaseURL:        strings.TrimRight(getString("APP_BASE_URL", "http://localhost:8080"), "/"),
		Backend:        strings.ToLower(getString("GOSHARE_STORAGE_BACKEND", BackendMinIO)),
		Mode:           mode,
		UploadsDir:     getString("GOSHARE_UPLOADS_DIR", "uploads"),
		SpoolDir:       getString("GOSHARE_SPOOL_DIR", os.TempDir()),
		MaxUploadSize:  maxUpload,
		LinkTTL:        getDuration("GOSHARE_LINK_TTL", 48*time.Hour),
		AllowedOrigins: getList("ALLOWED_CLIENTS", []string{"http://localhost:3000"}),
	}
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	var items []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
