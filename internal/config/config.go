package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StorageBackendS3    = "s3"
	StorageBackendLocal = "local"

	MetadataBackendPostgres = "postgres"
	MetadataBackendMemory   = "memory"
)

// Config holds the environment driven configuration for the testimonial service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"testimonial-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"TESTIMONIAL_API_PORT" envDefault:"8290"`
	LogLevel        string        `env:"TESTIMONIAL_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Client addresses in request logs: "none", "hashed" or "full"
	TelemetryPIILevel string `env:"TELEMETRY_PII_LEVEL" envDefault:"hashed"`

	// Metadata store
	MetadataBackend      string        `env:"TESTIMONIAL_METADATA_BACKEND" envDefault:"postgres"` // Options: "postgres" or "memory"
	DBPostgresqlWriteDSN string        `env:"DB_POSTGRESQL_WRITE_DSN"`
	DBMaxIdleConns       int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns       int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage Backend Selection
	StorageBackend string `env:"ASSET_STORAGE_BACKEND" envDefault:"s3"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath    string `env:"ASSET_LOCAL_STORAGE_PATH"`                      // e.g. "./asset-data"
	LocalStorageBaseURL string `env:"ASSET_LOCAL_STORAGE_BASE_URL"`                  // e.g. "http://localhost:8290/assets"
	LocalStorageRoute   string `env:"ASSET_LOCAL_STORAGE_ROUTE" envDefault:"/assets"` // route the HTTP server serves local assets from

	// S3 Storage Configuration
	S3Endpoint      string `env:"ASSET_S3_ENDPOINT"`
	S3PublicBaseURL string `env:"ASSET_S3_PUBLIC_BASE_URL"`
	S3Region        string `env:"ASSET_S3_REGION" envDefault:"us-west-2"`
	S3Bucket        string `env:"ASSET_S3_BUCKET"`
	S3AccessKeyID   string `env:"ASSET_S3_ACCESS_KEY_ID"`
	S3SecretKey     string `env:"ASSET_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle  bool   `env:"ASSET_S3_USE_PATH_STYLE" envDefault:"false"`
	S3PartSizeMB    int64  `env:"ASSET_S3_PART_SIZE_MB" envDefault:"8"`

	// Uploads
	UploadTempDir  string `env:"UPLOAD_TEMP_DIR"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"524288000"`

	// Authentication
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicBaseURL = strings.TrimSpace(cfg.S3PublicBaseURL)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.MetadataBackend = strings.ToLower(strings.TrimSpace(cfg.MetadataBackend))

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 500 * 1024 * 1024
	}
	if cfg.S3PartSizeMB <= 0 {
		cfg.S3PartSizeMB = 8
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MetadataBackend {
	case MetadataBackendPostgres:
		if strings.TrimSpace(c.DBPostgresqlWriteDSN) == "" {
			return fmt.Errorf("DB_POSTGRESQL_WRITE_DSN is required when TESTIMONIAL_METADATA_BACKEND is postgres")
		}
	case MetadataBackendMemory:
	default:
		return fmt.Errorf("unsupported TESTIMONIAL_METADATA_BACKEND %q", c.MetadataBackend)
	}

	switch c.StorageBackend {
	case "", StorageBackendS3, StorageBackendLocal:
	default:
		return fmt.Errorf("unsupported ASSET_STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.AuthEnabled {
		if strings.TrimSpace(c.AuthIssuer) == "" {
			return fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.AuthJWKSURL) == "" {
			return fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == StorageBackendLocal
}

// IsMemoryMetadata returns true when testimonials are kept in process memory.
func (c *Config) IsMemoryMetadata() bool {
	return strings.ToLower(strings.TrimSpace(c.MetadataBackend)) == MetadataBackendMemory
}

// S3PartSize returns the multipart upload part size in bytes.
func (c *Config) S3PartSize() int64 {
	return c.S3PartSizeMB * 1024 * 1024
}
