package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Storage backends accepted in PULSEPING_STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendGCS      = "gcs"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var defaultURLs = []string{"https://example.com", "https://example.org"}

type Config struct {
	Addr     string `env:"API_ADDR" envDefault:"127.0.0.1:8080"` // ":8080" in Docker
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	URLs []string `env:"PULSEPING_URLS" envSeparator:","`

	// Storage. Connection meaning depends on the backend: a directory for
	// file, a redis:// URL, a postgres DSN. s3 and gcs ignore it.
	StorageBackend    string `env:"PULSEPING_STORAGE_BACKEND" envDefault:"file"`
	StorageConnection string `env:"PULSEPING_STORAGE_CONNECTION"`
	ContainerName     string `env:"PULSEPING_CONTAINER_NAME" envDefault:"pulseping-logs"`
	PartitionLocks    bool   `env:"PULSEPING_PARTITION_LOCKS" envDefault:"false"`
	NativeAppend      bool   `env:"PULSEPING_NATIVE_APPEND" envDefault:"false"`

	AllowedOrigins []string `env:"PULSEPING_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Probing
	ProbeTimeout   time.Duration `env:"PROBE_TIMEOUT" envDefault:"10s"`
	CheckInterval  time.Duration `env:"CHECK_INTERVAL" envDefault:"5m"`
	MaxConcurrent  int           `env:"MAX_CONCURRENT_CHECKS" envDefault:"8"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"1"`
	RetryBackoff   time.Duration `env:"RETRY_BACKOFF" envDefault:"300ms"`
	DNSDiagnostics bool          `env:"DNS_DIAGNOSTICS" envDefault:"true"`

	S3Region          string `env:"S3_REGION"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	GCSProjectID      string `env:"GCS_PROJECT_ID"`

	// Alerts
	SlackWebhookURL string        `env:"SLACK_WEBHOOK_URL"`
	AlertOnRecovery bool          `env:"ALERT_ON_RECOVERY" envDefault:"true"`
	AlertCooldown   time.Duration `env:"ALERT_COOLDOWN" envDefault:"10m"`

	// Query API protection. No keys means the API is open.
	PublicRPM     int      `env:"PUBLIC_RPM" envDefault:"120"`
	PublicBurst   int      `env:"PUBLIC_BURST" envDefault:"20"`
	StatusAPIKeys []string `env:"STATUS_API_KEYS" envSeparator:","`
}

// FromEnv loads .env (if present) and parses the environment.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.URLs = NormalizeList(cfg.URLs)
	if len(cfg.URLs) == 0 {
		cfg.URLs = append([]string(nil), defaultURLs...)
	}
	cfg.AllowedOrigins = NormalizeList(cfg.AllowedOrigins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	cfg.StatusAPIKeys = NormalizeList(cfg.StatusAPIKeys)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendS3, BackendGCS:
	case BackendRedis, BackendPostgres:
		if c.StorageConnection == "" {
			return fmt.Errorf("PULSEPING_STORAGE_CONNECTION is required for backend %q", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unknown PULSEPING_STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.ContainerName == "" {
		return fmt.Errorf("PULSEPING_CONTAINER_NAME must not be empty")
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 10 * time.Second
	}
	if c.MaxConcurrent < 1 {
		c.MaxConcurrent = 1
	}
	if c.RetryAttempts < 1 {
		c.RetryAttempts = 1
	}
	if c.CheckInterval < 0 {
		c.CheckInterval = 0
	}
	return nil
}

// NormalizeList trims entries and drops empty ones.
func NormalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
