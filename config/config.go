// Package config loads the archive backend configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the full backend configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	AWS      AWSConfig      `koanf:"aws"`
	Archive  ArchiveConfig  `koanf:"archive"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Mode            string        `koanf:"mode"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects the feed storage backend
type StorageConfig struct {
	Type      string `koanf:"type"`
	LocalPath string `koanf:"local_path"`
	S3Bucket  string `koanf:"s3_bucket"`
	S3Prefix  string `koanf:"s3_prefix"`
}

// AWSConfig holds AWS credentials. AWS_S3_BUCKET is honored as a fallback
// for storage.s3_bucket.
type AWSConfig struct {
	Region          string `koanf:"region"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey Secret `koanf:"secret_access_key"`
	S3Bucket        string `koanf:"s3_bucket"`
}

// ArchiveConfig locates the feeds and tunes the archive views
type ArchiveConfig struct {
	IndexKey         string `koanf:"index_key"`
	RevocationsKey   string `koanf:"revocations_key"`
	DecisionsPrefix  string `koanf:"decisions_prefix"`
	PageSize         int    `koanf:"page_size"`
	CatalogPath      string `koanf:"catalog_path"`
	RevocationSource string `koanf:"revocation_source"`
}

// DatabaseConfig configures the optional Postgres mirror
type DatabaseConfig struct {
	URL Secret `koanf:"url"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

const (
	RevocationSourceFeed     = "feed"
	RevocationSourcePostgres = "postgres"
)

// Secret wraps strings that must not appear in logs
type Secret string

// String implements fmt.Stringer and always redacts
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// Value returns the actual secret value
func (s Secret) Value() string {
	return string(s)
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test: %q", c.Server.Mode))
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.LocalPath == "" {
			errs = append(errs, errors.New("storage.local_path is required for local storage"))
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("storage.s3_bucket is required for S3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage type: %q", c.Storage.Type))
	}

	if c.Archive.PageSize < 1 {
		errs = append(errs, fmt.Errorf("archive.page_size must be positive: %d", c.Archive.PageSize))
	}
	switch c.Archive.RevocationSource {
	case RevocationSourceFeed:
	case RevocationSourcePostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required when archive.revocation_source is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown revocation source: %q", c.Archive.RevocationSource))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console: %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./data"
	}
	if cfg.Storage.S3Bucket == "" {
		cfg.Storage.S3Bucket = cfg.AWS.S3Bucket
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}

	if cfg.Archive.IndexKey == "" {
		cfg.Archive.IndexKey = "decisions_index.json"
	}
	if cfg.Archive.RevocationsKey == "" {
		cfg.Archive.RevocationsKey = "all_revocations.json"
	}
	if cfg.Archive.DecisionsPrefix == "" {
		cfg.Archive.DecisionsPrefix = "decisions/"
	}
	if cfg.Archive.PageSize == 0 {
		cfg.Archive.PageSize = 15
	}
	if cfg.Archive.RevocationSource == "" {
		cfg.Archive.RevocationSource = RevocationSourceFeed
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
