package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Storage    StorageConfig    `yaml:"storage" toml:"storage"`
	Visibility VisibilityConfig `yaml:"visibility" toml:"visibility"`
	Upload     UploadConfig     `yaml:"upload" toml:"upload"`
	Logging    LogConfig        `yaml:"logging" toml:"logging"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" toml:"rate_limit"`
	CORS       CORSConfig       `yaml:"cors" toml:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string `envconfig:"PORT" yaml:"port" toml:"port"`
	Host            string `envconfig:"HOST" yaml:"host" toml:"host"`
	RoleHeader      string `envconfig:"ROLE_HEADER" yaml:"role_header" toml:"role_header"`
	DefaultRole     string `envconfig:"DEFAULT_ROLE" yaml:"default_role" toml:"default_role"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`
}

// StorageConfig holds the managed directory tree configuration.
type StorageConfig struct {
	Root           string   `envconfig:"FSVIEW_ROOT" yaml:"root" toml:"root"`
	MaxScanEntries int      `envconfig:"FSVIEW_MAX_SCAN_ENTRIES" yaml:"max_scan_entries" toml:"max_scan_entries"`
	AdminOnlyOps   []string `envconfig:"FSVIEW_ADMIN_ONLY_OPS" yaml:"admin_only_ops" toml:"admin_only_ops"`
}

// VisibilityConfig holds the entries hidden from non-admin callers.
type VisibilityConfig struct {
	HiddenExtensions []string `envconfig:"FSVIEW_HIDDEN_EXTENSIONS" yaml:"hidden_extensions" toml:"hidden_extensions"`
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSize int64 `envconfig:"FSVIEW_UPLOAD_MAX_BYTES" yaml:"max_file_size" toml:"max_file_size"`
	MaxMemory   int64 `envconfig:"FSVIEW_UPLOAD_MAX_MEMORY" yaml:"max_memory" toml:"max_memory"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
	File        string `envconfig:"LOG_FILE" yaml:"file" toml:"file"`
	MaxSizeMB   int    `envconfig:"LOG_MAX_SIZE_MB" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups  int    `envconfig:"LOG_MAX_BACKUPS" yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays  int    `envconfig:"LOG_MAX_AGE_DAYS" yaml:"max_age_days" toml:"max_age_days"`
	Compress    bool   `envconfig:"LOG_COMPRESS" yaml:"compress" toml:"compress"`
}

// RateLimitConfig holds rate limiting configuration. Global shares one bucket
// across all clients instead of one per IP.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" yaml:"global" toml:"global"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" yaml:"allow_origins" toml:"allow_origins"`
}

// Load loads configuration from defaults, the optional file named by
// FSVIEW_CONFIG, then environment variables.
func Load() (*Config, error) {
	return LoadWithFile(os.Getenv("FSVIEW_CONFIG"))
}

// LoadWithFile loads configuration from defaults, path (if not empty), then
// environment variables. Later sources win.
func LoadWithFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	// No default tags: fields without an environment variable keep the
	// values already in cfg.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays the YAML or TOML file at path onto cfg. Keys missing from
// the file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that cannot be caught by parsing.
func (c *Config) Validate() error {
	var errs []error
	if c.Storage.Root == "" {
		errs = append(errs, errors.New("storage root is required"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if role := strings.ToLower(c.Server.DefaultRole); role != "admin" && role != "user" {
		errs = append(errs, fmt.Errorf("default role must be admin or user, got %q", c.Server.DefaultRole))
	}
	if c.Upload.MaxFileSize < 0 {
		errs = append(errs, errors.New("upload max file size cannot be negative"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit requires positive rps and burst"))
	}
	return errors.Join(errs...)
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			RoleHeader:      "X-Caller-Role",
			DefaultRole:     "user",
			ShutdownTimeout: 10,
		},
		Storage: StorageConfig{
			Root:           "./files",
			MaxScanEntries: 100000,
		},
		Visibility: VisibilityConfig{
			HiddenExtensions: []string{"php", "htaccess", "sql", "ini", "conf"},
		},
		Upload: UploadConfig{
			MaxFileSize: 10 << 20,
			MaxMemory:   32 << 20,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			MaxSizeMB:   100,
			MaxBackups:  3,
			MaxAgeDays:  28,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}
