// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 5000

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20 // 1048576 bytes

	// DefaultContentDir is where post files are read from.
	DefaultContentDir = "content/posts"

	// DefaultExcerptLength is the excerpt length in characters.
	DefaultExcerptLength = 200

	// DefaultWordsPerMinute is the reading speed used for reading time.
	DefaultWordsPerMinute = 200

	// DefaultFeedBaseURL is used when neither config nor the request names a host.
	DefaultFeedBaseURL = "http://localhost:5000"

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// ConfigDir is the directory searched for base.yaml and profile files.
// Overridable for tests and the CLI.
var ConfigDir = "configs"

// Config is the root configuration structure. Sections carry no tag of
// their own; their fields do, so a blank section reports the keys it lacks.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Content   ContentConfig   `koanf:"content"`
	Feed      FeedConfig      `koanf:"feed"`
	Web       WebConfig       `koanf:"web"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,hostname_port"`
	Insecure     bool    `koanf:"insecure"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	// ExportInterval is the metric push period.
	ExportInterval time.Duration `koanf:"export_interval" validate:"omitempty,min=1s"`
}

// ContentConfig controls where posts come from and how they are derived.
type ContentConfig struct {
	Dir            string `koanf:"dir"              validate:"required"`
	IncludeDrafts  bool   `koanf:"include_drafts"`
	Sanitize       bool   `koanf:"sanitize"`
	RequirePosts   bool   `koanf:"require_posts"`
	ExcerptLength  int    `koanf:"excerpt_length"   validate:"required,min=20,max=2000"`
	WordsPerMinute int    `koanf:"words_per_minute" validate:"required,min=50,max=1000"`
}

// FeedConfig describes the RSS channel.
type FeedConfig struct {
	Title       string `koanf:"title"       validate:"required"`
	Description string `koanf:"description"`
	Language    string `koanf:"language"`
	Author      string `koanf:"author"`
	// BaseURL pins item links. When empty the request host is used.
	BaseURL string `koanf:"base_url" validate:"omitempty,http_url"`
}

// WebConfig controls serving of the single-page front end.
type WebConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"     validate:"required_if=Enabled true"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "bourbaki",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "15s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/bourbaki.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":         false,
		"telemetry.endpoint":        "",
		"telemetry.insecure":        true,
		"telemetry.service_name":    "bourbaki",
		"telemetry.sampling_rate":   1.0,
		"telemetry.export_interval": "30s",

		"content.dir":              DefaultContentDir,
		"content.include_drafts":   false,
		"content.sanitize":         true,
		"content.require_posts":    false,
		"content.excerpt_length":   DefaultExcerptLength,
		"content.words_per_minute": DefaultWordsPerMinute,

		"feed.title":       "Bourbaki",
		"feed.description": "Notes on mathematics, theoretical computer science, finance and puzzles",
		"feed.language":    "en-us",
		"feed.author":      "",
		"feed.base_url":    "",

		"web.enabled": true,
		"web.dir":     "web/dist",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, filepath.Join(ConfigDir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := filepath.Join(ConfigDir, profile+".yaml")

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	keys := envKeys(k.Keys())

	err = k.Load(env.Provider("APP_", ".", func(s string) string {
		return envToKey(keys, s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeys indexes known keys by their environment spelling, so
// APP_CONTENT_INCLUDE_DRAFTS resolves to content.include_drafts.
func envKeys(known []string) map[string]string {
	out := make(map[string]string, len(known))
	for _, key := range known {
		out[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}

	return out
}

// envToKey maps an APP_ variable to a config key. Unknown names fall back to
// treating every underscore as a level separator.
func envToKey(keys map[string]string, name string) string {
	trimmed := strings.TrimPrefix(name, "APP_")
	if key, ok := keys[strings.ToUpper(trimmed)]; ok {
		return key
	}

	return strings.ReplaceAll(strings.ToLower(trimmed), "_", ".")
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil // File doesn't exist, that's fine
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
