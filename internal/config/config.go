package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/Tiliavir/work-journal/internal/logger"
)

// ErrConfigInvalid wraps every config parse or validation failure.
var ErrConfigInvalid = errors.New("invalid config file")

// Config is the root configuration for wj, stored in ~/.wj/config.json.
// The file is JSONC: comments and trailing commas are allowed.
type Config struct {
	// JournalDir is the root of the snapshot store.
	JournalDir string `json:"journal_dir"`
	// RetentionDays is the age after which `wj prune` removes date shards.
	RetentionDays int `json:"retention_days"`
	// SearchLimit caps search results when no --limit is passed.
	SearchLimit int `json:"search_limit"`
	// AutoTag merges derived tags into snapshots on save.
	AutoTag *bool `json:"auto_tag,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// LogFormat is text or json.
	LogFormat string `json:"log_format"`
}

const (
	DefaultRetentionDays = 90
	DefaultSearchLimit   = 20
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
)

// AutoTagEnabled reports whether derived tags should be added on save.
func (c Config) AutoTagEnabled() bool {
	return c.AutoTag == nil || *c.AutoTag
}

// configTemplate is the annotated config written on first run.
const configTemplate = `// wj configuration – ~/.wj/config.json
//
// This file is JSONC: // and /* */ comments and trailing commas are fine.
// All settings are optional; the defaults below are used when a key is absent.
{
  // Directory holding the journal (one folder per day, one file per project).
  // Leave empty for ~/.wj/journal. Can be overridden with: wj --journal <dir>
  "journal_dir": "",

  // Snapshots older than this many days are removed by "wj prune".
  "retention_days": 90,

  // Maximum number of results printed by "wj search".
  "search_limit": 20,

  // Add tags derived from branch names, commit prefixes, tickets, work areas
  // and PR labels when saving a snapshot.
  "auto_tag": true,

  // Logging: "debug", "info", "warn" or "error"; format "text" or "json".
  "log_level": "warn",
  "log_format": "text",
}
`

// FilePath returns the path to ~/.wj/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wj", "config.json"), nil
}

// Load reads ~/.wj/config.json, creating it with annotated defaults on first
// run.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return withDefaults(Config{}), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file is created from the
// template and defaults are returned.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return withDefaults(Config{}), nil
	}
	if err != nil {
		return withDefaults(Config{}), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return withDefaults(Config{}), fmt.Errorf("%w %s: %w\nTip: delete the file to regenerate defaults", ErrConfigInvalid, path, err)
	}
	return cfg, nil
}

// Parse decodes JSONC config data, fills defaults and validates the result.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	cfg = withDefaults(cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDefaults fills zero-value fields so callers always get a usable Config
// even if the user only partially fills in the file.
func withDefaults(cfg Config) Config {
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	if cfg.SearchLimit == 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	return cfg
}

func validate(cfg Config) error {
	if cfg.RetentionDays < 0 {
		return fmt.Errorf("retention_days must not be negative, got %d", cfg.RetentionDays)
	}
	if cfg.SearchLimit < 0 {
		return fmt.Errorf("search_limit must not be negative, got %d", cfg.SearchLimit)
	}
	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("unknown log_format %q", cfg.LogFormat)
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
