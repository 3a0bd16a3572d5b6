package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store kinds
const (
	StoreFilesystem = "filesystem"
	StoreSQLite     = "sqlite"
)

const (
	DefaultProjectPath         = "."
	DefaultStore               = StoreFilesystem
	DefaultProjectBatchSize    = 20
	DefaultCollectionBatchSize = 25
	DefaultLogLevel            = "info"
	DefaultAddr                = ":8095"

	// FileName is the optional per-project settings file
	FileName = ".mxfind.yaml"
)

// Config holds the settings shared by every entry point
type Config struct {
	ProjectPath         string `yaml:"project"`
	Store               string `yaml:"store"`
	DBPath              string `yaml:"db"`
	ProjectBatchSize    int    `yaml:"project_batch"`
	CollectionBatchSize int    `yaml:"collection_batch"`
	LogLevel            string `yaml:"log_level"`
	Addr                string `yaml:"addr"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ProjectPath:         DefaultProjectPath,
		Store:               DefaultStore,
		ProjectBatchSize:    DefaultProjectBatchSize,
		CollectionBatchSize: DefaultCollectionBatchSize,
		LogLevel:            DefaultLogLevel,
		Addr:                DefaultAddr,
	}
}

// Load builds the configuration from defaults, then the YAML settings file
// (MXFIND_CONFIG, or .mxfind.yaml in the project directory), then MXFIND_*
// environment variables. A missing or invalid file is ignored.
func Load() Config {
	cfg := Default()
	cfg.ProjectPath = envOr("MXFIND_PROJECT", cfg.ProjectPath)

	path := os.Getenv("MXFIND_CONFIG")
	if path == "" {
		path = filepath.Join(cfg.ProjectPath, FileName)
	}
	cfg = overlayFile(cfg, path)

	cfg.ProjectPath = envOr("MXFIND_PROJECT", cfg.ProjectPath)
	cfg.Store = envOr("MXFIND_STORE", cfg.Store)
	cfg.DBPath = envOr("MXFIND_DB", cfg.DBPath)
	cfg.ProjectBatchSize = envInt("MXFIND_PROJECT_BATCH", cfg.ProjectBatchSize)
	cfg.CollectionBatchSize = envInt("MXFIND_COLLECTION_BATCH", cfg.CollectionBatchSize)
	cfg.LogLevel = envOr("MXFIND_LOG_LEVEL", cfg.LogLevel)
	cfg.Addr = envOr("MXFIND_ADDR", cfg.Addr)
	return cfg
}

// IndexPath is the sqlite index location, defaulting to a file inside the
// project's .mxfind directory
func (c Config) IndexPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.ProjectPath, ".mxfind", "model.db")
}

func overlayFile(cfg Config, path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // file not found or unreadable, keep what we have
	}
	next := cfg
	if err := yaml.Unmarshal(data, &next); err != nil {
		return cfg // invalid YAML, keep what we have
	}
	return next
}

// Validate reports settings no entry point can run with
func (c Config) Validate() error {
	if strings.TrimSpace(c.ProjectPath) == "" {
		return fmt.Errorf("MXFIND_PROJECT is required")
	}
	switch c.Store {
	case StoreFilesystem, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreFilesystem, StoreSQLite)
	}
	if c.ProjectBatchSize <= 0 {
		return fmt.Errorf("project batch size must be positive, got %d", c.ProjectBatchSize)
	}
	if c.CollectionBatchSize <= 0 {
		return fmt.Errorf("collection batch size must be positive, got %d", c.CollectionBatchSize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name onto slog's levels
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
