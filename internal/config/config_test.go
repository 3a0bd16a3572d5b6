package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MXFIND_PROJECT", "MXFIND_CONFIG", "MXFIND_STORE", "MXFIND_DB",
		"MXFIND_PROJECT_BATCH", "MXFIND_COLLECTION_BATCH", "MXFIND_LOG_LEVEL", "MXFIND_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("MXFIND_PROJECT", dir)

	cfg := Load()

	if cfg.Store != StoreFilesystem {
		t.Errorf("expected filesystem store, got %s", cfg.Store)
	}
	if cfg.ProjectBatchSize != 20 || cfg.CollectionBatchSize != 25 {
		t.Errorf("expected batch sizes 20/25, got %d/%d", cfg.ProjectBatchSize, cfg.CollectionBatchSize)
	}
	if want := filepath.Join(dir, ".mxfind", "model.db"); cfg.IndexPath() != want {
		t.Errorf("expected db path %s, got %s", want, cfg.IndexPath())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	settings := "store: sqlite\nproject_batch: 5\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MXFIND_PROJECT", dir)
	t.Setenv("MXFIND_PROJECT_BATCH", "7")

	cfg := Load()

	if cfg.Store != StoreSQLite {
		t.Errorf("expected store from file, got %s", cfg.Store)
	}
	if cfg.ProjectBatchSize != 7 {
		t.Errorf("expected env to win over file, got %d", cfg.ProjectBatchSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug from file, got %s", cfg.LogLevel)
	}
}

func TestLoad_InvalidFileIgnored(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("store: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MXFIND_PROJECT", dir)
	t.Setenv("MXFIND_CONFIG", path)

	cfg := Load()

	if cfg.Store != StoreFilesystem {
		t.Errorf("expected defaults on invalid file, got %s", cfg.Store)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown store", func(c *Config) { c.Store = "postgres" }, true},
		{"zero project batch", func(c *Config) { c.ProjectBatchSize = 0 }, true},
		{"negative collection batch", func(c *Config) { c.CollectionBatchSize = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"empty project", func(c *Config) { c.ProjectPath = " " }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	if err != nil || level != slog.LevelWarn {
		t.Errorf("expected warn, got %v (%v)", level, err)
	}
}

func TestIndexPath(t *testing.T) {
	cfg := Default()
	cfg.ProjectPath = "/work/app"
	if got, want := cfg.IndexPath(), filepath.Join("/work/app", ".mxfind", "model.db"); got != want {
		t.Errorf("IndexPath() = %s, want %s", got, want)
	}

	cfg.DBPath = "/tmp/other.db"
	if got := cfg.IndexPath(); got != "/tmp/other.db" {
		t.Errorf("IndexPath() = %s, want the explicit path", got)
	}
}
