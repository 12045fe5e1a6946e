package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fcc-hep/samplecat/internal/config"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Catalog.Source != config.SourceFile {
		t.Errorf("Catalog.Source = %q, want file", cfg.Catalog.Source)
	}
	if cfg.Catalog.RefreshMode != config.RefreshAlways {
		t.Errorf("Catalog.RefreshMode = %q, want always", cfg.Catalog.RefreshMode)
	}
	if cfg.Database.Enabled {
		t.Error("Database.Enabled should default to false")
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("API.BasePath = %q, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 50 {
		t.Errorf("Pagination.DefaultPageSize = %d, want 50", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := chdirTemp(t)

	base := `
shutdown_timeout = "10s"

[server]
port = 9000

[catalog]
augments_path = "meta/augments.json"
refresh_mode = "watch"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Catalog.AugmentsPath != "meta/augments.json" {
		t.Errorf("Catalog.AugmentsPath = %q", cfg.Catalog.AugmentsPath)
	}
	if cfg.Catalog.RefreshMode != config.RefreshWatch {
		t.Errorf("Catalog.RefreshMode = %q, want watch", cfg.Catalog.RefreshMode)
	}
	if cfg.ShutdownTimeout != "10s" {
		t.Errorf("ShutdownTimeout = %q, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("SAMPLECAT_ENV", "test")

	base := `
[server]
port = 9000
host = "127.0.0.1"
`
	overlay := `
[server]
port = 9100
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.test.toml"), []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, overlay must win", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, base value must survive", cfg.Server.Host)
	}
	if cfg.Env() != "test" {
		t.Errorf("Env() = %q, want test", cfg.Env())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SAMPLECAT_SERVER_PORT", "9200")
	t.Setenv("SAMPLECAT_CATALOG_DATABASE_PATH", "/tmp/db.json")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, env must win", cfg.Server.Port)
	}
	if cfg.Catalog.DatabasePath != "/tmp/db.json" {
		t.Errorf("Catalog.DatabasePath = %q", cfg.Catalog.DatabasePath)
	}
}

func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.CatalogConfig)
		wantErr string
	}{
		{
			"invalid source",
			func(c *config.CatalogConfig) { c.Source = "ftp" },
			"invalid source",
		},
		{
			"invalid refresh mode",
			func(c *config.CatalogConfig) { c.RefreshMode = "sometimes" },
			"invalid refresh_mode",
		},
		{
			"watch requires file source",
			func(c *config.CatalogConfig) {
				c.Source = config.SourceBlob
				c.RefreshMode = config.RefreshWatch
			},
			"requires a file source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.CatalogConfig{}
			tt.mutate(&cfg)

			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDatabaseValidationOnlyWhenEnabled(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SAMPLECAT_DB_ENABLED", "true")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error: enabled database requires name and user")
	}
	if !strings.Contains(err.Error(), "database") {
		t.Errorf("unexpected error: %v", err)
	}
}
