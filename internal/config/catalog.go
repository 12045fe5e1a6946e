package config

import (
	"fmt"
	"os"
)

// Source selects where the catalog reads its metadata documents from.
const (
	SourceFile = "file"
	SourceBlob = "blob"
)

// Refresh modes. "always" rebuilds the merged database on every read;
// "watch" caches it and rebuilds when a source file changes.
const (
	RefreshAlways = "always"
	RefreshWatch  = "watch"
)

const (
	EnvCatalogAugmentsPath        = "SAMPLECAT_CATALOG_AUGMENTS_PATH"
	EnvCatalogTransformationsPath = "SAMPLECAT_CATALOG_TRANSFORMATIONS_PATH"
	EnvCatalogDatabasePath        = "SAMPLECAT_CATALOG_DATABASE_PATH"
	EnvCatalogLegacyDir           = "SAMPLECAT_CATALOG_LEGACY_DIR"
	EnvCatalogSource              = "SAMPLECAT_CATALOG_SOURCE"
	EnvCatalogRefreshMode         = "SAMPLECAT_CATALOG_REFRESH_MODE"
)

// CatalogConfig locates the metadata source documents and controls how the
// merged sample database is rebuilt.
type CatalogConfig struct {
	AugmentsPath        string `toml:"augments_path"`
	TransformationsPath string `toml:"transformations_path"`
	DatabasePath        string `toml:"database_path"`
	LegacyDir           string `toml:"legacy_dir"`
	Source              string `toml:"source"`
	RefreshMode         string `toml:"refresh_mode"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CatalogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CatalogConfig) Merge(overlay *CatalogConfig) {
	if overlay.AugmentsPath != "" {
		c.AugmentsPath = overlay.AugmentsPath
	}
	if overlay.TransformationsPath != "" {
		c.TransformationsPath = overlay.TransformationsPath
	}
	if overlay.DatabasePath != "" {
		c.DatabasePath = overlay.DatabasePath
	}
	if overlay.LegacyDir != "" {
		c.LegacyDir = overlay.LegacyDir
	}
	if overlay.Source != "" {
		c.Source = overlay.Source
	}
	if overlay.RefreshMode != "" {
		c.RefreshMode = overlay.RefreshMode
	}
}

func (c *CatalogConfig) loadDefaults() {
	if c.AugmentsPath == "" {
		c.AugmentsPath = "data/sample-augments.json"
	}
	if c.TransformationsPath == "" {
		c.TransformationsPath = "data/transformation-info.json"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/sample-database.json"
	}
	if c.LegacyDir == "" {
		c.LegacyDir = "data/legacy"
	}
	if c.Source == "" {
		c.Source = SourceFile
	}
	if c.RefreshMode == "" {
		c.RefreshMode = RefreshAlways
	}
}

func (c *CatalogConfig) loadEnv() {
	if v := os.Getenv(EnvCatalogAugmentsPath); v != "" {
		c.AugmentsPath = v
	}
	if v := os.Getenv(EnvCatalogTransformationsPath); v != "" {
		c.TransformationsPath = v
	}
	if v := os.Getenv(EnvCatalogDatabasePath); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(EnvCatalogLegacyDir); v != "" {
		c.LegacyDir = v
	}
	if v := os.Getenv(EnvCatalogSource); v != "" {
		c.Source = v
	}
	if v := os.Getenv(EnvCatalogRefreshMode); v != "" {
		c.RefreshMode = v
	}
}

func (c *CatalogConfig) validate() error {
	switch c.Source {
	case SourceFile, SourceBlob:
	default:
		return fmt.Errorf("invalid source: %q", c.Source)
	}

	switch c.RefreshMode {
	case RefreshAlways, RefreshWatch:
	default:
		return fmt.Errorf("invalid refresh_mode: %q", c.RefreshMode)
	}

	if c.Source == SourceBlob && c.RefreshMode == RefreshWatch {
		return fmt.Errorf("refresh_mode %q requires a file source", RefreshWatch)
	}

	return nil
}
