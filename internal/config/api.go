package config

import (
	"fmt"
	"os"

	"github.com/fcc-hep/samplecat/pkg/middleware"
	"github.com/fcc-hep/samplecat/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SAMPLECAT_CORS_ENABLED",
	Origins:          "SAMPLECAT_CORS_ORIGINS",
	AllowedMethods:   "SAMPLECAT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SAMPLECAT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "SAMPLECAT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SAMPLECAT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "SAMPLECAT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SAMPLECAT_PAGINATION_MAX_PAGE_SIZE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "SAMPLECAT_AUTH_ENABLED",
	Issuer:   "SAMPLECAT_AUTH_ISSUER",
	ClientID: "SAMPLECAT_AUTH_CLIENT_ID",
}

// APIConfig holds API routing, CORS, pagination, and auth settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
	Auth       middleware.AuthConfig `toml:"auth"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, pagination, and auth configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Auth.Merge(&overlay.Auth)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("SAMPLECAT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}
