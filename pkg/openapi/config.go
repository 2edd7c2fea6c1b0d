package openapi

import "github.com/JaimeStill/warden/pkg/env"

// Config holds OpenAPI metadata for spec generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Version     string `toml:"version"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
	Version     string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(e *ConfigEnv) error {
	c.loadDefaults()
	if e != nil {
		c.loadEnv(e)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Warden API"
	}
	if c.Description == "" {
		c.Description = "AI Act risk classification, obligation tracking, and Annex IV documentation."
	}
}

func (c *Config) loadEnv(e *ConfigEnv) {
	env.String(&c.Title, e.Title)
	env.String(&c.Description, e.Description)
	env.String(&c.Version, e.Version)
}
